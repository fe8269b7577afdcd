package filevault

// Package filevault persists the session slots in a small JSON file on disk,
// the desktop analog of browser-local storage. Writes go through a temp file
// and rename so a crash never leaves a half-written vault.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	"github.com/algexpress/algexpress-admin/internal/ports"
)

var _ ports.Vault = (*Vault)(nil)

// Vault is a file-backed ports.Vault. Safe for concurrent use.
type Vault struct {
	path string

	mu sync.Mutex
}

// NewVault creates a file-backed vault at path. The parent directory is
// created if missing. The file itself is created lazily on first Set.
func NewVault(path string) (*Vault, error) {
	if path == "" {
		return nil, errors.New("vault path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}
	return &Vault{path: path}, nil
}

func (v *Vault) Get(_ context.Context, key string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	slots, err := v.read()
	if err != nil {
		return "", err
	}
	value, ok := slots[key]
	if !ok {
		return "", domainauth.ErrNoSession
	}
	return value, nil
}

func (v *Vault) Set(_ context.Context, key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	slots, err := v.readForWrite()
	if err != nil {
		return err
	}
	slots[key] = value
	return v.write(slots)
}

func (v *Vault) Delete(_ context.Context, keys ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	slots, err := v.readForWrite()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(slots, key)
	}
	return v.write(slots)
}

// readForWrite loads the slot map for a mutation. A corrupt file is treated
// as an empty vault so writes and deletes can always repair it; only reads
// surface the corruption.
func (v *Vault) readForWrite() (map[string]string, error) {
	slots, err := v.read()
	if errors.Is(err, domainauth.ErrStorageCorrupt) {
		return map[string]string{}, nil
	}
	return slots, err
}

// read loads the slot map; a missing file is an empty vault.
func (v *Vault) read() (map[string]string, error) {
	data, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read vault: %w", err)
	}

	slots := map[string]string{}
	if len(data) == 0 {
		return slots, nil
	}
	if unmarshalErr := json.Unmarshal(data, &slots); unmarshalErr != nil {
		// An unreadable vault behaves like a corrupt persisted session; the
		// session store turns this into a clean teardown.
		return nil, fmt.Errorf("%w: %v", domainauth.ErrStorageCorrupt, unmarshalErr)
	}
	return slots, nil
}

// write replaces the vault file atomically with 0600 permissions.
func (v *Vault) write(slots map[string]string) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode vault: %w", err)
	}

	tmp := v.path + ".tmp"
	if writeErr := os.WriteFile(tmp, data, 0o600); writeErr != nil {
		return fmt.Errorf("write vault: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, v.path); renameErr != nil {
		return fmt.Errorf("replace vault: %w", renameErr)
	}
	return nil
}
