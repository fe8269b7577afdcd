package session

// Package session owns the client-side authentication session: token
// acquisition, persistence, validation on startup, and the state snapshot
// published to the view tree. There is exactly one Store per running
// application; the bootstrap layer constructs it and passes it by reference.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	"github.com/algexpress/algexpress-admin/internal/observability/metrics"
	"github.com/algexpress/algexpress-admin/internal/ports"
)

// Options groups dependencies for Store.
type Options struct {
	Gateway ports.Gateway
	Vault   ports.Vault
	Logger  *slog.Logger
	Metrics *metrics.AuthCollector // optional
}

// Store coordinates the gateway and the vault and owns the session state.
//
// Mutating operations (Login, Logout, ValidateSession) are serialized by a
// store-wide operation lock: a call issued while another is in flight waits
// for it to finish rather than interleaving state writes. The loading flag is
// raised synchronously at operation entry, before any gateway or vault call,
// so observers see the pending state without delay.
type Store struct {
	gateway ports.Gateway
	vault   ports.Vault
	logger  *slog.Logger
	metrics *metrics.AuthCollector

	opMu sync.Mutex // serializes Login/Logout/ValidateSession end to end

	stateMu sync.RWMutex
	state   domainauth.State

	validateGroup singleflight.Group
}

// New constructs a Store in the initial unresolved state (loading, nothing
// else set). Callers run ValidateSession once at startup to resolve it.
func New(opts Options) (*Store, error) {
	if opts.Gateway == nil {
		return nil, errors.New("session store: gateway is required")
	}
	if opts.Vault == nil {
		return nil, errors.New("session store: vault is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		gateway: opts.Gateway,
		vault:   opts.Vault,
		logger:  logger,
		metrics: opts.Metrics,
		state:   domainauth.State{Loading: true},
	}, nil
}

// State returns a snapshot of the current session state.
func (s *Store) State() domainauth.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	snapshot := s.state
	if s.state.User != nil {
		user := *s.state.User
		snapshot.User = &user
	}
	return snapshot
}

// Token returns the current bearer token, or "" when unauthenticated.
// It satisfies the request client's TokenSource.
func (s *Store) Token() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Token
}

// Login verifies the credentials against the gateway and, on success,
// replaces the session and persists the token/user pair. On failure the
// previous session (authenticated or not) is left untouched and the error is
// returned to the caller; domainauth.ErrInvalidCredentials marks a rejected
// pair, domainauth.ErrGatewayUnreachable a network-level failure.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)

	grant, err := s.gateway.Authenticate(ctx, domainauth.Credentials{Email: email, Password: password})
	if err != nil {
		s.setLoading(false)
		s.metrics.RecordLoginFailure()
		return fmt.Errorf("login: %w", err)
	}

	if persistErr := s.persist(ctx, grant.Token, grant.User); persistErr != nil {
		s.setLoading(false)
		s.metrics.RecordLoginFailure()
		return fmt.Errorf("login: %w", persistErr)
	}

	user := grant.User
	s.setState(domainauth.State{
		User:            &user,
		Token:           grant.Token,
		IsAuthenticated: true,
		Loading:         false,
	})
	s.metrics.RecordLoginSuccess()
	return nil
}

// Logout tears the session down. Remote revocation is best effort: a gateway
// failure is logged and swallowed, never blocking local teardown. The local
// state and both vault slots are always cleared.
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token := s.Token()
	if token != "" {
		if err := s.gateway.Revoke(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "token revocation failed, continuing local teardown", "error", err)
			s.metrics.RecordRevokeFailure()
		}
	}

	s.setState(domainauth.State{Loading: false})
	s.metrics.RecordLogout()

	if err := s.vault.Delete(ctx, ports.VaultKeyToken, ports.VaultKeyUser); err != nil {
		return fmt.Errorf("logout: clear vault: %w", err)
	}
	return nil
}

// ValidateSession restores a previously persisted session, if any. It returns
// true when the persisted token was accepted by the gateway and the session
// restored, false otherwise. Rejected or corrupt persisted data is cleared
// from the vault; an unreachable gateway leaves the vault intact so a later
// validation can retry, but never authenticates.
//
// Calling it while already authenticated is a safe no-op refresh: the
// persisted pair is re-checked and the user record replaced with the
// gateway's answer. Concurrent calls are coalesced.
func (s *Store) ValidateSession(ctx context.Context) (bool, error) {
	result, err, _ := s.validateGroup.Do("validate", func() (interface{}, error) {
		return s.validate(ctx)
	})
	restored, _ := result.(bool)
	return restored, err
}

func (s *Store) validate(ctx context.Context) (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)

	// The persisted user record is decoded only to verify it; the gateway's
	// answer supersedes it on success.
	token, _, err := s.restore(ctx)
	switch {
	case err == nil:
		// fall through to introspection
	case errors.Is(err, domainauth.ErrNoSession):
		s.setState(domainauth.State{Loading: false})
		s.metrics.RecordValidateOutcome(false)
		return false, nil
	case errors.Is(err, domainauth.ErrStorageCorrupt):
		s.teardown(ctx)
		s.metrics.RecordValidateOutcome(false)
		return false, nil
	default:
		s.setState(domainauth.State{Loading: false})
		s.metrics.RecordValidateOutcome(false)
		return false, fmt.Errorf("validate session: %w", err)
	}

	refreshed, err := s.gateway.Introspect(ctx, token)
	if err != nil {
		s.metrics.RecordValidateOutcome(false)
		if errors.Is(err, domainauth.ErrInvalidToken) {
			s.teardown(ctx)
			return false, nil
		}
		// Unreachable gateway: stay anonymous but keep the persisted pair for
		// a retry once the gateway is back.
		s.setState(domainauth.State{Loading: false})
		return false, fmt.Errorf("validate session: %w", err)
	}
	s.setState(domainauth.State{
		User:            &refreshed,
		Token:           token,
		IsAuthenticated: true,
		Loading:         false,
	})
	s.metrics.RecordValidateOutcome(true)
	return true, nil
}

// persist writes the token/user pair to the vault. The two slots are only
// ever written together; a partial write is rolled back so the pairing
// invariant holds.
func (s *Store) persist(ctx context.Context, token string, user domainauth.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if setErr := s.vault.Set(ctx, ports.VaultKeyToken, token); setErr != nil {
		return fmt.Errorf("persist token: %w", setErr)
	}
	if setErr := s.vault.Set(ctx, ports.VaultKeyUser, string(encoded)); setErr != nil {
		if delErr := s.vault.Delete(ctx, ports.VaultKeyToken, ports.VaultKeyUser); delErr != nil {
			s.logger.WarnContext(ctx, "rollback of partial vault write failed", "error", delErr)
		}
		return fmt.Errorf("persist user: %w", setErr)
	}
	return nil
}

// restore reads the persisted token/user pair. A missing slot on either side
// yields ErrNoSession when both are gone, ErrStorageCorrupt when the pairing
// is broken or the user record does not decode.
func (s *Store) restore(ctx context.Context) (string, domainauth.User, error) {
	token, tokenErr := s.vault.Get(ctx, ports.VaultKeyToken)
	encoded, userErr := s.vault.Get(ctx, ports.VaultKeyUser)

	if errors.Is(tokenErr, domainauth.ErrNoSession) && errors.Is(userErr, domainauth.ErrNoSession) {
		return "", domainauth.User{}, domainauth.ErrNoSession
	}
	if errors.Is(tokenErr, domainauth.ErrNoSession) || errors.Is(userErr, domainauth.ErrNoSession) {
		return "", domainauth.User{}, domainauth.ErrStorageCorrupt
	}
	if tokenErr != nil {
		return "", domainauth.User{}, tokenErr
	}
	if userErr != nil {
		return "", domainauth.User{}, userErr
	}

	var user domainauth.User
	if unmarshalErr := json.Unmarshal([]byte(encoded), &user); unmarshalErr != nil {
		return "", domainauth.User{}, fmt.Errorf("%w: %v", domainauth.ErrStorageCorrupt, unmarshalErr)
	}
	return token, user, nil
}

// teardown resets to the anonymous state and clears both vault slots.
func (s *Store) teardown(ctx context.Context) {
	s.setState(domainauth.State{Loading: false})
	if err := s.vault.Delete(ctx, ports.VaultKeyToken, ports.VaultKeyUser); err != nil {
		s.logger.WarnContext(ctx, "clear vault failed during teardown", "error", err)
	}
}

func (s *Store) setLoading(loading bool) {
	s.stateMu.Lock()
	s.state.Loading = loading
	s.stateMu.Unlock()
}

func (s *Store) setState(state domainauth.State) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}
