package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	"github.com/algexpress/algexpress-admin/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Gateway = (*MockGateway)(nil)
	_ ports.Vault   = (*MemoryVault)(nil)
)

// MockGateway simulates an authentication gateway for tests with
// per-method function hooks and deterministic defaults.
type MockGateway struct {
	AuthenticateFunc func(ctx context.Context, creds domainauth.Credentials) (domainauth.Grant, error)
	RevokeFunc       func(ctx context.Context, token string) error
	IntrospectFunc   func(ctx context.Context, token string) (domainauth.User, error)

	// Deterministic values returned when the hooks are nil.
	DefaultToken string
	DefaultUser  domainauth.User

	mu               sync.Mutex
	authenticateCnt  int
	revokeCnt        int
	introspectCnt    int
	lastRevokedToken string
}

// NewMockGateway creates a MockGateway with sensible defaults.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		DefaultToken: "mock-token-1",
		DefaultUser: domainauth.User{
			ID:     1,
			Name:   "Mock Admin",
			Email:  "admin@algexpress.com",
			Role:   domainauth.RoleAdmin,
			Active: true,
		},
	}
}

func (m *MockGateway) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Grant, error) {
	m.mu.Lock()
	m.authenticateCnt++
	m.mu.Unlock()

	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	return domainauth.Grant{
		Token:     m.DefaultToken,
		User:      m.DefaultUser,
		ExpiresIn: 3600,
	}, nil
}

func (m *MockGateway) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	m.revokeCnt++
	m.lastRevokedToken = token
	m.mu.Unlock()

	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	return nil
}

func (m *MockGateway) Introspect(ctx context.Context, token string) (domainauth.User, error) {
	m.mu.Lock()
	m.introspectCnt++
	m.mu.Unlock()

	if m.IntrospectFunc != nil {
		return m.IntrospectFunc(ctx, token)
	}
	if token != m.DefaultToken {
		return domainauth.User{}, domainauth.ErrInvalidToken
	}
	return m.DefaultUser, nil
}

// AuthenticateCalls reports how many times Authenticate ran.
func (m *MockGateway) AuthenticateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticateCnt
}

// RevokeCalls reports how many times Revoke ran.
func (m *MockGateway) RevokeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeCnt
}

// IntrospectCalls reports how many times Introspect ran.
func (m *MockGateway) IntrospectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.introspectCnt
}

// LastRevokedToken returns the token passed to the most recent Revoke call.
func (m *MockGateway) LastRevokedToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRevokedToken
}

// MemoryVault is an in-memory Vault for tests, with optional per-method
// error injection.
type MemoryVault struct {
	GetErr    error
	SetErr    error
	DeleteErr error

	mu   sync.Mutex
	data map[string]string
}

// NewMemoryVault creates an empty MemoryVault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{data: make(map[string]string)}
}

func (v *MemoryVault) Get(_ context.Context, key string) (string, error) {
	if v.GetErr != nil {
		return "", v.GetErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	value, ok := v.data[key]
	if !ok {
		return "", domainauth.ErrNoSession
	}
	return value, nil
}

func (v *MemoryVault) Set(_ context.Context, key, value string) error {
	if v.SetErr != nil {
		return v.SetErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[key] = value
	return nil
}

func (v *MemoryVault) Delete(_ context.Context, keys ...string) error {
	if v.DeleteErr != nil {
		return v.DeleteErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, key := range keys {
		delete(v.data, key)
	}
	return nil
}

// Len reports how many slots currently hold a value.
func (v *MemoryVault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.data)
}
