package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/session.

import (
	"context"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
)

// Gateway performs credential verification and token issuance/revocation
// against the authentication backend. Implementations must resolve each call
// to a single outcome and expose no partial state to callers.
type Gateway interface {
	// Authenticate verifies an email/password pair and issues a bearer token.
	// Fails with domainauth.ErrInvalidCredentials on rejection.
	Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Grant, error)

	// Revoke invalidates the token server-side. Best effort; callers may
	// ignore the error.
	Revoke(ctx context.Context, token string) error

	// Introspect confirms a token is still valid and returns its identity.
	// Fails with domainauth.ErrInvalidToken on rejection.
	Introspect(ctx context.Context, token string) (domainauth.User, error)
}

// Vault is the durable key-value storage backing the session. The session
// store addresses exactly two slots, VaultKeyToken and VaultKeyUser, and
// always reads, writes, and deletes them together.
type Vault interface {
	// Get returns the value for key, or domainauth.ErrNoSession when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. Writes are idempotent, last-write-wins.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Vault slot names for the persisted session pair.
const (
	VaultKeyToken = "token"
	VaultKeyUser  = "user"
)
