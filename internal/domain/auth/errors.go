package auth

import "errors"

// Error kinds surfaced by the session core. None of these are fatal; callers
// decide recovery per kind.
var (
	// ErrInvalidCredentials is returned when the gateway rejects an
	// email/password pair at login. Session state is left unchanged.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a persisted token is expired or
	// rejected by the gateway. Forces teardown to the anonymous state.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStorageCorrupt is returned when the persisted user record cannot
	// be decoded. Treated identically to ErrInvalidToken.
	ErrStorageCorrupt = errors.New("persisted session corrupt")

	// ErrGatewayUnreachable is returned on network-level gateway failure.
	// The caller must never be silently authenticated on this path.
	ErrGatewayUnreachable = errors.New("authentication gateway unreachable")

	// ErrNoSession is returned by the vault when no token/user pair is
	// persisted.
	ErrNoSession = errors.New("no persisted session")
)
