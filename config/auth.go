package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication gateway mode for the application.
type AuthMode string

const (
	// AuthModeRemote authenticates against the AlgExpress backend API.
	AuthModeRemote AuthMode = "remote"
	// AuthModeMock uses the built-in mock gateway (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "remote", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: remote, mock)", v)
	}
}

// RemoteAuthConfig contains AlgExpress backend API configuration.
// Used when AUTH_MODE=remote.
type RemoteAuthConfig struct {
	// BaseURL is the root of the backend API, including the version prefix.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080/api/v1"`

	// Timeout bounds every request to the backend.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// MockAuthConfig controls the built-in mock gateway identity set.
// Used when AUTH_MODE=mock for development and testing.
type MockAuthConfig struct {
	// Password is the shared password accepted for every mock account.
	Password string `env:"PASSWORD" envDefault:"123456"`

	// SigningKey signs the tokens the mock gateway issues.
	SigningKey string `env:"SIGNING_KEY" envDefault:"algexpress-dev-signing-key"`

	// TokenTTL is the lifetime of issued mock tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication gateway to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// Remote configuration (used when Mode=remote).
	Remote RemoteAuthConfig `envPrefix:"REMOTE_AUTH_"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`

	// LoginRatePerMinute caps login attempts per client address.
	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`

	// LoginBurst is the burst allowance on top of the login rate.
	LoginBurst int `env:"LOGIN_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Remote.Timeout <= 0 {
		a.Remote.Timeout = 10 * time.Second
	}
	if a.Mock.TokenTTL <= 0 {
		a.Mock.TokenTTL = time.Hour
	}
	if a.LoginRatePerMinute < 1 {
		a.LoginRatePerMinute = 1
	}
	if a.LoginBurst < 1 {
		a.LoginBurst = 1
	}
}
