package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAuthModeUnmarshalText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    AuthMode
		expectError bool
	}{
		{name: "remote", input: "remote", expected: AuthModeRemote},
		{name: "mock", input: "mock", expected: AuthModeMock},
		{name: "uppercase is normalized", input: "MOCK", expected: AuthModeMock},
		{name: "unknown mode", input: "oauth", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for input %q, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expected {
				t.Errorf("got %q, want %q", mode, tt.expected)
			}
		})
	}
}

func TestStorageModeUnmarshalText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    StorageMode
		expectError bool
	}{
		{name: "file", input: "file", expected: StorageModeFile},
		{name: "redis", input: "redis", expected: StorageModeRedis},
		{name: "uppercase is normalized", input: "REDIS", expected: StorageModeRedis},
		{name: "unknown mode", input: "postgres", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode StorageMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for input %q, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expected {
				t.Errorf("got %q, want %q", mode, tt.expected)
			}
		})
	}
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModeMock {
		t.Errorf("Auth.Mode = %q, want %q", cfg.Auth.Mode, AuthModeMock)
	}
	if cfg.Auth.Mock.Password != "123456" {
		t.Errorf("Auth.Mock.Password = %q, want 123456", cfg.Auth.Mock.Password)
	}
	if cfg.Auth.Remote.BaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("Auth.Remote.BaseURL = %q", cfg.Auth.Remote.BaseURL)
	}
	if cfg.Auth.Remote.Timeout != 10*time.Second {
		t.Errorf("Auth.Remote.Timeout = %v, want 10s", cfg.Auth.Remote.Timeout)
	}
	if cfg.Storage.Mode != StorageModeFile {
		t.Errorf("Storage.Mode = %q, want %q", cfg.Storage.Mode, StorageModeFile)
	}
	if cfg.Storage.Redis.KeyPrefix != "algexpress:session:" {
		t.Errorf("Storage.Redis.KeyPrefix = %q", cfg.Storage.Redis.KeyPrefix)
	}
	if cfg.HTTP.Addr != ":3000" {
		t.Errorf("HTTP.Addr = %q, want :3000", cfg.HTTP.Addr)
	}
}

func TestAppConfigFromEnvironment(t *testing.T) {
	t.Setenv("AUTH_MODE", "remote")
	t.Setenv("REMOTE_AUTH_BASE_URL", "https://api.algexpress.com/api/v1")
	t.Setenv("STORAGE_MODE", "redis")
	t.Setenv("REDIS_STORAGE_ADDR", "redis.internal:6379")
	t.Setenv("HTTP_ADDR", ":9000")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModeRemote {
		t.Errorf("Auth.Mode = %q, want %q", cfg.Auth.Mode, AuthModeRemote)
	}
	if cfg.Auth.Remote.BaseURL != "https://api.algexpress.com/api/v1" {
		t.Errorf("Auth.Remote.BaseURL = %q", cfg.Auth.Remote.BaseURL)
	}
	if cfg.Storage.Mode != StorageModeRedis {
		t.Errorf("Storage.Mode = %q, want %q", cfg.Storage.Mode, StorageModeRedis)
	}
	if cfg.Storage.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Storage.Redis.Addr = %q", cfg.Storage.Redis.Addr)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("HTTP.Addr = %q, want :9000", cfg.HTTP.Addr)
	}
}

func TestSanitizeClampsValues(t *testing.T) {
	cfg := AppConfig{
		Auth: AuthConfig{
			Remote:             RemoteAuthConfig{Timeout: -1},
			Mock:               MockAuthConfig{TokenTTL: 0},
			LoginRatePerMinute: 0,
			LoginBurst:         -3,
		},
	}
	cfg.Sanitize()

	if cfg.Auth.Remote.Timeout != 10*time.Second {
		t.Errorf("Remote.Timeout = %v, want 10s", cfg.Auth.Remote.Timeout)
	}
	if cfg.Auth.Mock.TokenTTL != time.Hour {
		t.Errorf("Mock.TokenTTL = %v, want 1h", cfg.Auth.Mock.TokenTTL)
	}
	if cfg.Auth.LoginRatePerMinute != 1 {
		t.Errorf("LoginRatePerMinute = %d, want 1", cfg.Auth.LoginRatePerMinute)
	}
	if cfg.Auth.LoginBurst != 1 {
		t.Errorf("LoginBurst = %d, want 1", cfg.Auth.LoginBurst)
	}
	if cfg.HTTP.ReadTimeout != 15*time.Second {
		t.Errorf("HTTP.ReadTimeout = %v, want 15s", cfg.HTTP.ReadTimeout)
	}
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("IsDev = false, want true with NODE_ENV=development")
	}
}
