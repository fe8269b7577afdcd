package config

import (
	"fmt"
	"strings"
)

// StorageMode represents the session vault backend.
type StorageMode string

const (
	// StorageModeFile persists the session to a JSON file on disk.
	StorageModeFile StorageMode = "file"
	// StorageModeRedis persists the session to Redis.
	StorageModeRedis StorageMode = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageMode.
func (s *StorageMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "redis":
		*s = StorageMode(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageMode: %q (valid options: file, redis)", v)
	}
}

// FileStorageConfig contains file vault configuration.
type FileStorageConfig struct {
	// Path is the location of the session file.
	Path string `env:"PATH" envDefault:".algexpress/session.json"`
}

// RedisStorageConfig contains Redis vault configuration.
type RedisStorageConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// KeyPrefix namespaces the session slots in the keyspace.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"algexpress:session:"`
}

// StorageConfig groups session vault configuration.
type StorageConfig struct {
	// Mode determines which vault backend holds the persisted session.
	Mode StorageMode `env:"STORAGE_MODE" envDefault:"file"`

	// File configuration (used when Mode=file).
	File FileStorageConfig `envPrefix:"FILE_STORAGE_"`

	// Redis configuration (used when Mode=redis).
	Redis RedisStorageConfig `envPrefix:"REDIS_STORAGE_"`
}
