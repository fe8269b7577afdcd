package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/algexpress/algexpress-admin/config"
	"github.com/algexpress/algexpress-admin/internal/adapters/filevault"
	"github.com/algexpress/algexpress-admin/internal/adapters/httpapi"
	"github.com/algexpress/algexpress-admin/internal/adapters/mockauth"
	"github.com/algexpress/algexpress-admin/internal/adapters/redisvault"
	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	"github.com/algexpress/algexpress-admin/internal/observability/metrics"
	"github.com/algexpress/algexpress-admin/internal/ports"
	"github.com/algexpress/algexpress-admin/internal/session"
)

// SessionStoreConfig contains dependencies for the session store.
type SessionStoreConfig struct {
	Auth    config.AuthConfig
	Storage config.StorageConfig
	Logger  *slog.Logger
	Metrics *metrics.AuthCollector
}

// BuildSessionStore wires the configured gateway and vault into a session
// store. The store comes back unresolved; callers run ValidateSession once
// at startup.
func BuildSessionStore(cfg SessionStoreConfig) (*session.Store, error) {
	gateway, client, err := buildGateway(cfg)
	if err != nil {
		return nil, err
	}
	vault, err := buildVault(cfg.Storage)
	if err != nil {
		return nil, err
	}

	store, err := session.New(session.Options{
		Gateway: gateway,
		Vault:   vault,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}

	// In remote mode the store is also the bearer source for every other
	// backend call made through the shared client.
	if client != nil {
		client.SetTokenSource(store)
	}
	return store, nil
}

func buildGateway(cfg SessionStoreConfig) (ports.Gateway, *httpapi.Client, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		gw, err := mockauth.NewGateway(mockauth.Config{
			Accounts:   defaultMockAccounts(),
			Password:   cfg.Auth.Mock.Password,
			SigningKey: []byte(cfg.Auth.Mock.SigningKey),
			TokenTTL:   cfg.Auth.Mock.TokenTTL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build mock gateway: %w", err)
		}
		return gw, nil, nil

	case config.AuthModeRemote:
		client, err := httpapi.NewClient(httpapi.Config{
			BaseURL: cfg.Auth.Remote.BaseURL,
			Timeout: cfg.Auth.Remote.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build api client: %w", err)
		}
		gw, err := httpapi.NewGateway(client)
		if err != nil {
			return nil, nil, fmt.Errorf("build remote gateway: %w", err)
		}
		return gw, client, nil

	default:
		return nil, nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

func buildVault(cfg config.StorageConfig) (ports.Vault, error) {
	switch cfg.Mode {
	case config.StorageModeFile:
		vault, err := filevault.NewVault(cfg.File.Path)
		if err != nil {
			return nil, fmt.Errorf("build file vault: %w", err)
		}
		return vault, nil

	case config.StorageModeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisvault.NewVaultWithPrefix(client, cfg.Redis.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}
}

// defaultMockAccounts mirrors the seed identities the backend ships with.
func defaultMockAccounts() []mockauth.Account {
	return []mockauth.Account{
		{ID: 1, Name: "Administrador", Email: "admin@algexpress.com", Role: domainauth.RoleAdmin},
		{ID: 2, Name: "Gerente", Email: "manager@algexpress.com", Role: domainauth.RoleManager},
	}
}
