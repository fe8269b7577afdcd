package redisvault

// Package redisvault provides a Redis-based ports.Vault for deployments
// where the admin session must survive host changes.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	"github.com/algexpress/algexpress-admin/internal/ports"
)

var _ ports.Vault = (*Vault)(nil)

// Vault is a Redis-backed session vault.
type Vault struct {
	client redis.UniversalClient
	prefix string
}

// NewVault creates a Redis vault with the default key prefix.
func NewVault(client redis.UniversalClient) *Vault {
	return &Vault{
		client: client,
		prefix: "algexpress:session:",
	}
}

// NewVaultWithPrefix creates a Redis vault with a custom key prefix.
func NewVaultWithPrefix(client redis.UniversalClient, prefix string) *Vault {
	return &Vault{
		client: client,
		prefix: prefix,
	}
}

func (v *Vault) Get(ctx context.Context, key string) (string, error) {
	value, err := v.client.Get(ctx, v.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domainauth.ErrNoSession
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (v *Vault) Set(ctx context.Context, key, value string) error {
	// Sessions carry their own expiry via the token; no TTL on the slot.
	if err := v.client.Set(ctx, v.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (v *Vault) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = v.prefix + key
	}
	if err := v.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
