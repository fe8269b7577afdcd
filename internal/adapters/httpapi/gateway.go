package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	"github.com/algexpress/algexpress-admin/internal/ports"
)

var _ ports.Gateway = (*Gateway)(nil)

// Gateway implements ports.Gateway against the backend auth endpoints:
// POST /auth/login, POST /auth/logout, GET /auth/me.
type Gateway struct {
	client *Client
}

// NewGateway wraps a request client as an authentication gateway.
func NewGateway(client *Client) (*Gateway, error) {
	if client == nil {
		return nil, errors.New("remote auth: request client is required")
	}
	return &Gateway{client: client}, nil
}

func (g *Gateway) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Grant, error) {
	var grant domainauth.Grant
	err := g.client.Do(ctx, http.MethodPost, "/auth/login", creds, &grant)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return domainauth.Grant{}, domainauth.ErrInvalidCredentials
		}
		return domainauth.Grant{}, fmt.Errorf("login: %w", err)
	}
	if grant.Token == "" {
		return domainauth.Grant{}, fmt.Errorf("login: backend returned empty token")
	}
	return grant, nil
}

func (g *Gateway) Revoke(ctx context.Context, token string) error {
	if err := g.client.DoWithToken(ctx, http.MethodPost, "/auth/logout", token, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (g *Gateway) Introspect(ctx context.Context, token string) (domainauth.User, error) {
	var user domainauth.User
	err := g.client.DoWithToken(ctx, http.MethodGet, "/auth/me", token, nil, &user)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return domainauth.User{}, domainauth.ErrInvalidToken
		}
		return domainauth.User{}, fmt.Errorf("introspect: %w", err)
	}
	return user, nil
}
