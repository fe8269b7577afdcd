package mockauth

// Package mockauth provides a config-driven, in-memory Gateway for local
// development and tests. It verifies credentials against a fixed account
// table and issues real signed tokens so Introspect exercises the same
// validation path a remote gateway would.

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	"github.com/algexpress/algexpress-admin/internal/ports"
)

var _ ports.Gateway = (*Gateway)(nil)

// Account is one entry of the mock credential table.
type Account struct {
	ID    int64
	Name  string
	Email string
	Role  domainauth.Role
}

// Config controls the mock gateway behavior.
// SigningKey is required; Password and TokenTTL have development defaults.
type Config struct {
	Accounts   []Account
	Password   string        // shared password for all accounts; default "123456"
	SigningKey []byte        // HMAC key for issued tokens
	TokenTTL   time.Duration // default 1h when zero

	// Now overrides the gateway clock, used for account timestamps and
	// token issuance/verification alike. Defaults to time.Now.
	Now func() time.Time
}

// Gateway implements ports.Gateway against an in-memory account table.
// Issued tokens are HS256 JWTs; Revoke tracks token IDs so revoked tokens
// fail introspection for the lifetime of the process.
type Gateway struct {
	accounts   map[string]domainauth.User // keyed by lowercase email
	password   string
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time

	mu      sync.Mutex
	revoked map[string]struct{} // jti set
}

// NewGateway constructs a mock gateway from Config.
func NewGateway(cfg Config) (*Gateway, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("mock auth: signing key is required")
	}
	if len(cfg.Accounts) == 0 {
		return nil, errors.New("mock auth: at least one account is required")
	}

	password := cfg.Password
	if password == "" {
		password = "123456"
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	accounts := make(map[string]domainauth.User, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		if a.Email == "" {
			return nil, errors.New("mock auth: account email is required")
		}
		if !a.Role.Valid() {
			return nil, errors.New("mock auth: invalid role for account " + a.Email)
		}
		accounts[strings.ToLower(a.Email)] = domainauth.User{
			ID:        a.ID,
			Name:      a.Name,
			Email:     a.Email,
			Role:      a.Role,
			Active:    true,
			CreatedAt: now().UTC(),
		}
	}

	return &Gateway{
		accounts:   accounts,
		password:   password,
		signingKey: cfg.SigningKey,
		tokenTTL:   ttl,
		now:        now,
		revoked:    make(map[string]struct{}),
	}, nil
}

func (g *Gateway) Authenticate(_ context.Context, creds domainauth.Credentials) (domainauth.Grant, error) {
	user, ok := g.accounts[strings.ToLower(creds.Email)]
	passwordOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(g.password)) == 1
	if !ok || !passwordOK {
		return domainauth.Grant{}, domainauth.ErrInvalidCredentials
	}

	now := g.now()
	claims := jwt.RegisteredClaims{
		Issuer:    "algexpress-admin",
		Subject:   strings.ToLower(user.Email),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.signingKey)
	if err != nil {
		return domainauth.Grant{}, err
	}

	return domainauth.Grant{
		Token:     token,
		User:      user,
		ExpiresIn: int64(g.tokenTTL.Seconds()),
	}, nil
}

func (g *Gateway) Revoke(_ context.Context, token string) error {
	claims, err := g.parse(token)
	if err != nil {
		return domainauth.ErrInvalidToken
	}

	g.mu.Lock()
	g.revoked[claims.ID] = struct{}{}
	g.mu.Unlock()
	return nil
}

func (g *Gateway) Introspect(_ context.Context, token string) (domainauth.User, error) {
	claims, err := g.parse(token)
	if err != nil {
		return domainauth.User{}, domainauth.ErrInvalidToken
	}

	g.mu.Lock()
	_, isRevoked := g.revoked[claims.ID]
	g.mu.Unlock()
	if isRevoked {
		return domainauth.User{}, domainauth.ErrInvalidToken
	}

	user, ok := g.accounts[claims.Subject]
	if !ok {
		return domainauth.User{}, domainauth.ErrInvalidToken
	}
	return user, nil
}

// parse verifies signature and expiry and returns the registered claims.
func (g *Gateway) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(_ *jwt.Token) (interface{}, error) { return g.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return g.now() }),
	)
	if err != nil || !parsed.Valid {
		return nil, domainauth.ErrInvalidToken
	}
	return claims, nil
}
