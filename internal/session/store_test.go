package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algexpress/algexpress-admin/internal/adapters/filevault"
	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	mocksauth "github.com/algexpress/algexpress-admin/internal/mocks/auth"
	"github.com/algexpress/algexpress-admin/internal/ports"
)

func newTestStore(t *testing.T) (*Store, *mocksauth.MockGateway, *mocksauth.MemoryVault) {
	t.Helper()

	gateway := mocksauth.NewMockGateway()
	vault := mocksauth.NewMemoryVault()
	store, err := New(Options{Gateway: gateway, Vault: vault})
	require.NoError(t, err)
	return store, gateway, vault
}

func seedVault(t *testing.T, vault *mocksauth.MemoryVault, token string, user domainauth.User) {
	t.Helper()

	encoded, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, vault.Set(context.Background(), ports.VaultKeyToken, token))
	require.NoError(t, vault.Set(context.Background(), ports.VaultKeyUser, string(encoded)))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{Vault: mocksauth.NewMemoryVault()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway")

	_, err = New(Options{Gateway: mocksauth.NewMockGateway()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault")
}

func TestNew_StartsUnresolved(t *testing.T) {
	store, _, _ := newTestStore(t)

	state := store.State()
	assert.True(t, state.Loading)
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
}

func TestLogin_Success(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "admin@algexpress.com", "123456"))

	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
	assert.Equal(t, gateway.DefaultToken, state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, gateway.DefaultUser.Email, state.User.Email)

	token, err := vault.Get(ctx, ports.VaultKeyToken)
	require.NoError(t, err)
	assert.Equal(t, gateway.DefaultToken, token)

	encoded, err := vault.Get(ctx, ports.VaultKeyUser)
	require.NoError(t, err)
	var persisted domainauth.User
	require.NoError(t, json.Unmarshal([]byte(encoded), &persisted))
	assert.Equal(t, gateway.DefaultUser, persisted)
}

func TestLogin_InvalidCredentialsLeavesStateUntouched(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	ctx := context.Background()

	gateway.AuthenticateFunc = func(context.Context, domainauth.Credentials) (domainauth.Grant, error) {
		return domainauth.Grant{}, domainauth.ErrInvalidCredentials
	}

	err := store.Login(ctx, "admin@algexpress.com", "wrong")

	assert.ErrorIs(t, err, domainauth.ErrInvalidCredentials)
	state := store.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
	assert.Equal(t, 0, vault.Len())
}

func TestLogin_FailurePreservesExistingSession(t *testing.T) {
	store, gateway, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "admin@algexpress.com", "123456"))
	firstToken := store.Token()

	gateway.AuthenticateFunc = func(context.Context, domainauth.Credentials) (domainauth.Grant, error) {
		return domainauth.Grant{}, domainauth.ErrInvalidCredentials
	}
	err := store.Login(ctx, "manager@algexpress.com", "wrong")

	assert.ErrorIs(t, err, domainauth.ErrInvalidCredentials)
	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, firstToken, state.Token)
}

func TestLogin_GatewayUnreachable(t *testing.T) {
	store, gateway, vault := newTestStore(t)

	gateway.AuthenticateFunc = func(context.Context, domainauth.Credentials) (domainauth.Grant, error) {
		return domainauth.Grant{}, domainauth.ErrGatewayUnreachable
	}

	err := store.Login(context.Background(), "admin@algexpress.com", "123456")

	assert.ErrorIs(t, err, domainauth.ErrGatewayUnreachable)
	assert.False(t, store.State().IsAuthenticated)
	assert.Equal(t, 0, vault.Len())
}

func TestLogin_PersistFailureDoesNotAuthenticate(t *testing.T) {
	store, _, vault := newTestStore(t)
	vault.SetErr = errors.New("disk full")

	err := store.Login(context.Background(), "admin@algexpress.com", "123456")

	require.Error(t, err)
	state := store.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
}

func TestLogin_RaisesLoadingBeforeGatewayCall(t *testing.T) {
	store, gateway, _ := newTestStore(t)

	var loadingDuringAuth bool
	gateway.AuthenticateFunc = func(ctx context.Context, creds domainauth.Credentials) (domainauth.Grant, error) {
		loadingDuringAuth = store.State().Loading
		return domainauth.Grant{Token: "T-1", User: gateway.DefaultUser, ExpiresIn: 3600}, nil
	}

	require.NoError(t, store.Login(context.Background(), "admin@algexpress.com", "123456"))

	assert.True(t, loadingDuringAuth)
	assert.False(t, store.State().Loading)
}

func TestLogout_ClearsSessionAndVault(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "admin@algexpress.com", "123456"))
	require.NoError(t, store.Logout(ctx))

	state := store.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
	assert.Equal(t, 0, vault.Len())
	assert.Equal(t, gateway.DefaultToken, gateway.LastRevokedToken())
}

func TestLogout_SwallowsRevocationFailure(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "admin@algexpress.com", "123456"))
	gateway.RevokeFunc = func(context.Context, string) error {
		return domainauth.ErrGatewayUnreachable
	}

	require.NoError(t, store.Logout(ctx))

	assert.False(t, store.State().IsAuthenticated)
	assert.Equal(t, 0, vault.Len())
}

func TestLogout_WhileAnonymousSkipsRevocation(t *testing.T) {
	store, gateway, _ := newTestStore(t)

	require.NoError(t, store.Logout(context.Background()))

	assert.Equal(t, 0, gateway.RevokeCalls())
	assert.False(t, store.State().IsAuthenticated)
}

func TestValidateSession_EmptyVault(t *testing.T) {
	store, gateway, _ := newTestStore(t)

	restored, err := store.ValidateSession(context.Background())

	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 0, gateway.IntrospectCalls())

	state := store.State()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
}

func TestValidateSession_RestoresPersistedSession(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	seedVault(t, vault, gateway.DefaultToken, gateway.DefaultUser)

	restored, err := store.ValidateSession(context.Background())

	require.NoError(t, err)
	assert.True(t, restored)

	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.Loading)
	assert.Equal(t, gateway.DefaultToken, state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, gateway.DefaultUser.Email, state.User.Email)
}

func TestValidateSession_PrefersGatewayUserRecord(t *testing.T) {
	store, gateway, vault := newTestStore(t)

	stale := gateway.DefaultUser
	stale.Name = "Old Name"
	seedVault(t, vault, gateway.DefaultToken, stale)

	restored, err := store.ValidateSession(context.Background())

	require.NoError(t, err)
	require.True(t, restored)
	require.NotNil(t, store.State().User)
	assert.Equal(t, gateway.DefaultUser.Name, store.State().User.Name)
}

func TestValidateSession_RejectedTokenClearsVault(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	seedVault(t, vault, "stale-token", gateway.DefaultUser)

	restored, err := store.ValidateSession(context.Background())

	require.NoError(t, err)
	assert.False(t, restored)
	assert.False(t, store.State().IsAuthenticated)
	assert.Equal(t, 0, vault.Len())
}

func TestValidateSession_CorruptUserRecordClearsVault(t *testing.T) {
	store, _, vault := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, vault.Set(ctx, ports.VaultKeyToken, "T-1"))
	require.NoError(t, vault.Set(ctx, ports.VaultKeyUser, "{not json"))

	restored, err := store.ValidateSession(ctx)

	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 0, vault.Len())
}

func TestValidateSession_CorruptFileVaultIsRepaired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	vault, err := filevault.NewVault(path)
	require.NoError(t, err)
	gateway := mocksauth.NewMockGateway()
	store, err := New(Options{Gateway: gateway, Vault: vault})
	require.NoError(t, err)
	ctx := context.Background()

	restored, err := store.ValidateSession(ctx)

	require.NoError(t, err)
	assert.False(t, restored)
	_, err = vault.Get(ctx, ports.VaultKeyToken)
	assert.ErrorIs(t, err, domainauth.ErrNoSession)

	// A fresh login must succeed against the repaired vault.
	require.NoError(t, store.Login(ctx, "admin@algexpress.com", "123456"))
	token, err := vault.Get(ctx, ports.VaultKeyToken)
	require.NoError(t, err)
	assert.Equal(t, gateway.DefaultToken, token)
}

func TestValidateSession_BrokenPairingClearsVault(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, vault.Set(ctx, ports.VaultKeyToken, gateway.DefaultToken))

	restored, err := store.ValidateSession(ctx)

	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 0, gateway.IntrospectCalls())
	assert.Equal(t, 0, vault.Len())
}

func TestValidateSession_GatewayUnreachableKeepsVault(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	seedVault(t, vault, gateway.DefaultToken, gateway.DefaultUser)

	gateway.IntrospectFunc = func(context.Context, string) (domainauth.User, error) {
		return domainauth.User{}, domainauth.ErrGatewayUnreachable
	}

	restored, err := store.ValidateSession(context.Background())

	assert.ErrorIs(t, err, domainauth.ErrGatewayUnreachable)
	assert.False(t, restored)
	assert.False(t, store.State().IsAuthenticated)
	assert.Equal(t, 2, vault.Len())
}

func TestValidateSession_ConcurrentCallsCoalesce(t *testing.T) {
	store, gateway, vault := newTestStore(t)
	seedVault(t, vault, gateway.DefaultToken, gateway.DefaultUser)

	release := make(chan struct{})
	gateway.IntrospectFunc = func(context.Context, string) (domainauth.User, error) {
		<-release
		return gateway.DefaultUser, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			restored, err := store.ValidateSession(context.Background())
			assert.NoError(t, err)
			results[i] = restored
		}(i)
	}

	// Give the goroutines a moment to pile onto the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, gateway.IntrospectCalls())
	for _, restored := range results {
		assert.True(t, restored)
	}
}

func TestToken_TracksSessionLifecycle(t *testing.T) {
	store, gateway, _ := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, store.Token())

	require.NoError(t, store.Login(ctx, "admin@algexpress.com", "123456"))
	assert.Equal(t, gateway.DefaultToken, store.Token())

	require.NoError(t, store.Logout(ctx))
	assert.Empty(t, store.Token())
}

func TestState_ReturnsIndependentCopy(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "admin@algexpress.com", "123456"))

	snapshot := store.State()
	snapshot.User.Name = "mutated"

	require.NotNil(t, store.State().User)
	assert.NotEqual(t, "mutated", store.State().User.Name)
}
