package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-teams-profile/internal/testutil"
	"github.com/jrsteele09/go-teams-profile/sessions"
	"github.com/jrsteele09/go-teams-profile/token"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func setupCache(t *testing.T) (*token.Cache, *sessions.MemoryStore, *clock) {
	t.Helper()

	store := sessions.NewMemoryStore()
	clk := &clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	return token.NewCache(store, token.WithNowTime(clk.Now)), store, clk
}

func requireEmpty(t *testing.T, store *sessions.MemoryStore) {
	t.Helper()
	for _, key := range []string{token.TokenKey, token.ExpiresAtKey, token.ClaimsKey} {
		_, ok := store.Get(key)
		require.False(t, ok, "key %s should be removed", key)
	}
}

func TestCache_RoundTrip(t *testing.T) {
	cache, _, clk := setupCache(t)
	raw := testutil.AccessTokenExpiring(t, "tenant-1", clk.now.Add(time.Hour))

	put := cache.Put(raw)
	require.Equal(t, raw, put.Token)
	require.NotNil(t, put.Claims)

	got, ok := cache.Get()
	require.True(t, ok)
	require.Equal(t, raw, got.Token)
	require.True(t, put.ExpiresAt.Equal(got.ExpiresAt))
	require.NotNil(t, got.Claims)
	require.Equal(t, "tenant-1", got.Claims.TenantID)
	require.Equal(t, "John", got.Claims.GivenName)
	require.Nil(t, got.Claims.ExpiresAt, "exp is stored separately")
}

func TestCache_Expiry(t *testing.T) {
	t.Run("after expiry", func(t *testing.T) {
		cache, store, clk := setupCache(t)
		cache.Put(testutil.AccessTokenExpiring(t, "tenant-1", clk.now.Add(time.Hour)))

		clk.now = clk.now.Add(2 * time.Hour)
		_, ok := cache.Get()
		require.False(t, ok)
		requireEmpty(t, store)
	})

	t.Run("inside the safety margin", func(t *testing.T) {
		cache, store, clk := setupCache(t)
		cache.Put(testutil.AccessTokenExpiring(t, "tenant-1", clk.now.Add(time.Hour)))

		clk.now = clk.now.Add(time.Hour - 30*time.Second)
		_, ok := cache.Get()
		require.False(t, ok)
		requireEmpty(t, store)
	})

	t.Run("just outside the safety margin", func(t *testing.T) {
		cache, _, clk := setupCache(t)
		cache.Put(testutil.AccessTokenExpiring(t, "tenant-1", clk.now.Add(time.Hour)))

		clk.now = clk.now.Add(time.Hour - 61*time.Second)
		_, ok := cache.Get()
		require.True(t, ok)
	})

	t.Run("unparseable expiry", func(t *testing.T) {
		cache, store, _ := setupCache(t)
		require.NoError(t, store.Set(token.TokenKey, "abc"))
		require.NoError(t, store.Set(token.ExpiresAtKey, "soon"))

		_, ok := cache.Get()
		require.False(t, ok)
		requireEmpty(t, store)
	})
}

func TestCache_OpaqueToken(t *testing.T) {
	cache, store, clk := setupCache(t)

	put := cache.Put("opaque-token")
	require.Nil(t, put.Claims)
	require.True(t, clk.now.Add(50*time.Minute).Equal(put.ExpiresAt))

	_, ok := store.Get(token.ClaimsKey)
	require.False(t, ok)

	got, ok := cache.Get()
	require.True(t, ok)
	require.Equal(t, "opaque-token", got.Token)
	require.Nil(t, got.Claims)
}

func TestCache_PutReplacesStaleClaims(t *testing.T) {
	cache, store, clk := setupCache(t)
	cache.Put(testutil.AccessTokenExpiring(t, "tenant-1", clk.now.Add(time.Hour)))
	cache.Put("opaque-token")

	_, ok := store.Get(token.ClaimsKey)
	require.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	cache, store, clk := setupCache(t)
	cache.Put(testutil.AccessTokenExpiring(t, "tenant-1", clk.now.Add(time.Hour)))

	cache.Clear()
	requireEmpty(t, store)
	_, ok := cache.Get()
	require.False(t, ok)
}

func TestCache_Options(t *testing.T) {
	store := sessions.NewMemoryStore()
	clk := &clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	cache := token.NewCache(store,
		token.WithNowTime(clk.Now),
		token.WithDefaultLifetime(10*time.Minute),
		token.WithExpiryMargin(5*time.Minute),
	)

	put := cache.Put("opaque-token")
	require.True(t, clk.now.Add(10*time.Minute).Equal(put.ExpiresAt))

	clk.now = clk.now.Add(6 * time.Minute)
	_, ok := cache.Get()
	require.False(t, ok)
}
