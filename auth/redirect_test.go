package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/auth/authfakes"
	"github.com/stretchr/testify/require"
)

func TestRedirectAcquirer(t *testing.T) {
	t.Run("no account starts login redirect", func(t *testing.T) {
		client := authfakes.NewFakeIdentityClient()
		acquirer := auth.NewRedirectAcquirer(client, newCache())

		_, err := acquirer.Acquire(context.Background(), testLoginHint)
		require.True(t, auth.IsRedirectPending(err))
		require.Equal(t, []string{"login:" + testLoginHint}, client.Redirects())
	})

	t.Run("completed redirect is cached", func(t *testing.T) {
		client := authfakes.NewFakeIdentityClient()
		client.NextToken = validToken(t)
		cache := newCache()
		acquirer := auth.NewRedirectAcquirer(client, cache)

		_, err := acquirer.Acquire(context.Background(), "")
		require.True(t, auth.IsRedirectPending(err))

		cached, err := acquirer.Acquire(context.Background(), "")
		require.NoError(t, err)
		require.Equal(t, client.NextToken, cached.Token)

		_, ok := cache.Get()
		require.True(t, ok)
	})

	t.Run("known account renews silently", func(t *testing.T) {
		raw := validToken(t)
		client := authfakes.NewFakeIdentityClient()
		client.Known = []auth.Account{{HomeAccountID: "home-1", Username: testLoginHint}}
		client.SilentFunc = func(account auth.Account) (*auth.RedirectResult, error) {
			require.Equal(t, "home-1", account.HomeAccountID)
			return &auth.RedirectResult{AccessToken: raw, Account: &account}, nil
		}
		acquirer := auth.NewRedirectAcquirer(client, newCache())

		cached, err := acquirer.Acquire(context.Background(), "")
		require.NoError(t, err)
		require.Equal(t, raw, cached.Token)
		require.Empty(t, client.Redirects())
	})

	t.Run("silent failure redirects with the account", func(t *testing.T) {
		client := authfakes.NewFakeIdentityClient()
		client.Known = []auth.Account{{HomeAccountID: "home-1", Username: testLoginHint}}
		acquirer := auth.NewRedirectAcquirer(client, newCache())

		_, err := acquirer.Acquire(context.Background(), testLoginHint)
		require.ErrorIs(t, err, auth.ErrRedirectPending)
		require.Equal(t, []string{"acquire:" + testLoginHint}, client.Redirects())
	})

	t.Run("initializes once", func(t *testing.T) {
		client := authfakes.NewFakeIdentityClient()
		acquirer := auth.NewRedirectAcquirer(client, newCache())

		for i := 0; i < 3; i++ {
			_, _ = acquirer.Acquire(context.Background(), "")
		}
		require.Equal(t, 1, client.InitCalls())
	})

	t.Run("failed initialization is retried", func(t *testing.T) {
		client := authfakes.NewFakeIdentityClient()
		client.InitErr = errors.New("authority unreachable")
		acquirer := auth.NewRedirectAcquirer(client, newCache())

		_, err := acquirer.Acquire(context.Background(), "")
		require.EqualError(t, err, "authority unreachable")

		client.InitErr = nil
		_, err = acquirer.Acquire(context.Background(), "")
		require.True(t, auth.IsRedirectPending(err))
		require.Equal(t, 2, client.InitCalls())
	})

	t.Run("cache hit skips the client", func(t *testing.T) {
		client := authfakes.NewFakeIdentityClient()
		cache := newCache()
		cache.Put(validToken(t))
		acquirer := auth.NewRedirectAcquirer(client, cache)

		_, err := acquirer.Acquire(context.Background(), "")
		require.NoError(t, err)
		require.Zero(t, client.InitCalls())
	})
}
