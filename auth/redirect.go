package auth

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-teams-profile/token"
	"github.com/rs/zerolog/log"
)

// Account is a signed-in account known to the identity client
type Account struct {
	HomeAccountID string
	Username      string
	TenantID      string
}

// RedirectResult is the outcome of a completed interactive sign-in
type RedirectResult struct {
	AccessToken string
	Account     *Account
}

// IdentityClient is a public client able to sign in by navigating away and back
type IdentityClient interface {
	Initialize(ctx context.Context) error

	// HandleRedirect returns the result of a sign-in that completed since the
	// last call, or nil when there is none
	HandleRedirect(ctx context.Context) (*RedirectResult, error)

	Accounts(ctx context.Context) ([]Account, error)
	AcquireTokenSilent(ctx context.Context, account Account) (*RedirectResult, error)

	// AcquireTokenRedirect and LoginRedirect start an interactive sign-in. Its
	// result is reported by the next HandleRedirect.
	AcquireTokenRedirect(ctx context.Context, account Account, loginHint string) error
	LoginRedirect(ctx context.Context, loginHint string) error
}

// RedirectAcquirer obtains a Graph token through an IdentityClient
type RedirectAcquirer struct {
	client IdentityClient
	cache  *token.Cache

	initLock    sync.Mutex
	initialized bool
}

func NewRedirectAcquirer(client IdentityClient, cache *token.Cache) *RedirectAcquirer {
	return &RedirectAcquirer{client: client, cache: cache}
}

// Acquire returns a token from the cache, a completed redirect or a silent
// renewal. Otherwise it starts a redirect and returns ErrRedirectPending.
func (a *RedirectAcquirer) Acquire(ctx context.Context, loginHint string) (*token.CachedToken, error) {
	if cached, ok := a.cache.Get(); ok {
		return cached, nil
	}

	if err := a.initialize(ctx); err != nil {
		return nil, err
	}

	result, err := a.client.HandleRedirect(ctx)
	if err != nil {
		return nil, err
	}
	if result != nil && result.AccessToken != "" {
		log.Info().Msg("Graph token received from redirect")
		return a.cache.Put(result.AccessToken), nil
	}

	accounts, err := a.client.Accounts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to list signed-in accounts")
	}

	if len(accounts) > 0 {
		account := accounts[0]
		result, err := a.client.AcquireTokenSilent(ctx, account)
		if err == nil && result != nil && result.AccessToken != "" {
			log.Info().Str("account", account.Username).Msg("Graph token renewed silently")
			return a.cache.Put(result.AccessToken), nil
		}
		log.Info().Err(err).Str("account", account.Username).Msg("Silent token renewal failed, redirecting")

		if err := a.client.AcquireTokenRedirect(ctx, account, loginHint); err != nil {
			return nil, err
		}
		return nil, ErrRedirectPending
	}

	if err := a.client.LoginRedirect(ctx, loginHint); err != nil {
		return nil, err
	}
	return nil, ErrRedirectPending
}

func (a *RedirectAcquirer) initialize(ctx context.Context) error {
	a.initLock.Lock()
	defer a.initLock.Unlock()

	if a.initialized {
		return nil
	}
	if err := a.client.Initialize(ctx); err != nil {
		return err
	}
	a.initialized = true
	return nil
}
