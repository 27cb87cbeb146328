// Package identity signs in through the MSAL public client outside a Teams host.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/sessions"
	"github.com/rs/zerolog/log"
)

var _ auth.IdentityClient = (*Client)(nil)

// PublicClient is the part of public.Client used for sign-in
type PublicClient interface {
	Accounts(ctx context.Context) ([]public.Account, error)
	AcquireTokenSilent(ctx context.Context, scopes []string, opts ...public.AcquireSilentOption) (public.AuthResult, error)
	AcquireTokenInteractive(ctx context.Context, scopes []string, opts ...public.AcquireInteractiveOption) (public.AuthResult, error)
}

// Client adapts MSAL to auth.IdentityClient. The interactive flow runs in the
// system browser against a loopback redirect; its result is handed out by the
// next HandleRedirect, the way a browser page picks up a redirect response.
type Client struct {
	clientID    string
	authority   string
	scopes      []string
	redirectURI string
	store       sessions.Store
	openURL     func(url string) error

	lock    sync.Mutex
	app     PublicClient
	pending *auth.RedirectResult
}

// Option configures a Client
type Option func(*Client)

// WithScopes sets the Graph scopes requested
func WithScopes(scopes ...string) Option {
	return func(c *Client) {
		c.scopes = scopes
	}
}

func WithRedirectURI(redirectURI string) Option {
	return func(c *Client) {
		c.redirectURI = redirectURI
	}
}

// WithOpenURL replaces the browser launcher used by the interactive flow
func WithOpenURL(openURL func(url string) error) Option {
	return func(c *Client) {
		c.openURL = openURL
	}
}

// WithPublicClient uses app instead of creating an MSAL client on Initialize
func WithPublicClient(app PublicClient) Option {
	return func(c *Client) {
		c.app = app
	}
}

// NewClient creates an adapter for the app registration clientID at authority. The
// MSAL cache is kept in store.
func NewClient(clientID, authority string, store sessions.Store, options ...Option) *Client {
	c := &Client{
		clientID:    clientID,
		authority:   authority,
		scopes:      []string{"User.Read"},
		redirectURI: "http://localhost",
		store:       store,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) Initialize(_ context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.app != nil {
		return nil
	}
	app, err := public.New(c.clientID,
		public.WithAuthority(c.authority),
		public.WithCache(NewCacheAccessor(c.store)),
	)
	if err != nil {
		return err
	}
	c.app = app
	log.Debug().Str("authority", c.authority).Msg("MSAL public client initialized")
	return nil
}

func (c *Client) HandleRedirect(_ context.Context) (*auth.RedirectResult, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	result := c.pending
	c.pending = nil
	return result, nil
}

func (c *Client) Accounts(ctx context.Context) ([]auth.Account, error) {
	app, err := c.client()
	if err != nil {
		return nil, err
	}
	accounts, err := app.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	mapped := make([]auth.Account, 0, len(accounts))
	for _, account := range accounts {
		mapped = append(mapped, toAccount(account))
	}
	return mapped, nil
}

func (c *Client) AcquireTokenSilent(ctx context.Context, account auth.Account) (*auth.RedirectResult, error) {
	app, err := c.client()
	if err != nil {
		return nil, err
	}
	msalAccount, err := c.findAccount(ctx, app, account.HomeAccountID)
	if err != nil {
		return nil, err
	}

	result, err := app.AcquireTokenSilent(ctx, c.scopes, public.WithSilentAccount(msalAccount))
	if err != nil {
		return nil, err
	}
	return toRedirectResult(result), nil
}

func (c *Client) AcquireTokenRedirect(ctx context.Context, account auth.Account, loginHint string) error {
	if loginHint == "" {
		loginHint = account.Username
	}
	return c.interactive(ctx, loginHint)
}

func (c *Client) LoginRedirect(ctx context.Context, loginHint string) error {
	return c.interactive(ctx, loginHint)
}

func (c *Client) interactive(ctx context.Context, loginHint string) error {
	app, err := c.client()
	if err != nil {
		return err
	}

	options := []public.AcquireInteractiveOption{public.WithRedirectURI(c.redirectURI)}
	if loginHint != "" {
		options = append(options, public.WithLoginHint(loginHint))
	}
	if c.openURL != nil {
		openURL := c.openURL
		options = append(options, public.WithOpenURL(func(url string) error {
			if err := openURL(url); err != nil {
				return auth.NewError(auth.KindPopupBlocked, err)
			}
			return nil
		}))
	}

	log.Info().Str("login_hint", loginHint).Msg("Starting interactive sign-in")
	result, err := app.AcquireTokenInteractive(ctx, c.scopes, options...)
	if err != nil {
		return classify(err)
	}

	c.lock.Lock()
	c.pending = toRedirectResult(result)
	c.lock.Unlock()
	return nil
}

func (c *Client) client() (PublicClient, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.app == nil {
		return nil, errors.New("identity client not initialized")
	}
	return c.app, nil
}

func (c *Client) findAccount(ctx context.Context, app PublicClient, homeAccountID string) (public.Account, error) {
	accounts, err := app.Accounts(ctx)
	if err != nil {
		return public.Account{}, err
	}
	for _, account := range accounts {
		if account.HomeAccountID == homeAccountID {
			return account, nil
		}
	}
	return public.Account{}, auth.NewError(auth.KindInteractionInProgress, errors.New("account no longer cached"))
}

// classify tags the MSAL errors a user can act on
func classify(err error) error {
	if auth.KindOf(err) != auth.KindUnknown {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "access_denied"), errors.Is(err, context.Canceled):
		return auth.NewError(auth.KindCancelled, err)
	case strings.Contains(msg, "interaction_in_progress"):
		return auth.NewError(auth.KindInteractionInProgress, err)
	}
	return err
}

func toAccount(account public.Account) auth.Account {
	return auth.Account{
		HomeAccountID: account.HomeAccountID,
		Username:      account.PreferredUsername,
		TenantID:      account.Realm,
	}
}

func toRedirectResult(result public.AuthResult) *auth.RedirectResult {
	account := toAccount(result.Account)
	return &auth.RedirectResult{AccessToken: result.AccessToken, Account: &account}
}
