package auth

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/jrsteele09/go-teams-profile/host"
	"github.com/jrsteele09/go-teams-profile/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	inFlightKey         = "graph-token"
	defaultWindowWidth  = 600
	defaultWindowHeight = 535
	defaultPollInterval = 500 * time.Millisecond
)

// Window is an auth page opened outside the host dialog
type Window interface {
	Closed() bool
}

// WindowOpener opens the auth page in a separate window
type WindowOpener interface {
	Open(ctx context.Context, url string) (Window, error)
}

// EmbeddedAcquirer obtains a Graph token through the host's authentication dialog,
// falling back to a separate window when the host refuses to show one.
// Concurrent callers share a single dialog.
type EmbeddedAcquirer struct {
	runtime      host.Runtime
	cache        *token.Cache
	opener       WindowOpener
	authPageURL  string
	width        int
	height       int
	pollInterval time.Duration
	inFlight     singleflight.Group
}

// EmbeddedOption configures an EmbeddedAcquirer
type EmbeddedOption func(*EmbeddedAcquirer)

// WithWindowOpener enables the separate window fallback
func WithWindowOpener(opener WindowOpener) EmbeddedOption {
	return func(a *EmbeddedAcquirer) {
		a.opener = opener
	}
}

func WithWindowSize(width, height int) EmbeddedOption {
	return func(a *EmbeddedAcquirer) {
		a.width = width
		a.height = height
	}
}

// WithPollInterval sets how often a fallback window is checked for closure
func WithPollInterval(interval time.Duration) EmbeddedOption {
	return func(a *EmbeddedAcquirer) {
		a.pollInterval = interval
	}
}

func NewEmbeddedAcquirer(runtime host.Runtime, cache *token.Cache, authPageURL string, options ...EmbeddedOption) *EmbeddedAcquirer {
	a := &EmbeddedAcquirer{
		runtime:      runtime,
		cache:        cache,
		authPageURL:  authPageURL,
		width:        defaultWindowWidth,
		height:       defaultWindowHeight,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Acquire returns the cached token, or runs the host dialog for loginHint
func (a *EmbeddedAcquirer) Acquire(ctx context.Context, loginHint string) (*token.CachedToken, error) {
	if cached, ok := a.cache.Get(); ok {
		return cached, nil
	}

	result, err, shared := a.inFlight.Do(inFlightKey, func() (interface{}, error) {
		// a flight that finished after the check above may have cached a token
		if cached, ok := a.cache.Get(); ok {
			return cached, nil
		}
		return a.acquire(ctx, loginHint)
	})
	if shared {
		log.Debug().Msg("Joined in-flight Graph token request")
	}
	if err != nil {
		return nil, err
	}
	return result.(*token.CachedToken), nil
}

func (a *EmbeddedAcquirer) acquire(ctx context.Context, loginHint string) (*token.CachedToken, error) {
	authURL := a.pageURL(loginHint)

	raw, err := a.runtime.Authenticate(ctx, host.AuthenticateParameters{
		URL:    authURL,
		Width:  a.width,
		Height: a.height,
	})
	if err == nil {
		log.Info().Msg("Graph token received from host dialog")
		return a.cache.Put(raw), nil
	}

	if a.opener == nil || !IsEmbeddedBrowserClass(err) {
		return nil, err
	}

	log.Warn().Err(err).Msg("Host authentication failed, opening the auth page in a new window")
	return a.acquireInWindow(ctx, authURL)
}

func (a *EmbeddedAcquirer) acquireInWindow(ctx context.Context, authURL string) (*token.CachedToken, error) {
	window, err := a.opener.Open(ctx, authURL)
	if err != nil {
		return nil, NewError(KindPopupBlocked, err)
	}

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if !window.Closed() {
				continue
			}
			if cached, ok := a.cache.Get(); ok {
				log.Info().Msg("Graph token stored by auth window")
				return cached, nil
			}
			return nil, NewError(KindCancelled, errors.New("auth window closed by user"))
		}
	}
}

func (a *EmbeddedAcquirer) pageURL(loginHint string) string {
	if loginHint == "" {
		return a.authPageURL
	}
	u, err := url.Parse(a.authPageURL)
	if err != nil {
		return a.authPageURL
	}
	q := u.Query()
	q.Set("loginHint", loginHint)
	u.RawQuery = q.Encode()
	return u.String()
}
