package authpage

import (
	"context"
	"sync/atomic"

	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/host"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

var (
	_ auth.WindowOpener = (*BrowserOpener)(nil)
	_ auth.Window       = (*window)(nil)
)

// BrowserOpener opens the auth page in the system browser. The window counts as
// closed once the page finished a sign-in, or the caller gave up.
type BrowserOpener struct {
	server *Server
	open   func(url string) error
}

// BrowserOption configures a BrowserOpener
type BrowserOption func(*BrowserOpener)

// WithOpenFunc replaces the system browser launcher
func WithOpenFunc(open func(url string) error) BrowserOption {
	return func(o *BrowserOpener) {
		o.open = open
	}
}

func NewBrowserOpener(server *Server, options ...BrowserOption) *BrowserOpener {
	o := &BrowserOpener{server: server, open: browser.OpenURL}
	for _, opt := range options {
		opt(o)
	}
	return o
}

type window struct {
	closed atomic.Bool
}

func (w *window) Closed() bool {
	return w.closed.Load()
}

func (o *BrowserOpener) Open(ctx context.Context, url string) (auth.Window, error) {
	results, cancel := o.server.await()
	if err := o.open(url); err != nil {
		cancel()
		return nil, err
	}

	w := &window{}
	go func() {
		defer cancel()
		select {
		case result := <-results:
			log.Debug().Bool("token", result.Token != "").Err(result.Err).Msg("Auth window finished")
		case <-ctx.Done():
		}
		w.closed.Store(true)
	}()
	return w, nil
}

// Authenticate opens the auth page and waits for its result, the way a host shows
// its authentication dialog
func (o *BrowserOpener) Authenticate(ctx context.Context, params host.AuthenticateParameters) (string, error) {
	results, cancel := o.server.await()
	defer cancel()

	if err := o.open(params.URL); err != nil {
		return "", auth.NewError(auth.KindPopupBlocked, err)
	}

	select {
	case result := <-results:
		return result.Token, result.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
