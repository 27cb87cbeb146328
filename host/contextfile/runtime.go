// Package contextfile is a host runtime that replays a Teams context captured to a
// JSON file. The host dialog is provided by a Dialog, usually the auth page opened
// in the system browser.
package contextfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/host"
	interrors "github.com/jrsteele09/go-teams-profile/internal/errors"
	"github.com/jrsteele09/go-teams-profile/internal/utils"
	"github.com/rs/zerolog/log"
)

var _ host.Runtime = (*Runtime)(nil)

// Dialog shows the authentication page and returns the token it produced
type Dialog interface {
	Authenticate(ctx context.Context, params host.AuthenticateParameters) (string, error)
}

// teamsContext is the subset of the Teams JavaScript context read from the file
type teamsContext struct {
	App *struct {
		Locale string `json:"locale"`
		Host   *struct {
			ClientType string `json:"clientType"`
		} `json:"host"`
	} `json:"app"`
	User *struct {
		ID                string `json:"id"`
		DisplayName       string `json:"displayName"`
		LoginHint         string `json:"loginHint"`
		UserPrincipalName string `json:"userPrincipalName"`
		Tenant            *struct {
			ID string `json:"id"`
		} `json:"tenant"`
	} `json:"user"`
	UserAgent string `json:"userAgent"`
}

// Runtime replays a captured Teams context
type Runtime struct {
	path      string
	dialog    Dialog
	userAgent string

	lock        sync.RWMutex
	hostContext *host.Context
}

// Option configures a Runtime
type Option func(*Runtime)

// WithUserAgent overrides the user agent recorded in the file
func WithUserAgent(userAgent string) Option {
	return func(r *Runtime) {
		r.userAgent = userAgent
	}
}

func New(path string, dialog Dialog, options ...Option) *Runtime {
	r := &Runtime{path: path, dialog: dialog}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Initialize loads the context file. Without one there is no host.
func (r *Runtime) Initialize(_ context.Context) error {
	if r.path == "" {
		return interrors.ErrHostUnavailable
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return interrors.Wrapf(err, "read Teams context %s", r.path)
	}
	hostContext, err := parse(data)
	if err != nil {
		return interrors.Wrapf(err, "parse Teams context %s", r.path)
	}
	if r.userAgent != "" {
		hostContext.UserAgent = r.userAgent
	}

	r.lock.Lock()
	r.hostContext = hostContext
	r.lock.Unlock()

	log.Debug().Str("path", r.path).Str("client_type", hostContext.ClientType).Msg("Loaded Teams context")
	return nil
}

func (r *Runtime) Context(_ context.Context) (*host.Context, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.hostContext == nil {
		return nil, interrors.ErrNoHostContext
	}
	copied := *r.hostContext
	return &copied, nil
}

// Authenticate shows the dialog. Teams on the web in Safari refuses to open
// it, as the real client does.
func (r *Runtime) Authenticate(ctx context.Context, params host.AuthenticateParameters) (string, error) {
	hostContext, err := r.Context(ctx)
	if err != nil {
		return "", err
	}
	if host.ClassifyClientType(hostContext.ClientType) == host.EnvironmentTeamsWeb && host.IsSafari(hostContext.UserAgent) {
		return "", auth.NewError(auth.KindEmbeddedBrowser, errors.New("authentication in an embedded browser is not supported"))
	}
	if r.dialog == nil {
		return "", auth.NewError(auth.KindNotSupported, interrors.ErrUnsupported)
	}
	return r.dialog.Authenticate(ctx, params)
}

// AuthToken is not available from a replayed context
func (r *Runtime) AuthToken(_ context.Context, _ bool) (string, error) {
	return "", auth.NewError(auth.KindNotSupported, interrors.ErrUnsupported)
}

func parse(data []byte) (*host.Context, error) {
	var raw teamsContext
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	app := utils.Value(raw.App)
	user := utils.Value(raw.User)
	var clientType string
	if app.Host != nil {
		clientType = strings.TrimSpace(app.Host.ClientType)
	}
	var tenantID string
	if user.Tenant != nil {
		tenantID = user.Tenant.ID
	}

	return &host.Context{
		ClientType: clientType,
		Locale:     app.Locale,
		UserAgent:  raw.UserAgent,
		User: host.User{
			ID:                user.ID,
			AADObjectID:       user.ID,
			DisplayName:       user.DisplayName,
			Email:             user.LoginHint,
			UserPrincipalName: user.UserPrincipalName,
			TenantID:          tenantID,
		},
	}, nil
}
