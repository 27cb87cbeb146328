package host

import (
	"context"

	"github.com/jrsteele09/go-teams-profile/internal/utils"
)

// User is the signed-in user as described by the host
type User struct {
	ID                string
	AADObjectID       string
	DisplayName       string
	Email             string
	UserPrincipalName string
	TenantID          string
}

// LoginHint is the account to pre-select in sign-in prompts
func (u User) LoginHint() string {
	return utils.Coalesce(u.UserPrincipalName, u.Email)
}

// Context is what the host runtime reports about itself and the user
type Context struct {
	ClientType string // desktop, web, android, ios, ...
	Locale     string
	UserAgent  string // browser user agent of the host, empty for native clients
	User       User
}

// AuthenticateParameters describe the host's authentication dialog
type AuthenticateParameters struct {
	URL    string
	Width  int
	Height int
}

// Runtime is the bridge to the embedding host (the Teams client)
type Runtime interface {
	// Initialize connects to the host. It fails when there is no host.
	Initialize(ctx context.Context) error

	// Context returns the host and user context
	Context(ctx context.Context) (*Context, error)

	// Authenticate opens the host's authentication dialog at params.URL and
	// returns the token the page hands back
	Authenticate(ctx context.Context, params AuthenticateParameters) (string, error)

	// AuthToken returns the host's single sign-on token
	AuthToken(ctx context.Context, silent bool) (string, error)
}
