package config

import "time"

type OAuthConfig interface {
	GetScopes() []string
	GetRedirectURI() string
	GetDefaultTokenLifetime() time.Duration
	GetTokenExpiryMargin() time.Duration
	GetAuthWindowPollInterval() time.Duration
	GetAuthWindowSize() (width, height int)
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetScopes() []string {
	return []string{"User.Read"}
}

// GetRedirectURI is the loopback redirect used by the identity client's interactive flow
func (OAuth) GetRedirectURI() string {
	return "http://localhost"
}

func (OAuth) GetDefaultTokenLifetime() time.Duration {
	return 50 * time.Minute // used when the token carries no exp claim
}

func (OAuth) GetTokenExpiryMargin() time.Duration {
	return 60 * time.Second
}

func (OAuth) GetAuthWindowPollInterval() time.Duration {
	return 500 * time.Millisecond
}

func (OAuth) GetAuthWindowSize() (width, height int) {
	return 600, 535
}
