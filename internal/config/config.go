package config

type Config interface {
	EnvConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetClientID() string
	GetTenantID() string
	GetAuthority() string
	GetGraphBaseURL() string
	GetAuthPagePort() int
	GetLocale() string
}

type mainConfig struct {
	EnvVars
	OAuth
}

func New() Config {
	return mainConfig{}
}
