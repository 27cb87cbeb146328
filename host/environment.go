// Package host detects the application hosting the tab and describes the
// runtime bridge it exposes.
package host

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Environment is where the app is running. It is decided once at startup.
type Environment string

const (
	EnvironmentUnknown      Environment = "unknown"
	EnvironmentTeamsDesktop Environment = "teams-desktop"
	EnvironmentTeamsWeb     Environment = "teams-web"
	EnvironmentTeamsMobile  Environment = "teams-mobile"
	EnvironmentStandalone   Environment = "standalone"
)

// Host client types reported by the Teams runtime
const (
	ClientTypeDesktop = "desktop"
	ClientTypeWeb     = "web"
	ClientTypeAndroid = "android"
	ClientTypeIOS     = "ios"
)

// IsTeamsHost reports whether the app is embedded in a Teams client
func (e Environment) IsTeamsHost() bool {
	switch e {
	case EnvironmentTeamsDesktop, EnvironmentTeamsWeb, EnvironmentTeamsMobile:
		return true
	}
	return false
}

func (e Environment) String() string {
	return string(e)
}

// ClassifyClientType maps a host client type to an Environment.
// Unrecognised client types are treated as a standalone browser.
func ClassifyClientType(clientType string) Environment {
	switch strings.ToLower(strings.TrimSpace(clientType)) {
	case ClientTypeDesktop:
		return EnvironmentTeamsDesktop
	case ClientTypeWeb:
		return EnvironmentTeamsWeb
	case ClientTypeAndroid, ClientTypeIOS:
		return EnvironmentTeamsMobile
	default:
		return EnvironmentStandalone
	}
}

// Detect initialises the runtime and classifies the host. A missing or failing
// runtime is not an error: it means the app runs standalone. The host context is
// returned whenever the runtime produced one, even for unrecognised client types.
func Detect(ctx context.Context, runtime Runtime) (Environment, *Context) {
	if runtime == nil {
		log.Info().Msg("No host runtime, running standalone")
		return EnvironmentStandalone, nil
	}

	if err := runtime.Initialize(ctx); err != nil {
		log.Info().Err(err).Msg("Host runtime unavailable, running standalone")
		return EnvironmentStandalone, nil
	}

	hostContext, err := runtime.Context(ctx)
	if err != nil || hostContext == nil {
		log.Info().Err(err).Msg("Host context unavailable, running standalone")
		return EnvironmentStandalone, nil
	}

	env := ClassifyClientType(hostContext.ClientType)
	log.Info().Str("client_type", hostContext.ClientType).Str("environment", env.String()).Msg("Detected host")
	return env, hostContext
}
