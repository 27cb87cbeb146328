package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	appNameVar      = "APP_NAME"
	clientIDVar     = "CLIENT_ID"
	tenantIDVar     = "TENANT_ID"
	graphBaseURLVar = "GRAPH_BASE_URL"
	authPortVar     = "AUTH_PAGE_PORT"
	localeVar       = "TEAMS_LOCALE"
	authorityVar    = "AUTHORITY_HOST"
)

// App registration of the personal tab.
const (
	defaultClientID = "33abd69a-d012-498a-bddb-8608cbf10c2d"
	defaultTenantID = "cd4e36bd-ac9a-4236-9f91-a6718b6b5e45"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Teams Profile")
}

func (EnvVars) GetClientID() string {
	return GetEnv(clientIDVar, defaultClientID)
}

func (EnvVars) GetTenantID() string {
	return GetEnv(tenantIDVar, defaultTenantID)
}

// GetAuthority returns the Entra ID authority of the tenant
func (e EnvVars) GetAuthority() string {
	host := strings.TrimSuffix(GetEnv(authorityVar, "https://login.microsoftonline.com"), "/")
	return host + "/" + e.GetTenantID()
}

// GetGraphBaseURL returns the Microsoft Graph host, without the API version
func (EnvVars) GetGraphBaseURL() string {
	return GetEnv(graphBaseURLVar, "https://graph.microsoft.com")
}

// GetAuthPagePort returns the loopback port for the auth page. 0 picks a free port.
func (EnvVars) GetAuthPagePort() int {
	port, err := strconv.Atoi(GetEnv(authPortVar, "0"))
	if err != nil || port < 0 {
		return 0
	}
	return port
}

func (EnvVars) GetLocale() string {
	return GetEnv(localeVar, "zh-TW")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
