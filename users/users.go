package users

import (
	"github.com/jrsteele09/go-teams-profile/graph"
	"github.com/jrsteele09/go-teams-profile/host"
	"github.com/jrsteele09/go-teams-profile/internal/utils"
	"github.com/jrsteele09/go-teams-profile/token/jwt"
)

// UserInfo is the merged profile shown to the user. Empty fields are unknown.
type UserInfo struct {
	DisplayName       string   `json:"displayName,omitempty"`
	Email             string   `json:"email,omitempty"`
	UserPrincipalName string   `json:"userPrincipalName,omitempty"`
	ID                string   `json:"id,omitempty"`
	TenantID          string   `json:"tenantId,omitempty"`
	LocalSurname      string   `json:"localSurname,omitempty"`   // Surname as written natively, e.g. 王
	LocalGivenName    string   `json:"localGivenName,omitempty"` // Given name as written natively, e.g. 小明
	GivenName         string   `json:"givenName,omitempty"`
	Surname           string   `json:"surname,omitempty"`
	JobTitle          string   `json:"jobTitle,omitempty"`
	Department        string   `json:"department,omitempty"`
	OfficeLocation    string   `json:"officeLocation,omitempty"`
	MobilePhone       string   `json:"mobilePhone,omitempty"`
	BusinessPhones    []string `json:"businessPhones,omitempty"`
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
}

// Sources are the identity attributes available after sign-in. Any of them may be nil.
type Sources struct {
	Teams    *host.User     // Host context
	Graph    *graph.Profile // Graph /me
	TenantID string         // Tenant reported by the host, preferred over the token's tid
	Claims   *jwt.Claims    // Decoded access token
}

// Merge combines the sources. Graph wins over the host context, which wins over
// token claims. Structured name parts are used when known; otherwise the display
// name is split heuristically.
func Merge(src Sources) UserInfo {
	teams := src.Teams
	if teams == nil {
		teams = &host.User{}
	}
	profile := src.Graph
	if profile == nil {
		profile = &graph.Profile{}
	}
	claims := src.Claims
	if claims == nil {
		claims = &jwt.Claims{}
	}

	displayName := utils.Coalesce(profile.DisplayName, teams.DisplayName)
	givenName := utils.Coalesce(profile.GivenName, claims.GivenName)
	surname := utils.Coalesce(profile.Surname, claims.FamilyName)
	splitSurname, splitGivenName := SplitName(displayName)

	return UserInfo{
		DisplayName:       displayName,
		Email:             utils.Coalesce(profile.Mail, teams.Email, claims.PreferredUsername, teams.UserPrincipalName),
		UserPrincipalName: utils.Coalesce(profile.UserPrincipalName, teams.UserPrincipalName, claims.PreferredUsername),
		ID:                utils.Coalesce(profile.ID, teams.ID, teams.AADObjectID),
		TenantID:          utils.Coalesce(src.TenantID, claims.TenantID),
		LocalSurname:      utils.Coalesce(surname, splitSurname),
		LocalGivenName:    utils.Coalesce(givenName, splitGivenName),
		GivenName:         givenName,
		Surname:           surname,
		JobTitle:          profile.JobTitle,
		Department:        profile.Department,
		OfficeLocation:    profile.OfficeLocation,
		MobilePhone:       profile.MobilePhone,
		BusinessPhones:    profile.BusinessPhones,
		PreferredLanguage: profile.PreferredLanguage,
	}
}

// LocalName is the native-order full name, e.g. 王小明
func (u UserInfo) LocalName() string {
	return u.LocalSurname + u.LocalGivenName
}

// EnglishName is the given-name-first full name, e.g. John Doe
func (u UserInfo) EnglishName() string {
	switch {
	case u.GivenName == "":
		return u.Surname
	case u.Surname == "":
		return u.GivenName
	}
	return u.GivenName + " " + u.Surname
}
