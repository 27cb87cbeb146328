package users_test

import (
	"testing"

	"github.com/jrsteele09/go-teams-profile/graph"
	"github.com/jrsteele09/go-teams-profile/host"
	"github.com/jrsteele09/go-teams-profile/token/jwt"
	"github.com/jrsteele09/go-teams-profile/users"
	"github.com/stretchr/testify/require"
)

func TestMerge_Precedence(t *testing.T) {
	teams := &host.User{
		ID:                "teams-id",
		DisplayName:       "Teams Name",
		Email:             "teams@example.com",
		UserPrincipalName: "teams-upn@example.com",
		TenantID:          "teams-tenant",
	}
	profile := &graph.Profile{
		ID:                "graph-id",
		DisplayName:       "王小明",
		Mail:              "graph@example.com",
		UserPrincipalName: "graph-upn@example.com",
		JobTitle:          "Engineer",
		BusinessPhones:    []string{"+886 2 1234 5678"},
	}
	claims := &jwt.Claims{TenantID: "claims-tenant", PreferredUsername: "claims@example.com"}

	t.Run("graph wins over teams", func(t *testing.T) {
		info := users.Merge(users.Sources{Teams: teams, Graph: profile, Claims: claims})
		require.Equal(t, "王小明", info.DisplayName)
		require.Equal(t, "graph@example.com", info.Email)
		require.Equal(t, "graph-upn@example.com", info.UserPrincipalName)
		require.Equal(t, "graph-id", info.ID)
		require.Equal(t, "Engineer", info.JobTitle)
		require.Equal(t, []string{"+886 2 1234 5678"}, info.BusinessPhones)
	})

	t.Run("explicit tenant wins over claims", func(t *testing.T) {
		info := users.Merge(users.Sources{Graph: profile, TenantID: "explicit-tenant", Claims: claims})
		require.Equal(t, "explicit-tenant", info.TenantID)
	})

	t.Run("claims tenant used when none supplied", func(t *testing.T) {
		info := users.Merge(users.Sources{Graph: profile, Claims: claims})
		require.Equal(t, "claims-tenant", info.TenantID)
	})

	t.Run("teams then claims when graph is missing", func(t *testing.T) {
		info := users.Merge(users.Sources{Teams: teams, Claims: claims})
		require.Equal(t, "Teams Name", info.DisplayName)
		require.Equal(t, "teams@example.com", info.Email)
		require.Equal(t, "teams-upn@example.com", info.UserPrincipalName)
		require.Equal(t, "teams-id", info.ID)
	})

	t.Run("claims before teams upn for email", func(t *testing.T) {
		info := users.Merge(users.Sources{Teams: &host.User{UserPrincipalName: "upn@example.com"}, Claims: claims})
		require.Equal(t, "claims@example.com", info.Email)
		require.Equal(t, "upn@example.com", info.UserPrincipalName)
	})

	t.Run("aad object id fallback", func(t *testing.T) {
		info := users.Merge(users.Sources{Teams: &host.User{AADObjectID: "oid-1"}})
		require.Equal(t, "oid-1", info.ID)
	})
}

func TestMerge_Names(t *testing.T) {
	t.Run("structured names from graph", func(t *testing.T) {
		info := users.Merge(users.Sources{Graph: &graph.Profile{DisplayName: "歐陽脫凱", GivenName: "Tokai", Surname: "Ouyang"}})
		require.Equal(t, "Ouyang", info.LocalSurname)
		require.Equal(t, "Tokai", info.LocalGivenName)
		require.Equal(t, "Tokai Ouyang", info.EnglishName())
	})

	t.Run("structured names from claims", func(t *testing.T) {
		info := users.Merge(users.Sources{
			Teams:  &host.User{DisplayName: "王小明"},
			Claims: &jwt.Claims{GivenName: "Xiaoming", FamilyName: "Wang"},
		})
		require.Equal(t, "Wang", info.Surname)
		require.Equal(t, "Xiaoming", info.GivenName)
	})

	t.Run("split display name", func(t *testing.T) {
		info := users.Merge(users.Sources{Graph: &graph.Profile{DisplayName: "歐陽脫凱"}})
		require.Equal(t, "歐陽", info.LocalSurname)
		require.Equal(t, "脫凱", info.LocalGivenName)
		require.Equal(t, "歐陽脫凱", info.LocalName())
		require.Empty(t, info.GivenName)
		require.Empty(t, info.EnglishName())
	})

	t.Run("nothing known", func(t *testing.T) {
		info := users.Merge(users.Sources{})
		require.Equal(t, users.UserInfo{}, info)
	})
}
