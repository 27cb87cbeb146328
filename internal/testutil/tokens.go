package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

// AccessToken builds a signed JWT carrying claims. The signature is never checked by
// the code under test, it only has to look like an Entra ID access token.
func AccessToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return raw
}

// AccessTokenExpiring builds a token for tenantID whose exp claim is expiresAt
func AccessTokenExpiring(t *testing.T, tenantID string, expiresAt time.Time) string {
	t.Helper()

	return AccessToken(t, jwt.MapClaims{
		"tid":                tenantID,
		"preferred_username": "john.doe@example.com",
		"given_name":         "John",
		"family_name":        "Doe",
		"exp":                expiresAt.Unix(),
	})
}
