package jwt

import (
	"encoding/json"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-teams-profile/internal/errors"
)

// Claims is the subset of an access token's payload used as identity hints.
// Claims are decoded locally and never verified; the issuer is the trust boundary.
type Claims struct {
	TenantID          string `json:"tid,omitempty"`                // Directory the token was issued in
	PreferredUsername string `json:"preferred_username,omitempty"` // Usually the sign-in address
	Name              string `json:"name,omitempty"`               // Display name
	GivenName         string `json:"given_name,omitempty"`
	FamilyName        string `json:"family_name,omitempty"`
	UPN               string `json:"upn,omitempty"`
	ObjectID          string `json:"oid,omitempty"`
	jwtlib.RegisteredClaims
}

// Expiry returns the exp claim, or the zero time when absent
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// WithoutExpiry returns a copy of the claims with exp removed
func (c *Claims) WithoutExpiry() *Claims {
	if c == nil {
		return nil
	}
	cp := *c
	cp.ExpiresAt = nil
	return &cp
}

// DecodeClaims reads the payload segment of rawToken without checking the signature.
// Only the payload has to be readable; a damaged header or signature is ignored.
// Opaque (non-JWT) tokens return ErrMalformedToken.
func DecodeClaims(rawToken string) (*Claims, error) {
	segments := strings.Split(rawToken, ".")
	if len(segments) < 3 {
		return nil, errors.ErrMalformedToken
	}

	parser := jwtlib.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(rawToken, claims); err == nil {
		return claims, nil
	}

	payload, err := parser.DecodeSegment(segments[1])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedToken, "decode payload: %v", err)
	}
	claims = &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedToken, "unmarshal payload: %v", err)
	}
	return claims, nil
}
