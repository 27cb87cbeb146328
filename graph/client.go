// Package graph reads the signed-in user's profile from Microsoft Graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the Microsoft Graph host
	DefaultBaseURL = "https://graph.microsoft.com"
	apiVersion     = "v1.0"
	maxErrorBody   = 4 << 10
)

// Profile is the /me resource
type Profile struct {
	ID                string   `json:"id,omitempty"`
	DisplayName       string   `json:"displayName,omitempty"`
	UserPrincipalName string   `json:"userPrincipalName,omitempty"`
	Mail              string   `json:"mail,omitempty"`
	GivenName         string   `json:"givenName,omitempty"`
	Surname           string   `json:"surname,omitempty"`
	JobTitle          string   `json:"jobTitle,omitempty"`
	Department        string   `json:"department,omitempty"`
	OfficeLocation    string   `json:"officeLocation,omitempty"`
	MobilePhone       string   `json:"mobilePhone,omitempty"`
	BusinessPhones    []string `json:"businessPhones,omitempty"`
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
}

// TokenInvalidator drops a token Graph has rejected
type TokenInvalidator interface {
	Clear()
}

// Client calls Microsoft Graph
type Client struct {
	baseURL     string
	httpClient  *http.Client
	invalidator TokenInvalidator
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL points the client at another Graph host (national clouds, tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Graph client. invalidator is cleared when Graph rejects the
// token with 401 or 403; it may be nil.
func NewClient(invalidator TokenInvalidator, options ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{},
		invalidator: invalidator,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Me fetches the profile of the user accessToken was issued to
func (c *Client) Me(ctx context.Context, accessToken string) (*Profile, error) {
	url := fmt.Sprintf("%s/%s/me", c.baseURL, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		log.Error().Int("status", resp.StatusCode).Str("body", statusErr.Body).Msg("Graph API error")

		if statusErr.InvalidatesToken() && c.invalidator != nil {
			c.invalidator.Clear()
		}
		return nil, statusErr
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	log.Debug().Str("id", profile.ID).Str("upn", profile.UserPrincipalName).Msg("Fetched Graph profile")
	return &profile, nil
}
