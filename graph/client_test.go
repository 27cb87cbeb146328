package graph_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-teams-profile/graph"
	"github.com/jrsteele09/go-teams-profile/internal/testutil"
	"github.com/jrsteele09/go-teams-profile/sessions"
	"github.com/jrsteele09/go-teams-profile/token"
	"github.com/stretchr/testify/require"
)

const meJSON = `{
	"id": "user-1",
	"displayName": "王小明",
	"userPrincipalName": "wang@example.com",
	"mail": "wang@example.com",
	"givenName": "小明",
	"surname": "王",
	"jobTitle": "Engineer",
	"businessPhones": ["+886 2 1234 5678"],
	"preferredLanguage": "zh-TW",
	"mobilePhone": null
}`

func newGraphServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.0/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"InvalidAuthenticationToken"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Me(t *testing.T) {
	srv := newGraphServer(t, http.StatusOK, meJSON)
	client := graph.NewClient(nil, graph.WithBaseURL(srv.URL+"/"))

	profile, err := client.Me(context.Background(), "good-token")
	require.NoError(t, err)
	require.Equal(t, "user-1", profile.ID)
	require.Equal(t, "王小明", profile.DisplayName)
	require.Equal(t, "小明", profile.GivenName)
	require.Equal(t, []string{"+886 2 1234 5678"}, profile.BusinessPhones)
	require.Empty(t, profile.MobilePhone)
}

func TestClient_Me_Unauthorised(t *testing.T) {
	srv := newGraphServer(t, http.StatusOK, meJSON)

	cache := token.NewCache(sessions.NewMemoryStore())
	cache.Put(testutil.AccessTokenExpiring(t, "tenant-1", time.Now().Add(time.Hour)))
	_, ok := cache.Get()
	require.True(t, ok)

	client := graph.NewClient(cache, graph.WithBaseURL(srv.URL))
	_, err := client.Me(context.Background(), "revoked-token")
	require.Error(t, err)

	var statusErr *graph.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	require.ErrorIs(t, err, graph.ErrUnauthorised)
	require.Equal(t, "graph API error: 401", err.Error())

	_, ok = cache.Get()
	require.False(t, ok, "a rejected token must not be served again")
}

func TestClient_Me_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		sentinel   error
		clearCache bool
	}{
		{name: "forbidden", status: http.StatusForbidden, sentinel: graph.ErrForbidden, clearCache: true},
		{name: "not found", status: http.StatusNotFound, sentinel: graph.ErrNotFound},
		{name: "throttled", status: http.StatusTooManyRequests, sentinel: graph.ErrRateLimited},
		{name: "server error", status: http.StatusServiceUnavailable, sentinel: graph.ErrServerError},
		{name: "teapot", status: http.StatusTeapot, sentinel: graph.ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGraphServer(t, tt.status, `{}`)
			cache := token.NewCache(sessions.NewMemoryStore())
			cache.Put("opaque-token")

			_, err := graph.NewClient(cache, graph.WithBaseURL(srv.URL)).Me(context.Background(), "good-token")
			require.ErrorIs(t, err, tt.sentinel)

			_, ok := cache.Get()
			require.Equal(t, !tt.clearCache, ok)
		})
	}
}

func TestClient_Me_BadJSON(t *testing.T) {
	srv := newGraphServer(t, http.StatusOK, `{not json`)

	_, err := graph.NewClient(nil, graph.WithBaseURL(srv.URL)).Me(context.Background(), "good-token")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode profile")
}
