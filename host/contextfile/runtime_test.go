package contextfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/host"
	"github.com/jrsteele09/go-teams-profile/host/contextfile"
	interrors "github.com/jrsteele09/go-teams-profile/internal/errors"
	"github.com/stretchr/testify/require"
)

const webContext = `{
  "app": {"locale": "zh-tw", "host": {"clientType": "web", "name": "Teams"}},
  "user": {
    "id": "aad-1",
    "displayName": "王小明",
    "loginHint": "wang@contoso.com",
    "userPrincipalName": "wang@contoso.com",
    "tenant": {"id": "tenant-1"}
  },
  "userAgent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
}`

const safariUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15"

type dialogFunc func(ctx context.Context, params host.AuthenticateParameters) (string, error)

func (f dialogFunc) Authenticate(ctx context.Context, params host.AuthenticateParameters) (string, error) {
	return f(ctx, params)
}

func writeContext(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "context.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRuntime_Context(t *testing.T) {
	r := contextfile.New(writeContext(t, webContext), nil)
	ctx := context.Background()

	_, err := r.Context(ctx)
	require.ErrorIs(t, err, interrors.ErrNoHostContext)

	require.NoError(t, r.Initialize(ctx))
	hostContext, err := r.Context(ctx)
	require.NoError(t, err)
	require.Equal(t, "web", hostContext.ClientType)
	require.Equal(t, "zh-tw", hostContext.Locale)
	require.Equal(t, host.User{
		ID:                "aad-1",
		AADObjectID:       "aad-1",
		DisplayName:       "王小明",
		Email:             "wang@contoso.com",
		UserPrincipalName: "wang@contoso.com",
		TenantID:          "tenant-1",
	}, hostContext.User)

	environment, detected := host.Detect(ctx, r)
	require.Equal(t, host.EnvironmentTeamsWeb, environment)
	require.Equal(t, hostContext, detected)
}

func TestRuntime_Initialize(t *testing.T) {
	t.Run("no file means no host", func(t *testing.T) {
		err := contextfile.New("", nil).Initialize(context.Background())
		require.ErrorIs(t, err, interrors.ErrHostUnavailable)
	})

	t.Run("missing file", func(t *testing.T) {
		err := contextfile.New(filepath.Join(t.TempDir(), "nope.json"), nil).Initialize(context.Background())
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		err := contextfile.New(writeContext(t, "{"), nil).Initialize(context.Background())
		require.ErrorContains(t, err, "parse Teams context")
	})

	t.Run("sparse context", func(t *testing.T) {
		r := contextfile.New(writeContext(t, `{"app": {"locale": "en-us"}}`), nil)
		require.NoError(t, r.Initialize(context.Background()))
		hostContext, err := r.Context(context.Background())
		require.NoError(t, err)
		require.Empty(t, hostContext.ClientType)
		require.Equal(t, host.User{}, hostContext.User)
	})
}

func TestRuntime_Authenticate(t *testing.T) {
	var shown host.AuthenticateParameters
	dialog := dialogFunc(func(_ context.Context, params host.AuthenticateParameters) (string, error) {
		shown = params
		return "raw-token", nil
	})
	params := host.AuthenticateParameters{URL: "http://localhost/auth.html", Width: 600, Height: 535}

	t.Run("dialog", func(t *testing.T) {
		r := contextfile.New(writeContext(t, webContext), dialog)
		require.NoError(t, r.Initialize(context.Background()))

		raw, err := r.Authenticate(context.Background(), params)
		require.NoError(t, err)
		require.Equal(t, "raw-token", raw)
		require.Equal(t, params, shown)
	})

	t.Run("safari on the web refuses", func(t *testing.T) {
		r := contextfile.New(writeContext(t, webContext), dialog, contextfile.WithUserAgent(safariUA))
		require.NoError(t, r.Initialize(context.Background()))

		_, err := r.Authenticate(context.Background(), params)
		require.Equal(t, auth.KindEmbeddedBrowser, auth.KindOf(err))
	})

	t.Run("no dialog", func(t *testing.T) {
		r := contextfile.New(writeContext(t, webContext), nil)
		require.NoError(t, r.Initialize(context.Background()))

		_, err := r.Authenticate(context.Background(), params)
		require.Equal(t, auth.KindNotSupported, auth.KindOf(err))
	})

	t.Run("sso token unavailable", func(t *testing.T) {
		_, err := contextfile.New("", dialog).AuthToken(context.Background(), true)
		require.Equal(t, auth.KindNotSupported, auth.KindOf(err))
	})
}
