package identity

import (
	"context"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	"github.com/jrsteele09/go-teams-profile/sessions"
	"github.com/rs/zerolog/log"
)

// CacheKey is the session storage key of the serialized MSAL cache
const CacheKey = "msal.token.cache"

var _ cache.ExportReplace = (*CacheAccessor)(nil)

// CacheAccessor persists MSAL's token cache in session storage, so accounts and
// refresh tokens live as long as the session
type CacheAccessor struct {
	store sessions.Store
}

func NewCacheAccessor(store sessions.Store) *CacheAccessor {
	return &CacheAccessor{store: store}
}

// Replace loads the stored cache into MSAL
func (a *CacheAccessor) Replace(_ context.Context, c cache.Unmarshaler, _ cache.ReplaceHints) error {
	data, ok := a.store.Get(CacheKey)
	if !ok || data == "" {
		return nil
	}
	if err := c.Unmarshal([]byte(data)); err != nil {
		log.Err(err).Msg("Discarding unreadable MSAL cache")
		a.store.Remove(CacheKey)
	}
	return nil
}

// Export stores MSAL's cache after it changed
func (a *CacheAccessor) Export(_ context.Context, c cache.Marshaler, _ cache.ExportHints) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return a.store.Set(CacheKey, string(data))
}
