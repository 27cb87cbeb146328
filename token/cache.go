package token

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/jrsteele09/go-teams-profile/sessions"
	"github.com/jrsteele09/go-teams-profile/token/jwt"
	"github.com/rs/zerolog/log"
)

// Session storage keys. All three are written and removed together.
const (
	TokenKey     = "teams-graph-token"
	ExpiresAtKey = "teams-graph-token-exp"
	ClaimsKey    = "teams-graph-token-payload"
)

const (
	defaultExpiryMargin = 60 * time.Second
	defaultLifetime     = 50 * time.Minute
)

// CachedToken is a Graph bearer token with its locally decoded claims
type CachedToken struct {
	Token     string
	ExpiresAt time.Time
	Claims    *jwt.Claims // nil when the token could not be decoded
}

// Cache keeps one Graph access token in session storage
type Cache struct {
	store           sessions.Store
	expiryMargin    time.Duration    // treat the token as expired this long before exp
	defaultLifetime time.Duration    // lifetime assumed when the token has no exp claim
	nowTime         func() time.Time // injectable for testing
}

// CacheOption configures a Cache
type CacheOption func(*Cache)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowTime = nowFunc
	}
}

func WithExpiryMargin(margin time.Duration) CacheOption {
	return func(c *Cache) {
		c.expiryMargin = margin
	}
}

func WithDefaultLifetime(lifetime time.Duration) CacheOption {
	return func(c *Cache) {
		c.defaultLifetime = lifetime
	}
}

// NewCache creates a token cache over store
func NewCache(store sessions.Store, options ...CacheOption) *Cache {
	c := &Cache{
		store:           store,
		expiryMargin:    defaultExpiryMargin,
		defaultLifetime: defaultLifetime,
		nowTime:         time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Get returns the cached token if it is still valid. Stale or unreadable entries are
// cleared and reported as a miss.
func (c *Cache) Get() (*CachedToken, bool) {
	raw, hasToken := c.store.Get(TokenKey)
	expiresAtRaw, hasExpiry := c.store.Get(ExpiresAtKey)
	if !hasToken || raw == "" || !hasExpiry || expiresAtRaw == "" {
		return nil, false
	}

	expiresAtMs, err := strconv.ParseInt(expiresAtRaw, 10, 64)
	if err != nil {
		log.Warn().Str("expires_at", expiresAtRaw).Msg("Unreadable token expiry, clearing cache")
		c.Clear()
		return nil, false
	}

	expiresAt := time.UnixMilli(expiresAtMs)
	if !c.nowTime().Before(expiresAt.Add(-c.expiryMargin)) {
		log.Debug().Time("expires_at", expiresAt).Msg("Cached Graph token expired")
		c.Clear()
		return nil, false
	}

	cached := &CachedToken{Token: raw, ExpiresAt: expiresAt}
	if claimsRaw, ok := c.store.Get(ClaimsKey); ok && claimsRaw != "" {
		claims := &jwt.Claims{}
		if err := json.Unmarshal([]byte(claimsRaw), claims); err != nil {
			log.Err(err).Msg("Unreadable cached token claims")
		} else {
			cached.Claims = claims
		}
	}
	return cached, true
}

// Put caches rawToken. Claims are decoded best effort; a token that cannot be decoded
// is still cached, without claims and with the default lifetime.
func (c *Cache) Put(rawToken string) *CachedToken {
	claims, err := jwt.DecodeClaims(rawToken)
	if err != nil {
		log.Debug().Err(err).Msg("Graph token is not a readable JWT")
	}

	expiresAt := claims.Expiry()
	if expiresAt.IsZero() {
		expiresAt = c.nowTime().Add(c.defaultLifetime)
	}

	cached := &CachedToken{Token: rawToken, ExpiresAt: expiresAt, Claims: claims}

	if err := c.store.Set(TokenKey, rawToken); err != nil {
		log.Err(err).Msg("Failed to cache Graph token")
		return cached
	}
	if err := c.store.Set(ExpiresAtKey, strconv.FormatInt(expiresAt.UnixMilli(), 10)); err != nil {
		log.Err(err).Msg("Failed to cache Graph token expiry")
		c.store.Remove(TokenKey)
		return cached
	}

	c.store.Remove(ClaimsKey)
	if claims != nil {
		payload, err := json.Marshal(claims.WithoutExpiry())
		if err == nil {
			err = c.store.Set(ClaimsKey, string(payload))
		}
		if err != nil {
			log.Err(err).Msg("Failed to cache Graph token claims")
		}
	}

	log.Debug().Time("expires_at", expiresAt).Bool("claims", claims != nil).Msg("Cached Graph token")
	return cached
}

// Clear removes the token, its expiry and its claims
func (c *Cache) Clear() {
	c.store.Remove(TokenKey)
	c.store.Remove(ExpiresAtKey)
	c.store.Remove(ClaimsKey)
}
