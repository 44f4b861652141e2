// Package token caches the administrative bearer token.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/unifiedui/admin-console/internal/core/vault"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/state"
)

// Authenticator exchanges administrative credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, creds vault.Credentials) (string, error)
}

// Provider hands out a valid bearer token.
type Provider interface {
	GetToken(ctx context.Context) (string, error)
}

// Config holds the configuration for the token cache.
type Config struct {
	Store         state.Store
	Authenticator Authenticator
	Vault         vault.Vault
	EmailURI      string
	PasswordURI   string
	// TTL is how long a fresh token is trusted. Defaults to models.AdminSessionTTL.
	TTL    time.Duration
	Now    func() time.Time
	Logger *zerolog.Logger
}

// Cache implements Provider on top of the durable state scope.
type Cache struct {
	store       state.Store
	auth        Authenticator
	vault       vault.Vault
	emailURI    string
	passwordURI string
	ttl         time.Duration
	now         func() time.Time
	logger      zerolog.Logger
	group       singleflight.Group
}

// NewCache creates a new token cache.
func NewCache(cfg *Config) (*Cache, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("state store is required")
	}
	if cfg.Authenticator == nil {
		return nil, fmt.Errorf("authenticator is required")
	}
	if cfg.Vault == nil {
		return nil, fmt.Errorf("vault is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = models.AdminSessionTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Cache{
		store:       cfg.Store,
		auth:        cfg.Authenticator,
		vault:       cfg.Vault,
		emailURI:    cfg.EmailURI,
		passwordURI: cfg.PasswordURI,
		ttl:         ttl,
		now:         now,
		logger:      logger.With().Str("component", "token").Logger(),
	}, nil
}

// GetToken returns the cached token while it is valid and logs in otherwise.
// Concurrent misses share a single login. The shared login is detached from the caller
// that started it, so each caller only stops waiting when its own ctx is done.
func (c *Cache) GetToken(ctx context.Context) (string, error) {
	if session, ok := c.cached(ctx); ok {
		return session.Token, nil
	}

	loginCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(state.KeyAdminToken, func() (any, error) {
		return c.refresh(loginCtx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.Debug().Msg("joined in-flight admin login")
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached token so the next call logs in again.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.store.Remove(ctx, state.ScopeDurable, state.KeyAdminToken)
}

func (c *Cache) cached(ctx context.Context) (*models.AdminSession, bool) {
	var session models.AdminSession
	found, err := c.store.Get(ctx, state.ScopeDurable, state.KeyAdminToken, &session)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read cached admin token")
		return nil, false
	}
	if !found || !session.ValidAt(c.now()) {
		return nil, false
	}
	return &session, true
}

func (c *Cache) refresh(ctx context.Context) (string, error) {
	// A caller that finished refreshing just before this one started has already stored a token.
	if session, ok := c.cached(ctx); ok {
		return session.Token, nil
	}

	creds, err := vault.LoadCredentials(ctx, c.vault, c.emailURI, c.passwordURI)
	if err != nil {
		return "", err
	}

	token, err := c.auth.Login(ctx, creds)
	if err != nil {
		c.logger.Warn().Err(err).Msg("admin login failed")
		return "", err
	}

	session := models.NewAdminSession(token, c.now(), c.ttl)
	if err := c.store.Set(ctx, state.ScopeDurable, state.KeyAdminToken, session); err != nil {
		c.logger.Warn().Err(err).Msg("failed to persist admin token")
	}

	event := c.logger.Info().Time("expires_at", session.ExpiresAt)
	if exp, ok := upstreamExpiry(token); ok {
		event = event.Time("upstream_expires_at", exp)
	}
	event.Msg("admin token refreshed")

	return token, nil
}

// upstreamExpiry reads the exp claim when the token is a JWT. The signature is not checked.
func upstreamExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
