// Package state persists console state in two scopes on top of a store backend.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/admin-console/internal/core/store"
	"github.com/unifiedui/admin-console/internal/pkg/encryption"
)

// Scope partitions persisted keys.
type Scope string

const (
	// ScopeDurable survives restarts: token cache, panel position, collapsed flag.
	ScopeDurable Scope = "durable"
	// ScopeSession is cleared when the operator resets or closes the panel.
	ScopeSession Scope = "session"
)

// Well-known keys.
const (
	KeyAdminToken     = "adminAuthTokenCache"
	KeyPanelPosition  = "adminToolPanelPosition"
	KeyPanelCollapsed = "adminToolPanelCollapsed"
	KeyCurrentUser    = "currentUser"
)

// DefaultSessionTTL bounds how long a loaded user survives an abandoned console.
const DefaultSessionTTL = 12 * time.Hour

// Store is the scoped key-value contract used by the console services.
type Store interface {
	// Get decodes the value under key into dest, which must be a non-nil pointer.
	// It returns false when the key is absent or its content is unreadable; unreadable
	// content is evicted. dest is left untouched unless true is returned.
	Get(ctx context.Context, scope Scope, key string, dest any) (bool, error)

	// Set encodes and stores value under key.
	Set(ctx context.Context, scope Scope, key string, value any) error

	// Remove deletes key.
	Remove(ctx context.Context, scope Scope, key string) error

	// Clear deletes every key in scope.
	Clear(ctx context.Context, scope Scope) error
}

// Config holds the configuration for the state service.
type Config struct {
	Client     store.Client
	Sealer     encryption.Sealer
	SessionTTL time.Duration
	// Namespace prefixes every key so several consoles can share one backend.
	Namespace string
	Logger    *zerolog.Logger
}

// Service implements Store.
type Service struct {
	client     store.Client
	sealer     encryption.Sealer
	sessionTTL time.Duration
	namespace  string
	logger     zerolog.Logger
}

// NewService creates a new state service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("store client is required")
	}

	sealer := cfg.Sealer
	if sealer == nil {
		sealer = encryption.NewPlainSealer()
	}

	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Service{
		client:     cfg.Client,
		sealer:     sealer,
		sessionTTL: ttl,
		namespace:  cfg.Namespace,
		logger:     logger.With().Str("component", "state").Logger(),
	}, nil
}

// Get implements Store.
func (s *Service) Get(ctx context.Context, scope Scope, key string, dest any) (bool, error) {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("destination for %s must be a non-nil pointer", key)
	}

	storageKey := s.BuildKey(scope, key)

	sealed, err := s.client.Get(ctx, storageKey)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", storageKey, err)
	}
	if sealed == nil {
		return false, nil
	}

	plaintext, err := s.sealer.Open(storageKey, string(sealed))
	if err != nil {
		s.evict(ctx, storageKey, err)
		return false, nil
	}

	decoded := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(plaintext, decoded.Interface()); err != nil {
		s.evict(ctx, storageKey, err)
		return false, nil
	}

	target.Elem().Set(decoded.Elem())
	return true, nil
}

// Set implements Store.
func (s *Service) Set(ctx context.Context, scope Scope, key string, value any) error {
	storageKey := s.BuildKey(scope, key)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", storageKey, err)
	}

	sealed, err := s.sealer.Seal(storageKey, data)
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", storageKey, err)
	}

	if err := s.client.Set(ctx, storageKey, []byte(sealed), s.ttlFor(scope)); err != nil {
		return fmt.Errorf("failed to store %s: %w", storageKey, err)
	}
	return nil
}

// Remove implements Store.
func (s *Service) Remove(ctx context.Context, scope Scope, key string) error {
	storageKey := s.BuildKey(scope, key)
	if _, err := s.client.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("failed to remove %s: %w", storageKey, err)
	}
	return nil
}

// Clear implements Store.
func (s *Service) Clear(ctx context.Context, scope Scope) error {
	pattern := s.BuildKey(scope, "*")
	deleted, err := s.client.DeletePattern(ctx, pattern)
	if err != nil {
		return fmt.Errorf("failed to clear %s scope: %w", scope, err)
	}
	s.logger.Debug().Str("scope", string(scope)).Int64("deleted", deleted).Msg("scope cleared")
	return nil
}

// BuildKey generates the backend key for key in scope.
func (s *Service) BuildKey(scope Scope, key string) string {
	if s.namespace != "" {
		return fmt.Sprintf("%s:%s:%s", s.namespace, scope, key)
	}
	return fmt.Sprintf("%s:%s", scope, key)
}

func (s *Service) ttlFor(scope Scope) time.Duration {
	if scope == ScopeSession {
		return s.sessionTTL
	}
	return 0
}

// evict drops unreadable content so the next read sees an absent key.
func (s *Service) evict(ctx context.Context, storageKey string, cause error) {
	s.logger.Warn().Err(cause).Str("key", storageKey).Msg("evicting unreadable state entry")
	if _, err := s.client.Delete(ctx, storageKey); err != nil {
		s.logger.Warn().Err(err).Str("key", storageKey).Msg("failed to evict state entry")
	}
}

// GetOr returns the value under key, or def when it is absent or unreadable.
func GetOr[T any](ctx context.Context, s Store, scope Scope, key string, def T) (T, error) {
	var value T
	found, err := s.Get(ctx, scope, key, &value)
	if err != nil || !found {
		return def, err
	}
	return value, nil
}
