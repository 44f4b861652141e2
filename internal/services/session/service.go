// Package session holds the console's single session context: the loaded user and panel state.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/state"
)

// Config holds the configuration for the session context.
type Config struct {
	Store  state.Store
	Logger *zerolog.Logger
}

// Context owns the user record currently shown by the console. At most one record exists;
// resolution installs it, feature commits mutate it, reset and close destroy it.
type Context struct {
	store  state.Store
	logger zerolog.Logger

	mu         sync.RWMutex
	user       *models.UserRecord
	lastEdited models.SearchField

	// persistMu orders writes of the record so the last write carries the newest snapshot.
	persistMu sync.Mutex
}

// NewContext creates an empty session context.
func NewContext(cfg *Config) (*Context, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("state store is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Context{
		store:  cfg.Store,
		logger: logger.With().Str("component", "session").Logger(),
	}, nil
}

// Current returns a copy of the loaded user, or nil.
func (c *Context) Current() *models.UserRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.Clone()
}

// Feature returns the current value of key for userID. ok is false when userID is not the
// loaded user or the key is unknown.
func (c *Context) Feature(userID, key string) (models.FeatureValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil || c.user.ID != userID {
		return models.FeatureValue{}, false
	}
	return c.user.Feature(key)
}

// Install replaces the loaded user with record and persists it to the session scope.
func (c *Context) Install(ctx context.Context, record *models.UserRecord) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}

	c.mu.Lock()
	c.user = record.Clone()
	c.mu.Unlock()

	c.logger.Debug().Str("user_id", record.ID).Msg("user installed")
	return c.persist(ctx)
}

// Commit writes value under key if userID is still the loaded user and persists the record.
// It reports whether the commit applied. Commits to the same key are last-writer-wins.
func (c *Context) Commit(ctx context.Context, userID, key string, value models.FeatureValue) (bool, error) {
	c.mu.Lock()
	if c.user == nil || c.user.ID != userID {
		c.mu.Unlock()
		c.logger.Debug().Str("user_id", userID).Str("key", key).Msg("commit skipped, user no longer loaded")
		return false, nil
	}
	c.user.Features[key] = value
	c.mu.Unlock()

	return true, c.persist(ctx)
}

// Reset destroys the loaded user and forgets the search hint.
func (c *Context) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.lastEdited = models.SearchFieldNone
	c.mu.Unlock()

	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	return c.store.Remove(ctx, state.ScopeSession, state.KeyCurrentUser)
}

// Close resets the context and clears the whole session scope.
func (c *Context) Close(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.lastEdited = models.SearchFieldNone
	c.mu.Unlock()

	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	return c.store.Clear(ctx, state.ScopeSession)
}

// Restore reloads the user persisted in the session scope. It reports whether a user was found.
func (c *Context) Restore(ctx context.Context) (bool, error) {
	var record models.UserRecord
	found, err := c.store.Get(ctx, state.ScopeSession, state.KeyCurrentUser, &record)
	if err != nil || !found {
		return false, err
	}
	if record.Features == nil {
		record.Features = make(map[string]models.FeatureValue)
	}

	c.mu.Lock()
	c.user = &record
	c.mu.Unlock()

	c.logger.Info().Str("user_id", record.ID).Msg("user restored from session")
	return true, nil
}

// SetLastEdited records which search input the operator typed into last.
func (c *Context) SetLastEdited(field models.SearchField) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastEdited = field
}

// LastEdited returns the search input the operator typed into last.
func (c *Context) LastEdited() models.SearchField {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastEdited
}

// PanelState returns the persisted panel position and collapsed flag plus the search hint.
// Unreadable values read as absent.
func (c *Context) PanelState(ctx context.Context) (models.PanelState, error) {
	panel := models.PanelState{LastEditedField: c.LastEdited()}

	var pos models.Position
	found, err := c.store.Get(ctx, state.ScopeDurable, state.KeyPanelPosition, &pos)
	if err != nil {
		return panel, err
	}
	if found {
		panel.Position = &pos
	}

	panel.Collapsed, err = state.GetOr(ctx, c.store, state.ScopeDurable, state.KeyPanelCollapsed, false)
	return panel, err
}

// SetPosition persists the panel position.
func (c *Context) SetPosition(ctx context.Context, pos models.Position) error {
	return c.store.Set(ctx, state.ScopeDurable, state.KeyPanelPosition, pos)
}

// SetCollapsed persists the collapsed flag.
func (c *Context) SetCollapsed(ctx context.Context, collapsed bool) error {
	return c.store.Set(ctx, state.ScopeDurable, state.KeyPanelCollapsed, collapsed)
}

func (c *Context) persist(ctx context.Context) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	snapshot := c.Current()
	if snapshot == nil {
		return nil
	}
	if err := c.store.Set(ctx, state.ScopeSession, state.KeyCurrentUser, snapshot); err != nil {
		return fmt.Errorf("failed to persist current user: %w", err)
	}
	return nil
}
