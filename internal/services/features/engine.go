// Package features applies operator mutations to the loaded user's entitlements.
package features

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/token"
)

// DefaultNonInteractive lists the features that are never editable.
var DefaultNonInteractive = []string{"UserId"}

// Mutator writes entitlements through the admin API.
type Mutator interface {
	GrantSubscription(ctx context.Context, token, userID, productID string) error
	UpdateTokenBalance(ctx context.Context, token, userID string, amount int) error
	UpdateUserFeatures(ctx context.Context, token, userID string, features map[string]models.FeatureValue) error
}

// Session is the record holder feature values are committed into.
type Session interface {
	Feature(userID, key string) (models.FeatureValue, bool)
	Commit(ctx context.Context, userID, key string, value models.FeatureValue) (bool, error)
}

// PendingMutation is a feature write that has not been confirmed by the server yet.
type PendingMutation struct {
	Key      string
	Previous models.FeatureValue
	Proposed models.FeatureValue
}

// Config holds the configuration for the engine.
type Config struct {
	API     Mutator
	Tokens  token.Provider
	Session Session
	Profile models.EnvironmentProfile
	// NonInteractive features are displayed read-only. Defaults to DefaultNonInteractive.
	NonInteractive []string
	// Options lists the allowed values of option-backed text features, keyed by feature.
	Options map[string][]string
	Logger  *zerolog.Logger
}

// Engine implements subscription, token balance and feature mutations.
type Engine struct {
	api            Mutator
	tokens         token.Provider
	session        Session
	profile        models.EnvironmentProfile
	nonInteractive []string
	options        map[string][]string
	logger         zerolog.Logger
}

// NewEngine creates a new feature sync engine.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.API == nil {
		return nil, fmt.Errorf("admin api is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token provider is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}

	nonInteractive := cfg.NonInteractive
	if nonInteractive == nil {
		nonInteractive = DefaultNonInteractive
	}

	options := make(map[string][]string, len(cfg.Options))
	for k, v := range cfg.Options {
		options[k] = slices.Clone(v)
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Engine{
		api:            cfg.API,
		tokens:         cfg.Tokens,
		session:        cfg.Session,
		profile:        cfg.Profile,
		nonInteractive: slices.Clone(nonInteractive),
		options:        options,
		logger:         logger.With().Str("component", "features").Logger(),
	}, nil
}

// Profile returns the environment the engine writes to.
func (e *Engine) Profile() models.EnvironmentProfile {
	return e.profile
}

// IsInteractive reports whether key may be edited.
func (e *Engine) IsInteractive(key string) bool {
	return !slices.Contains(e.nonInteractive, key)
}

// Options returns the allowed values of key, or nil when key is free-form.
func (e *Engine) Options(key string) []string {
	return slices.Clone(e.options[key])
}

// GrantSubscription grants the environment's product to userID.
func (e *Engine) GrantSubscription(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if !e.profile.SupportsSubscriptions() {
		return domainerrors.NewConfigurationError("unsupported domain", e.profile.Name)
	}

	bearer, err := e.tokens.GetToken(ctx)
	if err != nil {
		return err
	}
	if err := e.api.GrantSubscription(ctx, bearer, userID, e.profile.ProductID); err != nil {
		return err
	}

	e.logger.Info().Str("user_id", userID).Str("product_id", e.profile.ProductID).Msg("subscription granted")
	return nil
}

// UpdateTokenBalance sets the balance from operator text. Text without a leading integer
// and negative amounts are ignored: applied is false and no request is made.
func (e *Engine) UpdateTokenBalance(ctx context.Context, userID, amountInput string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}

	amount, ok, err := ParseAmount(amountInput)
	if err != nil {
		return false, err
	}
	if !ok || amount < 0 {
		e.logger.Debug().Str("input", amountInput).Msg("token amount ignored")
		return false, nil
	}

	bearer, err := e.tokens.GetToken(ctx)
	if err != nil {
		return false, err
	}
	if err := e.api.UpdateTokenBalance(ctx, bearer, userID, amount); err != nil {
		return false, err
	}

	e.logger.Info().Str("user_id", userID).Int("amount", amount).Msg("token balance updated")
	return true, nil
}

// SetFeature writes proposed under key after coercing it to the current value's type.
// The loaded record changes only after the server accepts the write.
func (e *Engine) SetFeature(ctx context.Context, userID, key string, proposed models.FeatureValue) (models.FeatureValue, error) {
	if err := e.checkEditable(userID, key); err != nil {
		return models.FeatureValue{}, err
	}

	current, _ := e.session.Feature(userID, key)
	coerced, err := Coerce(current, proposed)
	if err != nil {
		return models.FeatureValue{}, err
	}

	return e.apply(ctx, userID, PendingMutation{Key: key, Previous: current, Proposed: coerced})
}

// ToggleFeature writes the negation of the current value's truthiness.
func (e *Engine) ToggleFeature(ctx context.Context, userID, key string) (models.FeatureValue, error) {
	if err := e.checkEditable(userID, key); err != nil {
		return models.FeatureValue{}, err
	}

	current, _ := e.session.Feature(userID, key)
	return e.apply(ctx, userID, PendingMutation{Key: key, Previous: current, Proposed: models.Bool(!current.Truthy())})
}

// SetFeatureFromOption writes one of the configured options of key.
func (e *Engine) SetFeatureFromOption(ctx context.Context, userID, key, option string) (models.FeatureValue, error) {
	allowed, ok := e.options[key]
	if !ok {
		return models.FeatureValue{}, domainerrors.NewValidationError("feature has no options", key)
	}
	if !slices.Contains(allowed, option) {
		return models.FeatureValue{}, domainerrors.NewValidationError("unknown option", option)
	}
	return e.SetFeature(ctx, userID, key, models.Text(option))
}

func (e *Engine) apply(ctx context.Context, userID string, m PendingMutation) (models.FeatureValue, error) {
	bearer, err := e.tokens.GetToken(ctx)
	if err != nil {
		return models.FeatureValue{}, err
	}

	if err := e.api.UpdateUserFeatures(ctx, bearer, userID, map[string]models.FeatureValue{m.Key: m.Proposed}); err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Str("key", m.Key).Msg("feature update rejected")
		return models.FeatureValue{}, err
	}

	applied, err := e.session.Commit(ctx, userID, m.Key, m.Proposed)
	if err != nil {
		// The server already holds the value; a persistence failure only affects restore.
		e.logger.Warn().Err(err).Str("key", m.Key).Msg("failed to persist committed feature")
	}

	e.logger.Info().
		Str("user_id", userID).
		Str("key", m.Key).
		Str("previous", m.Previous.String()).
		Str("value", m.Proposed.String()).
		Bool("committed", applied).
		Msg("feature updated")

	return m.Proposed, nil
}

func (e *Engine) checkEditable(userID, key string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if key == "" {
		return domainerrors.NewValidationError("feature key is required", "")
	}
	if !e.IsInteractive(key) {
		return domainerrors.NewValidationError("feature is read-only", key)
	}
	return nil
}

func requireUser(userID string) error {
	if userID == "" {
		return domainerrors.NewValidationError("no user loaded", "find a user first")
	}
	return nil
}
