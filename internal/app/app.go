// Package app wires the console services from configuration. The HTTP server and the CLI
// share it so both drive the same persisted session.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/unifiedui/admin-console/internal/config"
	"github.com/unifiedui/admin-console/internal/core/store"
	"github.com/unifiedui/admin-console/internal/core/vault"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/infrastructure/store/memory"
	"github.com/unifiedui/admin-console/internal/infrastructure/store/mongodb"
	redisstore "github.com/unifiedui/admin-console/internal/infrastructure/store/redis"
	dotenvvault "github.com/unifiedui/admin-console/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/admin-console/internal/pkg/encryption"
	"github.com/unifiedui/admin-console/internal/services/adminapi"
	"github.com/unifiedui/admin-console/internal/services/console"
	"github.com/unifiedui/admin-console/internal/services/environment"
	"github.com/unifiedui/admin-console/internal/services/features"
	"github.com/unifiedui/admin-console/internal/services/resolver"
	"github.com/unifiedui/admin-console/internal/services/session"
	"github.com/unifiedui/admin-console/internal/services/state"
	"github.com/unifiedui/admin-console/internal/services/token"
)

// App holds the wired console services.
type App struct {
	Config  *config.Config
	Profile models.EnvironmentProfile
	Store   store.Client
	Vault   vault.Vault
	State   *state.Service
	Tokens  *token.Cache
	Session *session.Context
	Engine  *features.Engine
	Console *console.Console

	logger zerolog.Logger
}

// Options overrides pieces of the wiring, mostly for tests.
type Options struct {
	// Store replaces the backend selected by cfg.Store.Type.
	Store store.Client
	// HTTPClient replaces the admin API transport.
	HTTPClient adminapi.Doer
}

// New builds the console from cfg and restores the session saved by a previous run.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	profile := environment.NewRouter(environment.Config{
		ProdHosts:      cfg.Environments.ProdHosts,
		StageHosts:     cfg.Environments.StageHosts,
		ProdAPIBase:    cfg.Environments.ProdAPIBase,
		StageAPIBase:   cfg.Environments.StageAPIBase,
		ProdProductID:  cfg.Environments.ProdProductID,
		StageProductID: cfg.Environments.StageProductID,
	}).Resolve(cfg.Hostname)

	logger.Info().
		Str("environment", profile.Name).
		Str("api_base", profile.APIBase).
		Bool("subscriptions", profile.SupportsSubscriptions()).
		Msg("environment selected")

	storeClient := opts.Store
	if storeClient == nil {
		var err error
		storeClient, err = NewStore(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
	}

	a := &App{
		Config:  cfg,
		Profile: profile,
		Store:   storeClient,
		logger:  logger,
	}

	if err := a.wire(ctx, opts); err != nil {
		_ = a.Close()
		return nil, err
	}

	if result := a.Console.Dispatch(ctx, console.RestoreSession{}); !result.OK {
		logger.Warn().Str("message", result.Message).Msg("failed to restore console session")
	}

	return a, nil
}

func (a *App) wire(ctx context.Context, opts Options) error {
	cfg := a.Config
	logger := a.logger

	sealer, err := NewSealer(cfg.Vault.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize sealer: %w", err)
	}
	if cfg.Vault.EncryptionKey == "" {
		logger.Warn().Msg("SECRETS_ENCRYPTION_KEY not set, persisted state is stored unencrypted")
	}

	a.State, err = state.NewService(&state.Config{
		Client:     a.Store,
		Sealer:     sealer,
		SessionTTL: cfg.Store.SessionTTL,
		Namespace:  cfg.Store.Namespace,
		Logger:     &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}

	a.Vault, err = NewVault(cfg.Vault)
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}

	api, err := adminapi.NewClient(&adminapi.ClientConfig{
		APIBase: a.Profile.APIBase,
		Endpoints: adminapi.Endpoints{
			Login:          cfg.Endpoints.Login,
			UserIDByEmail:  cfg.Endpoints.UserIDByEmail,
			UserFeatures:   cfg.Endpoints.UserFeatures,
			Subscription:   cfg.Endpoints.Subscription,
			TokenBalance:   cfg.Endpoints.TokenBalance,
			UpdateFeatures: cfg.Endpoints.UpdateFeatures,
		},
		HTTPClient: opts.HTTPClient,
		Timeout:    cfg.AdminAPI.Timeout,
		Logger:     &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize admin api client for %s: %w", a.Profile.Name, err)
	}

	a.Tokens, err = token.NewCache(&token.Config{
		Store:         a.State,
		Authenticator: api,
		Vault:         a.Vault,
		EmailURI:      cfg.Vault.AdminEmailURI,
		PasswordURI:   cfg.Vault.AdminPasswordURI,
		Logger:        &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token cache: %w", err)
	}

	userResolver, err := resolver.NewResolver(&resolver.Config{
		Directory: api,
		Tokens:    a.Tokens,
		Logger:    &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize user resolver: %w", err)
	}

	a.Session, err = session.NewContext(&session.Config{Store: a.State, Logger: &logger})
	if err != nil {
		return fmt.Errorf("failed to initialize session context: %w", err)
	}

	a.Engine, err = features.NewEngine(&features.Config{
		API:            api,
		Tokens:         a.Tokens,
		Session:        a.Session,
		Profile:        a.Profile,
		NonInteractive: cfg.Features.NonInteractive,
		Options:        cfg.Features.Options,
		Logger:         &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize feature engine: %w", err)
	}

	a.Console, err = console.New(&console.Config{
		Resolver: userResolver,
		Engine:   a.Engine,
		Session:  a.Session,
		Tokens:   a.Tokens,
		Logger:   &logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize console: %w", err)
	}

	return nil
}

// Close releases the store and vault.
func (a *App) Close() error {
	if a.Vault != nil {
		_ = a.Vault.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// NewStore creates the state backend selected by cfg.Type.
func NewStore(ctx context.Context, cfg config.StoreConfig) (store.Client, error) {
	switch store.Type(cfg.Type) {
	case store.TypeRedis:
		return redisstore.NewStore(redisstore.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case store.TypeMongoDB:
		return mongodb.NewStore(ctx, &mongodb.Config{
			URI:          cfg.MongoURI,
			DatabaseName: cfg.MongoDatabase,
		})
	case store.TypeMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// NewSealer returns an AES sealer for key, or a plain sealer when no key is configured.
func NewSealer(key string) (encryption.Sealer, error) {
	if key == "" {
		return encryption.NewPlainSealer(), nil
	}
	return encryption.NewAESSealer(key)
}

// NewVault creates the secret vault selected by cfg.Type.
func NewVault(cfg config.VaultConfig) (vault.Vault, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv:
		if cfg.SecretsFile != "" {
			return dotenvvault.NewVault(cfg.SecretsFile)
		}
		return dotenvvault.NewVault()
	default:
		return nil, fmt.Errorf("unsupported vault type: %s", cfg.Type)
	}
}
