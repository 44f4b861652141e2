// Package config handles application configuration loading and management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server       ServerConfig
	Store        StoreConfig
	Environments EnvironmentsConfig
	Endpoints    EndpointsConfig
	Vault        VaultConfig
	Features     FeaturesConfig
	AdminAPI     AdminAPIConfig
	Log          LogConfig
	// Hostname selects the environment profile. Defaults to CONSOLE_HOST, then HOSTNAME.
	Hostname string
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
	// APIKey protects the console API when set. Empty disables the check.
	APIKey string

	CORSOrigins []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig holds the persisted state backend configuration.
type StoreConfig struct {
	Type          string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDatabase string
	SessionTTL    time.Duration
	Namespace     string
}

// EnvironmentsConfig holds the production and staging environment profiles.
type EnvironmentsConfig struct {
	ProdHosts      []string
	StageHosts     []string
	ProdAPIBase    string
	StageAPIBase   string
	ProdProductID  string
	StageProductID string
}

// EndpointsConfig holds the admin API paths, relative to the environment API base.
type EndpointsConfig struct {
	Login          string
	UserIDByEmail  string
	UserFeatures   string
	Subscription   string
	TokenBalance   string
	UpdateFeatures string
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type             string
	SecretsFile      string
	AdminEmailURI    string
	AdminPasswordURI string
	EncryptionKey    string
}

// FeaturesConfig holds feature presentation configuration.
type FeaturesConfig struct {
	// Options lists the allowed values of option-backed features, keyed by feature.
	Options        map[string][]string
	NonInteractive []string
}

// AdminAPIConfig holds admin API transport configuration.
type AdminAPIConfig struct {
	Timeout time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	options, err := featureOptions()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8086),
			GinMode:     getEnv("GIN_MODE", "debug"),
			APIKey:      getEnv("CONSOLE_API_KEY", ""),
			CORSOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", defaultCORSOrigins),
		},
		Store: StoreConfig{
			Type:          getEnv("STORE_TYPE", "redis"),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "unifiedui"),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 12*time.Hour),
			Namespace:     getEnv("STORE_NAMESPACE", "admin-console"),
		},
		Environments: EnvironmentsConfig{
			ProdHosts:      getEnvAsList("PROD_HOSTS", nil),
			StageHosts:     getEnvAsList("STAGE_HOSTS", nil),
			ProdAPIBase:    getEnv("PROD_API_BASE", ""),
			StageAPIBase:   getEnv("STAGE_API_BASE", ""),
			ProdProductID:  getEnv("PROD_PRODUCT_ID", ""),
			StageProductID: getEnv("STAGE_PRODUCT_ID", ""),
		},
		Endpoints: EndpointsConfig{
			Login:          getEnv("ENDPOINT_LOGIN", "/auth/login"),
			UserIDByEmail:  getEnv("ENDPOINT_USER_ID_BY_EMAIL", "/admin/users/id-by-email"),
			UserFeatures:   getEnv("ENDPOINT_USER_FEATURES", "/admin/users/features"),
			Subscription:   getEnv("ENDPOINT_SUBSCRIPTION", "/admin/subscriptions"),
			TokenBalance:   getEnv("ENDPOINT_TOKEN_BALANCE", "/admin/users/tokens"),
			UpdateFeatures: getEnv("ENDPOINT_UPDATE_FEATURES", "/admin/users/features"),
		},
		Vault: VaultConfig{
			Type:             getEnv("VAULT_TYPE", "dotenv"),
			SecretsFile:      getEnv("SECRETS_FILE", ""),
			AdminEmailURI:    getEnv("ADMIN_EMAIL_URI", "dotenv://ADMIN_EMAIL"),
			AdminPasswordURI: getEnv("ADMIN_PASSWORD_URI", "dotenv://ADMIN_PASSWORD"),
			EncryptionKey:    getEnv("SECRETS_ENCRYPTION_KEY", ""),
		},
		Features: FeaturesConfig{
			Options:        options,
			NonInteractive: getEnvAsList("NON_INTERACTIVE_FEATURES", []string{"UserId"}),
		},
		AdminAPI: AdminAPIConfig{
			Timeout: time.Duration(getEnvAsInt("ADMIN_API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Hostname: getEnv("CONSOLE_HOST", getEnv("HOSTNAME", "")),
	}

	switch cfg.Store.Type {
	case "redis", "mongodb", "memory":
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}

	return cfg, nil
}

// featureOptions reads FEATURE_OPTIONS as a JSON object of option lists and merges the
// FEATURE_CHAT_EXPERIMENT_OPTIONS shorthand into it.
func featureOptions() (map[string][]string, error) {
	options := make(map[string][]string)

	if raw := os.Getenv("FEATURE_OPTIONS"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			return nil, fmt.Errorf("invalid FEATURE_OPTIONS: %w", err)
		}
	}

	if list := getEnvAsList("FEATURE_CHAT_EXPERIMENT_OPTIONS", nil); len(list) > 0 {
		options["FeatureChatExperiment"] = list
	}

	return options, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration syntax ("90m") or a plain number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
