package testutil

import (
	"testing"
	"time"

	"github.com/unifiedui/admin-console/internal/config"
)

// ConsoleHost is the hostname ConsoleConfig maps to the production profile.
const ConsoleHost = "console.example.com"

// ConsoleConfig returns a configuration that drives apiBase as production with an
// in-memory store. The admin credentials are exposed through the environment for the
// dotenv vault.
func ConsoleConfig(t *testing.T, apiBase string) *config.Config {
	t.Helper()

	t.Setenv("CONSOLE_TEST_ADMIN_EMAIL", AdminEmail)
	t.Setenv("CONSOLE_TEST_ADMIN_PASSWORD", AdminPassword)

	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, GinMode: "test"},
		Store: config.StoreConfig{
			Type:       "memory",
			SessionTTL: time.Hour,
			Namespace:  "test",
		},
		Environments: config.EnvironmentsConfig{
			ProdHosts:     []string{ConsoleHost},
			ProdAPIBase:   apiBase,
			ProdProductID: "prod-product",
		},
		Vault: config.VaultConfig{
			Type:             "dotenv",
			AdminEmailURI:    "dotenv://CONSOLE_TEST_ADMIN_EMAIL",
			AdminPasswordURI: "dotenv://CONSOLE_TEST_ADMIN_PASSWORD",
		},
		Features: config.FeaturesConfig{
			Options:        map[string][]string{"FeatureChatExperiment": {"test_group_a", "test_group_b"}},
			NonInteractive: []string{"UserId"},
		},
		AdminAPI: config.AdminAPIConfig{Timeout: 5 * time.Second},
		Log:      config.LogConfig{Level: "disabled", Format: "json"},
		Hostname: ConsoleHost,
	}
}
