// Package testutil provides shared test fixtures.
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/core/vault"
	"github.com/unifiedui/admin-console/internal/services/adminapi"
	"github.com/unifiedui/admin-console/internal/twin"
)

// Admin credentials accepted by the twin returned from NewAdminTwin.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "correct-horse"
	APIBasePath   = "/api"
)

// AdminTwin is a running fake admin API.
type AdminTwin struct {
	*twin.Server
	// APIBase is the URL to configure the admin API client with.
	APIBase string
}

// Credentials returns the credentials accepted by the twin.
func (a *AdminTwin) Credentials() vault.Credentials {
	return vault.Credentials{Email: AdminEmail, Password: AdminPassword}
}

// NewAdminTwin starts a twin on an httptest server that is closed with the test.
func NewAdminTwin(t *testing.T) *AdminTwin {
	t.Helper()

	logger := zerolog.Nop()
	srv, err := twin.NewServer(&twin.Config{
		AdminEmail:    AdminEmail,
		AdminPassword: AdminPassword,
		BasePath:      APIBasePath,
		Logger:        &logger,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &AdminTwin{Server: srv, APIBase: ts.URL + APIBasePath}
}

// NewAdminClient creates an admin API client for apiBase with logging disabled.
func NewAdminClient(t *testing.T, apiBase string) *adminapi.Client {
	t.Helper()

	logger := zerolog.Nop()
	client, err := adminapi.NewClient(&adminapi.ClientConfig{APIBase: apiBase, Logger: &logger})
	require.NoError(t, err)
	return client
}
