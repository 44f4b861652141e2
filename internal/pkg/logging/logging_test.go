package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logging.ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, logging.ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("verbose"))
}

func TestNew_JSONFormat(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "info", Format: logging.FormatJSON, Output: &buf})

	// Act
	logger.Debug().Msg("hidden")
	logger.Info().Str("component", "test").Msg("visible")

	// Assert
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "admin-console", entry["service"])
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", Format: "console", Output: &buf})

	logger.Debug().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}
