package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/app"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/infrastructure/store/memory"
	"github.com/unifiedui/admin-console/internal/testutil"
)

type cliHarness struct {
	fake  *testutil.AdminTwin
	open  opener
	opens int
}

// newHarness returns an opener that builds a fresh console per invocation over one shared
// store, the way separate CLI runs share redis.
func newHarness(t *testing.T) *cliHarness {
	t.Helper()

	h := &cliHarness{fake: testutil.NewAdminTwin(t)}
	cfg := testutil.ConsoleConfig(t, h.fake.APIBase)
	shared := memory.NewStore()

	h.open = func(ctx context.Context, verbose bool) (*app.App, error) {
		h.opens++
		return app.New(ctx, cfg, zerolog.Nop(), app.Options{Store: shared})
	}
	return h
}

func (h *cliHarness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCommand(h.open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_FindThenShowAcrossInvocations(t *testing.T) {
	// Arrange
	h := newHarness(t)
	user := h.fake.Store.AddUser("user@example.com", map[string]models.FeatureValue{
		"Beta":  models.Bool(true),
		"Limit": models.Number(3),
	})

	// Act
	found, err := h.run(t, "find", "--email", "user@example.com")
	require.NoError(t, err, found)
	shown, err := h.run(t, "show")
	require.NoError(t, err, shown)

	// Assert
	assert.Contains(t, found, "✅ Loaded user "+user.ID)
	assert.Contains(t, shown, "User "+user.ID+" <user@example.com>")
	assert.Contains(t, shown, "Beta")
	assert.Contains(t, shown, "toggle")
	assert.NotContains(t, shown, "UserId")
	assert.Equal(t, 2, h.opens)
}

func TestCLI_ToggleAndSet(t *testing.T) {
	h := newHarness(t)
	user := h.fake.Store.AddUser("user@example.com", map[string]models.FeatureValue{
		"Beta":  models.Bool(true),
		"Limit": models.Number(3),
	})
	_, err := h.run(t, "find", "--id", user.ID)
	require.NoError(t, err)

	toggled, err := h.run(t, "toggle", "Beta")
	require.NoError(t, err, toggled)
	set, err := h.run(t, "set", "Limit", "10")
	require.NoError(t, err, set)

	assert.Contains(t, toggled, "toggle-feature = false")
	stored, _ := h.fake.Store.Get(user.ID)
	assert.Equal(t, models.Bool(false), stored.Features["Beta"])
	assert.Equal(t, models.Number(10), stored.Features["Limit"])
}

func TestCLI_SetJSONValue(t *testing.T) {
	h := newHarness(t)
	user := h.fake.Store.AddUser("user@example.com", map[string]models.FeatureValue{
		"Beta": models.Bool(false),
	})
	_, err := h.run(t, "find", "--id", user.ID)
	require.NoError(t, err)

	_, err = h.run(t, "set", "--json", "Beta", "true")
	require.NoError(t, err)

	stored, _ := h.fake.Store.Get(user.ID)
	assert.Equal(t, models.Bool(true), stored.Features["Beta"])
}

func TestCLI_FailureIsReported(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "find", "--email", "nobody@example.com")

	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "❌ Error:")
	assert.Contains(t, out, "No user loaded")
}

func TestCLI_MutationWithoutUser(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "tokens", "100")

	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "❌ no user loaded")
	assert.Equal(t, 0, h.fake.TotalRequests())
}

func TestCLI_OptionsListAndChoose(t *testing.T) {
	h := newHarness(t)
	user := h.fake.Store.AddUser("user@example.com", map[string]models.FeatureValue{
		"FeatureChatExperiment": models.Text("test_group_a"),
	})
	_, err := h.run(t, "find", "--id", user.ID)
	require.NoError(t, err)

	listed, err := h.run(t, "options", "FeatureChatExperiment")
	require.NoError(t, err)
	_, err = h.run(t, "options", "FeatureChatExperiment", "test_group_b")
	require.NoError(t, err)

	assert.Contains(t, listed, "test_group_b")
	assert.Contains(t, listed, "(group b)")
	stored, _ := h.fake.Store.Get(user.ID)
	assert.Equal(t, models.Text("test_group_b"), stored.Features["FeatureChatExperiment"])
}

func TestCLI_PanelCommands(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "move", "10", "20")
	require.NoError(t, err)
	_, err = h.run(t, "collapse", "--collapsed=true")
	require.NoError(t, err)
	toggled, err := h.run(t, "collapse")
	require.NoError(t, err)

	assert.Contains(t, toggled, "Panel: expanded at (10, 20)")
}

func TestCLI_MoveRejectsNonNumeric(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "move", "left", "20")

	assert.EqualError(t, err, `invalid left offset "left"`)
}

func TestCLI_JSONOutput(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "show", "-o", "json")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "show", res["action"])
	assert.Equal(t, true, res["ok"])
}

func TestCLI_UnsupportedOutput(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "show", "-o", "yaml")

	assert.EqualError(t, err, `unsupported output format "yaml"`)
	assert.Equal(t, 0, h.opens)
}
