package features_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/infrastructure/store/memory"
	"github.com/unifiedui/admin-console/internal/services/features"
	"github.com/unifiedui/admin-console/internal/services/session"
	"github.com/unifiedui/admin-console/internal/services/state"
	"github.com/unifiedui/admin-console/internal/testutil"
	"github.com/unifiedui/admin-console/internal/testutil/mocks"
	"github.com/unifiedui/admin-console/internal/twin"
)

type fixture struct {
	engine  *features.Engine
	api     *mocks.MockAdminAPI
	tokens  *mocks.MockTokenProvider
	session *session.Context
	state   *state.Service
}

func newFixture(t *testing.T, profile models.EnvironmentProfile) *fixture {
	t.Helper()

	st, err := state.NewService(&state.Config{Client: memory.NewStore()})
	require.NoError(t, err)
	logger := zerolog.Nop()
	sc, err := session.NewContext(&session.Config{Store: st, Logger: &logger})
	require.NoError(t, err)
	require.NoError(t, sc.Install(context.Background(), models.NewUserRecord("42", "a@b.com", map[string]models.FeatureValue{
		"UserId":                models.Text("42"),
		"Limit":                 models.Number(10),
		"Beta":                  models.Bool(false),
		"FeatureChatExperiment": models.Text("control"),
	})))

	api := &mocks.MockAdminAPI{}
	tokens := &mocks.MockTokenProvider{}
	tokens.On("GetToken", mock.Anything).Return("tok", nil).Maybe()

	engine, err := features.NewEngine(&features.Config{
		API:     api,
		Tokens:  tokens,
		Session: sc,
		Profile: profile,
		Options: map[string][]string{"FeatureChatExperiment": {"control", "test_group_a"}},
		Logger:  &logger,
	})
	require.NoError(t, err)

	return &fixture{engine: engine, api: api, tokens: tokens, session: sc, state: st}
}

func prodProfile() models.EnvironmentProfile {
	return models.EnvironmentProfile{Name: models.EnvironmentProd, APIBase: "http://x", ProductID: "premium"}
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := features.NewEngine(nil)
	assert.EqualError(t, err, "config is required")

	_, err = features.NewEngine(&features.Config{})
	assert.EqualError(t, err, "admin api is required")
}

func TestGrantSubscription_UnsupportedDomain(t *testing.T) {
	f := newFixture(t, models.EnvironmentProfile{Name: models.EnvironmentStage})

	err := f.engine.GrantSubscription(context.Background(), "42")

	assert.True(t, domainerrors.IsConfigurationError(err))
	f.tokens.AssertNotCalled(t, "GetToken", mock.Anything)
	f.api.AssertNotCalled(t, "GrantSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGrantSubscription(t *testing.T) {
	f := newFixture(t, prodProfile())
	f.api.On("GrantSubscription", mock.Anything, "tok", "42", "premium").Return(nil).Once()

	err := f.engine.GrantSubscription(context.Background(), "42")

	require.NoError(t, err)
	f.api.AssertExpectations(t)
}

func TestUpdateTokenBalance(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		f := newFixture(t, prodProfile())
		f.api.On("UpdateTokenBalance", mock.Anything, "tok", "42", 150).Return(nil).Once()

		applied, err := f.engine.UpdateTokenBalance(context.Background(), "42", "150 tokens")

		require.NoError(t, err)
		assert.True(t, applied)
		f.api.AssertExpectations(t)
	})

	for _, input := range []string{"", "abc", "-10"} {
		t.Run("ignored "+input, func(t *testing.T) {
			f := newFixture(t, prodProfile())

			applied, err := f.engine.UpdateTokenBalance(context.Background(), "42", input)

			require.NoError(t, err)
			assert.False(t, applied)
			f.tokens.AssertNotCalled(t, "GetToken", mock.Anything)
			f.api.AssertNotCalled(t, "UpdateTokenBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("remote failure", func(t *testing.T) {
		f := newFixture(t, prodProfile())
		f.api.On("UpdateTokenBalance", mock.Anything, "tok", "42", 5).
			Return(domainerrors.NewRemoteError("token balance update", 500, "oops")).Once()

		applied, err := f.engine.UpdateTokenBalance(context.Background(), "42", "5")

		assert.False(t, applied)
		assert.True(t, domainerrors.IsRemoteError(err))
	})
}

func TestSetFeature_NumericCoercionCommits(t *testing.T) {
	// Arrange
	f := newFixture(t, prodProfile())
	f.api.On("UpdateUserFeatures", mock.Anything, "tok", "42", map[string]models.FeatureValue{
		"Limit": models.Number(25),
	}).Return(nil).Once()

	// Act
	value, err := f.engine.SetFeature(context.Background(), "42", "Limit", models.Text("25"))

	// Assert
	require.NoError(t, err)
	assert.True(t, models.Number(25).Equal(value))
	current, _ := f.session.Feature("42", "Limit")
	assert.True(t, models.Number(25).Equal(current))

	var persisted models.UserRecord
	found, err := f.state.Get(context.Background(), state.ScopeSession, state.KeyCurrentUser, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, models.Number(25).Equal(persisted.Features["Limit"]))
}

func TestSetFeature_InvalidNumberNeverCallsNetwork(t *testing.T) {
	for _, input := range []string{"abc", "1_000"} {
		t.Run(input, func(t *testing.T) {
			f := newFixture(t, prodProfile())

			_, err := f.engine.SetFeature(context.Background(), "42", "Limit", models.Text(input))

			assert.True(t, domainerrors.IsValidationError(err))
			f.tokens.AssertNotCalled(t, "GetToken", mock.Anything)
			f.api.AssertNotCalled(t, "UpdateUserFeatures", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			current, _ := f.session.Feature("42", "Limit")
			assert.True(t, models.Number(10).Equal(current))
		})
	}
}

func TestSetFeature_RemoteFailureLeavesRecordUntouched(t *testing.T) {
	// Arrange
	f := newFixture(t, prodProfile())
	f.api.On("UpdateUserFeatures", mock.Anything, "tok", "42", mock.Anything).
		Return(domainerrors.NewRemoteError("feature update", http.StatusBadRequest, `{"error":"nope"}`)).Once()

	// Act
	_, err := f.engine.ToggleFeature(context.Background(), "42", "Beta")

	// Assert
	require.True(t, domainerrors.IsRemoteError(err))
	domainErr, _ := domainerrors.GetDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.Status)
	assert.Equal(t, `{"error":"nope"}`, domainErr.Body)
	current, _ := f.session.Feature("42", "Beta")
	assert.True(t, models.Bool(false).Equal(current))
}

func TestToggleFeature(t *testing.T) {
	f := newFixture(t, prodProfile())
	f.api.On("UpdateUserFeatures", mock.Anything, "tok", "42", map[string]models.FeatureValue{
		"Beta": models.Bool(true),
	}).Return(nil).Once()

	value, err := f.engine.ToggleFeature(context.Background(), "42", "Beta")

	require.NoError(t, err)
	assert.True(t, models.Bool(true).Equal(value))
	current, _ := f.session.Feature("42", "Beta")
	assert.True(t, models.Bool(true).Equal(current))
}

func TestSetFeature_NonInteractive(t *testing.T) {
	f := newFixture(t, prodProfile())

	_, err := f.engine.SetFeature(context.Background(), "42", "UserId", models.Text("43"))

	assert.True(t, domainerrors.IsValidationError(err))
	assert.False(t, f.engine.IsInteractive("UserId"))
}

func TestSetFeatureFromOption(t *testing.T) {
	f := newFixture(t, prodProfile())
	f.api.On("UpdateUserFeatures", mock.Anything, "tok", "42", map[string]models.FeatureValue{
		"FeatureChatExperiment": models.Text("test_group_a"),
	}).Return(nil).Once()

	_, err := f.engine.SetFeatureFromOption(context.Background(), "42", "FeatureChatExperiment", "test_group_a")
	require.NoError(t, err)

	_, err = f.engine.SetFeatureFromOption(context.Background(), "42", "FeatureChatExperiment", "made_up")
	assert.True(t, domainerrors.IsValidationError(err))

	_, err = f.engine.SetFeatureFromOption(context.Background(), "42", "Beta", "x")
	assert.True(t, domainerrors.IsValidationError(err))
}

func TestSetFeature_CapitalizedOnTheWire(t *testing.T) {
	// Arrange
	fake := testutil.NewAdminTwin(t)
	user := fake.Store.AddUser("u@example.com", map[string]models.FeatureValue{"tokens": models.Number(1)})
	bearer, err := fake.IssueToken()
	require.NoError(t, err)

	st, err := state.NewService(&state.Config{Client: memory.NewStore()})
	require.NoError(t, err)
	sc, err := session.NewContext(&session.Config{Store: st})
	require.NoError(t, err)
	require.NoError(t, sc.Install(context.Background(), models.NewUserRecord(user.ID, "", user.Features)))

	tokens := &mocks.MockTokenProvider{}
	tokens.On("GetToken", mock.Anything).Return(bearer, nil)
	engine, err := features.NewEngine(&features.Config{
		API:     testutil.NewAdminClient(t, fake.APIBase),
		Tokens:  tokens,
		Session: sc,
	})
	require.NoError(t, err)

	// Act
	_, err = engine.SetFeature(context.Background(), user.ID, "tokens", models.Text("5"))

	// Assert
	require.NoError(t, err)
	stored, _ := fake.Store.Get(user.ID)
	assert.True(t, models.Number(5).Equal(stored.Features["Tokens"]))
	local, _ := sc.Feature(user.ID, "tokens")
	assert.True(t, models.Number(5).Equal(local))
}

func TestSetFeature_TwinFaultKeepsBody(t *testing.T) {
	fake := testutil.NewAdminTwin(t)
	user := fake.Store.AddUser("u@example.com", map[string]models.FeatureValue{"Beta": models.Bool(true)})
	fake.Faults.Set(testutil.APIBasePath+"/admin/users/features", twin.Fault{StatusCode: http.StatusUnprocessableEntity, Body: "feature locked"})
	bearer, err := fake.IssueToken()
	require.NoError(t, err)

	st, err := state.NewService(&state.Config{Client: memory.NewStore()})
	require.NoError(t, err)
	sc, err := session.NewContext(&session.Config{Store: st})
	require.NoError(t, err)
	require.NoError(t, sc.Install(context.Background(), models.NewUserRecord(user.ID, "", user.Features)))
	tokens := &mocks.MockTokenProvider{}
	tokens.On("GetToken", mock.Anything).Return(bearer, nil)
	engine, err := features.NewEngine(&features.Config{
		API:     testutil.NewAdminClient(t, fake.APIBase),
		Tokens:  tokens,
		Session: sc,
	})
	require.NoError(t, err)

	_, err = engine.ToggleFeature(context.Background(), user.ID, "Beta")

	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeRemote, domainErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, domainErr.Status)
	assert.Equal(t, "feature locked", domainErr.Body)
	local, _ := sc.Feature(user.ID, "Beta")
	assert.True(t, models.Bool(true).Equal(local))
}
