package resolver_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/resolver"
	"github.com/unifiedui/admin-console/internal/testutil/mocks"
)

func newResolver(t *testing.T) (*resolver.Resolver, *mocks.MockAdminAPI, *mocks.MockTokenProvider) {
	t.Helper()

	api := &mocks.MockAdminAPI{}
	tokens := &mocks.MockTokenProvider{}
	logger := zerolog.Nop()
	r, err := resolver.NewResolver(&resolver.Config{Directory: api, Tokens: tokens, Logger: &logger})
	require.NoError(t, err)
	return r, api, tokens
}

func TestChooseSearchKey(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		email      string
		lastEdited models.SearchField
		expected   resolver.SearchKey
		ok         bool
	}{
		{"id only", " 42 ", "", models.SearchFieldNone, resolver.SearchKey{Field: models.SearchFieldID, Value: "42"}, true},
		{"email only", "", " a@b.com ", models.SearchFieldID, resolver.SearchKey{Field: models.SearchFieldEmail, Value: "a@b.com"}, true},
		{"both, id edited last", "42", "a@b.com", models.SearchFieldID, resolver.SearchKey{Field: models.SearchFieldID, Value: "42"}, true},
		{"both, email edited last", "42", "a@b.com", models.SearchFieldEmail, resolver.SearchKey{Field: models.SearchFieldEmail, Value: "a@b.com"}, true},
		{"both, nothing edited", "42", "a@b.com", models.SearchFieldNone, resolver.SearchKey{Field: models.SearchFieldEmail, Value: "a@b.com"}, true},
		{"whitespace only", "  ", "\t", models.SearchFieldID, resolver.SearchKey{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolver.ChooseSearchKey(tt.id, tt.email, tt.lastEdited)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolve_EmptySearchNeverCallsNetwork(t *testing.T) {
	r, api, tokens := newResolver(t)

	record, err := r.Resolve(context.Background(), " ", "", models.SearchFieldNone)

	assert.Nil(t, record)
	assert.True(t, domainerrors.IsValidationError(err))
	tokens.AssertNotCalled(t, "GetToken", mock.Anything)
	api.AssertNotCalled(t, "LookupUserID", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_IDEditedLastSkipsEmailLookup(t *testing.T) {
	// Arrange
	r, api, tokens := newResolver(t)
	tokens.On("GetToken", mock.Anything).Return("tok", nil)
	api.On("GetUserFeatures", mock.Anything, "tok", "42").Return(map[string]models.FeatureValue{
		"Email": models.Text("server@example.com"),
	}, nil)

	// Act
	record, err := r.Resolve(context.Background(), "42", "typed@example.com", models.SearchFieldID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "42", record.ID)
	assert.Equal(t, "server@example.com", record.Email)
	api.AssertNotCalled(t, "LookupUserID", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_EmailEditedLastUsesLookup(t *testing.T) {
	// Arrange
	r, api, tokens := newResolver(t)
	tokens.On("GetToken", mock.Anything).Return("tok", nil)
	api.On("LookupUserID", mock.Anything, "tok", "typed@example.com").Return("77", nil)
	api.On("GetUserFeatures", mock.Anything, "tok", "77").Return(map[string]models.FeatureValue{
		"Email": models.Text("server@example.com"),
	}, nil)

	// Act
	record, err := r.Resolve(context.Background(), "42", "typed@example.com", models.SearchFieldEmail)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "77", record.ID)
	assert.Equal(t, "typed@example.com", record.Email)
	api.AssertExpectations(t)
}

func TestResolve_NoEmailAnywhere(t *testing.T) {
	r, api, tokens := newResolver(t)
	tokens.On("GetToken", mock.Anything).Return("tok", nil)
	api.On("GetUserFeatures", mock.Anything, "tok", "42").Return(map[string]models.FeatureValue{}, nil)

	record, err := r.Resolve(context.Background(), "42", "", models.SearchFieldNone)

	require.NoError(t, err)
	assert.Equal(t, models.UnknownEmail, record.Email)
}

func TestResolve_PropagatesErrors(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		r, _, tokens := newResolver(t)
		tokens.On("GetToken", mock.Anything).Return("", domainerrors.NewAuthenticationError("admin login failed", 500))

		_, err := r.Resolve(context.Background(), "42", "", models.SearchFieldNone)

		assert.True(t, domainerrors.IsAuthenticationError(err))
	})

	t.Run("lookup", func(t *testing.T) {
		r, api, tokens := newResolver(t)
		tokens.On("GetToken", mock.Anything).Return("tok", nil)
		api.On("LookupUserID", mock.Anything, "tok", "x@y.z").Return("", domainerrors.NewLookupError("email not found", 200, ""))

		_, err := r.Resolve(context.Background(), "", "x@y.z", models.SearchFieldNone)

		assert.True(t, domainerrors.IsLookupError(err))
		api.AssertNotCalled(t, "GetUserFeatures", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fetch", func(t *testing.T) {
		r, api, tokens := newResolver(t)
		tokens.On("GetToken", mock.Anything).Return("tok", nil)
		api.On("GetUserFeatures", mock.Anything, "tok", "42").Return(nil, domainerrors.NewFetchError(404, "not found"))

		_, err := r.Resolve(context.Background(), "42", "", models.SearchFieldNone)

		assert.True(t, domainerrors.IsFetchError(err))
	})
}
