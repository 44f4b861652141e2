package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/admin-console/internal/core/vault"
	"github.com/unifiedui/admin-console/internal/domain/models"
)

// MockAdminAPI is a mock implementation of the admin API operations.
type MockAdminAPI struct {
	mock.Mock
}

// Login exchanges credentials for a token.
func (m *MockAdminAPI) Login(ctx context.Context, creds vault.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

// LookupUserID resolves an email to a user ID.
func (m *MockAdminAPI) LookupUserID(ctx context.Context, token, email string) (string, error) {
	args := m.Called(ctx, token, email)
	return args.String(0), args.Error(1)
}

// GetUserFeatures fetches the features of a user.
func (m *MockAdminAPI) GetUserFeatures(ctx context.Context, token, userID string) (map[string]models.FeatureValue, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.FeatureValue), args.Error(1)
}

// GrantSubscription grants a product.
func (m *MockAdminAPI) GrantSubscription(ctx context.Context, token, userID, productID string) error {
	args := m.Called(ctx, token, userID, productID)
	return args.Error(0)
}

// UpdateTokenBalance sets the token balance.
func (m *MockAdminAPI) UpdateTokenBalance(ctx context.Context, token, userID string, amount int) error {
	args := m.Called(ctx, token, userID, amount)
	return args.Error(0)
}

// UpdateUserFeatures writes feature values.
func (m *MockAdminAPI) UpdateUserFeatures(ctx context.Context, token, userID string, features map[string]models.FeatureValue) error {
	args := m.Called(ctx, token, userID, features)
	return args.Error(0)
}

// MockTokenProvider is a mock implementation of token.Provider.
type MockTokenProvider struct {
	mock.Mock
}

// GetToken returns a bearer token.
func (m *MockTokenProvider) GetToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
