// Package adminapi provides the client for the upstream administrative user API.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/admin-console/internal/core/vault"
	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
)

// serviceName identifies the upstream in transport errors.
const serviceName = "admin api"

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 1 << 20

// Doer performs a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints holds the paths of the admin API operations relative to the API base.
type Endpoints struct {
	Login          string
	UserIDByEmail  string
	UserFeatures   string
	Subscription   string
	TokenBalance   string
	UpdateFeatures string
}

// DefaultEndpoints returns the standard admin API paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:          "/auth/login",
		UserIDByEmail:  "/admin/users/id-by-email",
		UserFeatures:   "/admin/users/features",
		Subscription:   "/admin/subscriptions",
		TokenBalance:   "/admin/users/tokens",
		UpdateFeatures: "/admin/users/features",
	}
}

// ClientConfig holds the configuration for the admin API client.
type ClientConfig struct {
	// APIBase is the base URL of the selected environment.
	APIBase    string
	Endpoints  Endpoints
	HTTPClient Doer
	Timeout    time.Duration
	Logger     *zerolog.Logger
}

// Client implements the admin API operations.
type Client struct {
	apiBase    string
	endpoints  Endpoints
	httpClient Doer
	logger     zerolog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type emailLookupRequest struct {
	Email string `json:"email"`
}

type subscriptionRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

type tokenBalanceRequest struct {
	UserID string `json:"userId"`
	Amount int    `json:"amount"`
}

type updateFeaturesRequest struct {
	UserID   string                         `json:"userId"`
	Features map[string]models.FeatureValue `json:"features"`
}

// NewClient creates a new admin API client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIBase == "" {
		return nil, domainerrors.NewConfigurationError("admin api base url is not configured", "")
	}
	if _, err := url.Parse(cfg.APIBase); err != nil {
		return nil, fmt.Errorf("invalid admin api base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	endpoints := cfg.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints()
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		apiBase:    strings.TrimRight(cfg.APIBase, "/"),
		endpoints:  endpoints,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "adminapi").Logger(),
	}, nil
}

// Login exchanges the administrative credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds vault.Credentials) (string, error) {
	status, body, err := c.do(ctx, "login", http.MethodPost, c.endpoints.Login, "", loginRequest{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", domainerrors.NewAuthenticationError("admin login failed", status)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.AccessToken == "" {
		return "", domainerrors.NewAuthenticationError("no token issued", 0)
	}

	return resp.AccessToken, nil
}

// LookupUserID resolves an email address to a user ID.
func (c *Client) LookupUserID(ctx context.Context, token, email string) (string, error) {
	status, body, err := c.do(ctx, "email lookup", http.MethodPost, c.endpoints.UserIDByEmail, token, emailLookupRequest{
		Email: email,
	})
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", domainerrors.NewLookupError("email lookup failed", status, string(body))
	}

	id := strings.TrimSpace(strings.ReplaceAll(string(body), `"`, ""))
	if id == "" {
		return "", domainerrors.NewLookupError("email not found", status, string(body))
	}

	return id, nil
}

// GetUserFeatures fetches the feature payload of a user.
func (c *Client) GetUserFeatures(ctx context.Context, token, userID string) (map[string]models.FeatureValue, error) {
	path := c.endpoints.UserFeatures + "?UserId=" + url.QueryEscape(userID)

	status, body, err := c.do(ctx, "features fetch", http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, domainerrors.NewFetchError(status, string(body))
	}

	var features map[string]models.FeatureValue
	if err := json.Unmarshal(body, &features); err != nil {
		return nil, domainerrors.NewInternalError("failed to decode user features", err)
	}
	if features == nil {
		features = make(map[string]models.FeatureValue)
	}

	return features, nil
}

// GrantSubscription grants productID to a user.
func (c *Client) GrantSubscription(ctx context.Context, token, userID, productID string) error {
	return c.mutate(ctx, "subscription grant", http.MethodPost, c.endpoints.Subscription, token, subscriptionRequest{
		UserID:    userID,
		ProductID: productID,
	})
}

// UpdateTokenBalance sets the token balance of a user.
func (c *Client) UpdateTokenBalance(ctx context.Context, token, userID string, amount int) error {
	return c.mutate(ctx, "token balance update", http.MethodPut, c.endpoints.TokenBalance, token, tokenBalanceRequest{
		UserID: userID,
		Amount: amount,
	})
}

// UpdateUserFeatures writes feature values for a user. Keys are sent with their
// first letter capitalized.
func (c *Client) UpdateUserFeatures(ctx context.Context, token, userID string, features map[string]models.FeatureValue) error {
	wire := make(map[string]models.FeatureValue, len(features))
	for k, v := range features {
		wire[WireKey(k)] = v
	}

	return c.mutate(ctx, "feature update", http.MethodPut, c.endpoints.UpdateFeatures, token, updateFeaturesRequest{
		UserID:   userID,
		Features: wire,
	})
}

// WireKey capitalizes the first letter of a feature key.
func WireKey(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

func (c *Client) mutate(ctx context.Context, operation, method, path, token string, payload any) error {
	status, body, err := c.do(ctx, operation, method, path, token, payload)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return domainerrors.NewRemoteError(operation, status, string(body))
	}
	return nil
}

// do sends one request and returns the status and body. Only transport failures are errors.
func (c *Client) do(ctx context.Context, operation, method, path, token string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, domainerrors.NewValidationError("failed to encode request", err.Error())
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req, token, payload != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("operation", operation).Msg("admin api request failed")
		return 0, nil, domainerrors.NewServiceUnavailableError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, domainerrors.NewServiceUnavailableError(serviceName, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug().
		Str("operation", operation).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("admin api call")

	return resp.StatusCode, body, nil
}

// setHeaders sets the required headers for admin API requests.
func (c *Client) setHeaders(req *http.Request, token string, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
