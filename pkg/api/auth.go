package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/goccy/go-json"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// AuthManager handles sign-in against the backend and owns the session the
// HTTP client reads its bearer token from.
type AuthManager struct {
	baseURL    string
	httpClient *http.Client
	session    interfaces.Session
	logger     interfaces.Logger
	user       *User
	userAgent  string
	mu         sync.RWMutex
}

// NewAuthManager creates a new authentication manager.
func NewAuthManager(baseURL string, httpClient *http.Client, session interfaces.Session, logger interfaces.Logger) *AuthManager {
	if session == nil {
		session = &interfaces.MemorySession{}
	}

	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &AuthManager{
		baseURL:    baseURL,
		httpClient: httpClient,
		session:    session,
		logger:     logger,
		userAgent:  UserAgent,
	}
}

// Token returns the current bearer token, or "" when signed out.
func (am *AuthManager) Token() string {
	return am.session.Token()
}

// IsAuthenticated reports whether a token is present.
func (am *AuthManager) IsAuthenticated() bool {
	return am.session.Token() != ""
}

// User returns the account of the last successful login in this process.
func (am *AuthManager) User() *User {
	am.mu.RLock()
	defer am.mu.RUnlock()

	return am.user
}

// Login exchanges credentials for a token and stores it in the session.
func (am *AuthManager) Login(ctx context.Context, email, password string) (*User, error) {
	am.mu.Lock()
	defer am.mu.Unlock()

	am.logger.Debug("Authenticating with backend: %s", email)

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, am.baseURL+EndpointLogin, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create authentication request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", am.userAgent)

	resp, err := am.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authentication request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read authentication response: %w", err)
	}

	am.logger.Debug("Authentication response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var authResponse struct {
		envelope
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	if err := json.Unmarshal(body, &authResponse); err != nil {
		return nil, fmt.Errorf("failed to parse authentication response: %w", err)
	}

	if err := authResponse.failure(); err != nil {
		return nil, err
	}

	if authResponse.Token == "" {
		return nil, fmt.Errorf("authentication failed: no token received")
	}

	if err := am.session.SetToken(authResponse.Token); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	user := authResponse.User
	am.user = &user
	am.logger.Info("Authentication successful for user: %s", user.Email)

	return &user, nil
}

// ClearToken drops the session, as on logout or after a 401.
func (am *AuthManager) ClearToken() {
	am.mu.Lock()
	defer am.mu.Unlock()

	if err := am.session.Clear(); err != nil {
		am.logger.Error("Failed to clear session: %v", err)
	}

	am.user = nil
	am.logger.Debug("Authentication token cleared")
}
