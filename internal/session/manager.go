package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pawmart/pawmart-go/internal/types"
)

const (
	loginEndpoint   = "/auth/login"
	logoutEndpoint  = "/auth/logout"
	refreshEndpoint = "/auth/refresh-token"

	// renewLead is how long before expiry a renewal normally fires
	renewLead = 5 * time.Minute

	// renewMinLead is the lead time used when less than renewLead remains
	renewMinLead = 30 * time.Second

	// renewFloor is the minimum renewal delay
	renewFloor = 5 * time.Second

	// restoreMinValidity is the remaining validity below which a persisted
	// token is refreshed immediately instead of adopted
	restoreMinValidity = 10 * time.Second
)

// Manager owns the bearer token lifecycle: login, logout, refresh, proactive
// renewal scheduling and startup restore. It talks to the auth endpoints
// directly rather than through the API transport so that a 401 on an auth
// call can never recurse into another refresh.
type Manager struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	store      Store
	logger     types.Logger

	mu         sync.Mutex
	session    *types.Session
	renewTimer *time.Timer
	onToken    func(token string)
}

// tokenClaims is the subset of JWT claims the manager reads. The signature is
// the server's concern; the client only needs the expiry for scheduling.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewManager creates a session manager
func NewManager(baseURL string, httpClient *http.Client, store Store, logger types.Logger) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: types.DefaultTimeout}
	}
	if store == nil {
		store = NewMemoryStore()
	}

	return &Manager{
		baseURL:    baseURL,
		httpClient: httpClient,
		headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
			"User-Agent":   types.UserAgent,
			"device-uuid":  uuid.New().String(),
		},
		store:  store,
		logger: logger,
	}
}

// OnTokenChange registers a callback invoked with every new token, and with
// "" on logout. Used to keep the API transport's auth header current.
func (m *Manager) OnTokenChange(fn func(token string)) {
	m.mu.Lock()
	m.onToken = fn
	m.mu.Unlock()
}

// Token returns the current in-memory token, or "" when logged out
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Session returns a copy of the current session, or nil when logged out
func (m *Manager) Session() *types.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Login authenticates with the identifier and password and returns the new
// bearer token. The server rejecting the credentials, or answering without a
// token, yields ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, identifier, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}

	if _, err := m.post(ctx, loginEndpoint, map[string]interface{}{
		"email":    identifier,
		"password": password,
	}, &result); err != nil {
		// The server reporting a non-5xx failure means the credentials
		// were rejected; anything else is a transport problem.
		var apiErr *types.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return "", types.ErrInvalidCredentials
		}
		return "", errors.Wrap(err, "login request failed")
	}

	if result.Token == "" {
		return "", types.ErrInvalidCredentials
	}

	if m.logger != nil {
		m.logger.Info("Login successful", "identifier", identifier)
	}

	m.adopt(result.Token)
	return result.Token, nil
}

// Logout best-effort notifies the server, then unconditionally clears the
// in-memory and persisted session so the client never stays stuck in a
// logged-in-but-broken state.
func (m *Manager) Logout(ctx context.Context) {
	if token := m.Token(); token != "" {
		if _, err := m.post(ctx, logoutEndpoint, nil, nil); err != nil && m.logger != nil {
			// Token may already be invalid server-side
			m.logger.Warn("Logout request failed", "error", err)
		}
	}

	m.teardown()
}

// Refresh exchanges the persisted token for a new one. It reads the persisted
// token rather than the in-memory one to avoid acting on stale state. Any
// failure is fatal for the session: the manager logs out and returns the
// error.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	current, err := m.store.Get(types.StorageKeyToken)
	if err != nil {
		m.teardown()
		return "", errors.Wrap(err, "failed to read persisted token")
	}
	if current == "" {
		m.teardown()
		return "", types.ErrNotAuthenticated
	}

	var result struct {
		Token string `json:"token"`
	}

	if _, err := m.post(ctx, refreshEndpoint, map[string]interface{}{
		"token": current,
	}, &result); err != nil {
		m.Logout(ctx)
		return "", errors.Wrap(err, "token refresh failed")
	}

	if result.Token == "" {
		m.Logout(ctx)
		return "", errors.Wrap(types.ErrSessionExpired, "refresh returned no token")
	}

	if m.logger != nil {
		m.logger.Debug("Token refreshed")
	}

	m.adopt(result.Token)
	return result.Token, nil
}

// Restore re-establishes a session from the persisted token on startup. A
// token that fails to decode clears the persisted state; one within
// restoreMinValidity of expiry is refreshed immediately; anything healthier
// is adopted as-is with renewal scheduled.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Get(types.StorageKeyToken)
	if err != nil {
		return errors.Wrap(err, "failed to read persisted token")
	}
	if token == "" {
		return nil
	}

	claims, err := decodeToken(token)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("Persisted token is malformed, clearing session", "error", err)
		}
		m.teardown()
		return errors.Wrap(types.ErrTokenMalformed, err.Error())
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= restoreMinValidity {
		_, err := m.Refresh(ctx)
		return err
	}

	m.adopt(token)
	return nil
}

// StoreUser persists the serialized user profile alongside the token
func (m *Manager) StoreUser(data []byte) error {
	return m.store.Set(types.StorageKeyUser, string(data))
}

// StoredUser returns the persisted user profile, or "" when absent
func (m *Manager) StoredUser() (string, error) {
	return m.store.Get(types.StorageKeyUser)
}

// SetToken installs an externally obtained token, scheduling renewal when its
// expiry can be decoded.
func (m *Manager) SetToken(token string) {
	m.adopt(token)
}

// adopt makes token the current session: persists it, replaces the in-memory
// session, re-arms the renewal timer and notifies the token listener. Exactly
// one timer exists at any time; the previous one is stopped before the new
// one is armed, so a superseded schedule can never fire against a stale
// token.
func (m *Manager) adopt(token string) {
	if err := m.store.Set(types.StorageKeyToken, token); err != nil && m.logger != nil {
		m.logger.Warn("Failed to persist token", "error", err)
	}

	session := &types.Session{
		Token:      token,
		DeviceUUID: m.headers["device-uuid"],
	}

	claims, err := decodeToken(token)
	if err == nil {
		session.UserID = claims.Subject
		session.Email = claims.Email
		session.ExpiresAt = claims.ExpiresAt.Time
	} else if m.logger != nil {
		// Session stays usable until it organically expires and a
		// request fails; renewal is simply not scheduled.
		m.logger.Warn("Failed to decode token expiry", "error", err)
	}

	m.mu.Lock()
	m.session = session
	if m.renewTimer != nil {
		m.renewTimer.Stop()
		m.renewTimer = nil
	}
	if err == nil {
		remaining := time.Until(session.ExpiresAt)
		m.renewTimer = time.AfterFunc(renewalDelay(remaining), m.renewNow)
	}
	notify := m.onToken
	m.mu.Unlock()

	if notify != nil {
		notify(token)
	}
}

// renewNow is the renewal timer body. A successful refresh re-arms the timer
// for the new token via adopt; a failed one has already torn the session
// down.
func (m *Manager) renewNow() {
	if _, err := m.Refresh(context.Background()); err != nil && m.logger != nil {
		m.logger.Warn("Scheduled token renewal failed", "error", err)
	}
}

// teardown clears all session state without notifying the server
func (m *Manager) teardown() {
	m.mu.Lock()
	m.session = nil
	if m.renewTimer != nil {
		m.renewTimer.Stop()
		m.renewTimer = nil
	}
	notify := m.onToken
	m.mu.Unlock()

	if err := m.store.Delete(types.StorageKeyToken); err != nil && m.logger != nil {
		m.logger.Warn("Failed to clear persisted token", "error", err)
	}
	if err := m.store.Delete(types.StorageKeyUser); err != nil && m.logger != nil {
		m.logger.Warn("Failed to clear persisted user", "error", err)
	}

	if notify != nil {
		notify("")
	}
}

// renewalDelay computes how long to wait before renewing a token with the
// given remaining validity: renewLead before expiry normally, renewMinLead
// before expiry when the token is already inside the lead window, and
// renewFloor at the latest.
func renewalDelay(remaining time.Duration) time.Duration {
	switch {
	case remaining > renewLead:
		return remaining - renewLead
	case remaining > renewMinLead:
		d := remaining - renewMinLead
		if d < renewFloor {
			d = renewFloor
		}
		return d
	default:
		return renewFloor
	}
}

// decodeToken parses the token without verifying its signature and requires
// an expiry claim.
func decodeToken(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token has no expiry claim")
	}
	return claims, nil
}

// post sends an authenticated JSON request to an auth endpoint and decodes
// the envelope result into result when non-nil. It returns the HTTP status
// code alongside any error.
func (m *Manager) post(ctx context.Context, path string, body, result interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, reader)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create request")
	}

	for k, v := range m.headers {
		req.Header.Set(k, v)
	}
	if token := m.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.Wrap(err, "failed to read response")
	}

	var env struct {
		Success bool            `json:"success"`
		Result  json.RawMessage `json:"result,omitempty"`
		Message string          `json:"message,omitempty"`
	}
	if unmarshalErr := json.Unmarshal(respBody, &env); unmarshalErr != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp.StatusCode, errors.Wrap(unmarshalErr, "failed to parse response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		return resp.StatusCode, &types.Error{
			Code:       "AUTH_ERROR",
			Message:    env.Message,
			StatusCode: resp.StatusCode,
		}
	}

	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return resp.StatusCode, errors.Wrap(err, "failed to unmarshal result")
		}
	}

	return resp.StatusCode, nil
}
