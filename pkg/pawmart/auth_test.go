package pawmart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func envelope(w http.ResponseWriter, result interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

func TestAuthService_Login(t *testing.T) {
	token := testToken(t, time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			envelope(w, map[string]string{"token": token})
		case "/users/me":
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			envelope(w, &UserProfile{
				ID:       "user-1",
				Email:    "user@example.com",
				FullName: "Pat Example",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(&ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)

	profile, err := client.Auth.Login(context.Background(), "user@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Pat Example", profile.FullName)

	session, err := client.Auth.Session()
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)
	assert.Equal(t, "user-1", session.UserID)
}

func TestAuthService_Login_ProfileFailureDegradesToMinimalProfile(t *testing.T) {
	// A profile load failing right after a successful login must not fail
	// the login. The caller gets a minimal profile with the identifier.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			envelope(w, map[string]string{"token": testToken(t, time.Hour)})
		case "/users/me":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(&ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)

	profile, err := client.Auth.Login(context.Background(), "user@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, &UserProfile{Email: "user@example.com"}, profile)
	assert.True(t, client.isAuthenticated())
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "wrong password",
		})
	}))
	defer server.Close()

	client, err := NewClient(&ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Auth.Login(context.Background(), "user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, client.isAuthenticated())
}

func TestAuthService_Logout_ClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			envelope(w, map[string]string{"token": testToken(t, time.Hour)})
		case "/auth/logout":
			envelope(w, nil)
		case "/users/me":
			envelope(w, &UserProfile{Email: "user@example.com"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(&ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Auth.Login(context.Background(), "user@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, client.isAuthenticated())

	client.Auth.Logout(context.Background())
	assert.False(t, client.isAuthenticated())

	_, err = client.Auth.Session()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthService_SessionSurvivesRestart(t *testing.T) {
	token := testToken(t, time.Hour)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			envelope(w, map[string]string{"token": token})
		case "/users/me":
			envelope(w, &UserProfile{Email: "user@example.com"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	credFile := t.TempDir() + "/session.json"

	first, err := NewClient(&ClientOptions{BaseURL: server.URL, CredentialFile: credFile})
	require.NoError(t, err)
	_, err = first.Auth.Login(context.Background(), "user@example.com", "hunter2")
	require.NoError(t, err)

	// A fresh client pointed at the same credential file picks the
	// session back up without logging in again
	second, err := NewClient(&ClientOptions{BaseURL: server.URL, CredentialFile: credFile})
	require.NoError(t, err)

	session, err := second.Auth.Session()
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)
}
