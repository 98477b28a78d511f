package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/pawmart-go/internal/types"
)

func TestDo_DecodesEnvelopeResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p-1", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "result": {"id": "p-1", "name": "Salmon Kibble"}}`))
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})
	transport.SetAuth("token-123")

	var result struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := transport.Do(context.Background(), http.MethodGet, "/products/p-1", nil, &result)

	require.NoError(t, err)
	assert.Equal(t, "p-1", result.ID)
	assert.Equal(t, "Salmon Kibble", result.Name)
}

func TestDo_EnvelopeFailureBecomesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "out of stock"}`))
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	err := transport.Do(context.Background(), http.MethodPost, "/carts/items", map[string]interface{}{
		"productVariantId": "v-1",
		"quantity":         2,
	}, nil)

	require.Error(t, err)
	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "API_ERROR", apiErr.Code)
	assert.Contains(t, err.Error(), "out of stock")
}

func TestDo_RefreshRetryOn401(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success": true, "result": {"items": []}}`))
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})
	transport.SetAuth("stale-token")

	var refreshes int32
	transport.SetRefreshFunc(func(ctx context.Context) (string, error) {
		atomic.AddInt32(&refreshes, 1)
		return "fresh-token", nil
	})

	var result struct {
		Items []interface{} `json:"items"`
	}
	err := transport.Do(context.Background(), http.MethodGet, "/carts", nil, &result)

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
	assert.Equal(t, "fresh-token", transport.Token())
}

func TestDo_RefreshFailureSurfacesAuthError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})
	transport.SetAuth("stale-token")
	transport.SetRefreshFunc(func(ctx context.Context) (string, error) {
		return "", types.ErrSessionExpired
	})

	err := transport.Do(context.Background(), http.MethodGet, "/carts", nil, nil)

	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	// Refresh failed, so the request is not retried
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDo_NoRefreshFuncGivesUpImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	err := transport.Do(context.Background(), http.MethodGet, "/orders", nil, nil)
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestHandleHTTPError_StatusMapping(t *testing.T) {
	transport := &RESTTransport{}

	tests := []struct {
		name       string
		statusCode int
		body       []byte
		want       error
	}{
		{"401 unauthorized", http.StatusUnauthorized, nil, types.ErrNotAuthenticated},
		{"403 forbidden", http.StatusForbidden, nil, types.ErrNotAuthenticated},
		{"404 not found", http.StatusNotFound, nil, types.ErrNotFound},
		{"429 rate limited", http.StatusTooManyRequests, nil, types.ErrRateLimited},
		{"408 timeout", http.StatusRequestTimeout, nil, types.ErrTimeout},
		{"504 gateway timeout", http.StatusGatewayTimeout, nil, types.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transport.handleHTTPError(tt.statusCode, tt.body)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHandleHTTPError_ServerError_IncludesDetails(t *testing.T) {
	transport := &RESTTransport{}

	tests := []struct {
		name          string
		statusCode    int
		responseBody  []byte
		expectedInMsg string
	}{
		{
			name:          "500 with JSON message",
			statusCode:    500,
			responseBody:  []byte(`{"success": false, "message": "database connection failed"}`),
			expectedInMsg: "database connection failed",
		},
		{
			name:          "502 with empty body",
			statusCode:    502,
			responseBody:  []byte{},
			expectedInMsg: "Bad Gateway",
		},
		{
			name:          "525 SSL handshake failed",
			statusCode:    525,
			responseBody:  []byte(`<html>error page</html>`),
			expectedInMsg: "SSL Handshake Failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transport.handleHTTPError(tt.statusCode, tt.responseBody)

			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrServerError)
			assert.Contains(t, err.Error(), tt.expectedInMsg)

			var apiErr *types.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "SERVER_ERROR", apiErr.Code)
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
		})
	}
}
