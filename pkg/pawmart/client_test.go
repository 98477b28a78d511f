package pawmart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/pawmart-go/internal/cache"
	"github.com/pawmart/pawmart-go/internal/session"
)

// MockTransport is a mock implementation of the Transport interface. A
// string in the first return slot is unmarshaled into the result pointer.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, method, path string, body, result interface{}) error {
	args := m.Called(ctx, method, path, body, result)

	if args.Get(0) != nil && result != nil {
		resultJSON := args.Get(0).(string)
		if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
			return err
		}
	}

	return args.Error(1)
}

func (m *MockTransport) SetAuth(token string) {
	m.Called(token)
}

func (m *MockTransport) SetRefreshFunc(fn func(ctx context.Context) (string, error)) {
	m.Called(fn)
}

// newTestClient builds a client around a mock transport. authenticated
// controls whether the session manager holds a token.
func newTestClient(authenticated bool, debounce time.Duration) (*Client, *MockTransport) {
	mockTransport := new(MockTransport)
	client := &Client{
		baseURL:    "https://api.test.com",
		transport:  mockTransport,
		options:    &ClientOptions{CartDebounce: debounce},
		sessions:   session.NewManager("https://api.test.com", nil, nil, nil),
		cache:      cache.New(),
		events:     NewEventBus(),
	}
	if authenticated {
		// An opaque token: good enough for the authenticated check,
		// undecodable so no renewal timer is armed during tests
		client.sessions.SetToken("test-token")
	}
	client.initServices()
	return client, mockTransport
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, DefaultCartDebounce, client.options.CartDebounce)

	assert.NotNil(t, client.Auth)
	assert.NotNil(t, client.Users)
	assert.NotNil(t, client.Addresses)
	assert.NotNil(t, client.Products)
	assert.NotNil(t, client.Cart)
	assert.NotNil(t, client.Orders)
	assert.NotNil(t, client.Payments)
	assert.NotNil(t, client.Appointments)
	assert.NotNil(t, client.Adoptions)
	assert.NotNil(t, client.Events())
}

func TestNewClientWithToken(t *testing.T) {
	client, err := NewClientWithToken("token-abc")
	require.NoError(t, err)

	session, err := client.Auth.Session()
	require.NoError(t, err)
	assert.Equal(t, "token-abc", session.Token)
}
