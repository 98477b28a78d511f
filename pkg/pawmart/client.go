package pawmart

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/pawmart/pawmart-go/internal/cache"
	"github.com/pawmart/pawmart-go/internal/session"
	"github.com/pawmart/pawmart-go/internal/transport"
	internalTypes "github.com/pawmart/pawmart-go/internal/types"
)

const (
	// DefaultBaseURL is the default PawMart API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// DefaultCartDebounce is the window within which quantity clicks on
	// the same cart line coalesce into one server call
	DefaultCartDebounce = 300 * time.Millisecond
)

// RetryConfig configures retry behavior
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// Client is the main PawMart API client
type Client struct {
	// Service interfaces
	Auth         AuthService
	Users        UserService
	Addresses    AddressService
	Products     ProductService
	Cart         CartService
	Orders       OrderService
	Payments     PaymentService
	Appointments AppointmentService
	Adoptions    AdoptionService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	sessions   *session.Manager
	cache      *cache.Cache
	events     *EventBus
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token provides a direct authentication token
	Token string

	// CredentialFile is the path where the session token and user profile
	// are persisted across runs
	CredentialFile string

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures retry behavior
	RetryConfig *RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *Hooks

	// CartDebounce overrides the cart quantity coalescing window
	CartDebounce time.Duration

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Transport handles HTTP communication with the API
type Transport interface {
	Do(ctx context.Context, method, path string, body, result interface{}) error
	SetAuth(token string)
	SetRefreshFunc(fn func(ctx context.Context) (string, error))
}

// NewClient creates a new PawMart client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	if opts.CartDebounce <= 0 {
		opts.CartDebounce = DefaultCartDebounce
	}

	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
	})

	var store session.Store
	if opts.CredentialFile != "" {
		store = session.NewFileStore(opts.CredentialFile)
	} else {
		store = session.NewMemoryStore()
	}

	sessions := session.NewManager(opts.BaseURL, opts.HTTPClient, store, opts.Logger)

	// Every token change, including logout, propagates to the transport;
	// a 401 on an API call triggers exactly one refresh through the
	// manager before the error surfaces.
	sessions.OnTokenChange(trans.SetAuth)
	trans.SetRefreshFunc(sessions.Refresh)

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		options:    opts,
		sessions:   sessions,
		cache:      cache.New(),
		events:     NewEventBus(),
	}

	c.initServices()

	if opts.Token != "" {
		sessions.SetToken(opts.Token)
	} else if opts.CredentialFile != "" {
		if err := sessions.Restore(context.Background()); err != nil && opts.Logger != nil {
			opts.Logger.Warn("Failed to restore session", "error", err)
		}
	}

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = &authService{client: c, manager: c.sessions}
	c.Users = &userService{client: c}
	c.Addresses = &addressService{client: c}
	c.Products = &productService{client: c}
	c.Cart = newCartService(c)
	c.Orders = &orderService{client: c}
	c.Payments = &paymentService{client: c}
	c.Appointments = &appointmentService{client: c}
	c.Adoptions = &adoptionService{client: c}
}

// Events returns the in-process event bus
func (c *Client) Events() *EventBus {
	return c.events
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.sessions.SetToken(token)
}

// isAuthenticated reports whether a bearer token is currently held
func (c *Client) isAuthenticated() bool {
	return c.sessions.Token() != ""
}

// do executes an API request with rate limiting and error tracking
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			if hub := sentry.GetHubFromContext(ctx); hub != nil {
				hub.CaptureException(err)
			} else {
				sentry.CaptureException(err)
			}
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	err := c.transport.Do(ctx, method, path, body, result)
	duration := time.Since(start)

	if err != nil {
		capture := func(scope *sentry.Scope) {
			scope.SetTag("api.path", path)
			scope.SetContext("api", map[string]interface{}{
				"method":   method,
				"path":     path,
				"duration": duration.String(),
			})
		}
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				capture(scope)
				hub.CaptureException(err)
			})
		} else {
			sentry.WithScope(func(scope *sentry.Scope) {
				capture(scope)
				sentry.CaptureException(err)
			})
		}
	}

	return err
}

// Close drains pending cart mutations and flushes Sentry events
func (c *Client) Close() {
	if c.Cart != nil {
		c.Cart.Flush(context.Background())
	}
	sentry.Flush(2 * time.Second)
}
