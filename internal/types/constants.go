package types

import "time"

const (
	// DefaultBaseURL is the default PawMart API base URL
	DefaultBaseURL = "https://api.pawmart.vn"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "pawmart-go/1.0.0"

	// StorageKeyToken is the credential-store key for the bearer token
	StorageKeyToken = "auth_token"

	// StorageKeyUser is the credential-store key for the persisted user profile
	StorageKeyUser = "auth_user"
)
