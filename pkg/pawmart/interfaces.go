package pawmart

import (
	"context"
	"net/url"
)

// AuthService handles the session lifecycle
type AuthService interface {
	// Login authenticates and returns the user profile. If the profile
	// load fails after a successful login, a minimal profile holding only
	// the login identifier is returned instead of an error.
	Login(ctx context.Context, identifier, password string) (*UserProfile, error)

	// Logout best-effort notifies the server and always clears local state
	Logout(ctx context.Context)

	// Refresh exchanges the persisted token for a new one. Failure tears
	// the session down.
	Refresh(ctx context.Context) (string, error)

	// Session returns the current session
	Session() (*Session, error)
}

// UserService handles account operations
type UserService interface {
	// Me retrieves the full profile of the logged-in user
	Me(ctx context.Context) (*UserProfile, error)

	// UpdateProfile updates editable profile fields
	UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*UserProfile, error)

	// ChangePassword changes the account password
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	// RequestOTP asks the server to send a one-time password
	RequestOTP(ctx context.Context, email string, purpose OTPPurpose) error

	// VerifyOTP submits a one-time password
	VerifyOTP(ctx context.Context, email, code string) error
}

// AddressService handles the delivery address book and the region cascade
type AddressService interface {
	List(ctx context.Context) ([]*Address, error)
	Create(ctx context.Context, address *Address) (*Address, error)
	Update(ctx context.Context, addressID string, address *Address) (*Address, error)
	Delete(ctx context.Context, addressID string) error
	SetDefault(ctx context.Context, addressID string) error

	// Provinces, Districts and Wards drive cascaded address selection
	Provinces(ctx context.Context) ([]*Region, error)
	Districts(ctx context.Context, provinceID string) ([]*Region, error)
	Wards(ctx context.Context, districtID string) ([]*Region, error)
}

// ProductService handles catalog browsing
type ProductService interface {
	List(ctx context.Context, params *ProductListParams) (*ProductList, error)
	Get(ctx context.Context, productID string) (*Product, error)
	Variants(ctx context.Context, productID string) ([]*ProductVariant, error)
}

// CartService keeps a client-visible cart synchronized with the server cart.
// Mutations apply optimistically and reconcile asynchronously.
type CartService interface {
	// Get returns the current cart, fetching it on first use
	Get(ctx context.Context) (*Cart, error)

	// AddItem merges a line into the cart. On server failure the
	// optimistic line is left in place and the error returned.
	AddItem(ctx context.Context, line *CartLine) error

	// UpdateQuantity applies delta to a line immediately and sends it to
	// the server, rolling back on failure. A resulting quantity <= 0
	// removes the line.
	UpdateQuantity(ctx context.Context, productVariantID string, delta int) error

	// BatchUpdateQuantity applies delta optimistically and coalesces
	// rapid calls for the same line into one server mutation per debounce
	// window. A net delta of zero sends nothing.
	BatchUpdateQuantity(productVariantID string, delta int)

	// DeleteItem removes a line optimistically, rolling back on failure
	DeleteItem(ctx context.Context, cartItemID string) error

	// Flush sends all pending batched deltas immediately
	Flush(ctx context.Context)

	// Clear empties the cart
	Clear(ctx context.Context) error
}

// OrderService handles checkout and order history
type OrderService interface {
	Create(ctx context.Context, params *CreateOrderParams) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	Cancel(ctx context.Context, orderID string) error
}

// PaymentService handles the VNPay redirect flow
type PaymentService interface {
	// CreateVNPayURL returns the redirect URL that completes payment
	CreateVNPayURL(ctx context.Context, orderID string) (string, error)

	// VerifyReturn validates the parameters VNPay appends to the return URL
	VerifyReturn(ctx context.Context, params url.Values) (*PaymentResult, error)
}

// AppointmentService handles pet-care service bookings
type AppointmentService interface {
	Services(ctx context.Context) ([]*GroomingService, error)
	Book(ctx context.Context, params *BookAppointmentParams) (*Appointment, error)
	List(ctx context.Context) ([]*Appointment, error)
	Cancel(ctx context.Context, appointmentID string) error
}

// AdoptionService handles the pet adoption workflow
type AdoptionService interface {
	ListPets(ctx context.Context, params *PetListParams) ([]*Pet, error)
	GetPet(ctx context.Context, petID string) (*Pet, error)
	Apply(ctx context.Context, application *AdoptionApplication) (*AdoptionApplication, error)
	MyApplications(ctx context.Context) ([]*AdoptionApplication, error)
}
