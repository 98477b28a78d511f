package pawmart

import (
	"time"
)

// Session represents an authenticated session
type Session struct {
	Token      string    `json:"token"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expiresAt"`
	DeviceUUID string    `json:"deviceUuid"`
}

// UserProfile represents a PawMart customer account
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatarUrl"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateProfileParams are the editable profile fields
type UpdateProfileParams struct {
	FullName  *string `json:"fullName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// OTPPurpose identifies why a one-time password was requested
type OTPPurpose string

const (
	OTPPurposeRegister      OTPPurpose = "register"
	OTPPurposeResetPassword OTPPurpose = "reset_password"
)

// Address represents a delivery address
type Address struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	ProvinceID string `json:"provinceId"`
	Province   string `json:"province"`
	DistrictID string `json:"districtId"`
	District   string `json:"district"`
	WardID     string `json:"wardId"`
	Ward       string `json:"ward"`
	Street     string `json:"street"`
	IsDefault  bool   `json:"isDefault"`
}

// Region is one level of the province/district/ward cascade
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product represents a catalog product
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Brand       string            `json:"brand"`
	Category    string            `json:"category"`
	Images      []string          `json:"images"`
	Variants    []*ProductVariant `json:"variants"`
	Rating      float64           `json:"rating"`
	SoldCount   int               `json:"soldCount"`
}

// ProductVariant represents a purchasable variant of a product
type ProductVariant struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// ProductListParams filter and page the catalog
type ProductListParams struct {
	Category string
	Brand    string
	Search   string
	Page     int
	PageSize int
}

// ProductList is one page of catalog results
type ProductList struct {
	Items    []*Product `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// Cart represents the shopping cart
type Cart struct {
	Items []*CartLine `json:"items"`
}

// CartLine represents one line of the cart. Quantity is always >= 1 for a
// visible line; a mutation driving it to 0 removes the line.
type CartLine struct {
	ID               string  `json:"id"`
	ProductVariantID string  `json:"productVariantId"`
	Quantity         int     `json:"quantity"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Image            string  `json:"image"`
	VariantName      string  `json:"variantName"`
}

// Subtotal returns the cart value
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.Items {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// PaymentMethod selects how an order is paid
type PaymentMethod string

const (
	// PaymentMethodCOD is cash on delivery
	PaymentMethodCOD PaymentMethod = "cod"

	// PaymentMethodVNPay pays through a VNPay redirect
	PaymentMethodVNPay PaymentMethod = "vnpay"
)

// OrderStatus is the server-side order state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a placed order
type Order struct {
	ID            string        `json:"id"`
	Status        OrderStatus   `json:"status"`
	Lines         []*CartLine   `json:"lines"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	AddressID     string        `json:"addressId"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// CreateOrderParams place an order from the current cart
type CreateOrderParams struct {
	AddressID     string        `json:"addressId"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Note          string        `json:"note,omitempty"`
}

// PaymentResult is the outcome of a VNPay return verification
type PaymentResult struct {
	OrderID       string `json:"orderId"`
	Success       bool   `json:"success"`
	TransactionNo string `json:"transactionNo"`
	Message       string `json:"message"`
}

// GroomingService represents a bookable pet-care service
type GroomingService struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// AppointmentStatus is the server-side appointment state
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusDone      AppointmentStatus = "done"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked service appointment
type Appointment struct {
	ID          string            `json:"id"`
	ServiceID   string            `json:"serviceId"`
	PetName     string            `json:"petName"`
	ScheduledAt time.Time         `json:"scheduledAt"`
	Status      AppointmentStatus `json:"status"`
	Note        string            `json:"note"`
}

// BookAppointmentParams book a service appointment
type BookAppointmentParams struct {
	ServiceID   string    `json:"serviceId"`
	PetName     string    `json:"petName"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Note        string    `json:"note,omitempty"`
}

// Pet represents an adoptable pet
type Pet struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       string   `json:"breed"`
	AgeMonths   int      `json:"ageMonths"`
	Gender      string   `json:"gender"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Adopted     bool     `json:"adopted"`
}

// PetListParams filter the adoptable pet listing
type PetListParams struct {
	Species string
	Breed   string
	Page    int
}

// AdoptionApplication represents an application to adopt a pet
type AdoptionApplication struct {
	ID        string    `json:"id,omitempty"`
	PetID     string    `json:"petId"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	AddressID string    `json:"addressId"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
