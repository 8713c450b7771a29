package api

import (
	"net/url"
	"slices"
	"strconv"
	"time"
)

// Address is a postal shipping or billing address.
type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// OrderLine is one product entry of an order.
type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Subtotal returns quantity times unit price.
func (l OrderLine) Subtotal() float64 {
	return float64(l.Quantity) * l.Price
}

// Order is a customer order as returned by the backend.
type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customerId,omitempty"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"paymentStatus,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	Items           []OrderLine `json:"items,omitempty"`
	Subtotal        float64     `json:"subtotal"`
	Shipping        float64     `json:"shipping"`
	Tax             float64     `json:"tax"`
	Total           float64     `json:"total"`
	ShippingAddress Address     `json:"shippingAddress"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Customer is a storefront account.
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Status      string    `json:"status"`
	Blocked     bool      `json:"blocked"`
	OrdersCount int       `json:"ordersCount"`
	TotalSpent  float64   `json:"totalSpent"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Admin is a back-office account.
type Admin struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Product is a catalog entry.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	Stock         int       `json:"stock"`
	Featured      bool      `json:"featured"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// InStock reports whether the product can be ordered.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// User is the account returned by a successful login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Page is one fetched collection. Total is the backend-reported total; it is
// never lower than len(Items).
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	TotalPages int
}

// ListParams are the query parameters of a collection fetch.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
	// Filters are passed through as extra query parameters.
	Filters map[string]string
}

// Query encodes the parameters, omitting zero values.
func (p ListParams) Query() url.Values {
	q := url.Values{}

	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}

	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	if p.Search != "" {
		q.Set("search", p.Search)
	}

	if p.Status != "" {
		q.Set("status", p.Status)
	}

	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}

	return q
}

// StatusUpdate is the body of a status mutation.
type StatusUpdate struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// CreateAdminRequest is the body of an admin creation request.
type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,admin_role"`
}

// ValidAdminRole reports whether role is assignable.
func ValidAdminRole(role string) bool {
	return slices.Contains(AdminRoles, role)
}

// Event is a change notification from the live event feed.
type Event struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids,omitempty"`
}

// Resource returns the collection an event of the form "<resource>.changed"
// refers to.
func (e Event) Resource() (Resource, bool) {
	for _, r := range Resources {
		if e.Type == string(r)+".changed" {
			return r, true
		}
	}

	return "", false
}
