package api

import "time"

// Resource names a backend collection endpoint.
type Resource string

// Collections served by the backend.
const (
	ResourceOrders    Resource = "orders"
	ResourceCustomers Resource = "customers"
	ResourceAdmins    Resource = "admins"
	ResourceProducts  Resource = "products"
)

// Resources lists every collection in display order.
var Resources = []Resource{ResourceOrders, ResourceCustomers, ResourceAdmins, ResourceProducts}

// ParseResource maps a user-supplied name to a Resource.
func ParseResource(name string) (Resource, bool) {
	for _, r := range Resources {
		if string(r) == name {
			return r, true
		}
	}

	return "", false
}

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists order statuses in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Payment statuses.
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusRefunded = "refunded"
)

// Account statuses shared by customers and admins.
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
	AccountStatusBlocked  = "blocked"
)

// Admin roles.
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleSupport    = "support"
)

// AdminRoles lists the assignable admin roles.
var AdminRoles = []string{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleSupport}

// HTTP Methods.
const (
	HTTPMethodGET    = "GET"
	HTTPMethodPOST   = "POST"
	HTTPMethodPUT    = "PUT"
	HTTPMethodPATCH  = "PATCH"
	HTTPMethodDELETE = "DELETE"
)

// API Endpoints.
const (
	EndpointLogin  = "/auth/login"
	EndpointEvents = "/events"
)

// Headers.
const (
	HeaderRequestID = "X-Request-ID"
	UserAgent       = "shoptui"
)

// Defaults.
const (
	DefaultAPIURL  = "http://localhost:5000/api"
	DefaultTimeout = 30 * time.Second
	// DefaultListLimit is the page size requested from the backend. The list
	// view paginates the fetched collection itself.
	DefaultListLimit = 100
)
