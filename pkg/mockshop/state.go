// Package mockshop is an in-memory fake of the shop back-office REST API.
//
// It serves the same routes and envelopes as the real backend, validates
// requests against an embedded OpenAPI document and publishes change events
// over a websocket. Tests use it through httptest; cmd/shop-mock-api serves
// it for manual runs of the TUI.
package mockshop

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devnullvoid/shoptui/pkg/api"
)

// Default credentials of the seeded super admin.
const (
	DefaultEmail    = "admin@glowshop.test"
	DefaultPassword = "glowshop-admin"
)

// MockState holds the fake backend's data.
type MockState struct {
	mu sync.RWMutex

	Orders    []*api.Order
	Customers []*api.Customer
	Admins    []*api.Admin
	Products  []*api.Product

	passwords map[string]string // email -> password
	tokens    map[string]string // token -> email

	// failures maps an item id to the status code its next mutations fail
	// with.
	failures map[string]int
	calls    map[string]int // "METHOD path" -> count
}

var seedTime = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

// NewMockState returns a deterministic data set: 25 orders, 12 customers,
// 4 admins and 18 products.
func NewMockState() *MockState {
	s := &MockState{
		passwords: map[string]string{DefaultEmail: DefaultPassword},
		tokens:    make(map[string]string),
		failures:  make(map[string]int),
		calls:     make(map[string]int),
	}

	s.seedCustomers()
	s.seedProducts()
	s.seedOrders()
	s.seedAdmins()

	return s
}

var (
	firstNames = []string{"Amara", "Bianca", "Chloé", "Dana", "Elif", "Farah", "Grace", "Hana", "Ines", "Jade", "Kira", "Lena"}
	lastNames  = []string{"Okafor", "Rossi", "Martin", "Kim", "Yilmaz", "Haddad", "Lee", "Sato", "Silva", "Moreau", "Novak", "Berg"}
	cities     = []string{"Lagos", "Milan", "Lyon", "Seoul", "Izmir", "Beirut"}
)

func (s *MockState) seedCustomers() {
	for i := range 12 {
		name := firstNames[i] + " " + lastNames[i]
		status := api.AccountStatusActive
		if i%5 == 4 {
			status = api.AccountStatusBlocked
		}

		s.Customers = append(s.Customers, &api.Customer{
			ID:        fmt.Sprintf("CUS-%03d", i+1),
			Name:      name,
			Email:     strings.ToLower(firstNames[i]) + "." + strings.ToLower(lastNames[i]) + "@example.com",
			Phone:     fmt.Sprintf("+1-555-01%02d", i),
			Status:    status,
			Blocked:   status == api.AccountStatusBlocked,
			CreatedAt: seedTime.AddDate(0, 0, -90+i*3),
		})
	}
}

var catalog = []struct {
	name, brand, category string
	price                 float64
}{
	{"Hydra Glow Serum", "Lumière", "skincare", 34.0},
	{"Velvet Matte Lipstick", "Rouge Atelier", "makeup", 19.5},
	{"Rose Water Toner", "Petal & Co", "skincare", 14.0},
	{"Silk Repair Hair Oil", "Maison Soie", "haircare", 27.0},
	{"Midnight Recovery Cream", "Lumière", "skincare", 52.0},
	{"Brow Sculpt Pencil", "Rouge Atelier", "makeup", 12.0},
	{"Oud Noir Eau de Parfum", "Atelier Nuit", "fragrance", 89.0},
	{"Vitamin C Brightening Mask", "Petal & Co", "skincare", 22.0},
	{"Curl Defining Cream", "Maison Soie", "haircare", 18.0},
	{"Lash Lift Mascara", "Rouge Atelier", "makeup", 16.0},
	{"Jasmine Body Lotion", "Petal & Co", "bodycare", 21.0},
	{"Sun Shield SPF 50", "Lumière", "skincare", 29.0},
	{"Amber Musk Mist", "Atelier Nuit", "fragrance", 38.0},
	{"Shea Butter Scrub", "Petal & Co", "bodycare", 17.5},
	{"Dewy Skin Foundation", "Rouge Atelier", "makeup", 36.0},
	{"Scalp Detox Shampoo", "Maison Soie", "haircare", 15.0},
	{"Retinol Night Serum", "Lumière", "skincare", 61.0},
	{"Neroli Hand Cream", "Petal & Co", "bodycare", 11.0},
}

func (s *MockState) seedProducts() {
	for i, c := range catalog {
		p := &api.Product{
			ID:        fmt.Sprintf("PRD-%03d", i+1),
			Name:      c.name,
			Brand:     c.brand,
			Category:  c.category,
			Price:     c.price,
			Rating:    3.5 + float64((i*7)%16)/10,
			Reviews:   10 + (i*37)%240,
			Stock:     (i * 13) % 40,
			Featured:  i%4 == 0,
			CreatedAt: seedTime.AddDate(0, 0, -i*5),
		}
		if i%6 == 0 {
			p.OriginalPrice = c.price * 1.25
			p.Tags = append(p.Tags, "sale")
		}

		if p.Rating >= 4.5 {
			p.Tags = append(p.Tags, "bestseller")
		}

		s.Products = append(s.Products, p)
	}
}

func (s *MockState) seedOrders() {
	for i := range 25 {
		cust := s.Customers[i%len(s.Customers)]
		first := s.Products[i%len(s.Products)]
		second := s.Products[(i*5+3)%len(s.Products)]

		lines := []api.OrderLine{
			{ProductID: first.ID, Name: first.Name, Quantity: 1 + i%3, Price: first.Price},
			{ProductID: second.ID, Name: second.Name, Quantity: 1, Price: second.Price},
		}

		var subtotal float64
		for _, l := range lines {
			subtotal += l.Subtotal()
		}

		shipping := 4.95
		if subtotal >= 75 {
			shipping = 0
		}

		tax := float64(int(subtotal*0.08*100+0.5)) / 100
		status := api.OrderStatuses[i%len(api.OrderStatuses)]
		payment := api.PaymentStatusPaid

		switch status {
		case api.OrderStatusPending:
			payment = api.PaymentStatusUnpaid
		case api.OrderStatusCancelled:
			payment = api.PaymentStatusRefunded
		}

		placed := seedTime.Add(time.Duration(i) * 7 * time.Hour)

		s.Orders = append(s.Orders, &api.Order{
			ID:            fmt.Sprintf("ORD-%03d", i+1),
			CustomerID:    cust.ID,
			CustomerName:  cust.Name,
			CustomerEmail: cust.Email,
			Status:        status,
			PaymentStatus: payment,
			PaymentMethod: "card",
			Items:         lines,
			Subtotal:      subtotal,
			Shipping:      shipping,
			Tax:           tax,
			Total:         subtotal + shipping + tax,
			ShippingAddress: api.Address{
				Name:       cust.Name,
				Line1:      fmt.Sprintf("%d Blossom Street", 10+i),
				City:       cities[i%len(cities)],
				PostalCode: fmt.Sprintf("%05d", 10000+i*37),
				Country:    "US",
			},
			CreatedAt: placed,
			UpdatedAt: placed,
		})

		cust.OrdersCount++
		cust.TotalSpent += subtotal + shipping + tax
	}
}

func (s *MockState) seedAdmins() {
	lastLogin := seedTime.Add(-2 * time.Hour)

	s.Admins = []*api.Admin{
		{ID: "ADM-001", Name: "Sofia Laurent", Email: DefaultEmail, Role: api.RoleSuperAdmin, Status: api.AccountStatusActive, LastLogin: &lastLogin, CreatedAt: seedTime.AddDate(-1, 0, 0)},
		{ID: "ADM-002", Name: "Marcus Bell", Email: "marcus@glowshop.test", Role: api.RoleAdmin, Status: api.AccountStatusActive, CreatedAt: seedTime.AddDate(0, -8, 0)},
		{ID: "ADM-003", Name: "Yuki Tanaka", Email: "yuki@glowshop.test", Role: api.RoleEditor, Status: api.AccountStatusActive, CreatedAt: seedTime.AddDate(0, -3, 0)},
		{ID: "ADM-004", Name: "Priya Nair", Email: "priya@glowshop.test", Role: api.RoleSupport, Status: api.AccountStatusInactive, CreatedAt: seedTime.AddDate(0, -1, 0)},
	}
}

// Login checks credentials and issues a token.
func (s *MockState) Login(email, password string) (string, *api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want, ok := s.passwords[email]
	if !ok || want != password {
		return "", nil, false
	}

	token := uuid.NewString()
	s.tokens[token] = email

	user := &api.User{Email: email}
	for _, a := range s.Admins {
		if a.Email == email {
			user.ID, user.Name, user.Role = a.ID, a.Name, a.Role
			now := time.Now().UTC()
			a.LastLogin = &now
		}
	}

	return token, user, true
}

// IssueToken returns a valid token for the default admin without a login
// round trip.
func (s *MockState) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = DefaultEmail

	return token
}

// ValidToken reports whether token was issued and not revoked.
func (s *MockState) ValidToken(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tokens[token]

	return ok
}

// RevokeTokens invalidates every issued token, so the next request answers
// 401.
func (s *MockState) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.tokens)
}

// FailMutations makes every mutation of the given ids fail with status.
func (s *MockState) FailMutations(status int, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		s.failures[id] = status
	}
}

// ResetFailures removes injected failures.
func (s *MockState) ResetFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.failures)
}

func (s *MockState) failureFor(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.failures[id]
}

func (s *MockState) recordCall(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[method+" "+path]++
}

// Calls returns how often a route was hit, e.g. Calls("GET", "/api/orders").
func (s *MockState) Calls(method, path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.calls[method+" "+path]
}

// UpdateStatus sets the status of an order, customer or admin.
func (s *MockState) UpdateStatus(resource api.Resource, id, status, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case api.ResourceOrders:
		o := find(s.Orders, func(o *api.Order) bool { return o.ID == id })
		if o == nil {
			return fmt.Errorf("order %s not found", id)
		}

		if !slices.Contains(api.OrderStatuses, status) {
			return fmt.Errorf("invalid order status %q", status)
		}

		o.Status = status
		if notes != "" {
			o.Notes = notes
		}

		o.UpdatedAt = time.Now().UTC()
	case api.ResourceCustomers:
		c := find(s.Customers, func(c *api.Customer) bool { return c.ID == id })
		if c == nil {
			return fmt.Errorf("customer %s not found", id)
		}

		c.Status = status
		c.Blocked = status == api.AccountStatusBlocked
	case api.ResourceAdmins:
		a := find(s.Admins, func(a *api.Admin) bool { return a.ID == id })
		if a == nil {
			return fmt.Errorf("admin %s not found", id)
		}

		a.Status = status
	default:
		return fmt.Errorf("%s has no status", resource)
	}

	return nil
}

// SetBlocked blocks or unblocks a customer.
func (s *MockState) SetBlocked(id string, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := find(s.Customers, func(c *api.Customer) bool { return c.ID == id })
	if c == nil {
		return fmt.Errorf("customer %s not found", id)
	}

	c.Blocked = blocked
	c.Status = api.AccountStatusActive
	if blocked {
		c.Status = api.AccountStatusBlocked
	}

	return nil
}

// Delete removes an item.
func (s *MockState) Delete(resource api.Resource, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool

	switch resource {
	case api.ResourceOrders:
		s.Orders, removed = remove(s.Orders, func(o *api.Order) bool { return o.ID == id })
	case api.ResourceCustomers:
		s.Customers, removed = remove(s.Customers, func(c *api.Customer) bool { return c.ID == id })
	case api.ResourceAdmins:
		s.Admins, removed = remove(s.Admins, func(a *api.Admin) bool { return a.ID == id })
	case api.ResourceProducts:
		s.Products, removed = remove(s.Products, func(p *api.Product) bool { return p.ID == id })
	}

	if !removed {
		return fmt.Errorf("%s %s not found", resource, id)
	}

	return nil
}

// CreateAdmin adds an admin account.
func (s *MockState) CreateAdmin(req api.CreateAdminRequest) (*api.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.passwords[req.Email]; exists {
		return nil, fmt.Errorf("email %s already registered", req.Email)
	}

	admin := &api.Admin{
		ID:        fmt.Sprintf("ADM-%03d", len(s.Admins)+1),
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Status:    api.AccountStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	for find(s.Admins, func(a *api.Admin) bool { return a.ID == admin.ID }) != nil {
		admin.ID = "ADM-" + uuid.NewString()[:8]
	}

	s.Admins = append(s.Admins, admin)
	s.passwords[req.Email] = req.Password

	return admin, nil
}

// Order returns a copy of an order.
func (s *MockState) Order(id string) (api.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o := find(s.Orders, func(o *api.Order) bool { return o.ID == id })
	if o == nil {
		return api.Order{}, false
	}

	return *o, true
}

// snapshot copies a collection under the read lock.
func snapshot[T any](s *MockState, items func() []*T) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := items()
	out := make([]T, len(src))
	for i, it := range src {
		out[i] = *it
	}

	return out
}

func find[T any](items []*T, match func(*T) bool) *T {
	for _, it := range items {
		if match(it) {
			return it
		}
	}

	return nil
}

func remove[T any](items []*T, match func(*T) bool) ([]*T, bool) {
	n := len(items)
	items = slices.DeleteFunc(items, match)

	return items, len(items) != n
}
