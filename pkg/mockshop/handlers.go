package mockshop

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/devnullvoid/shoptui/pkg/api"
)

const defaultLimit = 20

// listing describes how one collection is filtered and wrapped.
type listing[T any] struct {
	resource api.Resource
	items    func(s *MockState) []*T
	search   func(T) []string
	// filters maps a query parameter to the field it constrains.
	filters map[string]func(T) string
	// paged selects {items, pagination}; otherwise {<resource>, count}.
	paged bool
}

var orderListing = listing[api.Order]{
	resource: api.ResourceOrders,
	items:    func(s *MockState) []*api.Order { return s.Orders },
	search:   func(o api.Order) []string { return []string{o.ID, o.CustomerName, o.CustomerEmail} },
	filters: map[string]func(api.Order) string{
		"status":        func(o api.Order) string { return o.Status },
		"paymentStatus": func(o api.Order) string { return o.PaymentStatus },
	},
	paged: true,
}

var customerListing = listing[api.Customer]{
	resource: api.ResourceCustomers,
	items:    func(s *MockState) []*api.Customer { return s.Customers },
	search:   func(c api.Customer) []string { return []string{c.ID, c.Name, c.Email, c.Phone} },
	filters: map[string]func(api.Customer) string{
		"status": func(c api.Customer) string { return c.Status },
	},
}

var adminListing = listing[api.Admin]{
	resource: api.ResourceAdmins,
	items:    func(s *MockState) []*api.Admin { return s.Admins },
	search:   func(a api.Admin) []string { return []string{a.Name, a.Email} },
	filters: map[string]func(api.Admin) string{
		"status": func(a api.Admin) string { return a.Status },
		"role":   func(a api.Admin) string { return a.Role },
	},
}

var productListing = listing[api.Product]{
	resource: api.ResourceProducts,
	items:    func(s *MockState) []*api.Product { return s.Products },
	search:   func(p api.Product) []string { return []string{p.Name, p.Brand, p.Category} },
	filters: map[string]func(api.Product) string{
		"category": func(p api.Product) string { return p.Category },
		"brand":    func(p api.Product) string { return p.Brand },
	},
	paged: true,
}

// handleList serves GET /<resource>.
func handleList[T any](state *MockState, l listing[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := positiveInt(q.Get("page"), 1)
		limit := positiveInt(q.Get("limit"), defaultLimit)
		search := strings.ToLower(q.Get("search"))

		all := snapshot(state, func() []*T { return l.items(state) })
		matched := make([]T, 0, len(all))

		for _, it := range all {
			if !matchesSearch(l.search(it), search) {
				continue
			}

			ok := true
			for param, field := range l.filters {
				if want := q.Get(param); want != "" && field(it) != want {
					ok = false
					break
				}
			}

			if ok {
				matched = append(matched, it)
			}
		}

		total := len(matched)
		totalPages := max(1, (total+limit-1)/limit)
		start := min((page-1)*limit, total)
		end := min(start+limit, total)
		items := matched[start:end]

		if l.paged {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"items":   items,
				"pagination": map[string]int{
					"page":       page,
					"totalPages": totalPages,
					"total":      total,
				},
			})

			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":          true,
			string(l.resource): items,
			"count":            total,
		})
	}
}

// HandleGetOrder serves GET /orders/{id}.
func HandleGetOrder(state *MockState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := state.Order(mux.Vars(r)["id"])
		if !ok {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "order": order})
	}
}

// HandleUpdateStatus serves PUT /<resource>/{id}/status.
func HandleUpdateStatus(state *MockState, hub *Hub, resource api.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if status := state.failureFor(id); status != 0 {
			writeError(w, status, "Injected failure for "+id)
			return
		}

		var body api.StatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := state.UpdateStatus(resource, id, body.Status, body.Notes); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		hub.Publish(resource, id)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Status updated"})
	}
}

// HandleBlockCustomer serves PATCH /customers/{id}/block.
func HandleBlockCustomer(state *MockState, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if status := state.failureFor(id); status != 0 {
			writeError(w, status, "Injected failure for "+id)
			return
		}

		var body struct {
			Blocked bool `json:"blocked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := state.SetBlocked(id, body.Blocked); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		hub.Publish(api.ResourceCustomers, id)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// HandleDelete serves DELETE /<resource>/{id}.
func HandleDelete(state *MockState, hub *Hub, resource api.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if status := state.failureFor(id); status != 0 {
			writeError(w, status, "Injected failure for "+id)
			return
		}

		if err := state.Delete(resource, id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		hub.Publish(resource, id)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Deleted"})
	}
}

// HandleCreateAdmin serves POST /admins.
func HandleCreateAdmin(state *MockState, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body api.CreateAdminRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		admin, err := state.CreateAdmin(body)
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}

		hub.Publish(api.ResourceAdmins, admin.ID)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "admin": admin})
	}
}

// HandleLogin serves POST /auth/login.
func HandleLogin(state *MockState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		token, user, ok := state.Login(body.Email, body.Password)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"token":   token,
			"user":    user,
		})
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(state *MockState, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !state.ValidToken(token) {
			writeError(w, http.StatusUnauthorized, "Session expired, please sign in again")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func matchesSearch(fields []string, needle string) bool {
	if needle == "" {
		return true
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}

	return false
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}

	return n
}

func statusFor(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if status > 0 {
		w.WriteHeader(status)
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("mock-api: failed to encode JSON response: %v", err)
	}
}
