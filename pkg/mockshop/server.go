package mockshop

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/devnullvoid/shoptui/pkg/api"
)

// APIPrefix is the path every backend route lives under.
const APIPrefix = "/api"

// Server is the fake backend: state, change hub and router.
type Server struct {
	State *MockState
	Hub   *Hub

	handler http.Handler
}

// NewServer wires the routes around state. A nil state gets the seeded
// data set.
func NewServer(ctx context.Context, state *MockState) (*Server, error) {
	if state == nil {
		state = NewMockState()
	}

	validator, err := NewValidator(ctx)
	if err != nil {
		return nil, err
	}

	hub := NewHub()
	r := mux.NewRouter()

	// Stateful handlers, validated against the OpenAPI document.
	rest := mux.NewRouter()
	rest.HandleFunc("/auth/login", HandleLogin(state)).Methods(http.MethodPost)
	rest.HandleFunc("/products", handleList(state, productListing)).Methods(http.MethodGet)

	authed := rest.NewRoute().Subrouter()
	authed.Use(func(next http.Handler) http.Handler { return RequireAuth(state, next) })

	authed.HandleFunc("/orders", handleList(state, orderListing)).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id}", HandleGetOrder(state)).Methods(http.MethodGet)
	authed.HandleFunc("/customers", handleList(state, customerListing)).Methods(http.MethodGet)
	authed.HandleFunc("/admins", handleList(state, adminListing)).Methods(http.MethodGet)
	authed.HandleFunc("/admins", HandleCreateAdmin(state, hub)).Methods(http.MethodPost)
	authed.HandleFunc("/customers/{id}/block", HandleBlockCustomer(state, hub)).Methods(http.MethodPatch)

	for _, res := range []api.Resource{api.ResourceOrders, api.ResourceCustomers, api.ResourceAdmins} {
		authed.HandleFunc("/"+string(res)+"/{id}/status", HandleUpdateStatus(state, hub, res)).Methods(http.MethodPut)
		authed.HandleFunc("/"+string(res)+"/{id}", HandleDelete(state, hub, res)).Methods(http.MethodDelete)
	}

	// Documented routes without state, e.g. /dashboard/stats.
	authed.PathPrefix("/").Handler(validator.Fallback())

	r.Handle(api.EndpointEvents, RequireAuth(state, hub)).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(validator.Middleware(rest))

	final := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path, ok := strings.CutPrefix(req.URL.Path, APIPrefix)
		if !ok {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}

		state.recordCall(req.Method, req.URL.Path)
		req.URL.Path = path
		r.ServeHTTP(w, req)
	})

	return &Server{State: state, Hub: hub, handler: final}, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close disconnects event subscribers.
func (s *Server) Close() {
	s.Hub.Close()
}
