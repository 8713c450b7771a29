// Package api is the client of the shop back-office REST API.
//
// It normalizes the backend's response envelopes into typed pages, attaches
// the bearer token of the injected session to every request and clears that
// session when the backend answers 401.
package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// Client is a shop backend API client with dependency injection for logging
// and session storage.
type Client struct {
	httpClient  *HTTPClient
	authManager *AuthManager

	logger  interfaces.Logger
	retries int

	baseURL   string
	userAgent string
}

// NewClient creates a client for the backend at config.GetAPIURL().
func NewClient(config interfaces.Config, options ...ClientOption) (*Client, error) {
	opts := defaultOptions()
	for _, option := range options {
		option(opts)
	}

	baseURL := strings.TrimRight(config.GetAPIURL(), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("API URL cannot be empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}

	opts.Logger.Debug("Backend API base URL: %s", baseURL)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.GetInsecure()} //nolint:gosec // opt-in via config

		timeout := config.GetTimeout()
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		httpClient = &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}
	}

	httpClientWrapper := NewHTTPClient(httpClient, baseURL, opts.Logger)
	httpClientWrapper.userAgent = opts.UserAgent

	authManager := NewAuthManager(baseURL, httpClient, opts.Session, opts.Logger)
	authManager.userAgent = opts.UserAgent
	httpClientWrapper.SetAuthManager(authManager)

	return &Client{
		httpClient:  httpClientWrapper,
		authManager: authManager,
		logger:      opts.Logger,
		retries:     opts.Retries,
		baseURL:     baseURL,
		userAgent:   opts.UserAgent,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Auth returns the client's auth manager.
func (c *Client) Auth() *AuthManager {
	return c.authManager
}

// Login signs in and stores the token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	return c.authManager.Login(ctx, email, password)
}

// Logout clears the session.
func (c *Client) Logout() {
	c.authManager.ClearToken()
}

func (c *Client) requireSession() error {
	if !c.authManager.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	return nil
}

// list fetches one collection and normalizes its envelope.
func list[T any](ctx context.Context, c *Client, resource Resource, params ListParams) (Page[T], error) {
	if err := c.requireSession(); err != nil {
		return Page[T]{}, err
	}

	if params.Limit == 0 {
		params.Limit = DefaultListLimit
	}

	body, err := c.httpClient.GetWithRetry(ctx, "/"+string(resource), params.Query(), c.retries)
	if err != nil {
		return Page[T]{}, fmt.Errorf("failed to fetch %s: %w", resource, err)
	}

	page, err := decodePage[T](body, resource)
	if err != nil {
		return Page[T]{}, err
	}

	c.logger.Debug("Fetched %d %s (total %d)", len(page.Items), resource, page.Total)

	return page, nil
}

// ListOrders fetches orders.
func (c *Client) ListOrders(ctx context.Context, params ListParams) (Page[Order], error) {
	return list[Order](ctx, c, ResourceOrders, params)
}

// ListCustomers fetches customers.
func (c *Client) ListCustomers(ctx context.Context, params ListParams) (Page[Customer], error) {
	return list[Customer](ctx, c, ResourceCustomers, params)
}

// ListAdmins fetches admin accounts.
func (c *Client) ListAdmins(ctx context.Context, params ListParams) (Page[Admin], error) {
	return list[Admin](ctx, c, ResourceAdmins, params)
}

// ListProducts fetches the product catalog. The catalog is public, so no
// session is required.
func (c *Client) ListProducts(ctx context.Context, params ListParams) (Page[Product], error) {
	if params.Limit == 0 {
		params.Limit = DefaultListLimit
	}

	body, err := c.httpClient.GetWithRetry(ctx, "/"+string(ResourceProducts), params.Query(), c.retries)
	if err != nil {
		return Page[Product]{}, fmt.Errorf("failed to fetch %s: %w", ResourceProducts, err)
	}

	return decodePage[Product](body, ResourceProducts)
}

// GetOrder fetches a single order.
func (c *Client) GetOrder(ctx context.Context, id string) (Order, error) {
	if err := c.requireSession(); err != nil {
		return Order{}, err
	}

	body, err := c.httpClient.Get(ctx, itemPath(ResourceOrders, id), nil)
	if err != nil {
		return Order{}, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}

	return decodeItem[Order](body, "order")
}

// UpdateStatus sets the status of one item.
func (c *Client) UpdateStatus(ctx context.Context, resource Resource, id string, update StatusUpdate) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	body, err := c.httpClient.Put(ctx, itemPath(resource, id)+"/status", update)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", resource, id, err)
	}

	return checkEnvelope(body)
}

// UpdateOrderStatus sets the status of one order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, update StatusUpdate) error {
	return c.UpdateStatus(ctx, ResourceOrders, id, update)
}

// SetCustomerBlocked blocks or unblocks a customer.
func (c *Client) SetCustomerBlocked(ctx context.Context, id string, blocked bool) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	body, err := c.httpClient.Patch(ctx, itemPath(ResourceCustomers, id)+"/block", map[string]bool{"blocked": blocked})
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", id, err)
	}

	return checkEnvelope(body)
}

// Delete removes one item.
func (c *Client) Delete(ctx context.Context, resource Resource, id string) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	body, err := c.httpClient.Delete(ctx, itemPath(resource, id))
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", resource, id, err)
	}

	return checkEnvelope(body)
}

// CreateAdmin creates a back-office account.
func (c *Client) CreateAdmin(ctx context.Context, req CreateAdminRequest) (Admin, error) {
	if err := c.requireSession(); err != nil {
		return Admin{}, err
	}

	body, err := c.httpClient.Post(ctx, "/"+string(ResourceAdmins), req)
	if err != nil {
		return Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}

	return decodeItem[Admin](body, "admin")
}

func itemPath(resource Resource, id string) string {
	return "/" + string(resource) + "/" + url.PathEscape(id)
}
