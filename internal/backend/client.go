// internal/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/oxaDeveloper/e-commerce-task/internal/config"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/cart"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/order"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/product"
)

// Client talks to the remote storefront REST API. Every request except the
// /auth endpoints carries the bearer token when one is present; every request
// carries the configured Accept-Language. Responses are unwrapped from the
// optional data envelope, and success:false bodies are treated as failures
// even at HTTP 200.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	language       string
	token          func() string
	onUnauthorized func()
	log            *logrus.Logger
}

// New creates a backend client. token is consulted on every request so the
// client always sees the currently persisted bearer token.
func New(cfg *config.Config, log *logrus.Logger, token func() string) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		language: cfg.Backend.Language,
		token:    token,
		log:      log,
	}
}

// SetUnauthorizedCallback registers the global forced-logout hook invoked
// whenever any request answers 401.
func (c *Client) SetUnauthorizedCallback(cb func()) {
	c.onUnauthorized = cb
}

// do performs one request and returns the unwrapped response payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", c.language)

	isAuthEndpoint := strings.HasPrefix(path, "/auth")
	if isAuthEndpoint {
		// Prevent caches on auth endpoints
		req.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		req.Header.Set("Pragma", "no-cache")
	} else if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"latency":     time.Since(start),
	}).Debug("Backend request completed")

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(data, fmt.Sprintf("request failed with status %d", resp.StatusCode)),
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("null"), nil
	}

	if isBusinessFailure(data) {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(data, "Request failed"),
		}
	}

	return unwrapData(data), nil
}

// Login authenticates against POST /auth/login and returns the unwrapped
// response body for identity resolution.
func (c *Client) Login(ctx context.Context, username, password string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"username": username,
		"password": password,
	})
}

// Register creates an account via POST /auth/register and returns the
// unwrapped response body.
func (c *Client) Register(ctx context.Context, username, email, password string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// ListProductsParams are the backend-facing list parameters. Page is 0-based
// here; the session layer owns the 1-based UI translation.
type ListProductsParams struct {
	Page     int
	Size     int
	Name     string
	Category string
}

// ListProducts fetches a catalog page. Blank filters are omitted from the
// query entirely rather than sent as empty strings.
func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) ([]product.Product, int, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("size", strconv.Itoa(params.Size))
	if name := strings.TrimSpace(params.Name); name != "" {
		query.Set("name", name)
	}
	if category := strings.TrimSpace(params.Category); category != "" {
		query.Set("category", category)
	}

	raw, err := c.do(ctx, http.MethodGet, "/products", query, nil)
	if err != nil {
		return nil, 0, err
	}

	itemsRaw, total := splitList(raw)
	var items []product.Product
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode product list: %w", err)
	}
	if total != nil {
		return items, *total, nil
	}
	return items, len(items), nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var p product.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}

// CreateProduct creates a product and returns the server-confirmed entity.
func (c *Client) CreateProduct(ctx context.Context, req product.CreateRequest) (*product.Product, error) {
	raw, err := c.do(ctx, http.MethodPost, "/products", nil, req)
	if err != nil {
		return nil, err
	}
	var p product.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}

// UpdateProduct applies a partial update and returns the confirmed entity.
func (c *Client) UpdateProduct(ctx context.Context, id string, req product.UpdateRequest) (*product.Product, error) {
	raw, err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, req)
	if err != nil {
		return nil, err
	}
	var p product.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}

// DeleteProduct deletes a product by id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
	return err
}

// ListOrders fetches every order (administrator view).
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/orders", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeOrderList(raw)
}

// ListCustomerOrders fetches the orders associated with an email address.
// The backend keys orders by customer email, never by user id.
func (c *Client) ListCustomerOrders(ctx context.Context, email string) ([]order.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/orders/customer/"+url.PathEscape(email), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeOrderList(raw)
}

func decodeOrderList(raw json.RawMessage) ([]order.Order, error) {
	itemsRaw, _ := splitList(raw)
	var items []order.Order
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order list: %w", err)
	}
	return items, nil
}

// UpdateOrderStatus asks the backend to move an order to a new status and
// returns the confirmed order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	raw, err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/status", nil, map[string]order.Status{
		"status": status,
	})
	if err != nil {
		return nil, err
	}
	var o order.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &o, nil
}

// CreateOrderParams describe a checkout.
type CreateOrderParams struct {
	Items         []cart.Line
	CustomerEmail string
	CustomerName  string
}

// orderItemPayload carries a numeric product id: the backend's order intake
// expects numbers even though the gateway treats ids as opaque strings.
type orderItemPayload struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateOrder places an order for the given cart lines and returns the
// server-confirmed order.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*order.Order, error) {
	items := make([]orderItemPayload, 0, len(params.Items))
	for _, line := range params.Items {
		id, err := strconv.ParseInt(line.ProductID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("product id %q is not numeric: %w", line.ProductID, err)
		}
		items = append(items, orderItemPayload{
			ProductID: id,
			Quantity:  line.Quantity,
		})
	}

	body := map[string]interface{}{
		"customerName":  params.CustomerName,
		"customerEmail": params.CustomerEmail,
		"orderItems":    items,
	}

	raw, err := c.do(ctx, http.MethodPost, "/orders", nil, body)
	if err != nil {
		return nil, err
	}
	var o order.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &o, nil
}
