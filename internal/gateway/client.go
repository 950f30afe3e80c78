// Package gateway is the HTTP client for the Fleet Management API: one
// method per endpoint, typed request/response bodies, and structured
// *APIError failures. It holds no reconciliation logic; that lives in
// internal/service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to one Fleet Management backend. It is not safe for
// concurrent use: the sync run is strictly sequential and SetDefaultHeader
// mutates shared state between calls.
type Client struct {
	baseURL        string
	apiKey         string
	http           *http.Client
	log            *slog.Logger
	defaultHeaders map[string]string
}

// New constructs a Client for the backend at baseURL. The apiKey is sent as
// the api_key query parameter on every request.
func New(baseURL, apiKey string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		http:           &http.Client{Timeout: 30 * time.Second},
		log:            log,
		defaultHeaders: make(map[string]string),
	}
}

// SetDefaultHeader sets a header attached to every subsequent request.
// The batch driver uses this to propagate the tenant session cookie.
func (c *Client) SetDefaultHeader(name, value string) {
	c.defaultHeaders[name] = value
}

// newRequest builds a request for path with the default headers, the api_key
// query parameter, a JSON-encoded body (when non-nil), and a fresh
// X-Request-Id for log correlation.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse URL %s: %w", c.baseURL+path, err)
	}
	if c.apiKey != "" {
		q := u.Query()
		q.Set("api_key", c.apiKey)
		u.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("gateway: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range c.defaultHeaders {
		req.Header.Set(name, value)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// do executes one round-trip and decodes a 2xx response body into out (when
// out is non-nil). Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	c.log.Debug("gateway request",
		"method", method,
		"path", path,
		"request_id", req.Header.Get("X-Request-Id"),
	)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: read response: %w", method, path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("gateway: %s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// decodeAPIError turns a non-2xx body into an *APIError, preserving the raw
// body as Detail when it is not the structured {"title","detail"} shape.
func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Title == "" && apiErr.Detail == "") {
		apiErr.Title = ""
		apiErr.Detail = string(bytes.TrimSpace(body))
	}
	return apiErr
}

// ---- tenants ---------------------------------------------------------------

// GetTenants lists all tenants visible to the API key.
func (c *Client) GetTenants(ctx context.Context) ([]Tenant, error) {
	var out []Tenant
	err := c.do(ctx, http.MethodGet, "/tenant", nil, &out)
	return out, err
}

// CreateTenants creates tenants in one batch call and returns them with
// their assigned ids.
func (c *Client) CreateTenants(ctx context.Context, tenants []Tenant) ([]Tenant, error) {
	var out []Tenant
	err := c.do(ctx, http.MethodPost, "/tenant", tenants, &out)
	return out, err
}

// DeleteTenant deletes the tenant with the given id.
func (c *Client) DeleteTenant(ctx context.Context, tenantID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tenant/%d", tenantID), nil, nil)
}

// SetTenantCookie asks the backend for a session cookie scoping subsequent
// calls to the given tenant, and returns the Set-Cookie header value.
func (c *Client) SetTenantCookie(ctx context.Context, tenantID int64) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/tenant/cookie/%d", tenantID), nil)
	if err != nil {
		return "", err
	}

	c.log.Debug("gateway request",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get("X-Request-Id"),
	)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway: set tenant cookie: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gateway: set tenant cookie: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", decodeAPIError(resp.StatusCode, data)
	}
	cookie := resp.Header.Get("Set-Cookie")
	if cookie == "" {
		return "", fmt.Errorf("gateway: set tenant cookie: backend returned no Set-Cookie header")
	}
	// Keep only the name=value pair: Set-Cookie attributes like Path or
	// HttpOnly must not be echoed back in the Cookie request header.
	if pair, _, found := strings.Cut(cookie, ";"); found {
		cookie = strings.TrimSpace(pair)
	}
	return cookie, nil
}

// ---- stops -----------------------------------------------------------------

// GetStops lists all stops for the current tenant session.
func (c *Client) GetStops(ctx context.Context) ([]Stop, error) {
	var out []Stop
	err := c.do(ctx, http.MethodGet, "/stop", nil, &out)
	return out, err
}

// CreateStops creates stops in one batch call and returns them with their
// assigned ids.
func (c *Client) CreateStops(ctx context.Context, stops []Stop) ([]Stop, error) {
	var out []Stop
	err := c.do(ctx, http.MethodPost, "/stop", stops, &out)
	return out, err
}

// DeleteStop deletes the stop with the given id.
func (c *Client) DeleteStop(ctx context.Context, stopID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/stop/%d", stopID), nil, nil)
}

// ---- routes ----------------------------------------------------------------

// GetRoutes lists all routes for the current tenant session.
func (c *Client) GetRoutes(ctx context.Context) ([]Route, error) {
	var out []Route
	err := c.do(ctx, http.MethodGet, "/route", nil, &out)
	return out, err
}

// CreateRoutes creates routes in one batch call and returns them with their
// assigned ids.
func (c *Client) CreateRoutes(ctx context.Context, routes []Route) ([]Route, error) {
	var out []Route
	err := c.do(ctx, http.MethodPost, "/route", routes, &out)
	return out, err
}

// DeleteRoute deletes the route with the given id.
func (c *Client) DeleteRoute(ctx context.Context, routeID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/route/%d", routeID), nil, nil)
}

// RedefineRouteVisualizations replaces the display geometry of the
// referenced routes in one batch call.
func (c *Client) RedefineRouteVisualizations(ctx context.Context, visualizations []RouteVisualization) error {
	return c.do(ctx, http.MethodPost, "/route-visualization", visualizations, nil)
}

// ---- platform HW -----------------------------------------------------------

// GetHWs lists all platform HW records for the current tenant session.
func (c *Client) GetHWs(ctx context.Context) ([]PlatformHW, error) {
	var out []PlatformHW
	err := c.do(ctx, http.MethodGet, "/platformhw", nil, &out)
	return out, err
}

// CreateHWs creates platform HW records in one batch call and returns them
// with their assigned ids.
func (c *Client) CreateHWs(ctx context.Context, hws []PlatformHW) ([]PlatformHW, error) {
	var out []PlatformHW
	err := c.do(ctx, http.MethodPost, "/platformhw", hws, &out)
	return out, err
}

// DeleteHW deletes the platform HW record with the given id.
func (c *Client) DeleteHW(ctx context.Context, platformHWID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/platformhw/%d", platformHWID), nil, nil)
}

// ---- cars ------------------------------------------------------------------

// GetCars lists all cars for the current tenant session.
func (c *Client) GetCars(ctx context.Context) ([]Car, error) {
	var out []Car
	err := c.do(ctx, http.MethodGet, "/car", nil, &out)
	return out, err
}

// CreateCars creates cars in one batch call and returns them with their
// assigned ids.
func (c *Client) CreateCars(ctx context.Context, cars []Car) ([]Car, error) {
	var out []Car
	err := c.do(ctx, http.MethodPost, "/car", cars, &out)
	return out, err
}

// DeleteCar deletes the car with the given id.
func (c *Client) DeleteCar(ctx context.Context, carID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/car/%d", carID), nil, nil)
}

// ---- orders ----------------------------------------------------------------

// GetOrders lists all orders for the current tenant session.
func (c *Client) GetOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, "/order", nil, &out)
	return out, err
}

// DeleteOrder deletes one order of one car.
func (c *Client) DeleteOrder(ctx context.Context, carID, orderID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/order/%d/%d", carID, orderID), nil, nil)
}
