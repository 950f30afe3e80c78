package gateway

import "fmt"

// Wire types for the Fleet Management HTTP API. Field names and JSON tags
// follow the backend's schema; Id is assigned by the backend and echoed on
// creation responses.

// Tenant is a namespace isolating one customer's fleet entities. Name
// uniqueness of all other entities is scoped per tenant.
type Tenant struct {
	Id   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// GNSSPosition is a geographic point.
type GNSSPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MobilePhone wraps a phone number.
type MobilePhone struct {
	Phone string `json:"phone"`
}

// Stop is a named physical location entities can route through or halt at.
type Stop struct {
	Id                int64        `json:"id,omitempty"`
	Name              string       `json:"name"`
	Position          GNSSPosition `json:"position"`
	NotificationPhone MobilePhone  `json:"notificationPhone"`
	IsAutoStop        bool         `json:"isAutoStop"`
}

// Route is an ordered sequence of stop references.
type Route struct {
	Id      int64   `json:"id,omitempty"`
	Name    string  `json:"name"`
	StopIds []int64 `json:"stopIds"`
}

// RouteVisualization is the display geometry associated with a route: a
// colored ordered point sequence.
type RouteVisualization struct {
	Id       int64          `json:"id,omitempty"`
	RouteId  int64          `json:"routeId"`
	Hexcolor string         `json:"hexcolor"`
	Points   []GNSSPosition `json:"points"`
}

// PlatformHW is a physical vehicle controller record a Car is attached to.
type PlatformHW struct {
	Id   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Car is a vehicle attached to a platform HW record.
type Car struct {
	Id            int64       `json:"id,omitempty"`
	PlatformHwId  int64       `json:"platformHwId"`
	Name          string      `json:"name"`
	CarAdminPhone MobilePhone `json:"carAdminPhone"`
	UnderTest     bool        `json:"underTest"`
}

// Order is a transport order assigned to a car. The sync tool only ever
// lists and deletes orders (delete-all path).
type Order struct {
	Id    int64 `json:"id"`
	CarId int64 `json:"carId"`
}

// APIError is a structured non-2xx response from the backend. Title and
// Detail are decoded from the JSON error body; Detail falls back to the raw
// body when the backend returns something unstructured.
type APIError struct {
	StatusCode int    `json:"-"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway: HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("gateway: HTTP %d", e.StatusCode)
}
