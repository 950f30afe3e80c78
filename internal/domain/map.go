// Package domain contains the core data types for the fleet map sync tool.
// This package has zero external dependencies and is imported by every other
// internal package (mapfile, gateway, service).
package domain

import (
	"fmt"
	"strings"
)

// MapConfig is one declarative map document: the tenant it belongs to plus
// the stops, routes, and cars to materialize on the backend.
// Immutable once loaded.
type MapConfig struct {
	Tenant string      `json:"tenant"`
	Cars   []CarSpec   `json:"cars"`
	Stops  []StopSpec  `json:"stops"`
	Routes []RouteSpec `json:"routes"`
}

// StopSpec describes a named physical location. Name is unique within the
// document; routes reference stops by this name.
type StopSpec struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ContactPhone string  `json:"contactPhone"`
	IsAutoStop   bool    `json:"isAutoStop"` // absent in JSON means false
}

// CarSpec describes a vehicle. Name is unique within the document and must
// be globally unique per tenant on the backend; the backend's uniqueness
// constraint is the final authority.
type CarSpec struct {
	Name       string `json:"name"`
	HwID       string `json:"hwId"`
	AdminPhone string `json:"adminPhone"`
	UnderTest  bool   `json:"underTest"`
}

// RouteSpec describes a route as an ordered sequence of stations with a
// display color for its visualization.
type RouteSpec struct {
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Stops []Station `json:"stops"`
}

// Station is a single route waypoint. StationName is nil for an unnamed
// waypoint that contributes only to route geometry; when set it must match
// the name of a stop in the same document.
type Station struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	StationName *string `json:"stationName"`
}

// Validate enforces the document invariants:
//   - tenant must be non-empty,
//   - stop and car names must be unique within the document,
//   - every non-nil station name must match a stop name.
//
// Returns an error wrapping ErrValidation on the first violation.
func (m MapConfig) Validate() error {
	if strings.TrimSpace(m.Tenant) == "" {
		return fmt.Errorf("%w: tenant is required", ErrValidation)
	}
	stopNames := make(map[string]struct{}, len(m.Stops))
	for _, stop := range m.Stops {
		if _, ok := stopNames[stop.Name]; ok {
			return fmt.Errorf("%w: duplicate stop name %q", ErrValidation, stop.Name)
		}
		stopNames[stop.Name] = struct{}{}
	}
	carNames := make(map[string]struct{}, len(m.Cars))
	for _, car := range m.Cars {
		if _, ok := carNames[car.Name]; ok {
			return fmt.Errorf("%w: duplicate car name %q", ErrValidation, car.Name)
		}
		carNames[car.Name] = struct{}{}
	}
	for _, route := range m.Routes {
		for _, station := range route.Stops {
			if station.StationName == nil {
				continue
			}
			if _, ok := stopNames[*station.StationName]; !ok {
				return fmt.Errorf("%w: route %q references unknown stop %q",
					ErrValidation, route.Name, *station.StationName)
			}
		}
	}
	return nil
}
