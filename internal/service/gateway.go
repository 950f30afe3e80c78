// Package service implements the reconciliation engine: tenant session
// resolution, ordered map reconciliation, duplicate-rejection
// classification, and the batch driver that runs them over a sequence of
// map documents.
package service

import (
	"context"

	"github.com/pkordes/fleet-map-sync/internal/gateway"
)

// Gateway defines the backend operations the reconciliation engine depends
// on. Defining the interface here (in the consumer package) lets tests
// inject a fake without a live backend; *gateway.Client is the production
// implementation.
type Gateway interface {
	GetTenants(ctx context.Context) ([]gateway.Tenant, error)
	CreateTenants(ctx context.Context, tenants []gateway.Tenant) ([]gateway.Tenant, error)
	SetTenantCookie(ctx context.Context, tenantID int64) (string, error)

	GetStops(ctx context.Context) ([]gateway.Stop, error)
	CreateStops(ctx context.Context, stops []gateway.Stop) ([]gateway.Stop, error)
	DeleteStop(ctx context.Context, stopID int64) error

	GetRoutes(ctx context.Context) ([]gateway.Route, error)
	CreateRoutes(ctx context.Context, routes []gateway.Route) ([]gateway.Route, error)
	DeleteRoute(ctx context.Context, routeID int64) error
	RedefineRouteVisualizations(ctx context.Context, visualizations []gateway.RouteVisualization) error

	GetHWs(ctx context.Context) ([]gateway.PlatformHW, error)
	CreateHWs(ctx context.Context, hws []gateway.PlatformHW) ([]gateway.PlatformHW, error)
	DeleteHW(ctx context.Context, platformHWID int64) error

	GetCars(ctx context.Context) ([]gateway.Car, error)
	CreateCars(ctx context.Context, cars []gateway.Car) ([]gateway.Car, error)
	DeleteCar(ctx context.Context, carID int64) error

	GetOrders(ctx context.Context) ([]gateway.Order, error)
	DeleteOrder(ctx context.Context, carID, orderID int64) error

	// SetDefaultHeader attaches a header to every subsequent request; the
	// driver uses it to scope calls to the resolved tenant session.
	SetDefaultHeader(name, value string)
}
