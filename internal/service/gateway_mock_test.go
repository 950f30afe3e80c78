package service_test

import (
	"context"
	"fmt"

	"github.com/pkordes/fleet-map-sync/internal/gateway"
	"github.com/pkordes/fleet-map-sync/internal/service"
)

// ---- func-field mock -------------------------------------------------------

// mockGateway is a hand-written test double for service.Gateway.
// Set only the method fields your test needs; unset methods return zero
// values.
type mockGateway struct {
	getTenants       func(ctx context.Context) ([]gateway.Tenant, error)
	createTenants    func(ctx context.Context, tenants []gateway.Tenant) ([]gateway.Tenant, error)
	setTenantCookie  func(ctx context.Context, tenantID int64) (string, error)
	getStops         func(ctx context.Context) ([]gateway.Stop, error)
	createStops      func(ctx context.Context, stops []gateway.Stop) ([]gateway.Stop, error)
	deleteStop       func(ctx context.Context, stopID int64) error
	getRoutes        func(ctx context.Context) ([]gateway.Route, error)
	createRoutes     func(ctx context.Context, routes []gateway.Route) ([]gateway.Route, error)
	deleteRoute      func(ctx context.Context, routeID int64) error
	redefineVis      func(ctx context.Context, visualizations []gateway.RouteVisualization) error
	getHWs           func(ctx context.Context) ([]gateway.PlatformHW, error)
	createHWs        func(ctx context.Context, hws []gateway.PlatformHW) ([]gateway.PlatformHW, error)
	deleteHW         func(ctx context.Context, platformHWID int64) error
	getCars          func(ctx context.Context) ([]gateway.Car, error)
	createCars       func(ctx context.Context, cars []gateway.Car) ([]gateway.Car, error)
	deleteCar        func(ctx context.Context, carID int64) error
	getOrders        func(ctx context.Context) ([]gateway.Order, error)
	deleteOrder      func(ctx context.Context, carID, orderID int64) error
	setDefaultHeader func(name, value string)
}

func (m *mockGateway) GetTenants(ctx context.Context) ([]gateway.Tenant, error) {
	if m.getTenants != nil {
		return m.getTenants(ctx)
	}
	return nil, nil
}
func (m *mockGateway) CreateTenants(ctx context.Context, tenants []gateway.Tenant) ([]gateway.Tenant, error) {
	if m.createTenants != nil {
		return m.createTenants(ctx, tenants)
	}
	return nil, nil
}
func (m *mockGateway) SetTenantCookie(ctx context.Context, tenantID int64) (string, error) {
	if m.setTenantCookie != nil {
		return m.setTenantCookie(ctx, tenantID)
	}
	return "", nil
}
func (m *mockGateway) GetStops(ctx context.Context) ([]gateway.Stop, error) {
	if m.getStops != nil {
		return m.getStops(ctx)
	}
	return nil, nil
}
func (m *mockGateway) CreateStops(ctx context.Context, stops []gateway.Stop) ([]gateway.Stop, error) {
	if m.createStops != nil {
		return m.createStops(ctx, stops)
	}
	return nil, nil
}
func (m *mockGateway) DeleteStop(ctx context.Context, stopID int64) error {
	if m.deleteStop != nil {
		return m.deleteStop(ctx, stopID)
	}
	return nil
}
func (m *mockGateway) GetRoutes(ctx context.Context) ([]gateway.Route, error) {
	if m.getRoutes != nil {
		return m.getRoutes(ctx)
	}
	return nil, nil
}
func (m *mockGateway) CreateRoutes(ctx context.Context, routes []gateway.Route) ([]gateway.Route, error) {
	if m.createRoutes != nil {
		return m.createRoutes(ctx, routes)
	}
	return nil, nil
}
func (m *mockGateway) DeleteRoute(ctx context.Context, routeID int64) error {
	if m.deleteRoute != nil {
		return m.deleteRoute(ctx, routeID)
	}
	return nil
}
func (m *mockGateway) RedefineRouteVisualizations(ctx context.Context, visualizations []gateway.RouteVisualization) error {
	if m.redefineVis != nil {
		return m.redefineVis(ctx, visualizations)
	}
	return nil
}
func (m *mockGateway) GetHWs(ctx context.Context) ([]gateway.PlatformHW, error) {
	if m.getHWs != nil {
		return m.getHWs(ctx)
	}
	return nil, nil
}
func (m *mockGateway) CreateHWs(ctx context.Context, hws []gateway.PlatformHW) ([]gateway.PlatformHW, error) {
	if m.createHWs != nil {
		return m.createHWs(ctx, hws)
	}
	return nil, nil
}
func (m *mockGateway) DeleteHW(ctx context.Context, platformHWID int64) error {
	if m.deleteHW != nil {
		return m.deleteHW(ctx, platformHWID)
	}
	return nil
}
func (m *mockGateway) GetCars(ctx context.Context) ([]gateway.Car, error) {
	if m.getCars != nil {
		return m.getCars(ctx)
	}
	return nil, nil
}
func (m *mockGateway) CreateCars(ctx context.Context, cars []gateway.Car) ([]gateway.Car, error) {
	if m.createCars != nil {
		return m.createCars(ctx, cars)
	}
	return nil, nil
}
func (m *mockGateway) DeleteCar(ctx context.Context, carID int64) error {
	if m.deleteCar != nil {
		return m.deleteCar(ctx, carID)
	}
	return nil
}
func (m *mockGateway) GetOrders(ctx context.Context) ([]gateway.Order, error) {
	if m.getOrders != nil {
		return m.getOrders(ctx)
	}
	return nil, nil
}
func (m *mockGateway) DeleteOrder(ctx context.Context, carID, orderID int64) error {
	if m.deleteOrder != nil {
		return m.deleteOrder(ctx, carID, orderID)
	}
	return nil
}
func (m *mockGateway) SetDefaultHeader(name, value string) {
	if m.setDefaultHeader != nil {
		m.setDefaultHeader(name, value)
	}
}

// compile-time checks: both the mock and the production client must satisfy
// service.Gateway.
var (
	_ service.Gateway = (*mockGateway)(nil)
	_ service.Gateway = (*gateway.Client)(nil)
	_ service.Gateway = (*fakeBackend)(nil)
)

// ---- in-memory backend -----------------------------------------------------

// fakeBackend is an in-memory Fleet Management backend for reconciler and
// driver tests. It assigns ids sequentially per entity kind and records the
// order of batch/list calls in calls.
type fakeBackend struct {
	calls []string

	tenants        []gateway.Tenant
	stops          []gateway.Stop
	routes         []gateway.Route
	visualizations []gateway.RouteVisualization
	platforms      []gateway.PlatformHW
	cars           []gateway.Car
	orders         []gateway.Order

	headers map[string]string

	// failOn maps a call name (as recorded in calls) to the error that call
	// should return instead of succeeding.
	failOn map[string]error

	nextID int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{headers: make(map[string]string), failOn: make(map[string]error)}
}

func (f *fakeBackend) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failOn[call]
}

func (f *fakeBackend) assignID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeBackend) GetTenants(ctx context.Context) ([]gateway.Tenant, error) {
	if err := f.record("GetTenants"); err != nil {
		return nil, err
	}
	return append([]gateway.Tenant(nil), f.tenants...), nil
}

func (f *fakeBackend) CreateTenants(ctx context.Context, tenants []gateway.Tenant) ([]gateway.Tenant, error) {
	if err := f.record("CreateTenants"); err != nil {
		return nil, err
	}
	created := make([]gateway.Tenant, 0, len(tenants))
	for _, t := range tenants {
		t.Id = f.assignID()
		f.tenants = append(f.tenants, t)
		created = append(created, t)
	}
	return created, nil
}

func (f *fakeBackend) SetTenantCookie(ctx context.Context, tenantID int64) (string, error) {
	if err := f.record("SetTenantCookie"); err != nil {
		return "", err
	}
	return fmt.Sprintf("tenant=session-%d", tenantID), nil
}

func (f *fakeBackend) GetStops(ctx context.Context) ([]gateway.Stop, error) {
	if err := f.record("GetStops"); err != nil {
		return nil, err
	}
	return append([]gateway.Stop(nil), f.stops...), nil
}

func (f *fakeBackend) CreateStops(ctx context.Context, stops []gateway.Stop) ([]gateway.Stop, error) {
	if err := f.record("CreateStops"); err != nil {
		return nil, err
	}
	created := make([]gateway.Stop, 0, len(stops))
	for _, s := range stops {
		s.Id = f.assignID()
		f.stops = append(f.stops, s)
		created = append(created, s)
	}
	return created, nil
}

func (f *fakeBackend) DeleteStop(ctx context.Context, stopID int64) error {
	return f.record("DeleteStop")
}

func (f *fakeBackend) GetRoutes(ctx context.Context) ([]gateway.Route, error) {
	if err := f.record("GetRoutes"); err != nil {
		return nil, err
	}
	return append([]gateway.Route(nil), f.routes...), nil
}

func (f *fakeBackend) CreateRoutes(ctx context.Context, routes []gateway.Route) ([]gateway.Route, error) {
	if err := f.record("CreateRoutes"); err != nil {
		return nil, err
	}
	created := make([]gateway.Route, 0, len(routes))
	for _, r := range routes {
		r.Id = f.assignID()
		f.routes = append(f.routes, r)
		created = append(created, r)
	}
	return created, nil
}

func (f *fakeBackend) DeleteRoute(ctx context.Context, routeID int64) error {
	return f.record("DeleteRoute")
}

func (f *fakeBackend) RedefineRouteVisualizations(ctx context.Context, visualizations []gateway.RouteVisualization) error {
	if err := f.record("RedefineRouteVisualizations"); err != nil {
		return err
	}
	f.visualizations = append(f.visualizations, visualizations...)
	return nil
}

func (f *fakeBackend) GetHWs(ctx context.Context) ([]gateway.PlatformHW, error) {
	if err := f.record("GetHWs"); err != nil {
		return nil, err
	}
	return append([]gateway.PlatformHW(nil), f.platforms...), nil
}

func (f *fakeBackend) CreateHWs(ctx context.Context, hws []gateway.PlatformHW) ([]gateway.PlatformHW, error) {
	if err := f.record("CreateHWs"); err != nil {
		return nil, err
	}
	created := make([]gateway.PlatformHW, 0, len(hws))
	for _, hw := range hws {
		hw.Id = f.assignID()
		f.platforms = append(f.platforms, hw)
		created = append(created, hw)
	}
	return created, nil
}

func (f *fakeBackend) DeleteHW(ctx context.Context, platformHWID int64) error {
	return f.record("DeleteHW")
}

func (f *fakeBackend) GetCars(ctx context.Context) ([]gateway.Car, error) {
	if err := f.record("GetCars"); err != nil {
		return nil, err
	}
	return append([]gateway.Car(nil), f.cars...), nil
}

func (f *fakeBackend) CreateCars(ctx context.Context, cars []gateway.Car) ([]gateway.Car, error) {
	if err := f.record("CreateCars"); err != nil {
		return nil, err
	}
	created := make([]gateway.Car, 0, len(cars))
	for _, c := range cars {
		c.Id = f.assignID()
		f.cars = append(f.cars, c)
		created = append(created, c)
	}
	return created, nil
}

func (f *fakeBackend) DeleteCar(ctx context.Context, carID int64) error {
	return f.record("DeleteCar")
}

func (f *fakeBackend) GetOrders(ctx context.Context) ([]gateway.Order, error) {
	if err := f.record("GetOrders"); err != nil {
		return nil, err
	}
	return append([]gateway.Order(nil), f.orders...), nil
}

func (f *fakeBackend) DeleteOrder(ctx context.Context, carID, orderID int64) error {
	return f.record("DeleteOrder")
}

func (f *fakeBackend) SetDefaultHeader(name, value string) {
	f.headers[name] = value
}
