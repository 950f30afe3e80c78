package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/fleet-map-sync/internal/domain"
	"github.com/pkordes/fleet-map-sync/internal/gateway"
)

// Entity kind labels used in ReconcileError and classified duplicate
// messages.
const (
	KindStop               = "stop"
	KindRoute              = "route"
	KindRouteVisualization = "route visualization"
	KindPlatformHW         = "platform hardware"
	KindCar                = "car"
)

// ReconcileError wraps a failed gateway call with the entity kind the
// reconciler was creating when it failed, so the driver can classify
// duplicate-name rejections with the right label.
type ReconcileError struct {
	Kind string
	Err  error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("create %ss: %v", e.Kind, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// Reconciler materializes one map document on the backend in five ordered
// phases: stops, routes, route visualizations, platform HW bookkeeping, and
// platforms+cars. Each phase depends on ids assigned by the previous one,
// so the order is fixed.
type Reconciler struct {
	gw  Gateway
	log *slog.Logger
}

// NewReconciler constructs a Reconciler backed by the given gateway.
func NewReconciler(gw Gateway, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{gw: gw, log: log}
}

// Reconcile creates the document's entities on the backend. The caller must
// have established the tenant session first. Cars and platforms whose names
// are in materialized are skipped; names of newly created cars are added to
// it. A failure in any phase abandons the remaining phases and is returned
// as a *ReconcileError.
func (r *Reconciler) Reconcile(ctx context.Context, cfg domain.MapConfig, materialized *MaterializedSet) error {
	stopIDByName, err := r.createStops(ctx, cfg)
	if err != nil {
		return &ReconcileError{Kind: KindStop, Err: err}
	}

	routeIDByName, geometry, err := r.createRoutes(ctx, cfg, stopIDByName)
	if err != nil {
		return &ReconcileError{Kind: KindRoute, Err: err}
	}

	if err := r.createVisualizations(ctx, cfg, routeIDByName, geometry); err != nil {
		return &ReconcileError{Kind: KindRouteVisualization, Err: err}
	}

	if err := r.recordExistingPlatforms(ctx, materialized); err != nil {
		return &ReconcileError{Kind: KindPlatformHW, Err: err}
	}

	if err := r.createCars(ctx, cfg, materialized); err != nil {
		return err // already a *ReconcileError with the right kind
	}
	return nil
}

// createStops submits all stops in one batch call and returns a name-to-id
// index over the creation results. First match wins when the backend echoes
// duplicate names.
func (r *Reconciler) createStops(ctx context.Context, cfg domain.MapConfig) (map[string]int64, error) {
	newStops := make([]gateway.Stop, 0, len(cfg.Stops))
	for _, stop := range cfg.Stops {
		r.log.Info("new stop", "name", stop.Name)
		newStops = append(newStops, gateway.Stop{
			Name:              stop.Name,
			Position:          gateway.GNSSPosition{Latitude: stop.Latitude, Longitude: stop.Longitude},
			NotificationPhone: gateway.MobilePhone{Phone: stop.ContactPhone},
			IsAutoStop:        stop.IsAutoStop,
		})
	}
	r.log.Info("sending create stops request", "count", len(newStops))
	created, err := r.gw.CreateStops(ctx, newStops)
	if err != nil {
		return nil, err
	}

	stopIDByName := make(map[string]int64, len(created))
	for _, stop := range created {
		if _, ok := stopIDByName[stop.Name]; !ok {
			stopIDByName[stop.Name] = stop.Id
		}
	}
	return stopIDByName, nil
}

// createRoutes submits all routes in one batch call. Stations naming a stop
// contribute that stop's id to the route; every station contributes its
// point to the route's visualization geometry. Returns a name-to-id index
// over the creation results (first match wins) and the per-route geometry.
func (r *Reconciler) createRoutes(ctx context.Context, cfg domain.MapConfig, stopIDByName map[string]int64) (map[string]int64, map[string][]gateway.GNSSPosition, error) {
	newRoutes := make([]gateway.Route, 0, len(cfg.Routes))
	geometry := make(map[string][]gateway.GNSSPosition, len(cfg.Routes))
	for _, route := range cfg.Routes {
		stopIDs := []int64{}
		geometry[route.Name] = []gateway.GNSSPosition{}
		for _, station := range route.Stops {
			geometry[route.Name] = append(geometry[route.Name],
				gateway.GNSSPosition{Latitude: station.Latitude, Longitude: station.Longitude})
			if station.StationName == nil {
				continue
			}
			if id, ok := stopIDByName[*station.StationName]; ok {
				stopIDs = append(stopIDs, id)
			}
		}
		r.log.Info("new route", "name", route.Name)
		newRoutes = append(newRoutes, gateway.Route{Name: route.Name, StopIds: stopIDs})
	}
	r.log.Info("sending create routes request", "count", len(newRoutes))
	created, err := r.gw.CreateRoutes(ctx, newRoutes)
	if err != nil {
		return nil, nil, err
	}

	routeIDByName := make(map[string]int64, len(created))
	for _, route := range created {
		if _, ok := routeIDByName[route.Name]; !ok {
			routeIDByName[route.Name] = route.Id
		}
	}
	return routeIDByName, geometry, nil
}

// createVisualizations pairs each input route (in input order) with its
// created id and submits one visualization per match. A route name with no
// match among the creation results yields no visualization and no error.
func (r *Reconciler) createVisualizations(ctx context.Context, cfg domain.MapConfig, routeIDByName map[string]int64, geometry map[string][]gateway.GNSSPosition) error {
	newVisualizations := make([]gateway.RouteVisualization, 0, len(cfg.Routes))
	for _, route := range cfg.Routes {
		id, ok := routeIDByName[route.Name]
		if !ok {
			continue
		}
		r.log.Info("new route visualization", "route", route.Name)
		newVisualizations = append(newVisualizations, gateway.RouteVisualization{
			RouteId:  id,
			Hexcolor: route.Color,
			Points:   geometry[route.Name],
		})
	}
	r.log.Info("sending redefine route visualizations request", "count", len(newVisualizations))
	return r.gw.RedefineRouteVisualizations(ctx, newVisualizations)
}

// recordExistingPlatforms lists the backend's platform HW records and marks
// their names as materialized. Bookkeeping only: which new platforms to
// create is decided in createCars, because platform creation is tied to car
// creation in this design.
func (r *Reconciler) recordExistingPlatforms(ctx context.Context, materialized *MaterializedSet) error {
	platforms, err := r.gw.GetHWs(ctx)
	if err != nil {
		return err
	}
	for _, platform := range platforms {
		materialized.Add(platform.Name)
	}
	return nil
}

// createCars creates, for every car spec not yet materialized, a platform
// HW record named after the car and then the car itself referencing the
// platform's id. Both creations are batched. Car names are added to
// materialized only after the create cars call succeeds.
func (r *Reconciler) createCars(ctx context.Context, cfg domain.MapConfig, materialized *MaterializedSet) error {
	var pending []domain.CarSpec
	var newPlatforms []gateway.PlatformHW
	for _, car := range cfg.Cars {
		if materialized.Has(car.Name) {
			r.log.Info("platform already created, skipping", "name", car.Name)
			continue
		}
		r.log.Info("new platform hw", "name", car.Name)
		pending = append(pending, car)
		newPlatforms = append(newPlatforms, gateway.PlatformHW{Name: car.Name})
	}

	hwIDByName := make(map[string]int64, len(newPlatforms))
	if len(newPlatforms) > 0 {
		r.log.Info("sending create platforms request", "count", len(newPlatforms))
		created, err := r.gw.CreateHWs(ctx, newPlatforms)
		if err != nil {
			return &ReconcileError{Kind: KindPlatformHW, Err: err}
		}
		for _, platform := range created {
			if _, ok := hwIDByName[platform.Name]; !ok {
				hwIDByName[platform.Name] = platform.Id
			}
		}
	}

	var newCars []gateway.Car
	for _, car := range pending {
		id, ok := hwIDByName[car.Name]
		if !ok {
			continue
		}
		r.log.Info("creating car", "name", car.Name)
		newCars = append(newCars, gateway.Car{
			PlatformHwId:  id,
			Name:          car.Name,
			CarAdminPhone: gateway.MobilePhone{Phone: car.AdminPhone},
			UnderTest:     car.UnderTest,
		})
	}
	if len(newCars) > 0 {
		r.log.Info("sending create cars request", "count", len(newCars))
		if _, err := r.gw.CreateCars(ctx, newCars); err != nil {
			return &ReconcileError{Kind: KindCar, Err: err}
		}
		for _, car := range newCars {
			materialized.Add(car.Name)
		}
	}
	return nil
}
