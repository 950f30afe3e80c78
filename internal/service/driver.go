package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkordes/fleet-map-sync/internal/domain"
)

// MapLoader loads one map document from disk. *mapfile.Loader is the
// production implementation.
type MapLoader interface {
	Load(path string) (domain.MapConfig, error)
}

// SessionResolver resolves a tenant name to a session cookie.
// *TenantResolver is the production implementation.
type SessionResolver interface {
	Resolve(ctx context.Context, tenantName string) (cookie string, ok bool)
}

// MapReconciler materializes one map document against the backend.
// *Reconciler is the production implementation.
type MapReconciler interface {
	Reconcile(ctx context.Context, cfg domain.MapConfig, materialized *MaterializedSet) error
}

// DuplicateClassifier recognizes duplicate-name rejections.
// *Classifier is the production implementation.
type DuplicateClassifier interface {
	Classify(ctx context.Context, err error, tenantName, kind string) (msg string, ok bool, fatal error)
}

// DriverConfig carries the collaborators and options for NewDriver.
type DriverConfig struct {
	Loader     MapLoader
	Gateway    Gateway
	Resolver   SessionResolver
	Reconciler MapReconciler
	Classifier DuplicateClassifier

	// DeleteAll purges each tenant's existing entities once, before the
	// first document for that tenant is reconciled.
	DeleteAll bool

	// Out receives user-facing messages (classified duplicate diagnostics).
	// Defaults to os.Stdout.
	Out io.Writer

	Log *slog.Logger
}

// tenantState is the per-tenant driver state:
// UNSEEN → SESSION_ESTABLISHED → (optionally) PURGED → RECONCILED.
// materialized survives across all documents of the tenant within the run;
// purged guarantees the delete-all path runs at most once per tenant.
type tenantState struct {
	materialized *MaterializedSet
	purged       bool
}

// Driver processes an ordered sequence of map documents for one run,
// maintaining cross-document dedup state per tenant and failing fast on the
// first unrecoverable error.
type Driver struct {
	loader     MapLoader
	gw         Gateway
	resolver   SessionResolver
	reconciler MapReconciler
	classifier DuplicateClassifier
	deleteAll  bool
	out        io.Writer
	log        *slog.Logger

	tenants map[string]*tenantState
}

// NewDriver constructs a Driver from cfg.
func NewDriver(cfg DriverConfig) *Driver {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Driver{
		loader:     cfg.Loader,
		gw:         cfg.Gateway,
		resolver:   cfg.Resolver,
		reconciler: cfg.Reconciler,
		classifier: cfg.Classifier,
		deleteAll:  cfg.DeleteAll,
		out:        cfg.Out,
		log:        cfg.Log,
		tenants:    make(map[string]*tenantState),
	}
}

// Run processes the documents at paths in order. Load failures, tenant
// resolution failures, and unclassified reconcile errors abort the run
// immediately; already-applied changes from completed phases and documents
// remain applied. A classified duplicate rejection prints its message,
// abandons the rest of that document, and continues with the next one.
func (d *Driver) Run(ctx context.Context, paths []string) error {
	for _, path := range paths {
		d.log.Info("processing map document", "path", path)
		cfg, err := d.loader.Load(path)
		if err != nil {
			return fmt.Errorf("service.Driver.Run: %w", err)
		}

		cookie, ok := d.resolver.Resolve(ctx, cfg.Tenant)
		if !ok {
			return fmt.Errorf("service.Driver.Run: %w: tenant %q (document %s)",
				domain.ErrTenantResolution, cfg.Tenant, path)
		}
		d.gw.SetDefaultHeader("Cookie", cookie)

		state := d.stateFor(cfg.Tenant)
		if d.deleteAll && !state.purged {
			if err := d.purge(ctx); err != nil {
				return fmt.Errorf("service.Driver.Run: purge tenant %q: %w", cfg.Tenant, err)
			}
			state.purged = true
			d.log.Info("existing entities deleted", "tenant", cfg.Tenant)
		}

		if err := d.reconciler.Reconcile(ctx, cfg, state.materialized); err != nil {
			var rerr *ReconcileError
			if errors.As(err, &rerr) {
				msg, classified, fatal := d.classifier.Classify(ctx, rerr, cfg.Tenant, rerr.Kind)
				if fatal != nil {
					return fmt.Errorf("service.Driver.Run: %w", fatal)
				}
				if classified {
					fmt.Fprintln(d.out, msg)
					continue
				}
			}
			return fmt.Errorf("service.Driver.Run: reconcile %s: %w", path, err)
		}
	}
	return nil
}

// stateFor returns the state for tenantName, creating it on first sight.
func (d *Driver) stateFor(tenantName string) *tenantState {
	state, ok := d.tenants[tenantName]
	if !ok {
		state = &tenantState{materialized: NewMaterializedSet()}
		d.tenants[tenantName] = state
	}
	return state
}

// purge deletes all entities visible to the current tenant session, in
// dependency order: orders, cars, platforms, routes, stops. Each delete is
// best-effort — an individual failure is logged and must not block the
// remaining deletions. Only list calls can fail the purge.
func (d *Driver) purge(ctx context.Context) error {
	orders, err := d.gw.GetOrders(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	for _, order := range orders {
		d.log.Info("deleting order", "id", order.Id)
		if err := d.gw.DeleteOrder(ctx, order.CarId, order.Id); err != nil {
			d.log.Warn("failed to delete order, possibly belongs to a different tenant",
				"id", order.Id, "error", err)
		}
	}

	cars, err := d.gw.GetCars(ctx)
	if err != nil {
		return fmt.Errorf("list cars: %w", err)
	}
	for _, car := range cars {
		d.log.Info("deleting car", "id", car.Id, "name", car.Name)
		if err := d.gw.DeleteCar(ctx, car.Id); err != nil {
			d.log.Warn("failed to delete car, possibly belongs to a different tenant",
				"id", car.Id, "error", err)
		}
	}

	platforms, err := d.gw.GetHWs(ctx)
	if err != nil {
		return fmt.Errorf("list platforms: %w", err)
	}
	for _, platform := range platforms {
		d.log.Info("deleting platform", "id", platform.Id, "name", platform.Name)
		if err := d.gw.DeleteHW(ctx, platform.Id); err != nil {
			d.log.Warn("failed to delete platform, possibly belongs to a different tenant",
				"id", platform.Id, "error", err)
		}
	}

	routes, err := d.gw.GetRoutes(ctx)
	if err != nil {
		return fmt.Errorf("list routes: %w", err)
	}
	for _, route := range routes {
		d.log.Info("deleting route", "id", route.Id, "name", route.Name)
		if err := d.gw.DeleteRoute(ctx, route.Id); err != nil {
			d.log.Warn("failed to delete route, possibly belongs to a different tenant",
				"id", route.Id, "error", err)
		}
	}

	stops, err := d.gw.GetStops(ctx)
	if err != nil {
		return fmt.Errorf("list stops: %w", err)
	}
	for _, stop := range stops {
		d.log.Info("deleting stop", "id", stop.Id, "name", stop.Name)
		if err := d.gw.DeleteStop(ctx, stop.Id); err != nil {
			d.log.Warn("failed to delete stop, possibly belongs to a different tenant",
				"id", stop.Id, "error", err)
		}
	}
	return nil
}
