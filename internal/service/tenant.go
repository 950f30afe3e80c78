package service

import (
	"context"
	"log/slog"

	"github.com/pkordes/fleet-map-sync/internal/gateway"
)

// TenantResolver ensures a named tenant exists on the backend and obtains a
// session cookie scoped to it.
type TenantResolver struct {
	gw  Gateway
	log *slog.Logger
}

// NewTenantResolver constructs a TenantResolver backed by the given gateway.
func NewTenantResolver(gw Gateway, log *slog.Logger) *TenantResolver {
	if log == nil {
		log = slog.Default()
	}
	return &TenantResolver{gw: gw, log: log}
}

// Resolve finds the tenant with the given name, creating it when absent,
// and returns a session cookie scoped to its id. Resolving an existing name
// never issues a create call.
//
// On any failure it logs a diagnostic and returns ok=false; errors never
// cross this boundary. The caller must treat ok=false as "cannot proceed
// with this tenant".
func (r *TenantResolver) Resolve(ctx context.Context, tenantName string) (cookie string, ok bool) {
	tenants, err := r.gw.GetTenants(ctx)
	if err != nil {
		r.log.Error("could not list tenants", "tenant", tenantName, "error", err)
		return "", false
	}

	var tenant *gateway.Tenant
	for i := range tenants {
		if tenants[i].Name == tenantName {
			tenant = &tenants[i]
			break
		}
	}
	if tenant == nil {
		r.log.Info("tenant does not exist, creating it", "tenant", tenantName)
		created, err := r.gw.CreateTenants(ctx, []gateway.Tenant{{Name: tenantName}})
		if err != nil {
			r.log.Error("could not create tenant", "tenant", tenantName, "error", err)
			return "", false
		}
		if len(created) == 0 {
			r.log.Error("backend returned no tenant for create call", "tenant", tenantName)
			return "", false
		}
		tenant = &created[0]
	}

	cookie, err = r.gw.SetTenantCookie(ctx, tenant.Id)
	if err != nil {
		r.log.Error("could not set tenant cookie", "tenant", tenantName, "error", err)
		return "", false
	}
	return cookie, true
}
