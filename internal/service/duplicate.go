package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/pkordes/fleet-map-sync/internal/domain"
	"github.com/pkordes/fleet-map-sync/internal/gateway"
)

// duplicateDetailRe matches the detail the backend emits when a creation
// violates the per-tenant name uniqueness constraint, e.g.
//
//	UNIQUE constraint failed: (tenant_id, name)=(7, 'Elm Street')
//
// The name capture is non-greedy and anchored to the closing quote at the
// end of the detail so names containing apostrophes (O'Hare) still match.
var duplicateDetailRe = regexp.MustCompile(`UNIQUE constraint failed: \(tenant_id, name\)=\((\d+), '(.*?)'\)$`)

// Classifier turns duplicate-name rejections from the backend into
// human-actionable messages.
type Classifier struct {
	gw  Gateway
	log *slog.Logger
}

// NewClassifier constructs a Classifier backed by the given gateway.
func NewClassifier(gw Gateway, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{gw: gw, log: log}
}

// Classify inspects err and, when it is a duplicate-name rejection, returns
// the display message for it and ok=true. Any other error shape returns
// ok=false, signaling the caller to surface the raw error instead.
//
// The tenant id extracted from the rejection is resolved back to a name and
// asserted to match tenantName; a mismatch means the backend attributed the
// conflict to a different tenant than the session is scoped to, which must
// never happen — it is returned as a fatal error wrapping
// domain.ErrTenantScopeMismatch.
func (c *Classifier) Classify(ctx context.Context, err error, tenantName, kind string) (msg string, ok bool, fatal error) {
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return "", false, nil
	}
	match := duplicateDetailRe.FindStringSubmatch(apiErr.Detail)
	if match == nil {
		return "", false, nil
	}

	tenantID, convErr := strconv.ParseInt(match[1], 10, 64)
	if convErr != nil {
		return "", false, nil
	}
	entityName := match[2]

	tenants, listErr := c.gw.GetTenants(ctx)
	if listErr != nil {
		return "", false, fmt.Errorf("service.Classifier.Classify: resolve tenant %d: %w", tenantID, listErr)
	}
	var resolved *gateway.Tenant
	for i := range tenants {
		if tenants[i].Id == tenantID {
			resolved = &tenants[i]
			break
		}
	}
	if resolved == nil || resolved.Name != tenantName {
		got := "<unknown>"
		if resolved != nil {
			got = resolved.Name
		}
		return "", false, fmt.Errorf("service.Classifier.Classify: %w: conflict on tenant %d (%s), session is scoped to %q",
			domain.ErrTenantScopeMismatch, tenantID, got, tenantName)
	}

	return fmt.Sprintf("[ERROR] Tenant '%s' already has %s with name '%s' created.",
		resolved.Name, kind, entityName), true, nil
}
