package domain

import "errors"

// ErrValidation is returned when a map document violates its invariants
// (empty tenant, duplicate names, dangling station reference).
// The batch driver treats this as a load failure and aborts the run.
var ErrValidation = errors.New("validation error")

// ErrTenantResolution is returned by the batch driver when a document's
// tenant could not be resolved to a session. Fatal to the run.
var ErrTenantResolution = errors.New("tenant session could not be resolved")

// ErrTenantScopeMismatch is returned by the duplicate classifier when the
// backend attributes a name conflict to a tenant other than the one the
// current document belongs to. This signals session-scoping corruption and
// must abort the run.
var ErrTenantScopeMismatch = errors.New("duplicate rejection attributed to unexpected tenant")
