// Package provider defines the contract mediating between the engine and
// a pluggable storage back-end: tenant-scoped CRUD, attribute lookup,
// existence checks, and conditional variants (spec §4.F).
package provider

import (
	"context"

	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/tenant"
	"github.com/nexusid/scimcore/version"
)

// Query describes a list/search request (spec §6 "query").
//
// Non-goal: the core implements no filter-expression engine beyond
// single-attribute equality search — Filter is carried through for
// collaborators that choose to interpret richer SCIM filter syntax, but
// the core's own Standard Provider only honors SearchAttribute/SearchValue.
type Query struct {
	Count              int
	StartIndex         int
	Filter             string
	Attributes         []string
	ExcludedAttributes []string
	SearchAttribute    string
	SearchValue        string
}

// PatchOp is one operation of a PATCH document (spec §4.I). Defined here,
// not in the patch package, so ResourceProvider can reference it without a
// package import cycle — the patch package imports this type, and
// provider/standard depends on patch to apply it, not the reverse.
type PatchOp struct {
	Op    string
	Path  string
	Value any
}

// ResourceProvider is the trait the Operation Handler drives (spec §4.F
// table). Every method is tenant-scoped: t.TenantID partitions
// visibility, and IDs are unique per tenant but may collide across
// tenants.
type ResourceProvider interface {
	Create(ctx context.Context, resourceType string, data resource.Resource, t tenant.Context) (VersionedResource, error)
	Get(ctx context.Context, resourceType, id string, t tenant.Context) (VersionedResource, bool, error)
	Update(ctx context.Context, resourceType, id string, data resource.Resource, t tenant.Context) (VersionedResource, error)
	ConditionalUpdate(ctx context.Context, resourceType, id string, data resource.Resource, expected version.RawVersion, t tenant.Context) version.ConditionalResult[VersionedResource]
	Delete(ctx context.Context, resourceType, id string, t tenant.Context) error
	ConditionalDelete(ctx context.Context, resourceType, id string, expected version.RawVersion, t tenant.Context) version.ConditionalResult[struct{}]
	List(ctx context.Context, resourceType string, q Query, t tenant.Context) ([]VersionedResource, int, error)
	FindByAttribute(ctx context.Context, resourceType, attr, value string, t tenant.Context) (VersionedResource, bool, error)
	Exists(ctx context.Context, resourceType, id string, t tenant.Context) (bool, error)
	Patch(ctx context.Context, resourceType, id string, ops []PatchOp, expected *version.RawVersion, t tenant.Context) version.ConditionalResult[VersionedResource]
}

// Storage is the abstract back-end the Standard Provider mediates access
// through (spec §4.G "Default implementation over an abstract storage
// back-end"). It knows nothing about tenancy policy, uniqueness, or
// versioning — those are Standard Provider's job; Storage only persists
// and retrieves raw records keyed by (tenant, resource type, id).
type Storage interface {
	// Put inserts or overwrites a record. Implementations must make a
	// single Put for a given key atomic with respect to concurrent Get.
	Put(ctx context.Context, tenantID, resourceType, id string, record VersionedResource) error
	// Get returns the stored record, if present.
	Get(ctx context.Context, tenantID, resourceType, id string) (VersionedResource, bool, error)
	// Delete removes a record; deleting an absent key is not an error.
	Delete(ctx context.Context, tenantID, resourceType, id string) error
	// List returns every record for (tenantID, resourceType), in
	// insertion order.
	List(ctx context.Context, tenantID, resourceType string) ([]VersionedResource, error)
	// CountByType returns how many records exist for (tenantID,
	// resourceType), used for quota enforcement on create.
	CountByType(ctx context.Context, tenantID, resourceType string) (int, error)
}
