// Package tenant defines the value types carrying multi-tenant isolation
// and per-request identity through the engine (spec §3 "TenantContext",
// "RequestContext").
//
// Unlike xraph-authsome's context-key/accessor-pair convention for
// organization scoping, these are plain copied value types threaded as
// explicit function arguments rather than stashed in a context.Context —
// the engine's provider contract takes a TenantContext parameter directly
// so tenant scoping is visible at every call site.
package tenant

// IsolationLevel describes how strictly a tenant's data is partitioned
// from others (spec §3).
type IsolationLevel int

const (
	// IsolationStrict gives the tenant a dedicated, never-shared partition.
	IsolationStrict IsolationLevel = iota
	// IsolationStandard is the default: logically isolated, may share
	// physical backing storage with other tenants.
	IsolationStandard
	// IsolationShared allows the tenant's resources to be visible to
	// cooperating tenants under policies the hosting application defines;
	// the core engine itself never relaxes per-tenant scoping based on
	// this value — it is informational for storage collaborators.
	IsolationShared
)

func (l IsolationLevel) String() string {
	switch l {
	case IsolationStrict:
		return "strict"
	case IsolationStandard:
		return "standard"
	case IsolationShared:
		return "shared"
	default:
		return "unknown"
	}
}

// Permissions enumerates the operations a tenant is authorized to perform,
// plus optional resource-count quotas (spec §3 "permissions").
type Permissions struct {
	Create bool
	Read   bool
	Update bool
	Delete bool
	List   bool

	// MaxUsers and MaxGroups are enforced on create when non-nil; nil means
	// unbounded.
	MaxUsers  *int
	MaxGroups *int
}

// AllowAll returns a Permissions value with every operation permitted and
// no quotas — the default for a tenant the hosting application has not
// otherwise restricted.
func AllowAll() Permissions {
	return Permissions{Create: true, Read: true, Update: true, Delete: true, List: true}
}

// Context carries a resolved tenant identity into every provider call
// (spec §3 "TenantContext"). The core engine accepts this as already
// resolved; authenticating the caller into a Context is the hosting
// application's responsibility (spec Non-goals).
type Context struct {
	TenantID       string
	ClientID       string
	IsolationLevel IsolationLevel
	Permissions    Permissions
}

// New constructs a tenant Context.
func New(tenantID, clientID string, isolation IsolationLevel, perms Permissions) Context {
	return Context{TenantID: tenantID, ClientID: clientID, IsolationLevel: isolation, Permissions: perms}
}

// IsZero reports whether no tenant has been set — requests with a zero
// Context are not multi-tenant (spec §3 "A request is multi-tenant iff
// TenantContext is present").
func (c Context) IsZero() bool { return c.TenantID == "" }

// Can reports whether the tenant is authorized for the named operation.
// Unknown operation names are denied.
func (c Context) Can(op string) bool {
	switch op {
	case "create":
		return c.Permissions.Create
	case "read":
		return c.Permissions.Read
	case "update":
		return c.Permissions.Update
	case "delete":
		return c.Permissions.Delete
	case "list":
		return c.Permissions.List
	default:
		return false
	}
}

// WithinUserQuota reports whether creating one more User keeps the tenant
// within its configured quota, given the current count.
func (c Context) WithinUserQuota(currentCount int) bool {
	return withinQuota(c.Permissions.MaxUsers, currentCount)
}

// WithinGroupQuota reports whether creating one more Group keeps the
// tenant within its configured quota, given the current count.
func (c Context) WithinGroupQuota(currentCount int) bool {
	return withinQuota(c.Permissions.MaxGroups, currentCount)
}

func withinQuota(limit *int, currentCount int) bool {
	if limit == nil {
		return true
	}
	return currentCount < *limit
}

// Request carries request-scoped identity (spec §3 "RequestContext"). Its
// Tenant field is the zero Context for single-tenant deployments.
type Request struct {
	RequestID string
	Tenant    Context
}

// IsMultiTenant reports whether this request carries a resolved tenant.
func (r Request) IsMultiTenant() bool { return !r.Tenant.IsZero() }
