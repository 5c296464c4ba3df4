// Package operation implements the transport-neutral request/response
// dispatcher that mediates between a wire protocol (HTTP, gRPC, an
// in-process caller — the core is agnostic) and the registered
// provider.ResourceProvider set (spec §6).
package operation

// Op names the ten operations a Handler dispatches (spec §6 "operation").
type Op string

const (
	OpCreate     Op = "Create"
	OpGet        Op = "Get"
	OpUpdate     Op = "Update"
	OpDelete     Op = "Delete"
	OpList       Op = "List"
	OpSearch     Op = "Search"
	OpPatch      Op = "Patch"
	OpGetSchemas Op = "GetSchemas"
	OpGetSchema  Op = "GetSchema"
	OpExists     Op = "Exists"
)

// QueryParams mirrors spec §6's "query" request field.
type QueryParams struct {
	Count              int      `json:"count,omitempty"`
	StartIndex         int      `json:"start_index,omitempty"`
	Filter             string   `json:"filter,omitempty"`
	Attributes         []string `json:"attributes,omitempty"`
	ExcludedAttributes []string `json:"excluded_attributes,omitempty"`
	SearchAttribute    string   `json:"search_attribute,omitempty"`
	SearchValue        string   `json:"search_value,omitempty"`
}

// PermissionsParams mirrors tenant.Permissions on the wire.
type PermissionsParams struct {
	Create    bool `json:"create"`
	Read      bool `json:"read"`
	Update    bool `json:"update"`
	Delete    bool `json:"delete"`
	List      bool `json:"list"`
	MaxUsers  *int `json:"max_users,omitempty"`
	MaxGroups *int `json:"max_groups,omitempty"`
}

// TenantParams mirrors spec §6's "tenant" request field.
type TenantParams struct {
	TenantID       string            `json:"tenant_id"`
	ClientID       string            `json:"client_id"`
	IsolationLevel string            `json:"isolation_level"`
	Permissions    PermissionsParams `json:"permissions"`
}

// Request is the literal Go struct for spec §6's "Core operation request".
type Request struct {
	Operation       Op            `json:"operation"`
	ResourceType    string        `json:"resource_type"`
	ResourceID      string        `json:"resource_id,omitempty"`
	Data            any           `json:"data,omitempty"`
	Query           *QueryParams  `json:"query,omitempty"`
	Tenant          *TenantParams `json:"tenant,omitempty"`
	ExpectedVersion string        `json:"expected_version,omitempty"`
	RequestID       string        `json:"request_id,omitempty"`
}

// Additional carries the version/ETag/conflict detail spec §6 nests under
// "metadata.additional".
type Additional struct {
	Version         string `json:"version,omitempty"`
	ETag            string `json:"etag,omitempty"`
	ExpectedVersion string `json:"expected_version,omitempty"`
	CurrentVersion  string `json:"current_version,omitempty"`
	ExpectedETag    string `json:"expected_etag,omitempty"`
	CurrentETag     string `json:"current_etag,omitempty"`
	Exists          *bool  `json:"exists,omitempty"`
}

// Metadata is spec §6's "metadata" response field.
type Metadata struct {
	ResourceType  string     `json:"resource_type,omitempty"`
	ResourceID    string     `json:"resource_id,omitempty"`
	RequestID     string     `json:"request_id,omitempty"`
	TenantID      string     `json:"tenant_id,omitempty"`
	ResourceCount int        `json:"resource_count,omitempty"`
	TotalResults  int        `json:"total_results,omitempty"`
	Schemas       []string   `json:"schemas,omitempty"`
	Additional    Additional `json:"additional"`
}

// Response is the literal Go struct for spec §6's "Core operation
// response".
type Response struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorCode string   `json:"error_code,omitempty"`
	Metadata  Metadata `json:"metadata"`
}
