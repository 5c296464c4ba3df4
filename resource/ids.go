package resource

import (
	"fmt"

	"github.com/rs/xid"
)

// ResourceId is an opaque, non-empty resource identifier (spec §3).
type ResourceId struct {
	value string
}

// NewResourceId validates and wraps a caller-supplied id.
func NewResourceId(raw string) (ResourceId, error) {
	if raw == "" {
		return ResourceId{}, fmt.Errorf("resource id must not be empty")
	}
	return ResourceId{value: raw}, nil
}

// GenerateResourceId mints a new, server-assigned id (spec §3 "Lifecycle":
// "the engine generates its ResourceId"). Backed by xid, a k-sortable,
// URL-safe identifier generator requiring no configuration.
func GenerateResourceId() ResourceId {
	return ResourceId{value: xid.New().String()}
}

// String returns the raw id value.
func (r ResourceId) String() string { return r.value }

// IsZero reports whether the id was never set.
func (r ResourceId) IsZero() bool { return r.value == "" }

// ExternalId is a non-empty, caller-supplied identifier (spec §3).
type ExternalId struct {
	value string
}

// NewExternalId validates and wraps a caller-supplied external id.
func NewExternalId(raw string) (ExternalId, error) {
	if raw == "" {
		return ExternalId{}, fmt.Errorf("external id must not be empty")
	}
	return ExternalId{value: raw}, nil
}

func (e ExternalId) String() string { return e.value }
func (e ExternalId) IsZero() bool   { return e.value == "" }
