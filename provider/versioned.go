package provider

import (
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/version"
)

// VersionedResource is the transport envelope between the operation
// handler and the provider (spec §4.D "VersionedResource = (Resource,
// RawVersion)").
type VersionedResource struct {
	Resource resource.Resource
	Version  version.RawVersion
}

// NewVersionedResource computes the version by hashing the resource's
// canonical JSON, unless the resource already carries a Meta version — in
// which case that externally supplied version is authoritative (spec §4.D
// "preserve externally supplied versions during migrations").
func NewVersionedResource(r resource.Resource) (VersionedResource, error) {
	if m, ok := r.GetMeta(); ok && m.Version != "" {
		return VersionedResource{Resource: r, Version: version.FromRaw(m.Version)}, nil
	}
	b, err := r.MarshalCanonicalJSON()
	if err != nil {
		return VersionedResource{}, err
	}
	return VersionedResource{Resource: r, Version: version.FromContent(b)}, nil
}

// WithUpdatedResource replaces the wrapped resource and always recomputes
// the version — there is no mutable path that can leave a VersionedResource
// carrying a stale version (spec §4.D).
func (v VersionedResource) WithUpdatedResource(updated resource.Resource) (VersionedResource, error) {
	b, err := updated.MarshalCanonicalJSON()
	if err != nil {
		return VersionedResource{}, err
	}
	return VersionedResource{Resource: updated, Version: version.FromContent(b)}, nil
}
