package standard

import (
	"context"

	"github.com/nexusid/scimcore/patch"
	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/tenant"
	"github.com/nexusid/scimcore/version"
)

// Patch parses and applies a PATCH document via the patch package, then
// commits the result — conditionally when expected is non-nil (spec §4.I
// "Version interaction").
func (p *StandardProvider[S]) Patch(ctx context.Context, resourceType, id string, ops []provider.PatchOp, expected *version.RawVersion, t tenant.Context) version.ConditionalResult[provider.VersionedResource] {
	if !t.Can("update") {
		return version.Failed[provider.VersionedResource](provider.InvalidData("tenant lacks update permission"))
	}

	current, ok, err := p.storage.Get(ctx, t.TenantID, resourceType, id)
	if err != nil {
		return version.Failed[provider.VersionedResource](provider.StorageError(err))
	}
	if !ok {
		return version.NotFound[provider.VersionedResource]()
	}
	if expected != nil && !current.Version.Matches(*expected) {
		return version.Mismatch[provider.VersionedResource](version.NewVersionConflict(*expected, current.Version))
	}

	patched, err := patch.Apply(current.Resource, ops, p.registry)
	if err != nil {
		return version.Failed[provider.VersionedResource](err)
	}

	if err := p.checkUniqueness(ctx, resourceType, patched, t, id); err != nil {
		return version.Failed[provider.VersionedResource](err)
	}

	patched.ID = current.Resource.ID
	patched.Meta = current.Resource.Meta
	patched.Meta.LastModified = p.now()

	vr, err := p.stampAndCommit(ctx, resourceType, patched, t)
	if err != nil {
		return version.Failed[provider.VersionedResource](err)
	}
	return version.Success(vr)
}

var _ provider.ResourceProvider = (*StandardProvider[provider.Storage])(nil)
