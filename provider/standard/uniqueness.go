package standard

import (
	"context"
	"strings"

	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/tenant"
)

// checkUniqueness enforces server-scope uniqueness of userName (User) and
// displayName (Group) within the tenant (spec §4.G). excludeID is the
// resource's own id on update, so a resource is never compared against
// itself.
func (p *StandardProvider[S]) checkUniqueness(ctx context.Context, resourceType string, candidate resource.Resource, t tenant.Context, excludeID string) error {
	switch resourceType {
	case "User":
		if candidate.UserName.IsZero() {
			return nil
		}
		existing, err := p.storage.List(ctx, t.TenantID, resourceType)
		if err != nil {
			return provider.StorageError(err)
		}
		for _, vr := range existing {
			if vr.Resource.ID.String() == excludeID {
				continue
			}
			if vr.Resource.UserName.Equal(candidate.UserName) {
				return provider.DuplicateAttribute("userName", candidate.UserName.String())
			}
		}
	case "Group":
		if candidate.DisplayName == "" {
			return nil
		}
		existing, err := p.storage.List(ctx, t.TenantID, resourceType)
		if err != nil {
			return provider.StorageError(err)
		}
		for _, vr := range existing {
			if vr.Resource.ID.String() == excludeID {
				continue
			}
			if foldEqual(vr.Resource.DisplayName, candidate.DisplayName) {
				return provider.DuplicateAttribute("displayName", candidate.DisplayName)
			}
		}
	}
	return nil
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}
