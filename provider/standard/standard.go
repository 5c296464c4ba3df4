// Package standard implements the reference ResourceProvider: a state
// machine per resource (Absent → Present(v1) → Present(v2) → … → Absent)
// layered over an abstract provider.Storage back-end, enforcing tenant
// permissions and quotas, server-scope uniqueness, version checks, and
// metadata maintenance (spec §4.G).
package standard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/schema"
	"github.com/nexusid/scimcore/tenant"
	"github.com/nexusid/scimcore/validator"
	"github.com/nexusid/scimcore/version"
)

// StandardProvider is the default ResourceProvider implementation, generic
// over the abstract Storage back-end it mediates access through.
type StandardProvider[S provider.Storage] struct {
	storage  S
	registry *schema.Registry
	config   Config
	logger   *zap.Logger
}

// New constructs a StandardProvider. A nil logger is replaced with
// zap.NewNop() so callers need not special-case logging everywhere.
func New[S provider.Storage](storage S, registry *schema.Registry, cfg Config, logger *zap.Logger) *StandardProvider[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandardProvider[S]{storage: storage, registry: registry, config: cfg, logger: logger}
}

func (p *StandardProvider[S]) now() time.Time { return time.Now().UTC() }

func (p *StandardProvider[S]) Create(ctx context.Context, resourceType string, data resource.Resource, t tenant.Context) (provider.VersionedResource, error) {
	if !t.Can("create") {
		return provider.VersionedResource{}, provider.InvalidData("tenant lacks create permission")
	}

	count, err := p.storage.CountByType(ctx, t.TenantID, resourceType)
	if err != nil {
		return provider.VersionedResource{}, provider.StorageError(err)
	}
	if resourceType == "User" && !t.WithinUserQuota(count) {
		return provider.VersionedResource{}, provider.InvalidData("tenant user quota exceeded")
	}
	if resourceType == "Group" && !t.WithinGroupQuota(count) {
		return provider.VersionedResource{}, provider.InvalidData("tenant group quota exceeded")
	}

	if err := p.checkUniqueness(ctx, resourceType, data, t, ""); err != nil {
		return provider.VersionedResource{}, err
	}

	data.ID = resource.GenerateResourceId()
	now := p.now()
	data.Meta = resource.Meta{
		ResourceType: resourceType,
		Created:      now,
		LastModified: now,
		Location:     p.config.location(resourceType, data.ID.String()),
	}

	vr, err := p.stampAndCommit(ctx, resourceType, data, t)
	if err != nil {
		return provider.VersionedResource{}, err
	}

	p.logger.Debug("resource created",
		zap.String("resource_type", resourceType),
		zap.String("resource_id", data.ID.String()),
		zap.String("tenant_id", t.TenantID),
	)
	return vr, nil
}

func (p *StandardProvider[S]) Get(ctx context.Context, resourceType, id string, t tenant.Context) (provider.VersionedResource, bool, error) {
	if !t.Can("read") {
		return provider.VersionedResource{}, false, provider.InvalidData("tenant lacks read permission")
	}
	v, ok, err := p.storage.Get(ctx, t.TenantID, resourceType, id)
	if err != nil {
		return provider.VersionedResource{}, false, provider.StorageError(err)
	}
	return v, ok, nil
}

func (p *StandardProvider[S]) Update(ctx context.Context, resourceType, id string, data resource.Resource, t tenant.Context) (provider.VersionedResource, error) {
	if !t.Can("update") {
		return provider.VersionedResource{}, provider.InvalidData("tenant lacks update permission")
	}
	current, ok, err := p.storage.Get(ctx, t.TenantID, resourceType, id)
	if err != nil {
		return provider.VersionedResource{}, provider.StorageError(err)
	}
	if !ok {
		return provider.VersionedResource{}, provider.NotFound(resourceType, id)
	}

	if err := validator.CheckImmutableTransition(current.Resource, data, p.registry); err != nil {
		return provider.VersionedResource{}, err
	}
	if err := p.checkUniqueness(ctx, resourceType, data, t, id); err != nil {
		return provider.VersionedResource{}, err
	}

	data.ID = current.Resource.ID
	data.Meta = current.Resource.Meta
	data.Meta.LastModified = p.now()

	vr, err := p.stampAndCommit(ctx, resourceType, data, t)
	if err != nil {
		return provider.VersionedResource{}, err
	}

	p.logger.Debug("resource updated",
		zap.String("resource_type", resourceType),
		zap.String("resource_id", id),
		zap.String("tenant_id", t.TenantID),
	)
	return vr, nil
}

func (p *StandardProvider[S]) ConditionalUpdate(ctx context.Context, resourceType, id string, data resource.Resource, expected version.RawVersion, t tenant.Context) version.ConditionalResult[provider.VersionedResource] {
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
	if !current.Version.Matches(expected) {
		return version.Mismatch[provider.VersionedResource](version.NewVersionConflict(expected, current.Version))
	}

	if err := validator.CheckImmutableTransition(current.Resource, data, p.registry); err != nil {
		return version.Failed[provider.VersionedResource](err)
	}
	if err := p.checkUniqueness(ctx, resourceType, data, t, id); err != nil {
		return version.Failed[provider.VersionedResource](err)
	}

	data.ID = current.Resource.ID
	data.Meta = current.Resource.Meta
	data.Meta.LastModified = p.now()

	vr, err := p.stampAndCommit(ctx, resourceType, data, t)
	if err != nil {
		return version.Failed[provider.VersionedResource](err)
	}
	return version.Success(vr)
}

func (p *StandardProvider[S]) Delete(ctx context.Context, resourceType, id string, t tenant.Context) error {
	if !t.Can("delete") {
		return provider.InvalidData("tenant lacks delete permission")
	}
	_, ok, err := p.storage.Get(ctx, t.TenantID, resourceType, id)
	if err != nil {
		return provider.StorageError(err)
	}
	if !ok {
		return provider.NotFound(resourceType, id)
	}
	if err := p.storage.Delete(ctx, t.TenantID, resourceType, id); err != nil {
		return provider.StorageError(err)
	}
	p.logger.Debug("resource deleted",
		zap.String("resource_type", resourceType),
		zap.String("resource_id", id),
		zap.String("tenant_id", t.TenantID),
	)
	return nil
}

func (p *StandardProvider[S]) ConditionalDelete(ctx context.Context, resourceType, id string, expected version.RawVersion, t tenant.Context) version.ConditionalResult[struct{}] {
	if !t.Can("delete") {
		return version.Failed[struct{}](provider.InvalidData("tenant lacks delete permission"))
	}
	current, ok, err := p.storage.Get(ctx, t.TenantID, resourceType, id)
	if err != nil {
		return version.Failed[struct{}](provider.StorageError(err))
	}
	if !ok {
		return version.NotFound[struct{}]()
	}
	if !current.Version.Matches(expected) {
		return version.Mismatch[struct{}](version.NewVersionConflict(expected, current.Version))
	}
	if err := p.storage.Delete(ctx, t.TenantID, resourceType, id); err != nil {
		return version.Failed[struct{}](provider.StorageError(err))
	}
	return version.Success(struct{}{})
}

func (p *StandardProvider[S]) List(ctx context.Context, resourceType string, q provider.Query, t tenant.Context) ([]provider.VersionedResource, int, error) {
	if !t.Can("list") {
		return nil, 0, provider.InvalidData("tenant lacks list permission")
	}
	all, err := p.storage.List(ctx, t.TenantID, resourceType)
	if err != nil {
		return nil, 0, provider.StorageError(err)
	}

	if q.SearchAttribute != "" {
		filtered := make([]provider.VersionedResource, 0, len(all))
		for _, vr := range all {
			if matchesAttribute(vr.Resource, q.SearchAttribute, q.SearchValue) {
				filtered = append(filtered, vr)
			}
		}
		all = filtered
	}

	total := len(all)
	start := q.StartIndex
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if q.Count > 0 && start+q.Count < total {
		end = start + q.Count
	}
	return all[start:end], total, nil
}

func (p *StandardProvider[S]) FindByAttribute(ctx context.Context, resourceType, attr, value string, t tenant.Context) (provider.VersionedResource, bool, error) {
	if !t.Can("read") {
		return provider.VersionedResource{}, false, provider.InvalidData("tenant lacks read permission")
	}
	all, err := p.storage.List(ctx, t.TenantID, resourceType)
	if err != nil {
		return provider.VersionedResource{}, false, provider.StorageError(err)
	}
	for _, vr := range all {
		if matchesAttribute(vr.Resource, attr, value) {
			return vr, true, nil
		}
	}
	return provider.VersionedResource{}, false, nil
}

func (p *StandardProvider[S]) Exists(ctx context.Context, resourceType, id string, t tenant.Context) (bool, error) {
	if !t.Can("read") {
		return false, provider.InvalidData("tenant lacks read permission")
	}
	_, ok, err := p.storage.Get(ctx, t.TenantID, resourceType, id)
	if err != nil {
		return false, provider.StorageError(err)
	}
	return ok, nil
}

// stampAndCommit recomputes the version over the content-without-version,
// stamps it back into Meta, validates, and persists — the only path by
// which a record is written, so Meta.Version is never stale (spec §4.D).
func (p *StandardProvider[S]) stampAndCommit(ctx context.Context, resourceType string, data resource.Resource, t tenant.Context) (provider.VersionedResource, error) {
	data.Meta.Version = ""
	if err := validator.Validate(data, p.registry, opContextFor(data)); err != nil {
		return provider.VersionedResource{}, err
	}

	vr, err := provider.NewVersionedResource(data)
	if err != nil {
		return provider.VersionedResource{}, provider.Internal("failed to compute resource version", err)
	}
	vr.Resource.Meta.Version = vr.Version.String()

	if err := p.storage.Put(ctx, t.TenantID, resourceType, vr.Resource.ID.String(), vr); err != nil {
		return provider.VersionedResource{}, provider.StorageError(err)
	}
	return vr, nil
}

func opContextFor(r resource.Resource) validator.OpContext {
	if r.Meta.Created.IsZero() {
		return validator.OpCreate
	}
	return validator.OpReplace
}

func matchesAttribute(r resource.Resource, attr, value string) bool {
	switch attr {
	case "userName":
		return r.UserName.Equal(mustUserName(value))
	case "displayName":
		return foldEqual(r.DisplayName, value)
	case "externalId":
		return r.ExternalID.String() == value
	case "emails.value":
		for _, e := range r.Emails.Elements() {
			if e.Value == value {
				return true
			}
		}
		return false
	default:
		v, ok := r.GetAttribute(attr)
		if !ok {
			return false
		}
		s, ok := v.(string)
		return ok && s == value
	}
}

func mustUserName(raw string) resource.UserName {
	un, err := resource.NewUserName(raw)
	if err != nil {
		return resource.UserName{}
	}
	return un
}
