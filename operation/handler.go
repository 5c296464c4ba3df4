package operation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nexusid/scimcore/internal/errs"
	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/schema"
	"github.com/nexusid/scimcore/tenant"
	"github.com/nexusid/scimcore/version"
)

// defaultTenantID names the implicit tenant a Request with no Tenant field
// runs under — spec §3 allows RequestContext's TenantContext to be absent
// for single-tenant deployments; the Handler still needs a tenant.Context
// to pass to ResourceProvider, so it synthesizes one with every permission
// granted and no quota.
const defaultTenantID = "default"

// Handler is the transport-neutral dispatcher driving a registry of
// ResourceProviders (spec §6, §4.F).
type Handler struct {
	registry  *schema.Registry
	providers map[string]provider.ResourceProvider
	logger    *zap.Logger
}

// NewHandler constructs a Handler. A nil logger is replaced with
// zap.NewNop().
func NewHandler(reg *schema.Registry, providers map[string]provider.ResourceProvider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: reg, providers: providers, logger: logger}
}

// Handle dispatches a Request to the appropriate provider method and
// shapes its outcome into a Response (spec §6).
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	switch req.Operation {
	case OpGetSchemas:
		return h.handleGetSchemas(req)
	case OpGetSchema:
		return h.handleGetSchema(req)
	}

	prov, ok := h.providers[req.ResourceType]
	if !ok {
		return errorResponse(req, errs.CodeUnsupportedResourceType, fmt.Sprintf("no provider registered for resource type %q", req.ResourceType))
	}
	t := h.tenantFrom(req)

	switch req.Operation {
	case OpCreate:
		return h.handleCreate(ctx, prov, req, t)
	case OpGet:
		return h.handleGet(ctx, prov, req, t)
	case OpUpdate:
		return h.handleUpdate(ctx, prov, req, t)
	case OpDelete:
		return h.handleDelete(ctx, prov, req, t)
	case OpList, OpSearch:
		return h.handleList(ctx, prov, req, t)
	case OpPatch:
		return h.handlePatch(ctx, prov, req, t)
	case OpExists:
		return h.handleExists(ctx, prov, req, t)
	default:
		return errorResponse(req, errs.CodeUnsupportedOperation, fmt.Sprintf("unsupported operation %q", req.Operation))
	}
}

func (h *Handler) tenantFrom(req Request) tenant.Context {
	if req.Tenant == nil {
		return tenant.New(defaultTenantID, "", tenant.IsolationStandard, tenant.AllowAll())
	}
	return tenant.New(req.Tenant.TenantID, req.Tenant.ClientID, parseIsolation(req.Tenant.IsolationLevel), tenant.Permissions{
		Create:    req.Tenant.Permissions.Create,
		Read:      req.Tenant.Permissions.Read,
		Update:    req.Tenant.Permissions.Update,
		Delete:    req.Tenant.Permissions.Delete,
		List:      req.Tenant.Permissions.List,
		MaxUsers:  req.Tenant.Permissions.MaxUsers,
		MaxGroups: req.Tenant.Permissions.MaxGroups,
	})
}

func parseIsolation(s string) tenant.IsolationLevel {
	switch s {
	case "strict":
		return tenant.IsolationStrict
	case "shared":
		return tenant.IsolationShared
	default:
		return tenant.IsolationStandard
	}
}

func (h *Handler) dataAsMap(req Request) (map[string]any, error) {
	m, ok := req.Data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("request data must be a JSON object")
	}
	return m, nil
}

func (h *Handler) handleCreate(ctx context.Context, prov provider.ResourceProvider, req Request, t tenant.Context) Response {
	raw, err := h.dataAsMap(req)
	if err != nil {
		return errorResponse(req, errs.CodeInvalidRequest, err.Error())
	}
	data, err := resource.FromJSON(req.ResourceType, raw)
	if err != nil {
		return errorResponse(req, errs.CodeInvalidRequest, err.Error())
	}
	vr, err := prov.Create(ctx, req.ResourceType, data, t)
	if err != nil {
		code, msg := mapError(err)
		return errorResponse(req, code, msg)
	}
	h.logger.Debug("create", zap.String("resource_type", req.ResourceType), zap.String("resource_id", vr.Resource.ID.String()))
	return resourceResponse(req, vr)
}

func (h *Handler) handleGet(ctx context.Context, prov provider.ResourceProvider, req Request, t tenant.Context) Response {
	vr, ok, err := prov.Get(ctx, req.ResourceType, req.ResourceID, t)
	if err != nil {
		code, msg := mapError(err)
		return errorResponse(req, code, msg)
	}
	if !ok {
		return notFoundResponse(req)
	}
	return resourceResponse(req, vr)
}

func (h *Handler) handleUpdate(ctx context.Context, prov provider.ResourceProvider, req Request, t tenant.Context) Response {
	raw, err := h.dataAsMap(req)
	if err != nil {
		return errorResponse(req, errs.CodeInvalidRequest, err.Error())
	}
	data, err := resource.FromJSON(req.ResourceType, raw)
	if err != nil {
		return errorResponse(req, errs.CodeInvalidRequest, err.Error())
	}

	if req.ExpectedVersion == "" {
		vr, err := prov.Update(ctx, req.ResourceType, req.ResourceID, data, t)
		if err != nil {
			code, msg := mapError(err)
			return errorResponse(req, code, msg)
		}
		return resourceResponse(req, vr)
	}

	expected, err := parseExpectedVersion(req.ExpectedVersion)
	if err != nil {
		return errorResponse(req, errs.CodeInvalidVersionFormat, err.Error())
	}
	result := prov.ConditionalUpdate(ctx, req.ResourceType, req.ResourceID, data, expected, t)
	return conditionalResponse(req, result)
}

func (h *Handler) handleDelete(ctx context.Context, prov provider.ResourceProvider, req Request, t tenant.Context) Response {
	if req.ExpectedVersion == "" {
		if err := prov.Delete(ctx, req.ResourceType, req.ResourceID, t); err != nil {
			code, msg := mapError(err)
			return errorResponse(req, code, msg)
		}
		return Response{Success: true, Data: true, Metadata: baseMetadata(req)}
	}

	expected, err := parseExpectedVersion(req.ExpectedVersion)
	if err != nil {
		return errorResponse(req, errs.CodeInvalidVersionFormat, err.Error())
	}
	result := prov.ConditionalDelete(ctx, req.ResourceType, req.ResourceID, expected, t)
	switch result.Outcome {
	case version.OutcomeSuccess:
		return Response{Success: true, Data: true, Metadata: baseMetadata(req)}
	case version.OutcomeNotFound:
		return notFoundResponse(req)
	case version.OutcomeVersionMismatch:
		return conflictResponse(req, result.Conflict)
	default:
		code, msg := mapError(result.Err)
		return errorResponse(req, code, msg)
	}
}

func (h *Handler) handleList(ctx context.Context, prov provider.ResourceProvider, req Request, t tenant.Context) Response {
	q := provider.Query{}
	if req.Query != nil {
		q = provider.Query{
			Count:              req.Query.Count,
			StartIndex:         req.Query.StartIndex,
			Filter:             req.Query.Filter,
			Attributes:         req.Query.Attributes,
			ExcludedAttributes: req.Query.ExcludedAttributes,
			SearchAttribute:    req.Query.SearchAttribute,
			SearchValue:        req.Query.SearchValue,
		}
	}
	list, total, err := prov.List(ctx, req.ResourceType, q, t)
	if err != nil {
		code, msg := mapError(err)
		return errorResponse(req, code, msg)
	}
	bodies := make([]map[string]any, 0, len(list))
	for _, vr := range list {
		body, err := vr.Resource.ToJSON()
		if err != nil {
			return errorResponse(req, errs.CodeInternalError, err.Error())
		}
		bodies = append(bodies, body)
	}
	meta := baseMetadata(req)
	meta.ResourceCount = len(bodies)
	meta.TotalResults = total
	return Response{Success: true, Data: bodies, Metadata: meta}
}

func (h *Handler) handlePatch(ctx context.Context, prov provider.ResourceProvider, req Request, t tenant.Context) Response {
	ops, err := decodePatchOps(req.Data)
	if err != nil {
		return errorResponse(req, errs.CodeInvalidRequest, err.Error())
	}
	var expected *version.RawVersion
	if req.ExpectedVersion != "" {
		v, err := parseExpectedVersion(req.ExpectedVersion)
		if err != nil {
			return errorResponse(req, errs.CodeInvalidVersionFormat, err.Error())
		}
		expected = &v
	}
	result := prov.Patch(ctx, req.ResourceType, req.ResourceID, ops, expected, t)
	return conditionalResponse(req, result)
}

func (h *Handler) handleExists(ctx context.Context, prov provider.ResourceProvider, req Request, t tenant.Context) Response {
	exists, err := prov.Exists(ctx, req.ResourceType, req.ResourceID, t)
	if err != nil {
		code, msg := mapError(err)
		return errorResponse(req, code, msg)
	}
	meta := baseMetadata(req)
	meta.Additional.Exists = &exists
	return Response{Success: true, Data: exists, Metadata: meta}
}

func (h *Handler) handleGetSchemas(req Request) Response {
	var uris []string
	for _, s := range h.registry.Iter() {
		uris = append(uris, s.ID)
	}
	meta := baseMetadata(req)
	meta.Schemas = uris
	return Response{Success: true, Data: h.registry.Iter(), Metadata: meta}
}

func (h *Handler) handleGetSchema(req Request) Response {
	s, ok := h.registry.Get(req.ResourceID)
	if !ok {
		return errorResponse(req, errs.CodeSchemaNotFound, fmt.Sprintf("no schema registered for %q", req.ResourceID))
	}
	return Response{Success: true, Data: s, Metadata: baseMetadata(req)}
}
