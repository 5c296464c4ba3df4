package operation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusid/scimcore/internal/errs"
	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/provider/memstore"
	"github.com/nexusid/scimcore/provider/standard"
	"github.com/nexusid/scimcore/schema"
)

func newTestHandler(t *testing.T) *Handler {
	reg, err := schema.LoadBuiltin()
	require.NoError(t, err)
	sp := standard.New(memstore.New(), reg, standard.Config{BaseURL: "https://scim.example.com/v2"}, nil)
	return NewHandler(reg, map[string]provider.ResourceProvider{"User": sp, "Group": sp}, nil)
}

func createUserReq(userName string) Request {
	return Request{
		Operation:    OpCreate,
		ResourceType: "User",
		RequestID:    "req-1",
		Data: map[string]any{
			"schemas":  []any{schema.UserSchemaURI},
			"userName": userName,
			"active":   true,
		},
	}
}

func TestHandleCreateGetUpdateDeleteFlow(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler(t)

	createResp := h.Handle(ctx, createUserReq("bjensen"))
	require.True(t, createResp.Success)
	body := createResp.Data.(map[string]any)
	id := body["id"].(string)
	require.NotEmpty(t, id)
	require.NotEmpty(t, createResp.Metadata.Additional.Version)
	assert.Regexp(t, `^W/"`, createResp.Metadata.Additional.ETag)

	getResp := h.Handle(ctx, Request{Operation: OpGet, ResourceType: "User", ResourceID: id})
	require.True(t, getResp.Success)

	updateResp := h.Handle(ctx, Request{
		Operation:       OpUpdate,
		ResourceType:    "User",
		ResourceID:      id,
		ExpectedVersion: createResp.Metadata.Additional.ETag,
		Data: map[string]any{
			"schemas":  []any{schema.UserSchemaURI},
			"userName": "bjensen",
			"active":   false,
		},
	})
	require.True(t, updateResp.Success, "error: %s (%s)", updateResp.Error, updateResp.ErrorCode)
	assert.NotEqual(t, createResp.Metadata.Additional.Version, updateResp.Metadata.Additional.Version)

	staleUpdateResp := h.Handle(ctx, Request{
		Operation:       OpUpdate,
		ResourceType:    "User",
		ResourceID:      id,
		ExpectedVersion: createResp.Metadata.Additional.ETag,
		Data: map[string]any{
			"schemas":  []any{schema.UserSchemaURI},
			"userName": "bjensen",
			"active":   true,
		},
	})
	require.False(t, staleUpdateResp.Success)
	assert.Equal(t, errs.CodeVersionMismatch, staleUpdateResp.ErrorCode)
	assert.NotEmpty(t, staleUpdateResp.Metadata.Additional.CurrentETag)

	deleteResp := h.Handle(ctx, Request{Operation: OpDelete, ResourceType: "User", ResourceID: id})
	require.True(t, deleteResp.Success)

	missingResp := h.Handle(ctx, Request{Operation: OpGet, ResourceType: "User", ResourceID: id})
	require.False(t, missingResp.Success)
	assert.Equal(t, errs.CodeResourceNotFound, missingResp.ErrorCode)
}

func TestHandleUnsupportedResourceType(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), Request{Operation: OpGet, ResourceType: "Widget", ResourceID: "x"})
	assert.False(t, resp.Success)
	assert.Equal(t, errs.CodeUnsupportedResourceType, resp.ErrorCode)
}

func TestHandleUnsupportedOperation(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), Request{Operation: "Bogus", ResourceType: "User"})
	assert.False(t, resp.Success)
	assert.Equal(t, errs.CodeUnsupportedOperation, resp.ErrorCode)
}

func TestHandleGetSchemasAndGetSchema(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	listResp := h.Handle(ctx, Request{Operation: OpGetSchemas})
	require.True(t, listResp.Success)
	assert.NotEmpty(t, listResp.Metadata.Schemas)

	schemaResp := h.Handle(ctx, Request{Operation: OpGetSchema, ResourceID: schema.UserSchemaURI})
	require.True(t, schemaResp.Success)

	missingResp := h.Handle(ctx, Request{Operation: OpGetSchema, ResourceID: "urn:does:not:exist"})
	require.False(t, missingResp.Success)
	assert.Equal(t, errs.CodeSchemaNotFound, missingResp.ErrorCode)
}

func TestHandlePatchReplacesAttribute(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler(t)

	createResp := h.Handle(ctx, createUserReq("patchme"))
	require.True(t, createResp.Success)
	id := createResp.Data.(map[string]any)["id"].(string)

	patchResp := h.Handle(ctx, Request{
		Operation:    OpPatch,
		ResourceType: "User",
		ResourceID:   id,
		Data: map[string]any{
			"schemas": []any{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
			"Operations": []any{
				map[string]any{"op": "replace", "path": "active", "value": false},
			},
		},
	})
	require.True(t, patchResp.Success, "error: %s (%s)", patchResp.Error, patchResp.ErrorCode)
	body := patchResp.Data.(map[string]any)
	assert.Equal(t, false, body["active"])
}

func TestHandleListScopesByTenant(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler(t)

	tenantA := &TenantParams{TenantID: "A", ClientID: "cA", IsolationLevel: "standard", Permissions: PermissionsParams{Create: true, Read: true, List: true}}
	tenantB := &TenantParams{TenantID: "B", ClientID: "cB", IsolationLevel: "standard", Permissions: PermissionsParams{Create: true, Read: true, List: true}}

	reqA := createUserReq("alice")
	reqA.Tenant = tenantA
	require.True(t, h.Handle(ctx, reqA).Success)

	reqB := createUserReq("alice")
	reqB.Tenant = tenantB
	require.True(t, h.Handle(ctx, reqB).Success)

	listA := h.Handle(ctx, Request{Operation: OpList, ResourceType: "User", Tenant: tenantA})
	require.True(t, listA.Success)
	assert.Equal(t, 1, listA.Metadata.ResourceCount)
}

func TestServiceProviderConfig(t *testing.T) {
	h := newTestHandler(t)
	cfg := h.ServiceProviderConfig()
	assert.True(t, cfg.PatchSupported)
	assert.True(t, cfg.ETagSupported)
	assert.False(t, cfg.BulkSupported)
	assert.False(t, cfg.SortSupported)
}
