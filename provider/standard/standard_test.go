package standard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/provider/memstore"
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/schema"
	"github.com/nexusid/scimcore/tenant"
	"github.com/nexusid/scimcore/version"
)

func newTestProvider(t *testing.T) *StandardProvider[*memstore.Store] {
	reg, err := schema.LoadBuiltin()
	require.NoError(t, err)
	return New(memstore.New(), reg, Config{BaseURL: "https://scim.example.com/v2"}, nil)
}

func userResource(t *testing.T, userName string) resource.Resource {
	r, err := resource.FromJSON("User", map[string]any{
		"schemas":  []any{schema.UserSchemaURI},
		"userName": userName,
		"active":   true,
	})
	require.NoError(t, err)
	return r
}

func tenantCtx(id string) tenant.Context {
	return tenant.New(id, "client-"+id, tenant.IsolationStandard, tenant.AllowAll())
}

// S1. Create then conditional update wins; stale update loses.
func TestS1ConditionalUpdateOrdering(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	tc := tenantCtx("T")

	created, err := p.Create(ctx, "User", userResource(t, "admin.user"), tc)
	require.NoError(t, err)
	v1 := created.Version

	updated1Body, err := resource.FromJSON("User", map[string]any{
		"schemas":  []any{schema.UserSchemaURI},
		"userName": "admin.user",
		"active":   false,
	})
	require.NoError(t, err)
	res1 := p.ConditionalUpdate(ctx, "User", created.Resource.ID.String(), updated1Body, v1, tc)
	require.Equal(t, version.OutcomeSuccess, res1.Outcome)
	v2 := res1.Value.Version

	updated2Body, err := resource.FromJSON("User", map[string]any{
		"schemas":    []any{schema.UserSchemaURI},
		"userName":   "admin.user",
		"active":     true,
		"department": "Security",
	})
	require.NoError(t, err)
	res2 := p.ConditionalUpdate(ctx, "User", created.Resource.ID.String(), updated2Body, v1, tc)
	require.Equal(t, version.OutcomeVersionMismatch, res2.Outcome)
	assert.True(t, res2.Conflict.Expected.Matches(v1))
	assert.True(t, res2.Conflict.Current.Matches(v2))

	final, ok, err := p.Get(ctx, "User", created.Resource.ID.String(), tc)
	require.NoError(t, err)
	require.True(t, ok)
	active, _ := final.Resource.GetAttribute("active")
	assert.Equal(t, false, active)
	_, hasDept := final.Resource.GetAttribute("department")
	assert.False(t, hasDept)
}

// S2. Cross-tenant invisibility.
func TestS2CrossTenantInvisibility(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	tcA := tenantCtx("A")
	tcB := tenantCtx("B")

	createdA, err := p.Create(ctx, "User", userResource(t, "alice@example.com"), tcA)
	require.NoError(t, err)
	_, err = p.Create(ctx, "User", userResource(t, "alice@example.com"), tcB)
	require.NoError(t, err)

	listA, countA, err := p.List(ctx, "User", provider.Query{}, tcA)
	require.NoError(t, err)
	assert.Equal(t, 1, countA)
	assert.Len(t, listA, 1)

	listB, countB, err := p.List(ctx, "User", provider.Query{}, tcB)
	require.NoError(t, err)
	assert.Equal(t, 1, countB)
	assert.Len(t, listB, 1)

	_, ok, err := p.Get(ctx, "User", createdA.Resource.ID.String(), tcB)
	require.NoError(t, err)
	assert.False(t, ok)
}

// S6. Conditional delete requires the correct version.
func TestS6ConditionalDeleteSafety(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	tc := tenantCtx("T")

	created, err := p.Create(ctx, "User", userResource(t, "bob"), tc)
	require.NoError(t, err)

	stale := version.FromRaw("not-the-real-version")
	res := p.ConditionalDelete(ctx, "User", created.Resource.ID.String(), stale, tc)
	assert.Equal(t, version.OutcomeVersionMismatch, res.Outcome)

	_, ok, err := p.Get(ctx, "User", created.Resource.ID.String(), tc)
	require.NoError(t, err)
	assert.True(t, ok)

	res = p.ConditionalDelete(ctx, "User", created.Resource.ID.String(), created.Version, tc)
	assert.Equal(t, version.OutcomeSuccess, res.Outcome)

	_, ok, err = p.Get(ctx, "User", created.Resource.ID.String(), tc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserNameUniquenessWithinTenant(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	tc := tenantCtx("T")

	_, err := p.Create(ctx, "User", userResource(t, "dupe@example.com"), tc)
	require.NoError(t, err)

	_, err = p.Create(ctx, "User", userResource(t, "DUPE@example.com"), tc)
	assert.Error(t, err)
}

func TestCreateDeniedWithoutPermission(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	tc := tenant.New("T", "c", tenant.IsolationStandard, tenant.Permissions{})

	_, err := p.Create(ctx, "User", userResource(t, "nope"), tc)
	assert.Error(t, err)
}

func TestQuotaEnforcedOnCreate(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	max := 1
	tc := tenant.New("T", "c", tenant.IsolationStandard, tenant.Permissions{Create: true, Read: true, MaxUsers: &max})

	_, err := p.Create(ctx, "User", userResource(t, "first"), tc)
	require.NoError(t, err)

	_, err = p.Create(ctx, "User", userResource(t, "second"), tc)
	assert.Error(t, err)
}
