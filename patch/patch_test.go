package patch

import (
	"testing"

	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinRegistry(t *testing.T) *schema.Registry {
	reg, err := schema.LoadBuiltin()
	require.NoError(t, err)
	return reg
}

func TestParsePathVariants(t *testing.T) {
	p, err := ParsePath("")
	require.NoError(t, err)
	assert.True(t, p.Empty)

	p, err = ParsePath("name.familyName")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "familyName"}, p.Segments)

	p, err = ParsePath(`emails[type eq "work"]`)
	require.NoError(t, err)
	require.NotNil(t, p.Filter)
	assert.Equal(t, "type", p.Filter.SubAttr)
	assert.Equal(t, "eq", p.Filter.Op)
	assert.Equal(t, "work", p.Filter.Literal)

	p, err = ParsePath(`emails[type eq "work"].value`)
	require.NoError(t, err)
	assert.Equal(t, "value", p.SubAttr)

	_, err = ParsePath(`emails[type gt "work"]`)
	assert.Error(t, err)
}

func groupPatchTarget(t *testing.T) resource.Resource {
	raw := map[string]any{
		"schemas":     []any{schema.GroupSchemaURI},
		"id":          "g1",
		"displayName": "Old",
	}
	r, err := resource.FromJSON("Group", raw)
	require.NoError(t, err)
	return r
}

func TestApplyReplaceDisplayName(t *testing.T) {
	reg := builtinRegistry(t)
	target := groupPatchTarget(t)

	out, err := Apply(target, []provider.PatchOp{
		{Op: "replace", Path: "displayName", Value: "New"},
	}, reg)
	require.NoError(t, err)
	assert.Equal(t, "New", out.DisplayName)
}

// S3. Patch atomicity: a patch document whose operations individually
// succeed but collectively violate an invariant (at most one primary
// email) fails as a whole, and the original resource is unchanged.
func TestApplyAtomicityViolatingPrimaryInvariant(t *testing.T) {
	reg := builtinRegistry(t)
	raw := map[string]any{
		"schemas":     []any{schema.UserSchemaURI},
		"id":          "u1",
		"userName":    "bjensen",
		"displayName": "Old",
		"emails":      []any{map[string]any{"value": "a@x", "primary": true}},
	}
	target, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	_, err = Apply(target, []provider.PatchOp{
		{Op: "replace", Path: "displayName", Value: "New"},
		{Op: "add", Path: "emails", Value: map[string]any{"value": "b@x", "primary": true}},
	}, reg)
	require.Error(t, err)

	assert.Equal(t, "Old", target.DisplayName)
	assert.Equal(t, 1, target.Emails.Len())
}

func TestApplyRemoveRequiredAttributeFails(t *testing.T) {
	reg := builtinRegistry(t)
	raw := map[string]any{
		"schemas":  []any{schema.UserSchemaURI},
		"id":       "u1",
		"userName": "bjensen",
	}
	target, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	_, err = Apply(target, []provider.PatchOp{
		{Op: "remove", Path: "userName"},
	}, reg)
	assert.Error(t, err)
}

func TestApplyFilteredReplaceUpdatesMatchingElement(t *testing.T) {
	reg := builtinRegistry(t)
	raw := map[string]any{
		"schemas":  []any{schema.UserSchemaURI},
		"id":       "u1",
		"userName": "bjensen",
		"emails": []any{
			map[string]any{"value": "a@x", "type": "work", "primary": true},
			map[string]any{"value": "b@x", "type": "home"},
		},
	}
	target, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	out, err := Apply(target, []provider.PatchOp{
		{Op: "replace", Path: `emails[type eq "home"].value`, Value: "c@x"},
	}, reg)
	require.NoError(t, err)

	var found bool
	for _, e := range out.Emails.Elements() {
		if e.Type == "home" {
			found = true
			assert.Equal(t, "c@x", e.Value)
		}
	}
	assert.True(t, found)
}

func TestApplyUnknownPathFails(t *testing.T) {
	reg := builtinRegistry(t)
	target := groupPatchTarget(t)

	_, err := Apply(target, []provider.PatchOp{
		{Op: "add", Path: "bogusAttribute", Value: "x"},
	}, reg)
	assert.Error(t, err)
}
