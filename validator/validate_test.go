package validator

import (
	"testing"

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

func validUser() map[string]any {
	return map[string]any{
		"schemas":  []any{schema.UserSchemaURI},
		"userName": "bjensen@example.com",
		"active":   true,
	}
}

func TestValidateAcceptsWellFormedUser(t *testing.T) {
	reg := builtinRegistry(t)
	r, err := resource.FromJSON("User", validUser())
	require.NoError(t, err)

	err = Validate(r, reg, OpCreate)
	assert.NoError(t, err)
}

func TestValidateRejectsUnknownSchema(t *testing.T) {
	reg := builtinRegistry(t)
	raw := validUser()
	raw["schemas"] = []any{"urn:unregistered:schema"}
	r, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	err = Validate(r, reg, OpCreate)
	require.Error(t, err)
	verr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeUnknownSchema, verr.Code)
}

func TestValidateRejectsMissingRequiredAttribute(t *testing.T) {
	reg := builtinRegistry(t)
	raw := map[string]any{"schemas": []any{schema.UserSchemaURI}}
	r, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	err = Validate(r, reg, OpCreate)
	require.Error(t, err)
	verr := err.(*Error)
	assert.Equal(t, CodeRequiredAttributeAbsent, verr.Code)
	assert.Equal(t, "userName", verr.Path)
}

func TestValidateSkipsRequiredOnQuery(t *testing.T) {
	reg := builtinRegistry(t)
	raw := map[string]any{"schemas": []any{schema.UserSchemaURI}}
	r, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	assert.NoError(t, Validate(r, reg, OpQuery))
}

func TestValidateRejectsUnknownTopLevelAttribute(t *testing.T) {
	reg := builtinRegistry(t)
	raw := validUser()
	raw["bogus"] = "y"
	r, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	err = Validate(r, reg, OpCreate)
	require.Error(t, err)
	assert.Equal(t, CodeUnknownAttribute, err.(*Error).Code)
}

func TestValidateAcceptsUnknownAttributeInsideDeclaredExtension(t *testing.T) {
	reg := builtinRegistry(t)
	raw := validUser()
	raw["schemas"] = []any{schema.UserSchemaURI, schema.EnterpriseUserSchemaURI}
	raw[schema.EnterpriseUserSchemaURI] = map[string]any{"employeeNumber": "701984", "customField": "x"}
	r, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	assert.NoError(t, Validate(r, reg, OpCreate))
}

func TestValidateRejectsUnknownSubAttribute(t *testing.T) {
	reg := builtinRegistry(t)
	raw := validUser()
	raw["name"] = map[string]any{"familyName": "Jensen", "bogusField": "x"}
	r, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	err = Validate(r, reg, OpCreate)
	require.Error(t, err)
	assert.Equal(t, CodeUnknownSubAttribute, err.(*Error).Code)
}

func TestValidateRejectsReadOnlyClientWrite(t *testing.T) {
	reg := builtinRegistry(t)
	raw := validUser()
	raw["groups"] = []any{map[string]any{"value": "g1"}}
	r, err := resource.FromJSON("User", raw)
	require.NoError(t, err)

	err = Validate(r, reg, OpCreate)
	require.Error(t, err)
	assert.Equal(t, CodeReadOnlyViolation, err.(*Error).Code)
}

func TestCheckImmutableTransitionAllowsMutableChange(t *testing.T) {
	reg := builtinRegistry(t)

	prevRaw := validUser()
	nextRaw := validUser()
	nextRaw["userName"] = "someone.else@example.com"

	prev, err := resource.FromJSON("User", prevRaw)
	require.NoError(t, err)
	next, err := resource.FromJSON("User", nextRaw)
	require.NoError(t, err)

	// userName is not declared immutable in the builtin schema, so this
	// should pass; this test exercises the no-violation path explicitly.
	assert.NoError(t, CheckImmutableTransition(prev, next, reg))
}
