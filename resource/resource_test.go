package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userJSON() map[string]any {
	return map[string]any{
		"schemas":  []any{"urn:ietf:params:scim:schemas:core:2.0:User"},
		"id":       "2819c223-7f76-453a-919d-413861904646",
		"userName": "bjensen@example.com",
		"name": map[string]any{
			"familyName": "Jensen",
			"givenName":  "Barbara",
		},
		"emails": []any{
			map[string]any{"value": "bjensen@example.com", "type": "work", "primary": true},
			map[string]any{"value": "babs@example.com", "type": "home"},
		},
		"active": true,
	}
}

func TestFromJSONRequiresSchemas(t *testing.T) {
	_, err := FromJSON("User", map[string]any{"userName": "bob"})
	assert.Error(t, err)
}

func TestFromJSONRejectsDuplicateSchemas(t *testing.T) {
	raw := map[string]any{
		"schemas": []any{"urn:a", "urn:a"},
	}
	_, err := FromJSON("User", raw)
	assert.Error(t, err)
}

func TestFromJSONPopulatesValueObjects(t *testing.T) {
	r, err := FromJSON("User", userJSON())
	require.NoError(t, err)

	assert.Equal(t, "2819c223-7f76-453a-919d-413861904646", r.ID.String())
	assert.Equal(t, "bjensen@example.com", r.UserName.String())
	assert.Equal(t, "Jensen", r.Name.FamilyName)
	require.Equal(t, 2, r.Emails.Len())

	primary, ok := r.Emails.Primary()
	require.True(t, ok)
	assert.Equal(t, "bjensen@example.com", primary.Value)

	active, ok := r.GetAttribute("active")
	require.True(t, ok)
	assert.Equal(t, true, active)
}

func TestFromJSONRejectsMultiplePrimaryEmails(t *testing.T) {
	raw := userJSON()
	raw["emails"] = []any{
		map[string]any{"value": "a@example.com", "primary": true},
		map[string]any{"value": "b@example.com", "primary": true},
	}
	_, err := FromJSON("User", raw)
	assert.Error(t, err)
}

// Invariant: FromJSON(ToJSON(R)) reconstructs an equivalent resource.
func TestRoundTripFromJSONToJSON(t *testing.T) {
	r, err := FromJSON("User", userJSON())
	require.NoError(t, err)

	out, err := r.ToJSON()
	require.NoError(t, err)

	r2, err := FromJSON("User", out)
	require.NoError(t, err)

	assert.True(t, r.ID.String() == r2.ID.String())
	assert.True(t, r.UserName.Equal(r2.UserName))
	assert.Equal(t, r.Name, r2.Name)
	assert.Equal(t, r.Emails.Elements(), r2.Emails.Elements())
}

// Invariant: canonical serialization is deterministic across repeated calls.
func TestMarshalCanonicalJSONDeterministic(t *testing.T) {
	r, err := FromJSON("User", userJSON())
	require.NoError(t, err)

	b1, err := r.MarshalCanonicalJSON()
	require.NoError(t, err)
	b2, err := r.MarshalCanonicalJSON()
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

func TestGetAccessors(t *testing.T) {
	r, err := FromJSON("User", userJSON())
	require.NoError(t, err)

	id, ok := r.GetID()
	require.True(t, ok)
	assert.Equal(t, "2819c223-7f76-453a-919d-413861904646", id.String())

	un, ok := r.GetUserName()
	require.True(t, ok)
	assert.Equal(t, "bjensen@example.com", un.String())

	_, ok = r.GetExternalID()
	assert.False(t, ok)
}

func TestMultiValuedAttributeAtMostOnePrimary(t *testing.T) {
	_, err := NewMultiValuedAttribute([]EmailAddress{
		{Value: "a@example.com", Primary: true},
		{Value: "b@example.com", Primary: true},
	})
	assert.Error(t, err)
}
