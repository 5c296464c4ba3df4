package resource

import (
	"encoding/json"
	"fmt"
)

// Resource aggregates the value objects and the open attribute map that
// make up a SCIM resource instance (spec §3 "Resource").
//
// UserName/Name/Emails/PhoneNumbers/Addresses normally appear on a "User"
// and Members on a "Group"; DisplayName is used by both. FromJSON fills
// whichever of these fields the input carries without checking
// ResourceType — the engine models both resource types with one struct so
// the schema-agnostic layers (version, provider, operation, patch) need
// not branch on resource type.
type Resource struct {
	ResourceType string
	Schemas      []string
	ID           ResourceId
	ExternalID   ExternalId

	UserName     UserName
	Name         Name
	Emails       MultiValuedAttribute[EmailAddress]
	PhoneNumbers MultiValuedAttribute[PhoneNumber]
	Addresses    MultiValuedAttribute[Address]

	DisplayName string
	Members     MultiValuedAttribute[GroupMember]

	Meta Meta

	// Attributes holds every attribute not modeled as a typed field above:
	// extension-schema blocks (keyed by schema URI) and core attributes
	// that carry no dedicated value object (e.g. User's "active",
	// "nickName", "title"). Values are JSON-decoded (map[string]any,
	// []any, string, float64, bool, nil).
	Attributes map[string]any
}

// knownTopLevelKeys are the keys FromJSON/ToJSON handle via typed fields;
// everything else round-trips through Attributes.
var knownTopLevelKeys = map[string]bool{
	"schemas": true, "id": true, "externalId": true, "meta": true,
	"userName": true, "name": true, "emails": true, "phoneNumbers": true, "addresses": true,
	"displayName": true, "members": true,
}

// FromJSON runs structural (not cross-schema — that is the validator
// package's job) construction of a Resource from a decoded JSON object
// (spec §4.D).
func FromJSON(resourceType string, raw map[string]any) (Resource, error) {
	r := Resource{ResourceType: resourceType, Attributes: make(map[string]any)}

	schemasRaw, ok := raw["schemas"]
	if !ok {
		return Resource{}, fmt.Errorf("resource: missing required \"schemas\"")
	}
	schemasArr, ok := schemasRaw.([]any)
	if !ok || len(schemasArr) == 0 {
		return Resource{}, fmt.Errorf("resource: \"schemas\" must be a non-empty array")
	}
	seen := make(map[string]bool, len(schemasArr))
	for _, s := range schemasArr {
		str, ok := s.(string)
		if !ok {
			return Resource{}, fmt.Errorf("resource: schema uri must be a string")
		}
		if seen[str] {
			return Resource{}, fmt.Errorf("resource: duplicate schema uri %q", str)
		}
		seen[str] = true
		r.Schemas = append(r.Schemas, str)
	}

	if idRaw, ok := raw["id"]; ok {
		idStr, ok := idRaw.(string)
		if !ok {
			return Resource{}, fmt.Errorf("resource: \"id\" must be a string")
		}
		id, err := NewResourceId(idStr)
		if err != nil {
			return Resource{}, err
		}
		r.ID = id
	}

	if extRaw, ok := raw["externalId"]; ok {
		extStr, ok := extRaw.(string)
		if !ok {
			return Resource{}, fmt.Errorf("resource: \"externalId\" must be a string")
		}
		ext, err := NewExternalId(extStr)
		if err != nil {
			return Resource{}, err
		}
		r.ExternalID = ext
	}

	if metaRaw, ok := raw["meta"]; ok {
		m, err := metaFromJSON(metaRaw)
		if err != nil {
			return Resource{}, err
		}
		if !m.ResourceType.isZeroOrEqual(resourceType) {
			return Resource{}, fmt.Errorf("resource: meta.resourceType %q does not match owning resource type %q", m.ResourceType.value, resourceType)
		}
		r.Meta = m.toMeta(resourceType)
	}

	if unRaw, ok := raw["userName"]; ok {
		s, ok := unRaw.(string)
		if !ok {
			return Resource{}, fmt.Errorf("resource: \"userName\" must be a string")
		}
		un, err := NewUserName(s)
		if err != nil {
			return Resource{}, err
		}
		r.UserName = un
	}

	if nameRaw, ok := raw["name"]; ok {
		n, err := nameFromJSON(nameRaw)
		if err != nil {
			return Resource{}, err
		}
		r.Name = n
	}

	if err := decodeMultiValued(raw, "emails", &r.Emails, emailFromJSON); err != nil {
		return Resource{}, err
	}
	if err := decodeMultiValued(raw, "phoneNumbers", &r.PhoneNumbers, phoneFromJSON); err != nil {
		return Resource{}, err
	}
	if err := decodeMultiValued(raw, "addresses", &r.Addresses, addressFromJSON); err != nil {
		return Resource{}, err
	}
	if err := decodeMultiValued(raw, "members", &r.Members, memberFromJSON); err != nil {
		return Resource{}, err
	}

	if dnRaw, ok := raw["displayName"]; ok {
		s, ok := dnRaw.(string)
		if !ok {
			return Resource{}, fmt.Errorf("resource: \"displayName\" must be a string")
		}
		r.DisplayName = s
	}

	for k, v := range raw {
		if !knownTopLevelKeys[k] {
			r.Attributes[k] = v
		}
	}

	return r, nil
}

func decodeMultiValued[T Primary](raw map[string]any, key string, dst *MultiValuedAttribute[T], each func(any) (T, error)) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return fmt.Errorf("resource: %q must be an array", key)
	}
	elements := make([]T, 0, len(arr))
	for _, item := range arr {
		el, err := each(item)
		if err != nil {
			return fmt.Errorf("resource: %s: %w", key, err)
		}
		elements = append(elements, el)
	}
	mv, err := NewMultiValuedAttribute(elements)
	if err != nil {
		return fmt.Errorf("resource: %s: %w", key, err)
	}
	*dst = mv
	return nil
}

func asMap(v any, ctx string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("resource: %s must be an object", ctx)
	}
	return m, nil
}

func asString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func asBool(m map[string]any, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func nameFromJSON(v any) (Name, error) {
	m, err := asMap(v, "name")
	if err != nil {
		return Name{}, err
	}
	return Name{
		Formatted:       asString(m, "formatted"),
		FamilyName:      asString(m, "familyName"),
		GivenName:       asString(m, "givenName"),
		MiddleName:      asString(m, "middleName"),
		HonorificPrefix: asString(m, "honorificPrefix"),
		HonorificSuffix: asString(m, "honorificSuffix"),
	}, nil
}

func emailFromJSON(v any) (EmailAddress, error) {
	m, err := asMap(v, "emails element")
	if err != nil {
		return EmailAddress{}, err
	}
	return NewEmailAddress(asString(m, "value"), asString(m, "type"), asBool(m, "primary"), asString(m, "display"))
}

func phoneFromJSON(v any) (PhoneNumber, error) {
	m, err := asMap(v, "phoneNumbers element")
	if err != nil {
		return PhoneNumber{}, err
	}
	return NewPhoneNumber(asString(m, "value"), asString(m, "type"), asBool(m, "primary"), asString(m, "display"))
}

func addressFromJSON(v any) (Address, error) {
	m, err := asMap(v, "addresses element")
	if err != nil {
		return Address{}, err
	}
	return Address{
		Formatted:     asString(m, "formatted"),
		StreetAddress: asString(m, "streetAddress"),
		Locality:      asString(m, "locality"),
		Region:        asString(m, "region"),
		PostalCode:    asString(m, "postalCode"),
		Country:       asString(m, "country"),
		Type:          asString(m, "type"),
		Primary:       asBool(m, "primary"),
	}, nil
}

func memberFromJSON(v any) (GroupMember, error) {
	m, err := asMap(v, "members element")
	if err != nil {
		return GroupMember{}, err
	}
	return NewGroupMember(asString(m, "value"), asString(m, "$ref"), asString(m, "display"), asString(m, "type"))
}

// metaJSON is an intermediate type distinguishing an absent resourceType
// from one that simply doesn't match (both represented as "" after a plain
// string extraction), used only while parsing.
type metaJSON struct {
	ResourceType metaResourceType
	Created      string
	LastModified string
	Version      string
	Location     string
}

type metaResourceType struct {
	value string
	set   bool
}

func (m metaResourceType) isZeroOrEqual(owning string) bool {
	return !m.set || m.value == owning
}

func metaFromJSON(v any) (metaJSON, error) {
	m, err := asMap(v, "meta")
	if err != nil {
		return metaJSON{}, err
	}
	out := metaJSON{
		Created:      asString(m, "created"),
		LastModified: asString(m, "lastModified"),
		Version:      asString(m, "version"),
		Location:     asString(m, "location"),
	}
	if rt, ok := m["resourceType"]; ok {
		s, ok := rt.(string)
		if !ok {
			return metaJSON{}, fmt.Errorf("resource: meta.resourceType must be a string")
		}
		out.ResourceType = metaResourceType{value: s, set: true}
	}
	return out, nil
}

func (m metaJSON) toMeta(owningType string) Meta {
	out := Meta{ResourceType: owningType, Version: m.Version, Location: m.Location}
	if t, err := parseRFC3339(m.Created); err == nil {
		out.Created = t
	}
	if t, err := parseRFC3339(m.LastModified); err == nil {
		out.LastModified = t
	}
	return out
}

// ToJSON produces a canonical JSON-shaped map: core value objects spread at
// top level, extension/open attributes alongside them, and a deterministic
// key order via encoding/json's sorted-map-key marshaling — stable byte
// output is what makes version hashing stable (spec §4.D, §4.E).
func (r Resource) ToJSON() (map[string]any, error) {
	out := make(map[string]any, len(r.Attributes)+8)
	for k, v := range r.Attributes {
		out[k] = v
	}

	out["schemas"] = r.Schemas

	if !r.ID.IsZero() {
		out["id"] = r.ID.String()
	}
	if !r.ExternalID.IsZero() {
		out["externalId"] = r.ExternalID.String()
	}
	if !r.Meta.IsZero() {
		out["meta"] = r.Meta.toJSON()
	}
	if !r.UserName.IsZero() {
		out["userName"] = r.UserName.String()
	}
	if !r.Name.IsZero() {
		out["name"] = r.Name
	}
	if r.Emails.Len() > 0 {
		out["emails"] = r.Emails.Elements()
	}
	if r.PhoneNumbers.Len() > 0 {
		out["phoneNumbers"] = r.PhoneNumbers.Elements()
	}
	if r.Addresses.Len() > 0 {
		out["addresses"] = r.Addresses.Elements()
	}
	if r.DisplayName != "" {
		out["displayName"] = r.DisplayName
	}
	if r.Members.Len() > 0 {
		out["members"] = r.Members.Elements()
	}

	// Re-decode so every value has its JSON-decoded shape ([]any,
	// map[string]any, ...) and the map can be fed back into FromJSON.
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (m Meta) toJSON() map[string]any {
	out := map[string]any{"resourceType": m.ResourceType}
	if !m.Created.IsZero() {
		out["created"] = m.Created.Format(rfc3339Format)
	}
	if !m.LastModified.IsZero() {
		out["lastModified"] = m.LastModified.Format(rfc3339Format)
	}
	if m.Version != "" {
		out["version"] = m.Version
	}
	if m.Location != "" {
		out["location"] = m.Location
	}
	return out
}

// MarshalCanonicalJSON serializes the resource with sorted keys for hashing
// (spec §4.D "canonical serialization... deterministic").
func (r Resource) MarshalCanonicalJSON() ([]byte, error) {
	m, err := r.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// GetID returns the resource id, if set.
func (r Resource) GetID() (ResourceId, bool) { return r.ID, !r.ID.IsZero() }

// GetUserName returns the userName, if set.
func (r Resource) GetUserName() (UserName, bool) { return r.UserName, !r.UserName.IsZero() }

// GetExternalID returns the externalId, if set.
func (r Resource) GetExternalID() (ExternalId, bool) { return r.ExternalID, !r.ExternalID.IsZero() }

// GetMeta returns the resource's metadata, if set.
func (r Resource) GetMeta() (Meta, bool) { return r.Meta, !r.Meta.IsZero() }

// GetAttribute looks up a top-level open attribute by name.
func (r Resource) GetAttribute(name string) (any, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}
