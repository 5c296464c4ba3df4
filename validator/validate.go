package validator

import (
	"math"
	"strings"

	"github.com/nexusid/scimcore/internal/validate"
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/schema"
)

// serverManaged names the keys the validator never checks against a
// schema: the server-managed attributes id and meta (spec §4.B
// "server-managed attributes (id, meta)") plus the schemas array; every
// other readOnly attribute is rejected outright when client-supplied.
var serverManaged = map[string]bool{"id": true, "meta": true, "schemas": true}

// Validate runs the full per-attribute algorithm from spec §4.B against a
// constructed Resource. It is total: the first detected problem is
// returned; reaching the end without error means the resource is
// admissible.
func Validate(r resource.Resource, reg *schema.Registry, opCtx OpContext) error {
	if len(r.Schemas) == 0 {
		return newError(CodeMissingBaseSchema, "schemas", "resource declares no schemas")
	}
	seen := make(map[string]bool, len(r.Schemas))
	for _, uri := range r.Schemas {
		if seen[uri] {
			return newError(CodeDuplicateSchema, "schemas", "duplicate schema uri "+uri)
		}
		seen[uri] = true
	}

	data, err := r.ToJSON()
	if err != nil {
		return newError(CodeTypeMismatch, "", "resource could not be serialized for validation: "+err.Error())
	}

	baseURI := r.Schemas[0]
	baseSchema, ok := reg.Get(baseURI)
	if !ok {
		return newError(CodeUnknownSchema, "schemas", "base schema not registered: "+baseURI)
	}

	if err := rejectUnknownTopLevelAttributes(data, baseSchema.Attributes, seen); err != nil {
		return err
	}

	if err := validateAttributeSet(baseSchema.Attributes, data, opCtx, ""); err != nil {
		return err
	}

	for _, uri := range r.Schemas[1:] {
		extSchema, ok := reg.Get(uri)
		if !ok {
			return newError(CodeUnknownSchema, "schemas", "extension schema not registered: "+uri)
		}
		extRaw, present := data[uri]
		var extData map[string]any
		if present {
			m, ok := extRaw.(map[string]any)
			if !ok {
				return newError(CodeTypeMismatch, uri, "extension schema block must be an object")
			}
			extData = m
		} else {
			extData = map[string]any{}
		}
		if err := validateAttributeSet(extSchema.Attributes, extData, opCtx, uri+"."); err != nil {
			return err
		}
	}

	return nil
}

// rejectUnknownTopLevelAttributes enforces spec §9's extension handling:
// a top-level key not declared by the base schema, not a server-managed
// key, and not one of the resource's own declared extension schema URIs
// is rejected outright. Keys inside a declared extension block are left
// alone — they are that schema's business, checked separately.
func rejectUnknownTopLevelAttributes(data map[string]any, baseAttrs []schema.AttributeDefinition, schemaURIs map[string]bool) error {
	known := make(map[string]bool, len(baseAttrs))
	for _, a := range baseAttrs {
		known[strings.ToLower(a.Name)] = true
	}
	for key := range data {
		if serverManaged[strings.ToLower(key)] {
			continue
		}
		if schemaURIs[key] {
			continue
		}
		if known[strings.ToLower(key)] {
			continue
		}
		return newError(CodeUnknownAttribute, key, "unknown top-level attribute not declared by any schema")
	}
	return nil
}

func findValue(data map[string]any, name string) (any, bool) {
	for k, v := range data {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func validateAttributeSet(attrs []schema.AttributeDefinition, data map[string]any, opCtx OpContext, pathPrefix string) error {
	for _, attr := range attrs {
		path := pathPrefix + attr.Name
		value, present := findValue(data, attr.Name)

		if serverManaged[strings.ToLower(attr.Name)] {
			continue
		}

		if !present {
			if attr.Required && opCtx != OpQuery {
				return newError(CodeRequiredAttributeAbsent, path, "required attribute is absent")
			}
			continue
		}

		if attr.Mutability == schema.MutabilityReadOnly && opCtx != OpQuery {
			return newError(CodeReadOnlyViolation, path, "readOnly attribute may not be supplied by a client")
		}

		if attr.MultiValued {
			arr, ok := value.([]any)
			if !ok {
				return newError(CodeTypeMismatch, path, "multi-valued attribute must be a JSON array")
			}
			primaries := 0
			for i, el := range arr {
				if err := validateScalarOrComplex(attr, el, path); err != nil {
					return err
				}
				if m, ok := el.(map[string]any); ok {
					if p, ok := m["primary"].(bool); ok && p {
						primaries++
					}
				}
				_ = i
			}
			if primaries > 1 {
				return newError(CodeMultiplePrimary, path, "at most one element may have primary=true")
			}
		} else {
			if err := validateScalarOrComplex(attr, value, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateScalarOrComplex(attr schema.AttributeDefinition, value any, path string) error {
	switch attr.Type {
	case schema.DataTypeString:
		s, ok := value.(string)
		if !ok {
			return newError(CodeTypeMismatch, path, "expected a string")
		}
		if len(attr.CanonicalValues) > 0 {
			if !canonicalMember(attr.CanonicalValues, s, attr.CaseExact) {
				return newError(CodeCanonicalValueViolation, path, "value is not among the canonical values")
			}
		}
		return nil
	case schema.DataTypeBoolean:
		if _, ok := value.(bool); !ok {
			return newError(CodeTypeMismatch, path, "expected a boolean")
		}
		return nil
	case schema.DataTypeInteger:
		n, ok := value.(float64)
		if !ok {
			return newError(CodeTypeMismatch, path, "expected an integer")
		}
		if math.Trunc(n) != n || n < math.MinInt64 || n > math.MaxInt64 {
			return newError(CodeTypeMismatch, path, "value does not fit a 64-bit signed integer")
		}
		return nil
	case schema.DataTypeDecimal:
		n, ok := value.(float64)
		if !ok {
			return newError(CodeTypeMismatch, path, "expected a decimal")
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return newError(CodeTypeMismatch, path, "decimal value must be finite")
		}
		return nil
	case schema.DataTypeDateTime:
		s, ok := value.(string)
		if !ok || !validate.DateTime(s) {
			return newError(CodeInvalidDateTime, path, "expected an RFC 3339 date-time with offset")
		}
		return nil
	case schema.DataTypeBinary:
		s, ok := value.(string)
		if !ok || !validate.Base64(s) {
			return newError(CodeInvalidBinary, path, "expected base64-encoded data")
		}
		return nil
	case schema.DataTypeReference:
		s, ok := value.(string)
		if !ok || !validate.AbsoluteURIOrURN(s) {
			return newError(CodeInvalidReference, path, "expected an absolute URI or urn:")
		}
		return nil
	case schema.DataTypeComplex:
		m, ok := value.(map[string]any)
		if !ok {
			return newError(CodeTypeMismatch, path, "expected an object")
		}
		return validateComplexAttribute(attr, m, path)
	default:
		return newError(CodeTypeMismatch, path, "unknown attribute data type")
	}
}

func validateComplexAttribute(attr schema.AttributeDefinition, data map[string]any, path string) error {
	for key := range data {
		sub, ok := findSubAttribute(attr.SubAttributes, key)
		if !ok {
			return newError(CodeUnknownSubAttribute, path+"."+key, "unknown sub-attribute")
		}
		if sub.Type == schema.DataTypeComplex {
			return newError(CodeNestedComplex, path+"."+key, "a complex attribute's sub-attribute may not itself be complex")
		}
	}
	for _, sub := range attr.SubAttributes {
		value, present := findValue(data, sub.Name)
		if !present {
			if sub.Required {
				return newError(CodeRequiredAttributeAbsent, path+"."+sub.Name, "required sub-attribute is absent")
			}
			continue
		}
		if err := validateScalarOrComplex(sub, value, path+"."+sub.Name); err != nil {
			return err
		}
	}
	return nil
}

func findSubAttribute(subs []schema.AttributeDefinition, name string) (schema.AttributeDefinition, bool) {
	for _, s := range subs {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return schema.AttributeDefinition{}, false
}

func canonicalMember(canonical []string, value string, caseExact bool) bool {
	for _, c := range canonical {
		if caseExact {
			if c == value {
				return true
			}
		} else if strings.EqualFold(c, value) {
			return true
		}
	}
	return false
}
