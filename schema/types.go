package schema

import (
	"fmt"

	"github.com/nexusid/scimcore/internal/validate"
)

// AttributeDataType enumerates the SCIM attribute data types (spec §3).
type AttributeDataType string

const (
	DataTypeString   AttributeDataType = "string"
	DataTypeBoolean  AttributeDataType = "boolean"
	DataTypeDecimal  AttributeDataType = "decimal"
	DataTypeInteger  AttributeDataType = "integer"
	DataTypeDateTime AttributeDataType = "dateTime"
	DataTypeBinary   AttributeDataType = "binary"
	DataTypeReference AttributeDataType = "reference"
	DataTypeComplex  AttributeDataType = "complex"
)

func (t AttributeDataType) valid() bool {
	switch t {
	case DataTypeString, DataTypeBoolean, DataTypeDecimal, DataTypeInteger,
		DataTypeDateTime, DataTypeBinary, DataTypeReference, DataTypeComplex:
		return true
	}
	return false
}

// Mutability enumerates per-attribute mutability policy (spec §3).
type Mutability string

const (
	MutabilityReadWrite Mutability = "readWrite"
	MutabilityReadOnly  Mutability = "readOnly"
	MutabilityImmutable Mutability = "immutable"
	MutabilityWriteOnly Mutability = "writeOnly"
)

func (m Mutability) valid() bool {
	switch m {
	case MutabilityReadWrite, MutabilityReadOnly, MutabilityImmutable, MutabilityWriteOnly:
		return true
	}
	return false
}

// Uniqueness enumerates per-attribute uniqueness scope (spec §3).
type Uniqueness string

const (
	UniquenessNone   Uniqueness = "none"
	UniquenessServer Uniqueness = "server"
	UniquenessGlobal Uniqueness = "global"
)

func (u Uniqueness) valid() bool {
	switch u {
	case UniquenessNone, UniquenessServer, UniquenessGlobal:
		return true
	}
	return false
}

// Returned enumerates the RFC 7643 §2.2 "returned" policy.
type Returned string

const (
	ReturnedAlways  Returned = "always"
	ReturnedDefault Returned = "default"
	ReturnedRequest Returned = "request"
	ReturnedNever   Returned = "never"
)

func (r Returned) valid() bool {
	switch r {
	case ReturnedAlways, ReturnedDefault, ReturnedRequest, ReturnedNever:
		return true
	}
	return false
}

// AttributeReferenceType constrains the acceptable kinds for a reference
// attribute (e.g. "User", "Group", "external", "uri").
type AttributeReferenceType string

// AttributeDefinition describes one schema attribute, recursively for
// complex types (spec §3).
type AttributeDefinition struct {
	Name            string                    `json:"name"`
	Type            AttributeDataType         `json:"type"`
	MultiValued     bool                      `json:"multiValued"`
	Required        bool                      `json:"required"`
	CaseExact       bool                      `json:"caseExact"`
	Mutability      Mutability                `json:"mutability"`
	Uniqueness      Uniqueness                `json:"uniqueness"`
	CanonicalValues []string                  `json:"canonicalValues,omitempty"`
	Returned        Returned                  `json:"returned"`
	ReferenceTypes  []AttributeReferenceType  `json:"referenceTypes,omitempty"`
	Description     string                    `json:"description,omitempty"`
	SubAttributes   []AttributeDefinition     `json:"subAttributes,omitempty"`
}

// defaults fills zero-value enum fields with their RFC 7643 defaults so
// hand-authored schema JSON need not spell out every field.
func (a *AttributeDefinition) defaults() {
	if a.Mutability == "" {
		a.Mutability = MutabilityReadWrite
	}
	if a.Uniqueness == "" {
		a.Uniqueness = UniquenessNone
	}
	if a.Returned == "" {
		a.Returned = ReturnedDefault
	}
	for i := range a.SubAttributes {
		a.SubAttributes[i].defaults()
	}
}

// validateShape enforces the structural invariants from spec §3: no
// sub-attributes on non-complex types, canonical values only on strings,
// complex types must have at least one sub-attribute, and the sub-attribute
// tree must be finite (no self-reference; Go's value-typed slices make
// cycles structurally impossible, but depth is still bounded defensively).
func (a AttributeDefinition) validateShape(depth int, path string) error {
	const maxDepth = 16
	if depth > maxDepth {
		return fmt.Errorf("attribute %q: sub-attribute nesting exceeds maximum depth %d", path, maxDepth)
	}
	if !a.Type.valid() {
		return fmt.Errorf("attribute %q: unknown data type %q", path, a.Type)
	}
	if !a.Mutability.valid() {
		return fmt.Errorf("attribute %q: unknown mutability %q", path, a.Mutability)
	}
	if !a.Uniqueness.valid() {
		return fmt.Errorf("attribute %q: unknown uniqueness %q", path, a.Uniqueness)
	}
	if !a.Returned.valid() {
		return fmt.Errorf("attribute %q: unknown returned policy %q", path, a.Returned)
	}
	if len(a.CanonicalValues) > 0 && a.Type != DataTypeString {
		return fmt.Errorf("attribute %q: Canonical values only allowed for string attributes", path)
	}
	if a.Type == DataTypeComplex {
		if len(a.SubAttributes) == 0 {
			return fmt.Errorf("attribute %q: complex attribute must declare at least one sub-attribute", path)
		}
		seen := make(map[string]bool, len(a.SubAttributes))
		for _, sa := range a.SubAttributes {
			lname := lower(sa.Name)
			if seen[lname] {
				return fmt.Errorf("attribute %q: duplicate sub-attribute %q", path, sa.Name)
			}
			seen[lname] = true
			if err := sa.validateShape(depth+1, path+"."+sa.Name); err != nil {
				return err
			}
		}
	} else if len(a.SubAttributes) > 0 {
		return fmt.Errorf("attribute %q: sub-attributes forbidden on non-complex type %q", path, a.Type)
	}
	return nil
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Schema describes one resource type's or extension's attribute set
// (spec §3).
type Schema struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Attributes  []AttributeDefinition  `json:"attributes"`
}

// Attribute returns the top-level attribute definition with the given
// name, case-insensitively, and whether it was found.
func (s Schema) Attribute(name string) (AttributeDefinition, bool) {
	lname := lower(name)
	for _, a := range s.Attributes {
		if lower(a.Name) == lname {
			return a, true
		}
	}
	return AttributeDefinition{}, false
}

func (s *Schema) defaults() {
	for i := range s.Attributes {
		s.Attributes[i].defaults()
	}
}

func (s Schema) validateShape() error {
	if s.ID == "" {
		return fmt.Errorf("schema: missing id")
	}
	if !validate.AbsoluteURIOrURN(s.ID) {
		return fmt.Errorf("schema %q: id must be a urn: URI or an absolute URL", s.ID)
	}
	if s.Name == "" {
		return fmt.Errorf("schema %q: missing name", s.ID)
	}
	if len(s.Attributes) == 0 {
		return fmt.Errorf("schema %q: must declare at least one attribute", s.ID)
	}
	seen := make(map[string]bool, len(s.Attributes))
	for _, a := range s.Attributes {
		lname := lower(a.Name)
		if seen[lname] {
			return fmt.Errorf("schema %q: duplicate top-level attribute %q", s.ID, a.Name)
		}
		seen[lname] = true
		if err := a.validateShape(0, a.Name); err != nil {
			return fmt.Errorf("schema %q: %w", s.ID, err)
		}
	}
	return nil
}
