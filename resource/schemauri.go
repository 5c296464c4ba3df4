package resource

import (
	"fmt"

	"github.com/nexusid/scimcore/internal/validate"
)

// SchemaUri must be urn:-shaped or an absolute URL (spec §3).
type SchemaUri struct {
	value string
}

// NewSchemaUri validates and wraps a raw schema URI.
func NewSchemaUri(raw string) (SchemaUri, error) {
	if !validate.AbsoluteURIOrURN(raw) {
		return SchemaUri{}, fmt.Errorf("schema uri %q must begin with urn: or be an absolute URL", raw)
	}
	return SchemaUri{value: raw}, nil
}

func (s SchemaUri) String() string { return s.value }
func (s SchemaUri) IsZero() bool   { return s.value == "" }
