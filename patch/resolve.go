package patch

import (
	"strings"

	"github.com/nexusid/scimcore/schema"
)

// resolveAttribute walks a resource's declared schemas to find the
// attribute definition a path's leading segment names, then descends
// through SubAttributes for any further dotted segments. Extension
// schemas are searched by their declared top-level attributes, unscoped
// by the schema-URI-prefixed path form RFC 7644 also allows — the core
// does not implement that fuller addressing form.
func resolveAttribute(reg *schema.Registry, schemas []string, segments []string) (schema.AttributeDefinition, error) {
	if len(segments) == 0 {
		return schema.AttributeDefinition{}, &Error{Code: CodeInvalidPath, Message: "empty attribute path"}
	}

	var attr schema.AttributeDefinition
	var found bool
	for _, uri := range schemas {
		s, ok := reg.Get(uri)
		if !ok {
			continue
		}
		if a, ok := s.Attribute(segments[0]); ok {
			attr, found = a, true
			break
		}
	}
	if !found {
		return schema.AttributeDefinition{}, &Error{Code: CodeInvalidPath, Message: "unknown attribute", Path: segments[0]}
	}

	for _, seg := range segments[1:] {
		if attr.Type != schema.DataTypeComplex {
			return schema.AttributeDefinition{}, &Error{Code: CodeInvalidPath, Message: "cannot descend into non-complex attribute", Path: seg}
		}
		next, ok := findSub(attr.SubAttributes, seg)
		if !ok {
			return schema.AttributeDefinition{}, &Error{Code: CodeInvalidPath, Message: "unknown sub-attribute", Path: seg}
		}
		attr = next
	}
	return attr, nil
}

func findSub(subs []schema.AttributeDefinition, name string) (schema.AttributeDefinition, bool) {
	for _, s := range subs {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return schema.AttributeDefinition{}, false
}
