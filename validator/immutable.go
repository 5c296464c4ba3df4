package validator

import (
	"reflect"

	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/schema"
)

// CheckImmutableTransition enforces that no top-level `immutable`
// attribute of the base schema or of an extension block changes value
// once set (spec §4.B "#46"). Sub-attributes are not compared, so an
// immutable sub-attribute (such as Group members.value) is not checked
// by this function. Unlike Validate, this needs both the
// stored and candidate bodies, so it is invoked by the collaborators that
// hold both — the Standard Provider on update, and the PATCH Processor
// before it asks the provider to commit.
func CheckImmutableTransition(previous, next resource.Resource, reg *schema.Registry) error {
	prevData, err := previous.ToJSON()
	if err != nil {
		return newError(CodeTypeMismatch, "", "previous resource could not be serialized")
	}
	nextData, err := next.ToJSON()
	if err != nil {
		return newError(CodeTypeMismatch, "", "candidate resource could not be serialized")
	}

	for _, uri := range next.Schemas {
		s, ok := reg.Get(uri)
		if !ok {
			continue
		}
		prefix := ""
		prevScope, nextScope := prevData, nextData
		if uri != next.Schemas[0] {
			prefix = uri + "."
			if m, ok := prevData[uri].(map[string]any); ok {
				prevScope = m
			} else {
				prevScope = map[string]any{}
			}
			if m, ok := nextData[uri].(map[string]any); ok {
				nextScope = m
			} else {
				nextScope = map[string]any{}
			}
		}
		if err := checkImmutableSet(s.Attributes, prevScope, nextScope, prefix); err != nil {
			return err
		}
	}
	return nil
}

func checkImmutableSet(attrs []schema.AttributeDefinition, prev, next map[string]any, pathPrefix string) error {
	for _, attr := range attrs {
		if attr.Mutability != schema.MutabilityImmutable {
			continue
		}
		prevVal, prevOK := findValue(prev, attr.Name)
		nextVal, nextOK := findValue(next, attr.Name)
		if !prevOK || !nextOK {
			continue
		}
		if !reflect.DeepEqual(prevVal, nextVal) {
			return newError(CodeImmutableViolation, pathPrefix+attr.Name, "immutable attribute may not change once set")
		}
	}
	return nil
}
