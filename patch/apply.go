package patch

import (
	"fmt"

	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/resource"
	"github.com/nexusid/scimcore/schema"
	"github.com/nexusid/scimcore/validator"
)

// Apply runs an ordered PATCH document against target, applying every
// operation to a scratch copy, validating the result as a whole, and
// returning the new resource only on full success — on any failure, a
// zero Resource is returned alongside the error and target is left
// unmodified (spec §4.I "Atomicity").
func Apply(target resource.Resource, ops []provider.PatchOp, reg *schema.Registry) (resource.Resource, error) {
	scratch, err := target.ToJSON()
	if err != nil {
		return resource.Resource{}, err
	}
	scratch = deepCopyMap(scratch)

	for _, op := range ops {
		if err := applyOne(scratch, op, reg, target.Schemas); err != nil {
			return resource.Resource{}, err
		}
	}

	candidate, err := resource.FromJSON(target.ResourceType, scratch)
	if err != nil {
		return resource.Resource{}, &Error{Code: CodeInvalidPath, Message: err.Error()}
	}

	if err := validator.Validate(candidate, reg, validator.OpUpdate); err != nil {
		return resource.Resource{}, err
	}
	if err := validator.CheckImmutableTransition(target, candidate, reg); err != nil {
		return resource.Resource{}, err
	}

	return candidate, nil
}

func applyOne(scratch map[string]any, op provider.PatchOp, reg *schema.Registry, schemas []string) error {
	path, err := ParsePath(op.Path)
	if err != nil {
		return err
	}

	switch op.Op {
	case "add":
		return applyAdd(scratch, path, op.Value, reg, schemas)
	case "remove":
		return applyRemove(scratch, path, reg, schemas)
	case "replace":
		return applyReplace(scratch, path, op.Value, reg, schemas)
	default:
		return &Error{Code: CodeUnsupportedOp, Message: "unsupported patch op " + op.Op}
	}
}

func applyAdd(scratch map[string]any, path Path, value any, reg *schema.Registry, schemas []string) error {
	if path.Empty {
		obj, ok := value.(map[string]any)
		if !ok {
			return &Error{Code: CodeInvalidPath, Message: "whole-resource add/replace requires an object value"}
		}
		for k, v := range obj {
			if _, err := resolveAttribute(reg, schemas, []string{k}); err != nil {
				return err
			}
			scratch[k] = v
		}
		return nil
	}

	attr, err := resolveAttribute(reg, schemas, path.Segments)
	if err != nil {
		return err
	}

	if path.Filter != nil {
		return applyFilteredAdd(scratch, path, attr, value)
	}

	if len(path.Segments) > 1 {
		return setNested(scratch, path.Segments, value)
	}

	name := path.Segments[0]
	if attr.MultiValued {
		existing, _ := scratch[name].([]any)
		if arr, ok := value.([]any); ok {
			existing = append(existing, arr...)
		} else {
			existing = append(existing, value)
		}
		scratch[name] = existing
		return nil
	}
	scratch[name] = value
	return nil
}

func applyReplace(scratch map[string]any, path Path, value any, reg *schema.Registry, schemas []string) error {
	if path.Empty {
		return applyAdd(scratch, path, value, reg, schemas)
	}

	attr, err := resolveAttribute(reg, schemas, path.Segments)
	if err != nil {
		return err
	}

	if path.Filter != nil {
		name := path.Segments[0]
		arr, _ := scratch[name].([]any)
		matches := filterMatches(arr, path.Filter)
		if len(matches) == 0 {
			return &Error{Code: CodeNoMatch, Path: name, Message: "replace target does not exist"}
		}
		for _, idx := range matches {
			if path.SubAttr != "" {
				el, ok := arr[idx].(map[string]any)
				if !ok {
					return &Error{Code: CodeInvalidPath, Path: name, Message: "filtered element is not an object"}
				}
				el[path.SubAttr] = value
			} else {
				arr[idx] = value
			}
		}
		scratch[name] = arr
		return nil
	}

	if len(path.Segments) > 1 {
		if _, exists := navigate(scratch, path.Segments); !exists {
			return &Error{Code: CodeNoMatch, Path: joinPath(path.Segments), Message: "replace target does not exist"}
		}
		return setNested(scratch, path.Segments, value)
	}

	name := path.Segments[0]
	if _, exists := scratch[name]; !exists {
		return &Error{Code: CodeNoMatch, Path: name, Message: "replace target does not exist"}
	}
	if attr.MultiValued {
		if arr, ok := value.([]any); ok {
			scratch[name] = arr
		} else {
			scratch[name] = []any{value}
		}
		return nil
	}
	scratch[name] = value
	return nil
}

func applyRemove(scratch map[string]any, path Path, reg *schema.Registry, schemas []string) error {
	if path.Empty {
		return &Error{Code: CodeInvalidPath, Message: "remove requires a path"}
	}
	attr, err := resolveAttribute(reg, schemas, path.Segments)
	if err != nil {
		return err
	}
	if attr.Required {
		return &Error{Code: CodeRequiredRemoval, Path: joinPath(path.Segments), Message: "cannot remove a required attribute"}
	}

	if path.Filter != nil {
		name := path.Segments[0]
		arr, _ := scratch[name].([]any)
		matches := filterMatches(arr, path.Filter)
		if path.SubAttr != "" {
			for _, idx := range matches {
				if el, ok := arr[idx].(map[string]any); ok {
					delete(el, path.SubAttr)
				}
			}
			scratch[name] = arr
			return nil
		}
		remaining := make([]any, 0, len(arr))
		matchSet := make(map[int]bool, len(matches))
		for _, idx := range matches {
			matchSet[idx] = true
		}
		for i, el := range arr {
			if !matchSet[i] {
				remaining = append(remaining, el)
			}
		}
		scratch[name] = remaining
		return nil
	}

	if len(path.Segments) > 1 {
		parent, ok := navigate(scratch, path.Segments[:len(path.Segments)-1])
		if !ok {
			return nil
		}
		delete(parent, path.Segments[len(path.Segments)-1])
		return nil
	}
	delete(scratch, path.Segments[0])
	return nil
}

func applyFilteredAdd(scratch map[string]any, path Path, attr schema.AttributeDefinition, value any) error {
	name := path.Segments[0]
	arr, _ := scratch[name].([]any)
	matches := filterMatches(arr, path.Filter)

	if len(matches) == 0 {
		el, ok := value.(map[string]any)
		if !ok {
			el = map[string]any{}
		}
		scratch[name] = append(arr, el)
		return nil
	}

	for _, idx := range matches {
		if path.SubAttr != "" {
			el, ok := arr[idx].(map[string]any)
			if !ok {
				return &Error{Code: CodeInvalidPath, Path: name, Message: "filtered element is not an object"}
			}
			el[path.SubAttr] = value
			continue
		}
		if m, ok := value.(map[string]any); ok {
			if el, ok := arr[idx].(map[string]any); ok {
				for k, v := range m {
					el[k] = v
				}
				continue
			}
		}
		arr[idx] = value
	}
	scratch[name] = arr
	return nil
}

func filterMatches(elements []any, f *Filter) []int {
	var out []int
	for i, el := range elements {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		v, present := m[f.SubAttr]
		var eq bool
		if present {
			eq = fmt.Sprint(v) == f.Literal
		}
		switch f.Op {
		case "eq":
			if eq {
				out = append(out, i)
			}
		case "ne":
			if !eq {
				out = append(out, i)
			}
		}
	}
	return out
}

func navigate(scratch map[string]any, segments []string) (map[string]any, bool) {
	cur := scratch
	for _, seg := range segments {
		next, ok := cur[seg]
		if !ok {
			return nil, false
		}
		m, ok := next.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = m
	}
	return cur, true
}

func setNested(scratch map[string]any, segments []string, value any) error {
	cur := scratch
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg]
		if !ok {
			m := map[string]any{}
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return &Error{Code: CodeInvalidPath, Path: joinPath(segments), Message: "cannot descend through non-object value"}
		}
		cur = m
	}
	cur[segments[len(segments)-1]] = value
	return nil
}

func joinPath(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return deepCopyMap(vv)
	case []any:
		out := make([]any, len(vv))
		for i, el := range vv {
			out[i] = deepCopyValue(el)
		}
		return out
	default:
		return v
	}
}
