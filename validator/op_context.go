// Package validator type-checks a resource candidate against the schema
// registry, dispatching by operation context (spec §4.B).
package validator

// OpContext controls how server-managed attributes and the `required`
// flag are enforced (spec §4.B).
type OpContext int

const (
	// OpCreate: id/meta are absent-or-ignored; required attributes must
	// be present.
	OpCreate OpContext = iota
	// OpReplace: a full-body replacement; required attributes must be
	// present; mutation of server-computed fields is forbidden.
	OpReplace
	// OpUpdate: a partial update (result of a PATCH application);
	// required attributes must be present in the resulting body;
	// mutation of server-computed fields is forbidden.
	OpUpdate
	// OpQuery: validates a read-side payload (e.g. a search body); the
	// `required` flag is not enforced.
	OpQuery
)

func (c OpContext) String() string {
	switch c {
	case OpCreate:
		return "Create"
	case OpReplace:
		return "Replace"
	case OpUpdate:
		return "Update"
	case OpQuery:
		return "Query"
	default:
		return "Unknown"
	}
}
