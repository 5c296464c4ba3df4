package validator

import "fmt"

// Error codes, indexed loosely by structural category per RFC 7643's own
// organization (spec §7 "indexed 1–~117 by structural category"). The
// core only needs the categories it actually distinguishes downstream.
const (
	CodeUnknownSchema           = "unknown_schema"
	CodeDuplicateSchema         = "duplicate_schema"
	CodeMissingBaseSchema       = "missing_base_schema"
	CodeRequiredAttributeAbsent = "required_attribute_absent"
	CodeTypeMismatch            = "type_mismatch"
	CodeCanonicalValueViolation = "canonical_value_violation"
	CodeUnknownAttribute        = "unknown_attribute"
	CodeUnknownSubAttribute     = "unknown_sub_attribute"
	CodeNestedComplex           = "nested_complex"
	CodeMultiplePrimary         = "multiple_primary"
	CodeReadOnlyViolation       = "read_only_violation"
	CodeImmutableViolation      = "immutable_violation"
	CodeInvalidDateTime         = "invalid_date_time"
	CodeInvalidBinary           = "invalid_binary"
	CodeInvalidReference        = "invalid_reference"
)

// Error is a single validation failure, precise to an attribute path
// (spec §4.B "Validation is total: either it succeeds... or it returns
// the first detected error with a precise code and attribute path").
type Error struct {
	Code    string
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Code)
}

func newError(code, path, message string) *Error {
	return &Error{Code: code, Path: path, Message: message}
}
