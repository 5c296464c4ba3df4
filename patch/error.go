package patch

import "fmt"

const (
	CodeInvalidPath     = "invalid_path"
	CodeNoMatch         = "no_match"
	CodeRequiredRemoval = "required_attribute_removal"
	CodeUnsupportedOp   = "unsupported_patch_op"
)

// Error is a PATCH-processor-specific failure (spec §4.I).
type Error struct {
	Code    string
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}
