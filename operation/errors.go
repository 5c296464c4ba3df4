package operation

import (
	"github.com/nexusid/scimcore/internal/errs"
	"github.com/nexusid/scimcore/patch"
	"github.com/nexusid/scimcore/validator"
)

// mapError translates any error a provider, the validator, or the patch
// package returns into the stable (code, message) pair spec §6's
// "error_code" vocabulary requires. Errors that already carry a stable
// code (*errs.Error) pass theirs through unchanged; everything else maps
// to a best-effort code so a caller never sees an empty error_code on a
// failed response.
func mapError(err error) (code, message string) {
	if err == nil {
		return "", ""
	}
	switch e := err.(type) {
	case *errs.Error:
		return e.Code, e.Message
	case *validator.Error:
		return errs.CodeValidationError, e.Error()
	case *patch.Error:
		return errs.CodeValidationError, e.Error()
	default:
		return errs.CodeInternalError, err.Error()
	}
}
