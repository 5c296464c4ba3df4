package provider

import (
	"github.com/nexusid/scimcore/internal/errs"
)

// Error taxonomy a provider may return (spec §4.F "ProviderError
// taxonomy"). Providers never panic and never return stale versions.
var (
	// ErrResourceNotFound indicates no resource exists at the given id
	// within the caller's tenant.
	ErrResourceNotFound = errs.CodeResourceNotFound
	// ErrDuplicateAttribute indicates a server- or global-scope uniqueness
	// violation (e.g. userName already taken within the tenant).
	ErrDuplicateAttribute = "DUPLICATE_ATTRIBUTE"
	// ErrInvalidData indicates the request could not be satisfied as given
	// (includes tenant-permission denial per spec §4.G).
	ErrInvalidData = errs.CodeInvalidRequest
	// ErrPreconditionFailed indicates a version precondition did not hold.
	ErrPreconditionFailed = errs.CodeVersionMismatch
	// ErrInternal indicates an invariant violation that must never occur
	// in a correct implementation.
	ErrInternal = errs.CodeInternalError
	// ErrStorage indicates the backing Storage collaborator failed.
	ErrStorage = "STORAGE_ERROR"
)

// NotFound constructs a ResourceNotFound provider error.
func NotFound(resourceType, id string) *errs.Error {
	return errs.New(ErrResourceNotFound, "resource not found: "+resourceType+"/"+id)
}

// DuplicateAttribute constructs a DuplicateAttribute provider error.
func DuplicateAttribute(attr, value string) *errs.Error {
	return errs.New(ErrDuplicateAttribute, "duplicate value for "+attr).WithContext("attribute", attr).WithContext("value", value)
}

// InvalidData constructs an InvalidData provider error, used both for
// malformed requests and for tenant-permission denial (spec §4.G "on
// failure return ProviderError::InvalidData").
func InvalidData(message string) *errs.Error {
	return errs.New(ErrInvalidData, message)
}

// PreconditionFailed constructs a PreconditionFailed provider error for
// callers that need the non-conditional error shape (conditional variants
// prefer the ConditionalResult envelope over this).
func PreconditionFailed(message string) *errs.Error {
	return errs.New(ErrPreconditionFailed, message)
}

// Internal constructs an Internal provider error.
func Internal(message string, cause error) *errs.Error {
	e := errs.New(ErrInternal, message)
	if cause != nil {
		e = e.WithCause(cause)
	}
	return e
}

// StorageError constructs a Storage provider error, wrapping the
// originating backend failure without leaking its internals into the
// message (spec §7 "Storage errors surface as Provider").
func StorageError(cause error) *errs.Error {
	return errs.New(ErrStorage, "storage operation failed").WithCause(cause)
}
