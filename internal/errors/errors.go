package errors

import "fmt"

// ErrorCode represents a Swatch error code.
type ErrorCode string

const (
	ErrAmbiguousAddressing   ErrorCode = "AMBIGUOUS_ADDRESSING"    // 400
	ErrInvalidRequest        ErrorCode = "INVALID_REQUEST"         // 400
	ErrNotFound              ErrorCode = "NOT_FOUND"               // 404
	ErrFileNotFound          ErrorCode = "FILE_NOT_FOUND"          // 404
	ErrUsernameAlreadyExists ErrorCode = "USERNAME_ALREADY_EXISTS" // 409
	ErrWriteRejected         ErrorCode = "WRITE_REJECTED"          // 409
	ErrCancelled             ErrorCode = "CANCELLED"               // 499
	ErrInternal              ErrorCode = "INTERNAL"                // 500
	ErrStoreUnavailable      ErrorCode = "STORE_UNAVAILABLE"       // 503
)

// SwatchError represents a structured error with code, status, and details.
type SwatchError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SwatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAmbiguousAddressing creates a 400 error for when both ID and username are provided.
func NewAmbiguousAddressing() *SwatchError {
	return &SwatchError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and username; use one addressing mode",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SwatchError {
	return &SwatchError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(identifier string) *SwatchError {
	return &SwatchError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("record not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *SwatchError {
	return &SwatchError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewUsernameAlreadyExists creates a 409 error for username collisions.
func NewUsernameAlreadyExists(username string) *SwatchError {
	return &SwatchError{
		Code:    ErrUsernameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("record for username %q already exists", username),
		Details: map[string]any{"username": username},
	}
}

// NewWriteRejected creates a 409 error for when the store refuses a write
// (constraint violation). Surfaced unmodified to the caller; there is no
// retry path.
func NewWriteRejected(err error) *SwatchError {
	msg := "write rejected by store"
	if err != nil {
		msg = fmt.Sprintf("write rejected by store: %v", err)
	}
	return &SwatchError{
		Code:    ErrWriteRejected,
		Status:  409,
		Message: msg,
	}
}

// NewCancelled creates a 499 error for a context-cancelled operation.
func NewCancelled(operation string) *SwatchError {
	return &SwatchError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SwatchError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SwatchError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// NewStoreUnavailable creates a 503 error for connection or schema problems:
// the store could not be opened, or it rejected the query shape itself
// (missing table or column).
func NewStoreUnavailable(err error) *SwatchError {
	msg := "store unavailable"
	if err != nil {
		msg = fmt.Sprintf("store unavailable: %v", err)
	}
	return &SwatchError{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: msg,
	}
}

// Is checks if an error is a SwatchError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*SwatchError); ok {
		return sErr.Code == code
	}
	return false
}
