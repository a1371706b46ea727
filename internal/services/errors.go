// Package services holds the peak business logic shared by the HTTP
// handlers and the queue ingest path.
package services

import "errors"

// Error codes returned by the service layer
const (
	CodeInvalidKind         = "INVALID_KIND"
	CodeInvalidObservation  = "INVALID_OBSERVATION"
	CodeTooManyObservations = "TOO_MANY_OBSERVATIONS"
	CodePassNotFound        = "PASS_NOT_FOUND"
	CodePassExists          = "PASS_EXISTS"
	CodeTooManyPasses       = "TOO_MANY_PASSES"
	CodeKindMismatch        = "KIND_MISMATCH"
	CodeRequestCancelled    = "REQUEST_CANCELLED"
	CodeInvalidPassID       = "INVALID_PASS_ID"
	CodeInternal            = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrorCode returns the code of a wrapped ServiceError, or "" for other errors
func ErrorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}
