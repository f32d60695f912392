package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeUnsupportedMedia  = "UNSUPPORTED_MEDIA"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeNoRelevantContext = "NO_RELEVANT_CONTEXT"
	ErrCodeExtractionFailure = "EXTRACTION_FAILURE"
	ErrCodeStoreFailure      = "STORE_FAILURE"
	ErrCodeModelFailure      = "MODEL_FAILURE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidFileType = NewDomainError(ErrCodeUnsupportedMedia, "only PDF files are supported")
	ErrInvalidJobState = NewDomainError(ErrCodeValidation, "invalid job state")
	ErrEmptyQuestion   = NewDomainError(ErrCodeValidation, "question must not be empty")
	ErrEmptyUpload     = NewDomainError(ErrCodeValidation, "uploaded file is empty")
)

// Not found errors
var (
	ErrJobNotFound      = NewDomainError(ErrCodeNotFound, "job not found")
	ErrJobAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "job already exists")
)

// Negative query results. These are expected outcomes, not failures:
// both map to the same user-facing "not found" response.
var (
	ErrNoRelevantContext = NewDomainError(ErrCodeNoRelevantContext, "no documents related to the question were found")
	ErrNoGroundedAnswer  = NewDomainError(ErrCodeNoRelevantContext, "the context does not contain an answer to the question")
)

// Pipeline stage failures recorded in the job store
var (
	ErrExtractionFailed = NewDomainError(ErrCodeExtractionFailure, "failed to extract text from document")
	ErrStoreUnavailable = NewDomainError(ErrCodeStoreFailure, "vector store unavailable")
	ErrModelUnavailable = NewDomainError(ErrCodeModelFailure, "chat model unavailable")
)
