package shared

import (
	"errors"
	"sort"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped or re-worded
// domain errors still match the sentinels below with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by every bounded context
const (
	CodeNotFound                 = "NOT_FOUND"
	CodeAlreadyExists            = "ALREADY_EXISTS"
	CodeInvalidInput             = "INVALID_INPUT"
	CodeValidation               = "VALIDATION_ERROR"
	CodeConflict                 = "CONFLICT"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeForbidden                = "FORBIDDEN"
	CodeInvalidState             = "INVALID_STATE"
	CodeInsufficientStock        = "INSUFFICIENT_STOCK"
	CodeAllocationExceedsBalance = "ALLOCATION_EXCEEDS_BALANCE"
)

// Common domain errors
var (
	ErrNotFound                 = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists            = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput             = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConflict                 = NewDomainError(CodeConflict, "Operation conflicts with the current state of the resource")
	ErrUnauthorized             = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden                = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState             = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock        = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrAllocationExceedsBalance = NewDomainError(CodeAllocationExceedsBalance, "Payment amount exceeds the outstanding balance")
)

// NewNotFoundError creates a NOT_FOUND error with a specific message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewConflictError creates a CONFLICT error with a specific message
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// ValidationError is returned when input is malformed or out of range.
// Fields maps the offending field name to a human readable message.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field, keeping the first message per field
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// HasErrors returns true if any field failed validation
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns the error itself when fields were recorded, nil otherwise
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the failure as a VALIDATION_ERROR DomainError to errors.As callers
func (e *ValidationError) Unwrap() error {
	return NewDomainError(CodeValidation, e.Error())
}
