package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain.
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Pipeline step errors
	CodeAcquisition   ErrorCode = "ACQUISITION_ERROR"
	CodeTranscription ErrorCode = "TRANSCRIPTION_ERROR"
	CodeGeneration    ErrorCode = "GENERATION_ERROR"
	CodeParse         ErrorCode = "PARSE_ERROR"

	// Store errors
	CodePersistence ErrorCode = "PERSISTENCE_ERROR"
)

// DomainError represents a domain-specific error carrying a code and,
// optionally, the underlying cause.
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError.
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewUnauthorizedError(message string, cause error) *DomainError {
	return NewError(CodeUnauthorized, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewAcquisitionError(cause error) *DomainError {
	return NewError(CodeAcquisition, "Audio download failed", cause)
}

func NewTranscriptionError(cause error) *DomainError {
	return NewError(CodeTranscription, "Whisper transcription failed", cause)
}

func NewGenerationError(cause error) *DomainError {
	return NewError(CodeGeneration, "Generating questions with Gemini failed", cause)
}

func NewParseError(cause error) *DomainError {
	return NewError(CodeParse, "Generated quiz is not valid JSON", cause)
}

func NewPersistenceError(message string, cause error) *DomainError {
	return NewError(CodePersistence, message, cause)
}

// ValidationError is a field-level validation failure surfaced to the
// caller as part of a 400 response.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ValidationErrors aggregates field-level validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Error()
}
