package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTopic is returned when outline generation is requested without a topic
	ErrEmptyTopic = errors.New("topic is required")

	// ErrNoOutline is returned when slide generation is requested before an outline exists
	ErrNoOutline = errors.New("no slide topics generated")

	// ErrTopicIndex is returned when an outline edit addresses a missing entry
	ErrTopicIndex = errors.New("slide topic index out of range")

	// ErrDeckNotFound is returned when a stored deck does not exist
	ErrDeckNotFound = errors.New("deck not found")

	// ErrWorkspaceClosed is returned when the workspace run loop has stopped
	ErrWorkspaceClosed = errors.New("workspace closed")

	// ErrMissingAPIKey is returned at startup when a live provider has no credential
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrConfigExists is returned when config init would overwrite a file
	ErrConfigExists = errors.New("config file already exists")
)

// ExportErrorType categorizes deck export failures
type ExportErrorType string

const (
	ErrorTypeValidation    ExportErrorType = "validation"
	ErrorTypeTemplate      ExportErrorType = "template"
	ErrorTypeAssembly      ExportErrorType = "assembly"
	ErrorTypeSerialization ExportErrorType = "serialization"
	ErrorTypeStorage       ExportErrorType = "storage"
)

// ExportError provides detailed export error information
type ExportError struct {
	Type    ExportErrorType `json:"type"`
	Message string          `json:"message"`
	Details string          `json:"details,omitempty"`
	Cause   error           `json:"-"`
}

// Error implements the error interface
func (e *ExportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s error: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates an export error wrapping cause
func NewExportError(errType ExportErrorType, message string, cause error) *ExportError {
	e := &ExportError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// IsExportErrorType reports whether err is an ExportError of the given type
func IsExportErrorType(err error, errType ExportErrorType) bool {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Type == errType
	}
	return false
}
