// Package errors provides custom error types for the modelsync engine.
// These errors enable programmatic error checking, carry the field path of
// every validation violation, and keep diagnostics consistent across the
// engine, the lookup gateways, and the CLI.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentstation/modelsync/pkg/fieldpath"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library helpers so callers need a
// single errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the modelsync engine
var (
	// ErrNotFound indicates that a referenced entity was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that a model failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// Violation sentinels, one per Kind. A FieldError matches the sentinel of its kind.
var (
	// ErrFieldViolation indicates a scalar or structural constraint failed
	ErrFieldViolation = errors.New("field violation")

	// ErrReferenceViolation indicates a cross-reference did not resolve
	ErrReferenceViolation = errors.New("reference violation")

	// ErrConsistencyViolation indicates a field disagrees with another field
	ErrConsistencyViolation = errors.New("consistency violation")

	// ErrDuplicateIdentity indicates two collection elements share an identity key
	ErrDuplicateIdentity = errors.New("duplicate identity")
)

// Kind classifies a validation violation.
type Kind string

// Violation kinds.
const (
	KindField       Kind = "field"       // Out of range, missing, malformed
	KindReference   Kind = "reference"   // Referenced id does not resolve
	KindConsistency Kind = "consistency" // Inconsistent with a sibling field
	KindDuplicate   Kind = "duplicate"   // Identity key collision in a collection
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

func (k Kind) sentinel() error {
	switch k {
	case KindField:
		return ErrFieldViolation
	case KindReference:
		return ErrReferenceViolation
	case KindConsistency:
		return ErrConsistencyViolation
	case KindDuplicate:
		return ErrDuplicateIdentity
	}
	return nil
}

// FieldError is a single validation violation qualified by the path of the
// offending field. The engine reports exactly one FieldError per failed call.
type FieldError struct {
	Path    fieldpath.Path
	Kind    Kind
	Message string
	Value   any
	Err     error
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Path.IsRoot() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FieldError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	return target != nil && target == e.Kind.sentinel()
}

// NewFieldViolation creates a FieldError for a failed scalar or structural constraint
func NewFieldViolation(path fieldpath.Path, value any, message string) *FieldError {
	return &FieldError{Path: path, Kind: KindField, Value: value, Message: message}
}

// NewReferenceViolation creates a FieldError for a reference that did not resolve.
// The lookup error, if any, is kept as the wrapped cause.
func NewReferenceViolation(path fieldpath.Path, resource, id string, err error) *FieldError {
	message := fmt.Sprintf("%s %q does not exist", resource, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		message = fmt.Sprintf("%s %q could not be verified: %v", resource, id, err)
	}
	return &FieldError{Path: path, Kind: KindReference, Value: id, Message: message, Err: err}
}

// NewConsistencyViolation creates a FieldError for a value inconsistent with another field
func NewConsistencyViolation(path fieldpath.Path, value any, message string) *FieldError {
	return &FieldError{Path: path, Kind: KindConsistency, Value: value, Message: message}
}

// NewDuplicateIdentity creates a FieldError for the later of two elements sharing a key
func NewDuplicateIdentity(path fieldpath.Path, key string, firstIndex int) *FieldError {
	return &FieldError{
		Path:    path,
		Kind:    KindDuplicate,
		Value:   key,
		Message: fmt.Sprintf("duplicate identity %q (first seen at index %d)", key, firstIndex),
	}
}

// AsFieldError extracts the FieldError from an error chain
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// NotFoundError represents a referenced entity that does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is any validation violation
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFieldError checks if an error is a field violation
func IsFieldError(err error) bool {
	return errors.Is(err, ErrFieldViolation)
}

// IsReferenceViolation checks if an error is a reference violation
func IsReferenceViolation(err error) bool {
	return errors.Is(err, ErrReferenceViolation)
}

// IsConsistencyViolation checks if an error is a consistency violation
func IsConsistencyViolation(err error) bool {
	return errors.Is(err, ErrConsistencyViolation)
}

// IsDuplicateIdentity checks if an error is a duplicate identity violation
func IsDuplicateIdentity(err error) bool {
	return errors.Is(err, ErrDuplicateIdentity)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during a model operation
type ResourceError struct {
	Operation string // "validate", "merge", "update", "load"
	Resource  string // "task", "task_type", "team", "event", "document"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
