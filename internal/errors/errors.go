// Package errors provides centralized error handling with category and
// context metadata for logging and user-facing reporting.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"time"
)

// ErrorCategory represents the type of error for better categorization.
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "validation"
	CategoryDatabase     ErrorCategory = "database"
	CategoryProvider     ErrorCategory = "health-provider"
	CategoryFileIO       ErrorCategory = "file-io"
	CategoryImportExport ErrorCategory = "import-export"
	CategoryConfig       ErrorCategory = "configuration"
	CategoryState        ErrorCategory = "state"
	CategoryCancellation ErrorCategory = "cancellation"
	CategoryGeneric      ErrorCategory = "generic"
)

// EnhancedError wraps an error with component, category, and context
// metadata. UserMessage, when set, is safe to show to the user directly.
type EnhancedError struct {
	Err         error
	Component   string
	Category    ErrorCategory
	Context     map[string]any
	UserMessage string
	Timestamp   time.Time
}

// Error implements the error interface.
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface.
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches two enhanced errors by category, otherwise defers to the
// wrapped error chain.
func (ee *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return ee.Category == other.Category
	}
	return stderrors.Is(ee.Err, target)
}

// GetContext returns a copy of the context map to prevent external
// modification.
func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}
	cp := make(map[string]any, len(ee.Context))
	maps.Copy(cp, ee.Context)
	return cp
}

// DisplayMessage returns the user-facing message, falling back to the
// wrapped error text when none was set.
func (ee *EnhancedError) DisplayMessage() string {
	if ee.UserMessage != "" {
		return ee.UserMessage
	}
	return ee.Err.Error()
}

// ErrorBuilder provides a fluent interface for creating enhanced errors.
type ErrorBuilder struct {
	err         error
	component   string
	category    ErrorCategory
	userMessage string
	context     map[string]any
}

// New creates a new error builder wrapping err.
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new builder wrapping a formatted error.
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name.
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category for grouping.
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// UserMessage sets a message safe to surface to the user.
func (eb *ErrorBuilder) UserMessage(format string, args ...any) *ErrorBuilder {
	eb.userMessage = fmt.Sprintf(format, args...)
	return eb
}

// Context adds a context key/value pair to the error.
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build finalizes the enhanced error.
func (eb *ErrorBuilder) Build() *EnhancedError {
	category := eb.category
	if category == "" {
		category = CategoryGeneric
	}
	return &EnhancedError{
		Err:         eb.err,
		Component:   eb.component,
		Category:    category,
		Context:     eb.context,
		UserMessage: eb.userMessage,
		Timestamp:   time.Now(),
	}
}

// Standard library pass-throughs so callers only import this package.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// HasCategory reports whether err carries the given category.
func HasCategory(err error, category ErrorCategory) bool {
	var ee *EnhancedError
	if As(err, &ee) {
		return ee.Category == category
	}
	return false
}
