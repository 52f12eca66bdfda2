package router

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorCategory classifies a failed execution.
type ErrorCategory string

// Error categories
const (
	CategoryTimeout    ErrorCategory = "timeout_error"
	CategoryValidation ErrorCategory = "validation_error"
	CategoryNetwork    ErrorCategory = "network_error"
	CategoryPermission ErrorCategory = "permission_error"
	CategoryExecution  ErrorCategory = "execution_error"
)

var (
	// ErrTimeout is the cancellation cause of an execution that exceeded its timeout.
	ErrTimeout = errors.New("execution timeout")
	// ErrAborted is the cancellation cause of an aborted execution.
	ErrAborted = errors.New("execution aborted")
	// ErrShutdown is returned for executions requested after Shutdown,
	// and is the cancellation cause of executions in flight at Shutdown.
	ErrShutdown = errors.New("execution router is shut down")
)

// categoryKeywords is evaluated in order, the first match wins.
var categoryKeywords = []struct {
	category ErrorCategory
	keywords []string
}{
	{CategoryTimeout, []string{"abort", "timeout"}},
	{CategoryValidation, []string{"validation", "invalid", "required"}},
	{CategoryNetwork, []string{"network", "connection", "fetch"}},
	{CategoryPermission, []string{"permission", "unauthorized", "forbidden"}},
}

var nonRecoverableKeywords = []string{"not found", "does not exist"}

// Categorize returns the category of an error message.
func Categorize(message string) ErrorCategory {
	msg := strings.ToLower(message)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(msg, kw) {
				return c.category
			}
		}
	}
	return CategoryExecution
}

// IsRecoverable returns false for permission errors and missing resources.
func IsRecoverable(category ErrorCategory, message string) bool {
	if category == CategoryPermission {
		return false
	}
	msg := strings.ToLower(message)
	for _, kw := range nonRecoverableKeywords {
		if strings.Contains(msg, kw) {
			return false
		}
	}
	return true
}

// ExecutionError describes a failed execution.
type ExecutionError struct {
	Message     string        `json:"message" yaml:"message"`
	Category    ErrorCategory `json:"category" yaml:"category"`
	Recoverable bool          `json:"recoverable" yaml:"recoverable"`
}

// Error implements error.
func (e *ExecutionError) Error() string {
	return e.Message
}

// NewExecutionError classifies err.
func NewExecutionError(err error) *ExecutionError {
	msg := err.Error()
	category := Categorize(msg)
	return &ExecutionError{
		Message:     msg,
		Category:    category,
		Recoverable: IsRecoverable(category, msg),
	}
}
