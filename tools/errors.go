package tools

import (
	"errors"
	"fmt"
)

// Kind classifies a tool invocation failure. Kinds travel across the
// transport as the "code" field of a serialized error descriptor, so the
// client can tell apart a bad call from a broken tool.
type Kind string

const (
	// KindUnknownTool is returned when the requested tool name is not registered
	KindUnknownTool Kind = "unknown_tool"

	// KindSchemaViolation is returned when the supplied arguments are missing a
	// required parameter or carry a value of the wrong declared type
	KindSchemaViolation Kind = "schema_violation"

	// KindExecutionError wraps a failure raised by the tool function itself,
	// including a success payload that does not satisfy the output schema
	KindExecutionError Kind = "execution_error"

	// KindTransportClosed marks the loss of the remote connection
	KindTransportClosed Kind = "transport_closed"

	// KindUsageError is a client-side error that is never sent to the provider
	KindUsageError Kind = "usage_error"
)

// Error is a classified tool error. It marshals to the wire form
// {"code": ..., "message": ...} used on the result error path.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`

	cause error
}

var _ error = &Error{}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Errorf creates a classified error from a format string
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{
		Kind:    kind,
		Message: err.Error(),
		cause:   errors.Unwrap(err),
	}
}

// KindOf extracts the Kind from an error chain. Unclassified errors report
// KindExecutionError, the catch-all for failures inside a tool body.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindExecutionError
}
