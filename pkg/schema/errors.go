package schema

import "fmt"

// ValidationError reports input data that failed validation or coercion.
type ValidationError struct {
	Value   any    // The offending value, possibly nested inside the input
	Message string // Human-readable reason
	Trace   Trace  // Path of schema nodes from the root to the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v %s", e.Value, e.Message)
}

// SchemaError reports a malformed schema, as opposed to invalid input data:
// nil nodes, List schemas with more than one element, duplicate Object keys,
// patterns that do not compile. It is never produced by data.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Message
}

// invalid builds a ValidationError whose trace starts at the named variant.
func invalid(name string, value any, message string) *ValidationError {
	return &ValidationError{
		Value:   value,
		Message: message,
		Trace:   Trace{Segment{Name: name}},
	}
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Message: fmt.Sprintf(format, args...)}
}
