package domain

import "strings"

// FieldError pairs a property name with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports one or more field-level validation failures. It is
// always produced before any write takes place, so a failed operation is
// never partially applied.
type ValidationError struct {
	Failures []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
