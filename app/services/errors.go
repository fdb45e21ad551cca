// Package services holds the domain logic behind the HTTP and realtime
// surfaces: catalog rules (validation, id assignment, code uniqueness) and
// cart rules (quantity merging, enrichment against the catalog).
package services

// ValidationError is a rejected input. It carries the offending field so the
// transport layer can report it, and it always maps to a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
