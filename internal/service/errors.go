package service

import (
	"errors"
	"fmt"
	"strings"

	"example.com/furnish/services/serial/internal/models"
)

// Common service errors
var (
	// ErrNotFound means a unit id or batch member does not resolve
	ErrNotFound = errors.New("serial unit not found")
	// ErrConflict means a concurrent writer won; the caller may refetch and retry
	ErrConflict = errors.New("serial unit was modified concurrently")
)

// ValidationError reports every offending serial number in a create batch,
// not just the first one, so the goods-receipt UI can flag them all at once.
type ValidationError struct {
	// Malformed serials that fail the identifier format
	Malformed []string
	// Duplicates repeated inside the submitted batch
	Duplicates []string
	// Existing serials already present in the registry
	Existing []string
	// Reason for batch-level failures such as an empty batch
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	var parts []string
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if len(e.Malformed) > 0 {
		parts = append(parts, fmt.Sprintf("malformed serials: %s", strings.Join(e.Malformed, ", ")))
	}
	if len(e.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate serials in batch: %s", strings.Join(e.Duplicates, ", ")))
	}
	if len(e.Existing) > 0 {
		parts = append(parts, fmt.Sprintf("serials already registered: %s", strings.Join(e.Existing, ", ")))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasOffenders reports whether any serial-level problem was collected
func (e *ValidationError) HasOffenders() bool {
	return len(e.Malformed) > 0 || len(e.Duplicates) > 0 || len(e.Existing) > 0
}

// InvalidTransitionError means the requested status change is not in the
// lifecycle transition table
type InvalidTransitionError struct {
	From models.UnitStatus
	To   models.UnitStatus
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// InvalidReferenceError means a supplied reference-directory id or position
// does not resolve
type InvalidReferenceError struct {
	Kind  string
	Value string
}

// Error implements the error interface
func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Value)
}
