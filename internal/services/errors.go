package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks contradictory or incomplete caller arguments.
	ErrInput = errors.New("input error")
	// ErrNotFound marks missing manifests, files, or unregistered backends.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks schema validation failures.
	ErrValidation = errors.New("validation error")
	// ErrProcessing marks backend and git subprocess failures.
	ErrProcessing = errors.New("processing error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Category maps an error to the status label the journal records for a
// finished run.
func Category(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInput):
		return "input_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "processing_error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
