package services_test

import (
	"errors"
	"strings"
	"testing"

	"hornetflow/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrProcessing, "processor", "load", "backend rejected component", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"processor", "load", "backend rejected component"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "workflow", "run", "", nil)
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected nil marker to default to ErrProcessing, got %v", err)
	}
}

func TestCategoryMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"input", services.Wrap(services.ErrInput, "workflow", "validate", "conflicting flags", nil), "input_error"},
		{"not found", services.Wrap(services.ErrNotFound, "manifest", "discover", "no manifests", nil), "not_found"},
		{"validation", services.Wrap(services.ErrValidation, "manifest", "schema", "invalid", nil), "validation_error"},
		{"processing", services.Wrap(services.ErrProcessing, "gitrepo", "clone", "exit 128", nil), "processing_error"},
		{"untagged", errors.New("plain"), "processing_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Category(tc.err); got != tc.want {
				t.Fatalf("Category(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
