package plugin

import (
	"context"
	"log/slog"

	"hornetflow/internal/manifest"
	"hornetflow/internal/metadata"
)

// Environment carries the per-run context a backend receives at setup.
type Environment struct {
	RepoRoot     string
	ManifestPath string
	// Release is the provenance of the repository being processed; nil when
	// the caller supplied a bare local path with no metadata.
	Release *metadata.Release
	Logger  *slog.Logger
}

// Backend materializes manifest components in a target environment.
//
// The processor calls Setup exactly once before any LoadComponent, and
// Teardown exactly once on every exit path, including when Setup or a
// LoadComponent call failed. LoadComponent reports ordinary recoverable
// failure by returning false; returning an error signals a harder failure
// that aborts the run under fail-fast.
type Backend interface {
	Name() string
	Setup(ctx context.Context, env Environment) error
	LoadComponent(ctx context.Context, component manifest.Component, files []string) (bool, error)
	Teardown() error
}
