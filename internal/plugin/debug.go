package plugin

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"hornetflow/internal/logging"
	"hornetflow/internal/manifest"
)

func init() {
	Register("debug", func() Backend { return &debugBackend{} })
}

// debugBackend is a diagnostic pass-through that logs every component it is
// handed and always succeeds.
type debugBackend struct {
	logger *slog.Logger
	count  int
}

func (b *debugBackend) Name() string { return "debug" }

func (b *debugBackend) Setup(_ context.Context, env Environment) error {
	b.logger = logging.WithComponent(env.Logger, "debug-backend")
	b.count = 0
	b.logger.Debug("backend ready",
		logging.String(logging.FieldRepoPath, env.RepoRoot),
		logging.String(logging.FieldManifest, env.ManifestPath))
	return nil
}

func (b *debugBackend) LoadComponent(_ context.Context, component manifest.Component, files []string) (bool, error) {
	b.count++
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	b.logger.Info("component loaded",
		logging.Int("n", b.count),
		logging.String("id", component.ID),
		logging.String("kind", string(component.Kind)),
		logging.String("parent", strings.Join(component.AncestorPath, "/")),
		logging.Int("files", len(files)),
		logging.String("file_names", strings.Join(names, ",")))
	return true, nil
}

func (b *debugBackend) Teardown() error {
	if b.logger != nil {
		b.logger.Info("backend finished", logging.Int("components", b.count))
	}
	return nil
}
