package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hornetflow/internal/logging"
	"hornetflow/internal/manifest"
	"hornetflow/internal/metadata"
	"hornetflow/internal/services"
)

func init() {
	Register("report", func() Backend { return &reportBackend{} })
}

// reportBackend collects every component it is handed and writes the
// flattened hierarchy as a JSON document next to the repository on teardown.
// Entries are keyed by their full ancestor path, so duplicate sibling ids
// stay distinguishable in the output.
type reportBackend struct {
	logger     *slog.Logger
	repoRoot   string
	reportPath string
	report     reportDocument
}

type reportDocument struct {
	Repository string            `json:"repository"`
	Manifest   string            `json:"manifest"`
	Release    *metadata.Release `json:"release,omitempty"`
	Generated  string            `json:"generated_at"`
	Components []reportEntry     `json:"components"`
}

type reportEntry struct {
	Path        string   `json:"path"`
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Description string   `json:"description,omitempty"`
	Files       []string `json:"files"`
}

func (b *reportBackend) Name() string { return "report" }

func (b *reportBackend) Setup(_ context.Context, env Environment) error {
	b.logger = logging.WithComponent(env.Logger, "report-backend")
	b.repoRoot = env.RepoRoot

	base := filepath.Dir(env.RepoRoot)
	name := filepath.Base(env.RepoRoot)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "hornet-model"
	}
	b.reportPath = filepath.Join(base, name+".report.json")

	b.report = reportDocument{
		Repository: env.RepoRoot,
		Manifest:   env.ManifestPath,
		Release:    env.Release,
	}
	return nil
}

func (b *reportBackend) LoadComponent(_ context.Context, component manifest.Component, files []string) (bool, error) {
	path := component.ID
	if len(component.AncestorPath) > 0 {
		path = strings.Join(component.AncestorPath, "/") + "/" + component.ID
	}
	b.report.Components = append(b.report.Components, reportEntry{
		Path:        path,
		ID:          component.ID,
		Kind:        string(component.Kind),
		Description: component.Description,
		Files:       append([]string{}, files...),
	})
	return true, nil
}

func (b *reportBackend) Teardown() error {
	if b.reportPath == "" {
		return nil
	}
	b.report.Generated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(b.report, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrProcessing, "report-backend", "teardown", "encode report", err)
	}
	if err := os.WriteFile(b.reportPath, data, 0o644); err != nil {
		return services.Wrap(services.ErrProcessing, "report-backend", "teardown", fmt.Sprintf("write %s", b.reportPath), err)
	}
	b.logger.Info("report written",
		logging.String("path", b.reportPath),
		logging.Int("components", len(b.report.Components)))
	return nil
}

// ReportPath exposes where the report will be written once Setup has run.
func (b *reportBackend) ReportPath() string { return b.reportPath }
