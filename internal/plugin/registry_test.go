package plugin_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hornetflow/internal/logging"
	"hornetflow/internal/manifest"
	"hornetflow/internal/plugin"
	"hornetflow/internal/services"
)

func TestNewReturnsRegisteredBackends(t *testing.T) {
	for _, name := range []string{"debug", "report"} {
		backend, err := plugin.New(name)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if backend.Name() != name {
			t.Fatalf("backend name %q, want %q", backend.Name(), name)
		}
	}
}

func TestNewEmptyNameSelectsDefault(t *testing.T) {
	backend, err := plugin.New("")
	if err != nil {
		t.Fatalf("New(\"\") failed: %v", err)
	}
	if backend.Name() != plugin.DefaultName {
		t.Fatalf("default backend %q, want %q", backend.Name(), plugin.DefaultName)
	}
}

func TestNewUnknownNameIsNotFound(t *testing.T) {
	_, err := plugin.New("holodeck")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestNamesIncludesBuiltins(t *testing.T) {
	names := plugin.Names()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["debug"] || !seen["report"] {
		t.Fatalf("expected builtin backends in %v", names)
	}
}

func TestDebugBackendLifecycle(t *testing.T) {
	backend, err := plugin.New("debug")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	env := plugin.Environment{RepoRoot: t.TempDir(), ManifestPath: "m.json", Logger: logging.NewNop()}
	if err := backend.Setup(ctx, env); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	ok, err := backend.LoadComponent(ctx, manifest.Component{ID: "chassis", Kind: manifest.KindAssembly}, nil)
	if err != nil || !ok {
		t.Fatalf("LoadComponent = (%v, %v), want success", ok, err)
	}
	if err := backend.Teardown(); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}
}

func TestReportBackendWritesHierarchy(t *testing.T) {
	base := t.TempDir()
	repoRoot := filepath.Join(base, "widgets")
	if err := os.MkdirAll(repoRoot, 0o755); err != nil {
		t.Fatal(err)
	}

	backend, err := plugin.New("report")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	env := plugin.Environment{RepoRoot: repoRoot, ManifestPath: "m.json", Logger: logging.NewNop()}
	if err := backend.Setup(ctx, env); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	components := []manifest.Component{
		{ID: "chassis", Kind: manifest.KindAssembly},
		{ID: "frame", Kind: manifest.KindPart, AncestorPath: []string{"chassis"}},
	}
	for _, c := range components {
		if ok, err := backend.LoadComponent(ctx, c, []string{"/repo/" + c.ID + ".step"}); err != nil || !ok {
			t.Fatalf("LoadComponent(%s) = (%v, %v)", c.ID, ok, err)
		}
	}
	if err := backend.Teardown(); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}

	reportPath := filepath.Join(base, "widgets.report.json")
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("expected report at %s: %v", reportPath, err)
	}

	var doc struct {
		Components []struct {
			Path string `json:"path"`
			ID   string `json:"id"`
		} `json:"components"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(doc.Components) != 2 {
		t.Fatalf("expected 2 report entries, got %d", len(doc.Components))
	}
	if doc.Components[1].Path != "chassis/frame" {
		t.Fatalf("expected ancestor-qualified path, got %q", doc.Components[1].Path)
	}
}
