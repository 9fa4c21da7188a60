package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"hornetflow/internal/manifest"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverPrefersHiddenDirectory(t *testing.T) {
	repo := t.TempDir()
	hiddenCAD := filepath.Join(repo, manifest.ManifestDirName, manifest.CADManifestName)
	writeFile(t, hiddenCAD)
	// A root-level manifest must be ignored once the hidden directory exists.
	writeFile(t, filepath.Join(repo, manifest.SIMManifestName))

	cad, sim := manifest.Discover(repo)
	if cad != hiddenCAD {
		t.Fatalf("cad = %q, want %q", cad, hiddenCAD)
	}
	if sim != "" {
		t.Fatalf("sim = %q, want empty (root fallback must not apply)", sim)
	}
}

func TestDiscoverFallsBackToRoot(t *testing.T) {
	repo := t.TempDir()
	rootCAD := filepath.Join(repo, manifest.CADManifestName)
	rootSIM := filepath.Join(repo, manifest.SIMManifestName)
	writeFile(t, rootCAD)
	writeFile(t, rootSIM)

	cad, sim := manifest.Discover(repo)
	if cad != rootCAD || sim != rootSIM {
		t.Fatalf("Discover = (%q, %q), want (%q, %q)", cad, sim, rootCAD, rootSIM)
	}
}

func TestDiscoverNothingFound(t *testing.T) {
	cad, sim := manifest.Discover(t.TempDir())
	if cad != "" || sim != "" {
		t.Fatalf("expected empty results, got (%q, %q)", cad, sim)
	}
}

func TestDiscoverIgnoresDirectories(t *testing.T) {
	repo := t.TempDir()
	if err := os.MkdirAll(filepath.Join(repo, manifest.CADManifestName), 0o755); err != nil {
		t.Fatal(err)
	}
	cad, _ := manifest.Discover(repo)
	if cad != "" {
		t.Fatalf("directory must not satisfy discovery, got %q", cad)
	}
}
