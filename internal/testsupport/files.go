package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteJSON marshals doc and writes it to path.
func WriteJSON(t testing.TB, path string, doc any) {
	t.Helper()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal for %s: %v", path, err)
	}
	WriteFile(t, path, data)
}

// WriteMetadata writes a minimal valid release metadata file and returns
// its path.
func WriteMetadata(t testing.TB, dir, url, marker string) string {
	t.Helper()

	path := filepath.Join(dir, "metadata.json")
	WriteJSON(t, path, map[string]any{
		"release": map[string]any{
			"origin": "test",
			"url":    url,
			"label":  "v0.0.0-test",
			"marker": marker,
		},
	})
	return path
}

// WriteRepo lays out a repository with a hidden manifest directory holding
// the given CAD manifest document, plus the referenced component files. It
// returns the repository root.
func WriteRepo(t testing.TB, manifest map[string]any, files ...string) string {
	t.Helper()

	root := t.TempDir()
	WriteJSON(t, filepath.Join(root, ".hornet", "cad_manifest.json"), manifest)
	for _, rel := range files {
		WriteFile(t, filepath.Join(root, rel), []byte("stub"))
	}
	return root
}
