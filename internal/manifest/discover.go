package manifest

import (
	"os"
	"path/filepath"
)

// Well-known manifest locations inside a repository.
const (
	ManifestDirName = ".hornet"
	CADManifestName = "cad_manifest.json"
	SIMManifestName = "sim_manifest.json"
)

// Discover looks for the well-known CAD and SIM manifests in a repository.
// The hidden manifest directory takes precedence when it exists; otherwise
// the repository root is searched. Either result may be empty.
func Discover(repoRoot string) (cadManifest, simManifest string) {
	searchDir := filepath.Join(repoRoot, ManifestDirName)
	if info, err := os.Stat(searchDir); err != nil || !info.IsDir() {
		searchDir = repoRoot
	}
	return checkFile(filepath.Join(searchDir, CADManifestName)),
		checkFile(filepath.Join(searchDir, SIMManifestName))
}

func checkFile(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}
