package manifest

import (
	"path/filepath"
	"strings"
)

// ResolveFilePath computes the absolute path of a component file reference.
//
// References beginning with "./" are relative to the manifest file's own
// directory (prefix stripped); everything else is relative to the repository
// root. This dual convention lets manifests describe sibling files as well
// as paths deep in the cloned tree. Pure path arithmetic; no existence check.
func ResolveFilePath(manifestPath, fileRef, repoRoot string) string {
	if strings.HasPrefix(fileRef, "./") {
		return filepath.Join(filepath.Dir(manifestPath), fileRef[2:])
	}
	return filepath.Join(repoRoot, fileRef)
}
