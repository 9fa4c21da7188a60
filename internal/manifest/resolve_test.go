package manifest_test

import (
	"testing"

	"hornetflow/internal/manifest"
)

func TestResolveFilePath(t *testing.T) {
	tests := []struct {
		name         string
		manifestPath string
		fileRef      string
		repoRoot     string
		want         string
	}{
		{
			name:         "manifest-relative",
			manifestPath: "/a/b/manifest.json",
			fileRef:      "./x.step",
			repoRoot:     "/repo",
			want:         "/a/b/x.step",
		},
		{
			name:         "repo-relative",
			manifestPath: "/a/b/manifest.json",
			fileRef:      "x.step",
			repoRoot:     "/repo",
			want:         "/repo/x.step",
		},
		{
			name:         "manifest-relative nested",
			manifestPath: "/repo/.hornet/cad_manifest.json",
			fileRef:      "./cad/frame.SLDPRT",
			repoRoot:     "/repo",
			want:         "/repo/.hornet/cad/frame.SLDPRT",
		},
		{
			name:         "repo-relative nested",
			manifestPath: "/repo/.hornet/cad_manifest.json",
			fileRef:      "cad/frame.SLDPRT",
			repoRoot:     "/repo",
			want:         "/repo/cad/frame.SLDPRT",
		},
		{
			name:         "dot prefix without slash is repo-relative",
			manifestPath: "/a/manifest.json",
			fileRef:      ".hidden",
			repoRoot:     "/repo",
			want:         "/repo/.hidden",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := manifest.ResolveFilePath(tc.manifestPath, tc.fileRef, tc.repoRoot)
			if got != tc.want {
				t.Fatalf("ResolveFilePath(%q, %q, %q) = %q, want %q", tc.manifestPath, tc.fileRef, tc.repoRoot, got, tc.want)
			}
		})
	}
}
