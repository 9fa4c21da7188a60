package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hornetflow/internal/logging"
	"hornetflow/internal/services"
)

// CloneToWorkdir allocates a uniquely named working directory under baseDir,
// clones url at commit into it, and returns the repository path.
//
// Cleanup is asymmetric on purpose: any failure during or after the clone
// removes the freshly allocated directory before the error propagates, while
// success leaves it in place for the caller to inspect, reuse, and delete
// explicitly.
func (c *Client) CloneToWorkdir(ctx context.Context, url, commit, baseDir string) (repoPath string, err error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrProcessing, "gitrepo", "workdir", fmt.Sprintf("create base directory %s", baseDir), err)
	}

	workdir := filepath.Join(baseDir, fmt.Sprintf("hornet-%s-repo", uuid.NewString()))
	if err := os.Mkdir(workdir, 0o755); err != nil {
		return "", services.Wrap(services.ErrProcessing, "gitrepo", "workdir", fmt.Sprintf("allocate working directory %s", workdir), err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(workdir); rmErr != nil {
				c.logger.Warn("failed to remove working directory after clone failure",
					logging.String("workdir", workdir),
					logging.Error(rmErr))
			}
		}
	}()

	repoPath = filepath.Join(workdir, RepoNameFromURL(url))
	if err = c.Clone(ctx, url, commit, repoPath); err != nil {
		return "", err
	}
	return repoPath, nil
}

// RepoNameFromURL derives a directory name from a repository URL.
func RepoNameFromURL(url string) string {
	trimmed := strings.TrimRight(url, "/")
	name := trimmed[strings.LastIndex(trimmed, "/")+1:]
	name = strings.TrimSuffix(name, ".git")
	if name == "" {
		return "repo"
	}
	return name
}
