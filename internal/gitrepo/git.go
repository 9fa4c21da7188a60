package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"hornetflow/internal/logging"
	"hornetflow/internal/metadata"
	"hornetflow/internal/services"
)

const commandTimeout = 10 * time.Minute

// Runner executes a git command in dir and returns its trimmed stdout.
// Implementations report non-zero exits as processing errors.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", services.Wrap(services.ErrProcessing, "gitrepo", "git "+args[0], detail, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client wraps the git operations the workflow needs.
type Client struct {
	runner Runner
	logger *slog.Logger
}

// NewClient builds a Client that shells out to the git binary.
func NewClient(logger *slog.Logger) *Client {
	return NewClientWithRunner(execRunner{}, logger)
}

// NewClientWithRunner builds a Client on a custom runner. Used by tests.
func NewClientWithRunner(runner Runner, logger *slog.Logger) *Client {
	return &Client{runner: runner, logger: logging.WithComponent(logger, "gitrepo")}
}

// Version reports the installed git version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "", "--version")
}

// Clone shallow-clones url into targetDir and checks out commit. Commits not
// reachable from the shallow clone are fetched explicitly before the second
// checkout attempt.
func (c *Client) Clone(ctx context.Context, url, commit, targetDir string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return services.Wrap(services.ErrInput, "gitrepo", "clone", fmt.Sprintf("repository URL must be HTTP(S): %s", url), nil)
	}

	c.logger.Info("cloning repository",
		logging.String("url", url),
		logging.String("commit", commit),
		logging.String("target", targetDir))

	if _, err := c.runner.Run(ctx, "", "clone", "--depth", "1", "--no-single-branch", url, targetDir); err != nil {
		return err
	}

	if _, err := c.runner.Run(ctx, targetDir, "checkout", commit); err == nil {
		return nil
	}

	// Commit not in the shallow clone; fetch it specifically.
	if _, err := c.runner.Run(ctx, targetDir, "fetch", "--depth", "1", "origin", commit); err != nil {
		return err
	}
	_, err := c.runner.Run(ctx, targetDir, "checkout", commit)
	return err
}

// Introspect extracts release provenance from an existing clone: origin URL,
// HEAD commit, and a human-readable label (tag, then branch, then short hash).
func (c *Client) Introspect(ctx context.Context, repoPath string) (*metadata.Release, error) {
	url, err := c.runner.Run(ctx, repoPath, "remote", "get-url", "origin")
	if err != nil {
		return nil, err
	}
	commit, err := c.runner.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}

	label := commit
	if len(label) > 8 {
		label = label[:8]
	}
	if tag, err := c.runner.Run(ctx, repoPath, "describe", "--tags", "--exact-match", "HEAD"); err == nil && tag != "" {
		label = tag
	} else if branch, err := c.runner.Run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD"); err == nil && branch != "" && branch != "HEAD" {
		label = branch
	}

	return &metadata.Release{
		Origin: "git",
		URL:    url,
		Label:  label,
		Marker: commit,
	}, nil
}
