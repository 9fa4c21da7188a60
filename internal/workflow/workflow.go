package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"hornetflow/internal/config"
	"hornetflow/internal/gitrepo"
	"hornetflow/internal/logging"
	"hornetflow/internal/manifest"
	"hornetflow/internal/metadata"
	"hornetflow/internal/processor"
	"hornetflow/internal/services"
)

// repoProvisioner is the slice of gitrepo.Client the orchestrator needs.
type repoProvisioner interface {
	CloneToWorkdir(ctx context.Context, url, commit, baseDir string) (string, error)
	Introspect(ctx context.Context, repoPath string) (*metadata.Release, error)
}

// schemaValidator validates one manifest file against its declared schema.
type schemaValidator interface {
	ValidateFile(ctx context.Context, path string) error
}

// manifestProcessor runs manifest components through a backend.
type manifestProcessor interface {
	Process(ctx context.Context, manifestPath, repoRoot string, opts processor.Options) (processor.Outcome, error)
}

// RunOptions describes one workflow invocation. Exactly one repository
// source must be set: MetadataPath, RepoURL, or RepoPath.
type RunOptions struct {
	MetadataPath string
	RepoURL      string
	RepoCommit   string
	RepoPath     string

	// Trigger records what started the run, "cli" or "watcher".
	Trigger string

	Plugin     string
	FailFast   bool
	TypeFilter string
	NameFilter string
}

// Result summarizes a completed run.
type Result struct {
	RunID       string
	RepoPath    string
	CADManifest string
	SIMManifest string
	Release     *metadata.Release
	Outcome     processor.Outcome

	// SchemaErrors holds manifest validation failures the run continued
	// past. Only populated when fail-fast is off; a manifest with no
	// schema declaration is fatal and ends the run instead.
	SchemaErrors []error
}

// Runner orchestrates the full workflow: resolve the release, provision a
// repository, discover and validate manifests, process the CAD manifest,
// and announce each stage through the dispatcher.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	git        repoProvisioner
	validator  schemaValidator
	processor  manifestProcessor
	dispatcher *Dispatcher
}

// NewRunner wires a Runner from configuration.
func NewRunner(cfg *config.Config, dispatcher *Dispatcher, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "workflow"),
		git:        gitrepo.NewClient(logger),
		validator:  manifest.NewSchemaValidator(cfg.SchemaTimeout(), logger),
		processor:  processor.New(logger),
		dispatcher: dispatcher,
	}
}

// Run executes the workflow described by opts. The completed event fires on
// every exit path and carries the final status and counts.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (result Result, err error) {
	if err := validateOptions(opts); err != nil {
		return result, err
	}
	if opts.RepoCommit == "" {
		opts.RepoCommit = "main"
	}
	if opts.Plugin == "" {
		opts.Plugin = r.cfg.Workflow.DefaultPlugin
	}
	if opts.Trigger == "" {
		opts.Trigger = "cli"
	}

	result.RunID = uuid.NewString()
	ctx = services.WithRunID(ctx, result.RunID)
	logger := r.logger.With(logging.String(logging.FieldRunID, result.RunID))

	defer func() {
		payload := Payload{
			"run_id":    result.RunID,
			"status":    services.Category(err),
			"succeeded": result.Outcome.Succeeded,
			"total":     result.Outcome.Total,
		}
		if err != nil {
			payload["error"] = err.Error()
		}
		r.dispatcher.Trigger(EventCompleted, payload)
	}()

	logger.Info("workflow started",
		logging.String("trigger", opts.Trigger),
		logging.String(logging.FieldPlugin, opts.Plugin))
	r.dispatcher.Trigger(EventStarted, Payload{
		"run_id":  result.RunID,
		"trigger": opts.Trigger,
		"plugin":  opts.Plugin,
	})

	result.Release, err = r.resolveRelease(ctx, logger, opts)
	if err != nil {
		return result, err
	}

	result.RepoPath, err = r.provision(ctx, logger, opts, result.Release)
	if err != nil {
		return result, err
	}
	logger.Info("repository ready", logging.String(logging.FieldRepoPath, result.RepoPath))
	readyPayload := Payload{
		"run_id":    result.RunID,
		"repo_path": result.RepoPath,
	}
	if result.Release != nil {
		readyPayload["release_url"] = result.Release.URL
		readyPayload["release_label"] = result.Release.Label
	}
	r.dispatcher.Trigger(EventRepositoryReady, readyPayload)

	result.CADManifest, result.SIMManifest = manifest.Discover(result.RepoPath)
	if result.CADManifest == "" && result.SIMManifest == "" {
		err = services.Wrap(services.ErrNotFound, "workflow", "discover", "no manifests found in repository", nil)
		return result, err
	}

	result.SchemaErrors, err = r.validateManifests(ctx, logger, result, opts.FailFast)
	if err != nil {
		return result, err
	}
	logger.Info("manifests ready",
		logging.String(logging.FieldManifest, result.CADManifest))
	r.dispatcher.Trigger(EventManifestsReady, Payload{
		"run_id":       result.RunID,
		"cad_manifest": result.CADManifest,
		"sim_manifest": result.SIMManifest,
	})

	if result.CADManifest != "" {
		result.Outcome, err = r.processor.Process(ctx, result.CADManifest, result.RepoPath, processor.Options{
			Plugin:   opts.Plugin,
			FailFast: opts.FailFast,
			Filter: manifest.Filter{
				Kind: manifest.ComponentKind(opts.TypeFilter),
				Name: opts.NameFilter,
			},
			Release: result.Release,
		})
		if err != nil {
			return result, err
		}
	}

	logger.Info("workflow completed",
		logging.Int("succeeded", result.Outcome.Succeeded),
		logging.Int("total", result.Outcome.Total),
		logging.Int("recorded_errors", len(result.Outcome.Recorded)))
	return result, nil
}

// validateOptions enforces the input rules: at least one repository source,
// no explicit URL alongside metadata, and no commit override when metadata
// carries the release marker. Metadata combined with a local repository
// path is allowed: the path supplies the clone, the metadata the release.
func validateOptions(opts RunOptions) error {
	switch {
	case opts.MetadataPath == "" && opts.RepoURL == "" && opts.RepoPath == "":
		return services.Wrap(services.ErrInput, "workflow", "validate", "one of metadata path, repository URL, or repository path is required", nil)
	case opts.MetadataPath != "" && opts.RepoURL != "":
		return services.Wrap(services.ErrInput, "workflow", "validate", "metadata path and repository URL are mutually exclusive", nil)
	case opts.RepoURL != "" && opts.RepoPath != "":
		return services.Wrap(services.ErrInput, "workflow", "validate", "repository URL and repository path are mutually exclusive", nil)
	case opts.MetadataPath != "" && opts.RepoCommit != "" && opts.RepoCommit != "main":
		return services.Wrap(services.ErrInput, "workflow", "validate", "repository commit cannot override the metadata release marker", nil)
	case opts.TypeFilter != "" && opts.TypeFilter != string(manifest.KindAssembly) && opts.TypeFilter != string(manifest.KindPart):
		return services.Wrap(services.ErrInput, "workflow", "validate", "type filter must be assembly or part", nil)
	}
	return nil
}

// resolveRelease determines provenance for the run. Metadata files are
// authoritative; for a pre-existing local repository introspection is
// best-effort and its failure does not stop the run.
func (r *Runner) resolveRelease(ctx context.Context, logger *slog.Logger, opts RunOptions) (*metadata.Release, error) {
	switch {
	case opts.MetadataPath != "":
		release, err := metadata.LoadRelease(opts.MetadataPath)
		if err != nil {
			return nil, err
		}
		logger.Info("release loaded",
			logging.String("label", release.Label),
			logging.String("url", release.URL))
		return release, nil
	case opts.RepoURL != "":
		return &metadata.Release{URL: opts.RepoURL, Marker: opts.RepoCommit}, nil
	default:
		release, err := r.git.Introspect(ctx, opts.RepoPath)
		if err != nil {
			logger.Warn("repository introspection failed", logging.Error(err))
			return nil, nil
		}
		return release, nil
	}
}

func (r *Runner) provision(ctx context.Context, logger *slog.Logger, opts RunOptions, release *metadata.Release) (string, error) {
	if opts.RepoPath != "" {
		info, err := os.Stat(opts.RepoPath)
		if err != nil || !info.IsDir() {
			return "", services.Wrap(services.ErrInput, "workflow", "provision", "repository path is not a directory: "+opts.RepoPath, nil)
		}
		return opts.RepoPath, nil
	}

	commit := opts.RepoCommit
	if opts.MetadataPath != "" && release.Marker != "" {
		commit = release.Marker
	}
	logger.Info("cloning repository",
		logging.String("url", release.URL),
		logging.String("commit", commit))
	return r.git.CloneToWorkdir(ctx, release.URL, commit, r.cfg.WorkDirPath())
}

// validateManifests checks every discovered manifest against its declared
// schema. A manifest without a schema declaration is always fatal; other
// validation failures are logged and accumulated, and the run continues,
// unless fail-fast is set.
func (r *Runner) validateManifests(ctx context.Context, logger *slog.Logger, result Result, failFast bool) ([]error, error) {
	var deferred []error
	for _, path := range []string{result.CADManifest, result.SIMManifest} {
		if path == "" {
			continue
		}
		verr := r.validator.ValidateFile(ctx, path)
		if verr == nil {
			continue
		}
		if failFast || errors.Is(verr, services.ErrNotFound) {
			return nil, verr
		}
		logger.Error("manifest validation failed",
			logging.String(logging.FieldManifest, path),
			logging.Error(verr))
		deferred = append(deferred, verr)
	}
	return deferred, nil
}
