package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"hornetflow/internal/logging"
	"hornetflow/internal/manifest"
	"hornetflow/internal/metadata"
	"hornetflow/internal/plugin"
	"hornetflow/internal/services"
)

// Options configures a single manifest processing run.
type Options struct {
	// Plugin names the backend; empty selects the registry default.
	Plugin string
	// FailFast aborts the run on the first error instead of recording it.
	FailFast bool
	// Filter excludes components before they are counted or loaded.
	Filter manifest.Filter
	// Release is passed through to the backend's setup environment.
	Release *metadata.Release
}

// Outcome aggregates the result of one processing run. Total counts every
// filter-surviving component regardless of load result; filtered-out
// components are excluded entirely. Recorded holds the per-component and
// per-file errors a non-fail-fast run continued past.
type Outcome struct {
	Succeeded int
	Total     int
	Recorded  []error
}

// Processor feeds manifest components through a backend in tree order.
type Processor struct {
	logger *slog.Logger
}

// New builds a Processor.
func New(logger *slog.Logger) *Processor {
	return &Processor{logger: logging.WithComponent(logger, "processor")}
}

// Process walks the manifest at manifestPath and hands every surviving
// component to the named backend. The backend's Teardown runs exactly once
// on every exit path, including setup failures and fail-fast aborts.
func (p *Processor) Process(ctx context.Context, manifestPath, repoRoot string, opts Options) (outcome Outcome, err error) {
	backend, err := plugin.New(opts.Plugin)
	if err != nil {
		return outcome, err
	}
	logger := p.logger.With(logging.String(logging.FieldPlugin, backend.Name()))

	defer func() {
		if tdErr := backend.Teardown(); tdErr != nil {
			logger.Error("backend teardown failed", logging.Error(tdErr))
			if err == nil {
				err = services.Wrap(services.ErrProcessing, "processor", "teardown", backend.Name(), tdErr)
			}
		}
	}()

	env := plugin.Environment{
		RepoRoot:     repoRoot,
		ManifestPath: manifestPath,
		Release:      opts.Release,
		Logger:       p.logger,
	}
	if setupErr := backend.Setup(ctx, env); setupErr != nil {
		err = services.Wrap(services.ErrProcessing, "processor", "setup", backend.Name(), setupErr)
		return outcome, err
	}

	doc, loadErr := manifest.Load(manifestPath)
	if loadErr != nil {
		err = loadErr
		return outcome, err
	}

	for component := range doc.Walk() {
		if !opts.Filter.Matches(component) {
			logger.Debug("component filtered out", logging.String("id", component.ID))
			continue
		}
		outcome.Total++

		files, abort := p.resolveFiles(logger, component, manifestPath, repoRoot, opts.FailFast, &outcome)
		if abort != nil {
			err = abort
			return outcome, err
		}

		ok, loadErr := backend.LoadComponent(services.WithComponentID(ctx, component.ID), component, files)
		switch {
		case loadErr != nil:
			wrapped := services.Wrap(services.ErrProcessing, "processor", "load", fmt.Sprintf("backend error processing %s", component.ID), loadErr)
			logger.Error("backend error", logging.String("id", component.ID), logging.Error(loadErr))
			if opts.FailFast {
				err = wrapped
				return outcome, err
			}
			outcome.Recorded = append(outcome.Recorded, wrapped)
		case !ok:
			wrapped := services.Wrap(services.ErrProcessing, "processor", "load", fmt.Sprintf("failed to process component %s", component.ID), nil)
			logger.Error("component rejected", logging.String("id", component.ID))
			if opts.FailFast {
				err = wrapped
				return outcome, err
			}
			outcome.Recorded = append(outcome.Recorded, wrapped)
		default:
			logger.Debug("component processed", logging.String("id", component.ID))
			outcome.Succeeded++
		}
	}

	return outcome, nil
}

// resolveFiles computes absolute paths for a component's file references and
// drops the ones that do not exist. A missing file aborts the run under
// fail-fast; otherwise it is recorded and omitted from the returned set.
func (p *Processor) resolveFiles(logger *slog.Logger, component manifest.Component, manifestPath, repoRoot string, failFast bool, outcome *Outcome) ([]string, error) {
	var files []string
	for _, ref := range component.Files {
		path := manifest.ResolveFilePath(manifestPath, ref.Path, repoRoot)
		if _, statErr := os.Stat(path); statErr != nil {
			missing := services.Wrap(services.ErrNotFound, "processor", "resolve", fmt.Sprintf("missing file: %s", path), nil)
			logger.Error("missing file", logging.String("id", component.ID), logging.String("path", path))
			if failFast {
				return nil, missing
			}
			outcome.Recorded = append(outcome.Recorded, missing)
			continue
		}
		files = append(files, path)
	}
	return files, nil
}
