package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hornetflow/internal/deps"
	"hornetflow/internal/journal"
	"hornetflow/internal/logging"
	"hornetflow/internal/notifications"
	"hornetflow/internal/services"
	"hornetflow/internal/workflow"
)

func newWorkflowCommand(ctx *commandContext) *cobra.Command {
	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Run CAD manifest workflows",
	}
	workflowCmd.AddCommand(newWorkflowRunCommand(ctx))
	return workflowCmd
}

func newWorkflowRunCommand(ctx *commandContext) *cobra.Command {
	var opts workflow.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Provision a repository and process its CAD manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts.Trigger = "cli"
			result, err := executeRun(runCtx, ctx, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s complete\n", result.RunID)
			fmt.Fprintf(out, "Repository: %s\n", result.RepoPath)
			if result.Release != nil && result.Release.Label != "" {
				fmt.Fprintf(out, "Release: %s\n", result.Release.Label)
			}
			fmt.Fprintf(out, "Components processed: %d/%d\n", result.Outcome.Succeeded, result.Outcome.Total)
			for _, recorded := range result.Outcome.Recorded {
				fmt.Fprintf(out, "  error: %v\n", recorded)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.MetadataPath, "metadata-path", "", "Path to a release metadata file")
	cmd.Flags().StringVar(&opts.RepoURL, "repo-url", "", "Repository URL to clone")
	cmd.Flags().StringVar(&opts.RepoCommit, "repo-commit", "", "Commit, tag, or branch to check out (default main)")
	cmd.Flags().StringVar(&opts.RepoPath, "repo-path", "", "Existing local repository to process in place")
	cmd.Flags().StringVar(&opts.Plugin, "plugin", "", "Backend plugin (default from config)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Abort on the first component error")
	cmd.Flags().StringVar(&opts.TypeFilter, "filter-type", "", "Only process components of this type (assembly or part)")
	cmd.Flags().StringVar(&opts.NameFilter, "filter-name", "", "Only process components whose id contains this text")
	return cmd
}

// executeRun wires the dispatcher, notifications, and journal around one
// workflow run. The run is recorded whether it succeeds or fails.
func executeRun(runCtx context.Context, ctx *commandContext, opts workflow.RunOptions) (workflow.Result, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return workflow.Result{}, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return workflow.Result{}, err
	}

	dispatcher := workflow.NewDispatcher(logger)
	notifications.Attach(dispatcher, notifications.NewService(cfg))

	if opts.RepoPath == "" {
		if missing := deps.MissingRequired(deps.CheckBinaries(deps.Defaults())); len(missing) > 0 {
			return workflow.Result{}, services.Wrap(services.ErrProcessing, "cli", "preflight",
				"missing required dependencies: "+strings.Join(missing, ", "), nil)
		}
	}

	// Journal problems are logged and never fail the run itself.
	var store *journal.Store
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg)
		if err != nil {
			logger.Error("open journal", logging.Error(err))
			store = nil
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	started := time.Now().UTC()
	runner := workflow.NewRunner(cfg, dispatcher, logger)
	result, runErr := runner.Run(runCtx, opts)

	if store != nil && result.RunID != "" {
		record := journal.Run{
			ID:           result.RunID,
			Trigger:      opts.Trigger,
			MetadataPath: opts.MetadataPath,
			RepoURL:      opts.RepoURL,
			RepoCommit:   opts.RepoCommit,
			RepoPath:     result.RepoPath,
			Plugin:       opts.Plugin,
			Status:       services.Category(runErr),
			Succeeded:    result.Outcome.Succeeded,
			Total:        result.Outcome.Total,
			StartedAt:    started,
			FinishedAt:   time.Now().UTC(),
		}
		if opts.Plugin == "" {
			record.Plugin = cfg.Workflow.DefaultPlugin
		}
		if runErr != nil {
			record.ErrorMessage = runErr.Error()
		}
		if recordErr := store.Record(runCtx, record); recordErr != nil {
			logger.Error("record run", logging.Error(recordErr))
		}
	}
	return result, runErr
}
