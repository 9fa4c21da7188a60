package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"hornetflow/internal/watcher"
	"hornetflow/internal/workflow"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var (
		once      bool
		recursive bool
		filename  string
		plugin    string
		failFast  bool
	)

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory for release metadata and run workflows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			// One watcher per machine; concurrent clones into the same
			// workdir tree would race.
			lock := flock.New(filepath.Join(cfg.WorkDirPath(), "hornet-flow-watch.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire watch lock: %w", err)
			}
			if !locked {
				return errors.New("another hornet-flow watch instance is already running")
			}
			defer func() { _ = lock.Unlock() }()

			if filename == "" {
				filename = cfg.Watcher.MetadataFilename
			}
			if !cmd.Flags().Changed("recursive") {
				recursive = cfg.Watcher.Recursive
			}

			run := func(runCtx context.Context, metadataPath string) error {
				_, runErr := executeRun(runCtx, ctx, workflow.RunOptions{
					MetadataPath: metadataPath,
					Trigger:      "watcher",
					Plugin:       plugin,
					FailFast:     failFast,
				})
				return runErr
			}

			w, err := watcher.New(watcher.Options{
				Dir:       args[0],
				Filename:  filename,
				Stability: cfg.StabilityWindow(),
				Recursive: recursive,
				Once:      once,
			}, run, logger)
			if err != nil {
				return err
			}

			watchCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := w.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Exit after the first triggered run")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Watch subdirectories too")
	cmd.Flags().StringVar(&filename, "filename", "", "Metadata file name to react to (default from config)")
	cmd.Flags().StringVar(&plugin, "plugin", "", "Backend plugin for triggered runs")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Abort triggered runs on the first component error")
	return cmd
}
