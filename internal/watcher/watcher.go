package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"hornetflow/internal/logging"
	"hornetflow/internal/services"
)

// RunFunc is invoked once per detected metadata file.
type RunFunc func(ctx context.Context, metadataPath string) error

// Options configures a watch session.
type Options struct {
	// Dir is the directory to observe. It must exist.
	Dir string
	// Filename is the exact metadata file name to react to.
	Filename string
	// Stability is how long a file's size must hold steady before the
	// run fires. Guards against reacting to partially written files.
	Stability time.Duration
	// Recursive extends the watch to subdirectories, present and future.
	Recursive bool
	// Once stops after the first triggered run.
	Once bool
}

// Watcher observes a directory for metadata files and triggers workflow
// runs. Run failures are logged and watching continues; only a broken
// watch itself ends the session.
type Watcher struct {
	opts   Options
	run    RunFunc
	logger *slog.Logger

	// lastRun suppresses the duplicate Create+Write bursts editors and
	// copies produce for a single file.
	lastRun map[string]time.Time
}

// New validates the options and builds a Watcher.
func New(opts Options, run RunFunc, logger *slog.Logger) (*Watcher, error) {
	info, err := os.Stat(opts.Dir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrInput, "watcher", "new", "watch directory does not exist: "+opts.Dir, nil)
	}
	if opts.Filename == "" || strings.ContainsRune(opts.Filename, os.PathSeparator) {
		return nil, services.Wrap(services.ErrInput, "watcher", "new", "metadata filename must be a bare file name", nil)
	}
	if opts.Stability <= 0 {
		opts.Stability = 2 * time.Second
	}
	if run == nil {
		return nil, services.Wrap(services.ErrInput, "watcher", "new", "run function is required", nil)
	}
	return &Watcher{
		opts:    opts,
		run:     run,
		logger:  logging.WithComponent(logger, "watcher"),
		lastRun: make(map[string]time.Time),
	}, nil
}

// Watch scans for existing metadata files, then blocks observing the
// directory until the context is cancelled or, in once mode, the first
// run finishes.
func (w *Watcher) Watch(ctx context.Context) error {
	triggered, err := w.scanExisting(ctx)
	if err != nil {
		return err
	}
	if triggered && w.opts.Once {
		return nil
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return services.Wrap(services.ErrProcessing, "watcher", "watch", "start filesystem watcher", err)
	}
	defer func() { _ = notifier.Close() }()

	if err := w.addWatches(notifier); err != nil {
		return err
	}
	w.logger.Info("watching",
		logging.String("dir", w.opts.Dir),
		logging.String("filename", w.opts.Filename),
		logging.Bool("recursive", w.opts.Recursive))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			done, err := w.handleEvent(ctx, notifier, event)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case watchErr, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", logging.Error(watchErr))
		}
	}
}

func (w *Watcher) addWatches(notifier *fsnotify.Watcher) error {
	if !w.opts.Recursive {
		if err := notifier.Add(w.opts.Dir); err != nil {
			return services.Wrap(services.ErrProcessing, "watcher", "watch", "watch directory "+w.opts.Dir, err)
		}
		return nil
	}
	return filepath.WalkDir(w.opts.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return err
		}
		if addErr := notifier.Add(path); addErr != nil {
			return services.Wrap(services.ErrProcessing, "watcher", "watch", "watch directory "+path, addErr)
		}
		return nil
	})
}

// scanExisting triggers runs for metadata files already on disk when the
// session starts. Returns whether a run succeeded, which is what ends a
// single-shot session; failed runs leave the session going.
func (w *Watcher) scanExisting(ctx context.Context) (bool, error) {
	var matches []string
	if w.opts.Recursive {
		walkErr := filepath.WalkDir(w.opts.Dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && entry.Name() == w.opts.Filename {
				matches = append(matches, path)
			}
			return nil
		})
		if walkErr != nil {
			return false, services.Wrap(services.ErrProcessing, "watcher", "scan", "scan watch directory", walkErr)
		}
	} else {
		path := filepath.Join(w.opts.Dir, w.opts.Filename)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			matches = append(matches, path)
		}
	}

	for _, path := range matches {
		runErr := w.trigger(ctx, path)
		if w.opts.Once && runErr == nil {
			return true, nil
		}
	}
	return false, nil
}

func (w *Watcher) handleEvent(ctx context.Context, notifier *fsnotify.Watcher, event fsnotify.Event) (done bool, err error) {
	if w.opts.Recursive && event.Op.Has(fsnotify.Create) {
		if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
			if addErr := notifier.Add(event.Name); addErr != nil {
				w.logger.Error("watch new directory", logging.String("dir", event.Name), logging.Error(addErr))
			}
			return false, nil
		}
	}

	if filepath.Base(event.Name) != w.opts.Filename {
		return false, nil
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false, nil
	}
	if last, seen := w.lastRun[event.Name]; seen && time.Since(last) < w.opts.Stability {
		return false, nil
	}

	if err := w.waitStable(ctx, event.Name); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		w.logger.Warn("file not stable, skipping", logging.String("path", event.Name), logging.Error(err))
		return false, nil
	}
	runErr := w.trigger(ctx, event.Name)
	return w.opts.Once && runErr == nil, nil
}

// waitStable samples the file size twice, one stability window apart. A
// zero or changing size means the writer has not finished; the caller skips
// the file and waits for its next filesystem event.
func (w *Watcher) waitStable(ctx context.Context, path string) error {
	before, err := os.Stat(path)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(w.opts.Stability):
	}
	after, err := os.Stat(path)
	if err != nil {
		return err
	}
	if after.Size() == 0 || after.Size() != before.Size() {
		return services.Wrap(services.ErrProcessing, "watcher", "stability", "file size still changing: "+path, nil)
	}
	return nil
}

func (w *Watcher) trigger(ctx context.Context, path string) error {
	w.lastRun[path] = time.Now()
	w.logger.Info("metadata file detected", logging.String("path", path))
	if err := w.run(ctx, path); err != nil {
		w.logger.Error("workflow run failed", logging.String("path", path), logging.Error(err))
		return err
	}
	return nil
}
