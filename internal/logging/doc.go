// Package logging assembles the structured slog loggers used across
// hornet-flow.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers so workflow code tags log lines with
// run IDs, component IDs, and plugin names the same way everywhere. The
// package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
