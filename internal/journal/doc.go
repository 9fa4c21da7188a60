// Package journal persists workflow run history in SQLite.
//
// The Store records one row per run (trigger, source, plugin, counts,
// status, error text) and serves the `runs list` command. The database is
// an append-only history, not coordination state: nothing in the workflow
// reads it back at run time, and journal failures are logged by callers
// rather than failing the run.
package journal
