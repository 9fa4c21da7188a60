// Package processor feeds manifest components through a backend plugin.
//
// Process walks the manifest tree in pre-order, applies the component
// filter before anything is counted, resolves each surviving component's
// file references against the repository, and hands the component to the
// backend. Failures are recorded and the walk continues, unless fail-fast
// is set, in which case the first failure aborts the run. The backend's
// Teardown is guaranteed to run exactly once on every exit path.
package processor
