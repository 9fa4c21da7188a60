// Package workflow orchestrates end-to-end CAD manifest runs.
//
// The Runner drives one linear pipeline per run: validate inputs, resolve
// the release (metadata file, explicit URL, or introspection of a local
// clone), provision a repository, discover and schema-validate manifests,
// and feed the CAD manifest through the processor. Each stage announces
// itself through the Dispatcher so observers (notifications, journaling,
// concurrent consumers via ReadyGate) can react without being wired into
// the pipeline itself.
//
// Handlers run synchronously in registration order; their errors and
// panics are contained so an observer can never break the run it observes.
// The workflow_completed event fires on every exit path and carries the
// final status and component counts.
package workflow
