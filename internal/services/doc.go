// Package services defines shared utilities consumed by the workflow
// orchestrator, the manifest processor, and the external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     into the input / not-found / validation / processing taxonomy callers
//     branch on.
//   - Context helpers that stamp run IDs, component IDs, and plugin names
//     for logging.
//
// Use these helpers when wiring new workflow logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
