// Package notifications delivers workflow run milestones via ntfy.
//
// The service publishes to the topic configured in config.toml and
// gracefully degrades to a no-op when no topic is set. Attach wires the
// service onto the workflow event dispatcher so runs notify without any
// HTTP glue in the orchestrator.
package notifications
