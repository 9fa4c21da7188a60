// Package config loads, normalizes, and validates the TOML configuration
// that drives hornet-flow.
//
// Load resolves the file from an explicit path, the user config directory,
// or a project-local hornet-flow.toml, fills in defaults for anything left
// unset, and expands ~ in every path field. The embedded sample document is
// what `hornet-flow config init` writes out.
package config
