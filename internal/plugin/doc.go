// Package plugin defines the backend contract manifest components are fed
// through and the registry backends are selected from by name.
//
// Two backends ship with the tool: "debug", a diagnostic pass-through, and
// "report", which writes the flattened hierarchy as a JSON document.
// Backends that materialize geometry in a host 3-D session implement the
// same interface and register under their own name.
package plugin
