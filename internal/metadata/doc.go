// Package metadata loads the metadata documents that point a workflow run at
// a repository release. The release section is validated against an embedded
// JSON Schema before use; everything else in the document is ignored.
package metadata
