// Package manifest models hornet manifest documents and the operations the
// processor needs over them: parsing, depth-first traversal with ancestor
// tracking, file path resolution, component filtering, well-known manifest
// discovery, and $schema validation against a downloaded JSON Schema.
package manifest
