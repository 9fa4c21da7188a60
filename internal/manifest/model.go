package manifest

// ComponentKind distinguishes assemblies from parts.
type ComponentKind string

const (
	KindAssembly ComponentKind = "assembly"
	KindPart     ComponentKind = "part"
)

// FileKind identifies the CAD file format of a component file reference.
type FileKind string

const (
	FileKindPart       FileKind = "solidworks_part"
	FileKindAssembly   FileKind = "solidworks_assembly"
	FileKindStepExport FileKind = "step_export"
)

// File is a single file reference inside a component.
type File struct {
	Path string   `json:"path"`
	Kind FileKind `json:"type"`
}

// Node is the raw nested component structure as it appears in the manifest
// document. Only assemblies carry child components.
type Node struct {
	ID          string        `json:"id"`
	Kind        ComponentKind `json:"type"`
	Description string        `json:"description"`
	Files       []File        `json:"files"`
	Components  []Node        `json:"components,omitempty"`
}

// Document is a parsed manifest file.
type Document struct {
	Schema     string `json:"$schema"`
	Repository string `json:"repository"`
	Components []Node `json:"components"`
}

// Component is one flattened node produced by walking a Document.
// AncestorPath holds the ids of all proper ancestors, root first, so its
// length equals the component's nesting depth. Values are built once during
// traversal and never mutated afterwards.
type Component struct {
	ID           string
	Kind         ComponentKind
	Description  string
	Files        []File
	AncestorPath []string
}

// ParentID returns the immediate parent's id, or "" for a root component.
func (c Component) ParentID() string {
	if len(c.AncestorPath) == 0 {
		return ""
	}
	return c.AncestorPath[len(c.AncestorPath)-1]
}

// Depth reports how deeply the component is nested; root components are 0.
func (c Component) Depth() int { return len(c.AncestorPath) }
