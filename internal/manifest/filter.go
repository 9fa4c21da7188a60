package manifest

import "strings"

// Filter selects components by kind and name. Zero-valued fields always
// pass. Filtering is per-component and non-cascading: excluding a parent
// says nothing about its children, which are evaluated independently.
type Filter struct {
	// Kind, when set, requires an exact match on the component kind.
	Kind ComponentKind
	// Name, when set, requires a case-insensitive substring match on the id.
	Name string
}

// IsZero reports whether the filter passes everything.
func (f Filter) IsZero() bool {
	return f.Kind == "" && f.Name == ""
}

// Matches reports whether the component passes the filter.
func (f Filter) Matches(c Component) bool {
	if f.Kind != "" && c.Kind != f.Kind {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(c.ID), strings.ToLower(f.Name)) {
		return false
	}
	return true
}
