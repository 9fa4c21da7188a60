package manifest

import "iter"

// Walk returns a lazy depth-first pre-order sequence over the document's
// components. Parents are always yielded before their children so consumers
// can rebuild the hierarchy incrementally. The sequence is finite and can be
// ranged over any number of times; each invocation restarts from the first
// root component.
//
// No cycle detection or id-uniqueness validation happens here; the input is
// assumed to be a tree.
func (d *Document) Walk() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		walkNodes(d.Components, nil, yield)
	}
}

func walkNodes(nodes []Node, ancestors []string, yield func(Component) bool) bool {
	for _, node := range nodes {
		component := Component{
			ID:           node.ID,
			Kind:         node.Kind,
			Description:  node.Description,
			Files:        append([]File(nil), node.Files...),
			AncestorPath: append([]string(nil), ancestors...),
		}
		if !yield(component) {
			return false
		}
		if len(node.Components) > 0 {
			childAncestors := append(append([]string(nil), ancestors...), node.ID)
			if !walkNodes(node.Components, childAncestors, yield) {
				return false
			}
		}
	}
	return true
}

// CountComponents reports the total number of components in the tree.
func (d *Document) CountComponents() int {
	total := 0
	for range d.Walk() {
		total++
	}
	return total
}
