package taxonomy

import "strings"

// Node is one entry of a flat category tree.
// A zero ParentID marks a root node.
type Node[ID comparable] struct {
	ID       ID
	Name     string
	ParentID ID
}

// Resolve computes the full path of every node.
//
// Results are memoized across the batch. A node whose parent chain loops back
// onto a node still being resolved gets "" for that ancestor, so cycles degrade
// to a partial path instead of recursing forever. A parent missing from the
// set is treated the same way, and a node that points at itself is a root.
func Resolve[ID comparable](nodes map[ID]Node[ID]) map[ID]string {
	r := &resolver[ID]{
		nodes:    nodes,
		cache:    make(map[ID]string, len(nodes)),
		visiting: make(map[ID]struct{}),
	}
	for id := range nodes {
		r.path(id)
	}
	return r.cache
}

type resolver[ID comparable] struct {
	nodes    map[ID]Node[ID]
	cache    map[ID]string
	visiting map[ID]struct{}
}

func (r *resolver[ID]) path(id ID) string {
	if p, ok := r.cache[id]; ok {
		return p
	}
	if _, ok := r.visiting[id]; ok {
		return ""
	}
	node, ok := r.nodes[id]
	if !ok {
		return ""
	}

	r.visiting[id] = struct{}{}
	defer delete(r.visiting, id)

	var zero ID
	name := strings.TrimSpace(node.Name)
	full := name
	if node.ParentID != zero && node.ParentID != id {
		if parent := r.path(node.ParentID); parent != "" {
			full = parent + Separator + name
		}
	}
	r.cache[id] = full
	return full
}
