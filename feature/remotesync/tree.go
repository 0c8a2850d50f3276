package remotesync

import (
	"sort"
	"strings"

	"category-manager/core/remote"
	"category-manager/core/taxonomy"
)

// Node is one category in the arena.
type Node struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Parent int64  `json:"parent"`
	Count  int    `json:"count,omitempty"`
}

// Tree is an in-memory snapshot of the remote category tree. Nodes are
// indexed by id; paths are recomputed on demand after any change.
type Tree struct {
	nodes       map[int64]Node
	paths       map[int64]string
	placeholder int64
}

// NewTree builds a tree from fetched categories. Entries without an id are ignored.
func NewTree(cats []remote.Category) *Tree {
	t := &Tree{nodes: make(map[int64]Node, len(cats))}
	for _, c := range cats {
		if c.ID == 0 {
			continue
		}
		t.nodes[c.ID] = Node{ID: c.ID, Name: strings.TrimSpace(c.Name), Parent: c.Parent, Count: c.Count}
	}
	return t
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a node by id.
func (t *Tree) Node(id int64) (Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Has reports whether the node exists.
func (t *Tree) Has(id int64) bool {
	_, ok := t.nodes[id]
	return ok
}

// Paths returns the resolved path of every node.
func (t *Tree) Paths() map[int64]string {
	if t.paths == nil {
		flat := make(map[int64]taxonomy.Node[int64], len(t.nodes))
		for id, n := range t.nodes {
			flat[id] = taxonomy.Node[int64]{ID: id, Name: n.Name, ParentID: n.Parent}
		}
		t.paths = taxonomy.Resolve(flat)
	}
	return t.paths
}

// Path returns the resolved path of a node, "" when unknown.
func (t *Tree) Path(id int64) string {
	return t.Paths()[id]
}

// Index maps every non-empty path to the smallest id resolving to it.
func (t *Tree) Index() map[string]int64 {
	index := make(map[string]int64, len(t.nodes))
	for id, p := range t.Paths() {
		if p == "" {
			continue
		}
		if cur, ok := index[p]; !ok || id < cur {
			index[p] = id
		}
	}
	return index
}

// Duplicates returns the groups of ids that share a path, each sorted
// ascending, ordered by path.
func (t *Tree) Duplicates() [][]int64 {
	byPath := make(map[string][]int64)
	for id, p := range t.Paths() {
		if p != "" {
			byPath[p] = append(byPath[p], id)
		}
	}

	paths := make([]string, 0)
	for p, ids := range byPath {
		if len(ids) > 1 {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	groups := make([][]int64, 0, len(paths))
	for _, p := range paths {
		ids := byPath[p]
		sortIDs(ids)
		groups = append(groups, ids)
	}
	return groups
}

// Children returns the direct children of id, sorted by id.
func (t *Tree) Children(id int64) []int64 {
	var out []int64
	for cid, n := range t.nodes {
		if n.Parent == id && cid != id {
			out = append(out, cid)
		}
	}
	sortIDs(out)
	return out
}

// ChildByName returns the smallest-id child of parent with the given name.
func (t *Tree) ChildByName(parent int64, name string) (int64, bool) {
	var (
		found int64
		ok    bool
	)
	for cid, n := range t.nodes {
		if n.Parent != parent || cid == parent || n.Name != name {
			continue
		}
		if !ok || cid < found {
			found, ok = cid, true
		}
	}
	return found, ok
}

// Ancestors returns the ids above id, nearest first. A cycle stops the walk.
func (t *Tree) Ancestors(id int64) []int64 {
	var out []int64
	seen := map[int64]bool{id: true}
	cur := t.nodes[id].Parent
	for cur != 0 && !seen[cur] {
		n, ok := t.nodes[cur]
		if !ok {
			break
		}
		out = append(out, cur)
		seen[cur] = true
		cur = n.Parent
	}
	return out
}

// IsAncestor reports whether a lies above b.
func (t *Tree) IsAncestor(a, b int64) bool {
	for _, id := range t.Ancestors(b) {
		if id == a {
			return true
		}
	}
	return false
}

// Add inserts a node.
func (t *Tree) Add(id int64, name string, parent int64) {
	t.nodes[id] = Node{ID: id, Name: name, Parent: parent}
	t.paths = nil
}

// Placeholder returns a fresh negative id for a node that only exists in a
// dry-run plan.
func (t *Tree) Placeholder() int64 {
	t.placeholder--
	return t.placeholder
}

// Move changes name and parent of a node.
func (t *Tree) Move(id int64, name string, parent int64) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	n.Name = name
	n.Parent = parent
	t.nodes[id] = n
	t.paths = nil
}

// Remove deletes a node. Children keep their parent reference.
func (t *Tree) Remove(id int64) {
	delete(t.nodes, id)
	t.paths = nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
