package remotesync

// SyncContext carries the per-run state of a synchronization. A fresh
// context is created for every run.
type SyncContext struct {
	// Tree is the in-memory snapshot, kept in step with every write.
	Tree *Tree
	// PathIndex maps a resolved path to its node id.
	PathIndex map[string]int64
	// Redirects maps a merged-away id to the id it was merged into.
	Redirects map[int64]int64
}

// NewSyncContext creates a context for the tree.
func NewSyncContext(tree *Tree) *SyncContext {
	c := &SyncContext{
		Tree:      tree,
		Redirects: make(map[int64]int64),
	}
	c.Reindex()
	return c
}

// Reindex rebuilds PathIndex from the tree.
func (c *SyncContext) Reindex() {
	c.PathIndex = c.Tree.Index()
}

// Lookup returns the id at path.
func (c *SyncContext) Lookup(path string) (int64, bool) {
	id, ok := c.PathIndex[path]
	return id, ok
}

// Resolve follows redirects from merged ids to the surviving id.
func (c *SyncContext) Resolve(id int64) int64 {
	seen := make(map[int64]bool)
	for {
		next, ok := c.Redirects[id]
		if !ok || seen[id] {
			return id
		}
		seen[id] = true
		id = next
	}
}
