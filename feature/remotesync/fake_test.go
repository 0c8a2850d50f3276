package remotesync

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"category-manager/core/reconcile"
	"category-manager/core/remote"
)

// fakeRemote is an in-memory category service.
type fakeRemote struct {
	cats     map[int64]remote.Category
	products map[int64][]int64
	nextID   int64
	calls    []string
	fail     map[string]error
}

func newFakeRemote(cats ...remote.Category) *fakeRemote {
	f := &fakeRemote{
		cats:     make(map[int64]remote.Category),
		products: make(map[int64][]int64),
		nextID:   1000,
		fail:     make(map[string]error),
	}
	for _, c := range cats {
		f.cats[c.ID] = c
	}
	return f
}

func (f *fakeRemote) writes() []string {
	var out []string
	for _, c := range f.calls {
		if c != "fetch" && !isList(c) {
			out = append(out, c)
		}
	}
	return out
}

func isList(call string) bool {
	return len(call) > 5 && call[:5] == "list "
}

func (f *fakeRemote) record(call string) error {
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeRemote) FetchAll(context.Context) ([]remote.Category, error) {
	if err := f.record("fetch"); err != nil {
		return nil, err
	}
	out := make([]remote.Category, 0, len(f.cats))
	for _, c := range f.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRemote) Create(_ context.Context, name string, parentID int64) (int64, error) {
	if err := f.record(fmt.Sprintf("create %s@%d", name, parentID)); err != nil {
		return 0, err
	}
	f.nextID++
	f.cats[f.nextID] = remote.Category{ID: f.nextID, Name: name, Parent: parentID}
	return f.nextID, nil
}

func (f *fakeRemote) SetParent(_ context.Context, id, parentID int64) error {
	if err := f.record(fmt.Sprintf("parent %d->%d", id, parentID)); err != nil {
		return err
	}
	c := f.cats[id]
	c.Parent = parentID
	f.cats[id] = c
	return nil
}

func (f *fakeRemote) Rename(_ context.Context, id int64, name string) error {
	if err := f.record(fmt.Sprintf("rename %d %s", id, name)); err != nil {
		return err
	}
	c := f.cats[id]
	c.Name = name
	f.cats[id] = c
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, id int64) error {
	if err := f.record(fmt.Sprintf("delete %d", id)); err != nil {
		return err
	}
	delete(f.cats, id)
	return nil
}

func (f *fakeRemote) ListProductsByCategory(_ context.Context, id int64) ([]remote.ProductRef, error) {
	if err := f.record(fmt.Sprintf("list %d", id)); err != nil {
		return nil, err
	}
	var out []remote.ProductRef
	for pid, cats := range f.products {
		if slices.Contains(cats, id) {
			out = append(out, remote.ProductRef{ID: pid, CategoryIDs: append([]int64(nil), cats...)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRemote) SetProductCategories(_ context.Context, productID int64, ids []int64) error {
	if err := f.record(fmt.Sprintf("assign %d %v", productID, ids)); err != nil {
		return err
	}
	f.products[productID] = append([]int64(nil), ids...)
	return nil
}

// relocatingRemote also supports the single-call rename and reparent.
type relocatingRemote struct {
	*fakeRemote
}

func (f relocatingRemote) Relocate(_ context.Context, id int64, name string, parentID int64) error {
	if err := f.record(fmt.Sprintf("relocate %d %s@%d", id, name, parentID)); err != nil {
		return err
	}
	c := f.cats[id]
	c.Name = name
	c.Parent = parentID
	f.cats[id] = c
	return nil
}

// pathIndex resolves the fake's current tree into path -> ids.
func (f *fakeRemote) pathIndex() map[string][]int64 {
	cats, _ := f.FetchAll(context.Background())
	f.calls = f.calls[:len(f.calls)-1]
	out := make(map[string][]int64)
	for id, p := range NewTree(cats).Paths() {
		out[p] = append(out[p], id)
	}
	for _, ids := range out {
		sortIDs(ids)
	}
	return out
}

type mutationLog struct {
	mutations []reconcile.Mutation
}

func (m *mutationLog) RecordMutation(_ context.Context, mut reconcile.Mutation) error {
	m.mutations = append(m.mutations, mut)
	return nil
}

func (m *mutationLog) count(kind reconcile.MutationKind) int {
	n := 0
	for _, mut := range m.mutations {
		if mut.Kind == kind {
			n++
		}
	}
	return n
}
