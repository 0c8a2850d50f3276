package remotesync

import (
	"testing"

	"category-manager/core/remote"

	"github.com/stretchr/testify/assert"
)

func sampleTree() *Tree {
	return NewTree([]remote.Category{
		{ID: 1, Name: "Furniture"},
		{ID: 2, Name: " Sofas ", Parent: 1},
		{ID: 3, Name: "Leather", Parent: 2},
		{ID: 4, Name: "Furniture"},
		{ID: 5, Name: "Sofas", Parent: 4},
		{ID: 0, Name: "ignored"},
	})
}

func TestTree_Paths(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, "Furniture > Sofas > Leather", tree.Path(3))
	assert.Equal(t, "Furniture > Sofas", tree.Path(5))
	assert.Equal(t, "", tree.Path(99))

	index := tree.Index()
	assert.Equal(t, int64(1), index["Furniture"])
	assert.Equal(t, int64(2), index["Furniture > Sofas"])
}

func TestTree_Duplicates(t *testing.T) {
	assert.Equal(t, [][]int64{{1, 4}, {2, 5}}, sampleTree().Duplicates())
}

func TestTree_Navigation(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, []int64{2}, tree.Children(1))
	id, ok := tree.ChildByName(4, "Sofas")
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)
	_, ok = tree.ChildByName(4, "Leather")
	assert.False(t, ok)

	assert.Equal(t, []int64{2, 1}, tree.Ancestors(3))
	assert.True(t, tree.IsAncestor(1, 3))
	assert.False(t, tree.IsAncestor(3, 1))
}

func TestTree_MutationsInvalidatePaths(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, "Furniture > Sofas > Leather", tree.Path(3))

	tree.Move(2, "Couches", 4)
	assert.Equal(t, "Furniture > Couches > Leather", tree.Path(3))

	id := tree.Placeholder()
	assert.Equal(t, int64(-1), id)
	tree.Add(id, "Home", 0)
	assert.Equal(t, int64(-2), tree.Placeholder())
	assert.Equal(t, "Home", tree.Path(id))

	tree.Remove(4)
	assert.False(t, tree.Has(4))
	assert.Equal(t, "Couches > Leather", tree.Path(3))
}

func TestTree_CycleSafe(t *testing.T) {
	tree := NewTree([]remote.Category{
		{ID: 1, Name: "A", Parent: 2},
		{ID: 2, Name: "B", Parent: 1},
		{ID: 3, Name: "C", Parent: 3},
	})

	assert.NotPanics(t, func() {
		_ = tree.Paths()
		_ = tree.Ancestors(1)
		_ = tree.Duplicates()
	})
	assert.Equal(t, []int64{2}, tree.Ancestors(1))
	assert.Equal(t, "C", tree.Path(3))
}
