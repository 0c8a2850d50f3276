package localstore

import (
	"context"
	"testing"

	"category-manager/core/reconcile"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogStore_Apply(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	input := `[
  {"id": 12, "name": "Leather", "parentId": "7", "path": "Furniture > Sofas > Leather", "level": 3, "slug": "leather"},
  {"id": "13", "name": "Sofas", "parentId": 1, "path": "Furniture > Sofas", "level": 2},
  {"id": 14, "name": "Lamps", "path": "Lighting > Lamps", "level": 2},
  {"id": 15, "name": "Orphan"},
  "garbage"
]`
	require.NoError(t, afero.WriteFile(fs, "data/category_catalog.json", []byte(input), 0o644))
	store := NewCatalogStore(NewFiles(fs, nil, zap.NewNop()), "data/category_catalog.json", zap.NewNop())

	res, err := store.Apply(ctx, rules("Furniture > Sofas", "Furniture > Couches"), reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Changed)
	assert.Equal(t, []string{"1 catalog entries have no path: 15"}, res.Advisories)

	data, err := afero.ReadFile(fs, "data/category_catalog.json")
	require.NoError(t, err)
	assert.Equal(t, `[
  {
    "id": 12,
    "name": "Leather",
    "parentId": "7",
    "path": "Furniture > Couches > Leather",
    "level": 3,
    "slug": "leather"
  },
  {
    "id": "13",
    "name": "Couches",
    "parentId": 1,
    "path": "Furniture > Couches",
    "level": 2
  },
  {
    "id": 14,
    "name": "Lamps",
    "path": "Lighting > Lamps",
    "level": 2
  },
  {
    "id": 15,
    "name": "Orphan"
  },
  "garbage"
]
`, string(data))

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, CatalogEntry{ID: "12", Name: "Leather", ParentID: "7", Path: "Furniture > Couches > Leather", Level: 3}, entries[0])
	assert.Equal(t, "13", entries[1].ID)
	assert.Equal(t, "1", entries[1].ParentID)

	res, err = store.Apply(ctx, rules("Furniture > Sofas", "Furniture > Couches"), reconcile.Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Changed)
}

func TestCatalogStore_NoFalsePrefix(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "c.json", []byte(`[{"id":1,"name":"AB","path":"AB","level":1}]`), 0o644))
	store := NewCatalogStore(NewFiles(fs, nil, zap.NewNop()), "c.json", zap.NewNop())

	res, err := store.Apply(context.Background(), rules("A", "X"), reconcile.Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Changed)
}

func TestCatalogStore_LoosePathNormalizedOnMatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "c.json", []byte(`[{"id":1,"path":"Furniture>Sofas"},{"id":2,"path":"Lighting >Lamps"}]`), 0o644))
	store := NewCatalogStore(NewFiles(fs, nil, zap.NewNop()), "c.json", zap.NewNop())

	res, err := store.Apply(context.Background(), rules("Furniture > Sofas", "Furniture > Couches"), reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Changed)

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Furniture > Couches", entries[0].Path)
	assert.Equal(t, "Couches", entries[0].Name)
	assert.Equal(t, 2, entries[0].Level)
	assert.Equal(t, "Lighting >Lamps", entries[1].Path)
}
