package localstore

import (
	"context"
	"encoding/json"
	"testing"

	"category-manager/core/reconcile"
	"category-manager/core/utils"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const groupedInput = `{
  "Furniture > Sofas": [
    {
      "sku": "1",
      "category": {"path": "Furniture > Sofas", "translated_path": "Mööbel > Diivanid", "leaf_name": "Diivanid"},
      "categories": [{"id": 5, "name": "Diivanid"}, {"id": 1, "name": "Mööbel"}],
      "price": 199.9
    }
  ],
  "Furniture > Couches": [
    {"sku": "2", "category": {"path": "Furniture > Couches"}}
  ],
  "Lighting": [
    {"sku": "3", "category": null},
    "legacy"
  ]
}`

func TestGroupedStore_Apply(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "grouped.json", []byte(groupedInput), 0o644))
	store := NewGroupedStore(NewFiles(fs, nil, zap.NewNop()), "grouped.json", zap.NewNop())
	rs := rules("Furniture > Sofas", "Furniture > Couches", "Mööbel > Diivanid", "Mööbel > Pehme mööbel")

	res, err := store.Apply(ctx, rs, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Changed)

	groups := utils.NewObject()
	require.NoError(t, NewFiles(fs, nil, nil).ReadJSON("grouped.json", groups))
	assert.Equal(t, []string{"Furniture > Couches", "Lighting"}, groups.Keys())

	var couches []struct {
		SKU        string          `json:"sku"`
		Category   ProductCategory `json:"category"`
		Categories []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
		Price float64 `json:"price"`
	}
	_, err = groups.Decode("Furniture > Couches", &couches)
	require.NoError(t, err)
	require.Len(t, couches, 2)

	assert.Equal(t, "1", couches[0].SKU)
	assert.Equal(t, ProductCategory{
		Path:           "Furniture > Couches",
		TranslatedPath: "Mööbel > Pehme mööbel",
		LeafName:       "Pehme mööbel",
	}, couches[0].Category)
	assert.Equal(t, "Pehme mööbel", couches[0].Categories[0].Name)
	assert.Equal(t, "Mööbel", couches[0].Categories[1].Name)
	assert.Equal(t, 199.9, couches[0].Price)

	assert.Equal(t, "2", couches[1].SKU)
	assert.Equal(t, "Couches", couches[1].Category.LeafName)

	var lighting []json.RawMessage
	_, err = groups.Decode("Lighting", &lighting)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sku":"3","category":null}`, string(lighting[0]))
	assert.JSONEq(t, `"legacy"`, string(lighting[1]))

	res, err = store.Apply(ctx, rs, reconcile.Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Changed)
}

func TestGroupedStore_GroupNotAList(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "grouped.json", []byte(`{"A": {"sku": "1"}}`), 0o644))
	store := NewGroupedStore(NewFiles(fs, nil, zap.NewNop()), "grouped.json", zap.NewNop())

	res, err := store.Apply(context.Background(), rules("A", "B"), reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
}

func TestProductListStore_Apply(t *testing.T) {
	fs := afero.NewMemMapFs()
	input := `[{"sku":"9","category":{"path":"Tools > Saws","translated_path":"","leaf_name":"Saws"},"categories":[{"name":"Saws"}]}]`
	require.NoError(t, afero.WriteFile(fs, "list.json", []byte(input), 0o644))
	store := NewProductListStore(NewFiles(fs, nil, zap.NewNop()), "list.json", zap.NewNop())

	res, err := store.Apply(context.Background(), rules("Tools > Saws", "Tools > Cutting"), reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Changed)

	var out []map[string]any
	require.NoError(t, NewFiles(fs, nil, nil).ReadJSON("list.json", &out))
	cat := out[0]["category"].(map[string]any)
	assert.Equal(t, "Tools > Cutting", cat["path"])
	assert.Equal(t, "", cat["translated_path"])
	assert.Equal(t, "Cutting", cat["leaf_name"])
	assert.Equal(t, "Cutting", out[0]["categories"].([]any)[0].(map[string]any)["name"])
}

func TestProductCategoryOf(t *testing.T) {
	var p utils.Object
	require.NoError(t, json.Unmarshal([]byte(`{"category":{"path":"A > B","leaf_name":"B"}}`), &p))

	pc, ok := ProductCategoryOf(&p)
	require.True(t, ok)
	assert.Equal(t, ProductCategory{Path: "A > B", LeafName: "B"}, pc)

	var empty utils.Object
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	_, ok = ProductCategoryOf(&empty)
	assert.False(t, ok)
}
