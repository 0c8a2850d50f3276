package localstore

import (
	"context"
	"testing"

	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rules(pairs ...string) taxonomy.RuleSet {
	var rs []taxonomy.Rule
	for i := 0; i+1 < len(pairs); i += 2 {
		rs = append(rs, taxonomy.Rule{Old: pairs[i], New: pairs[i+1]})
	}
	return taxonomy.NewRuleSet(rs...)
}

func TestRewriteTranslations(t *testing.T) {
	tests := []struct {
		name    string
		in      Translations
		rules   taxonomy.RuleSet
		want    Translations
		changed int
	}{
		{
			name:    "MovedKeyKeepsAlias",
			in:      Translations{"Tools": "Tööriistad"},
			rules:   rules("Tools", "Equipment"),
			want:    Translations{"Equipment": "Tööriistad", "Tools": "Equipment"},
			changed: 2,
		},
		{
			name:  "DescendantsAndValues",
			in:    Translations{"Garden > Tools": "Aed > Tööriistad", "Garden": "Aed"},
			rules: rules("Aed > Tööriistad", "Aed > Varustus"),
			want: Translations{
				"Garden > Tools":   "Aed > Varustus",
				"Garden":           "Aed",
				"Aed > Tööriistad": "Aed > Varustus",
			},
			changed: 2,
		},
		{
			name:  "BackfillsOldPathsUnderNew",
			in:    Translations{"Equipment > Saws": "Saed"},
			rules: rules("Tools", "Equipment"),
			want: Translations{
				"Equipment > Saws": "Saed",
				"Tools":            "Equipment",
				"Tools > Saws":     "Equipment > Saws",
			},
			changed: 2,
		},
		{
			name:    "SelfValueCleared",
			in:      Translations{"Lamps": "Lamps"},
			rules:   rules("Tools", "Equipment"),
			want:    Translations{"Lamps": "", "Tools": "Equipment"},
			changed: 2,
		},
		{
			name:  "SelfValuedEntryIsMoved",
			in:    Translations{"Tools > Saws": "Tools > Saws"},
			rules: rules("Tools", "Equipment"),
			want: Translations{
				"Equipment > Saws": "",
				"Tools > Saws":     "Equipment > Saws",
				"Tools":            "Equipment",
			},
			changed: 4,
		},
		{
			name:    "EmptyMoveDoesNotClobber",
			in:      Translations{"Tools": "", "Equipment": "Varustus"},
			rules:   rules("Tools", "Equipment"),
			want:    Translations{"Equipment": "Varustus", "Tools": "Equipment"},
			changed: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RewriteTranslations(tt.in, tt.rules)
			assert.Equal(t, tt.want, out.Translations)
			assert.Equal(t, tt.changed, out.Changed)

			again := RewriteTranslations(out.Translations, tt.rules)
			assert.Equal(t, tt.want, again.Translations)
			assert.Zero(t, again.Changed, "second run must be a no-op")
		})
	}
}

func TestRewriteTranslations_ConflictKeepsTarget(t *testing.T) {
	out := RewriteTranslations(Translations{"Tools": "Tööriistad", "Equipment": "Varustus"}, rules("Tools", "Equipment"))

	assert.Equal(t, "Varustus", out.Translations["Equipment"])
	assert.Equal(t, "Equipment", out.Translations["Tools"])
	assert.Equal(t, []string{"Tools -> Equipment"}, out.Conflicts)
}

func TestTranslations_MarshalSortsCaseInsensitively(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := NewFiles(fs, nil, zap.NewNop())

	require.NoError(t, files.WriteJSON(context.Background(), "run", "t.json", Translations{
		"b": "x", "A": "y & z", "Õ > a": "",
	}))

	data, err := afero.ReadFile(fs, "t.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"A\": \"y & z\",\n  \"b\": \"x\",\n  \"Õ > a\": \"\"\n}\n", string(data))
}

func TestTranslationStore_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesAndIsIdempotent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "category_translation.json", []byte(`{"Tools": "Tööriistad", "Lamps": null}`), 0o644))
		store := NewTranslationStore(NewFiles(fs, nil, zap.NewNop()), "category_translation.json", zap.NewNop())

		res, err := store.Apply(ctx, rules("Tools", "Equipment"), reconcile.Options{RunID: "r1"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Changed)
		assert.Contains(t, res.Advisories, "1 categories have no translation")

		dict, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, Translations{"Equipment": "Tööriistad", "Tools": "Equipment", "Lamps": ""}, dict)

		res, err = store.Apply(ctx, rules("Tools", "Equipment"), reconcile.Options{RunID: "r2"})
		require.NoError(t, err)
		assert.Zero(t, res.Changed)
	})

	t.Run("DryRunLeavesFile", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		original := []byte(`{"Tools": "Tööriistad"}`)
		require.NoError(t, afero.WriteFile(fs, "t.json", original, 0o644))
		store := NewTranslationStore(NewFiles(fs, nil, zap.NewNop()), "t.json", zap.NewNop())

		res, err := store.Apply(ctx, rules("Tools", "Equipment"), reconcile.Options{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Changed)

		data, err := afero.ReadFile(fs, "t.json")
		require.NoError(t, err)
		assert.Equal(t, original, data)
	})

	t.Run("MissingFileSkipped", func(t *testing.T) {
		store := NewTranslationStore(NewFiles(afero.NewMemMapFs(), nil, zap.NewNop()), "nope.json", zap.NewNop())

		res, err := store.Apply(ctx, rules("Tools", "Equipment"), reconcile.Options{})
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Contains(t, res.Reason, "file not found")
	})

	t.Run("CorruptFileSkipped", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "t.json", []byte(`["not", "a", "dict"]`), 0o644))
		store := NewTranslationStore(NewFiles(fs, nil, zap.NewNop()), "t.json", zap.NewNop())

		res, err := store.Apply(ctx, rules("Tools", "Equipment"), reconcile.Options{})
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Zero(t, res.Changed)
	})
}
