package localstore

import (
	"context"
	"sort"
	"strings"

	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"
	"category-manager/core/utils"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Translations maps a source category path to its translated path. An empty
// value means the translation is still missing.
type Translations map[string]string

// MarshalJSON writes the keys sorted case-insensitively. An empty key is
// dropped.
func (t Translations) MarshalJSON() ([]byte, error) {
	obj := utils.NewObject()
	for _, key := range sortedKeys(t) {
		if key == "" {
			continue
		}
		if err := obj.Set(key, t[key]); err != nil {
			return nil, err
		}
	}
	return obj.MarshalJSON()
}

// UnmarshalJSON accepts any scalar value; null becomes "".
func (t *Translations) UnmarshalJSON(data []byte) error {
	var obj utils.Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	out := make(Translations)
	gjson.ParseBytes(data).ForEach(func(key, val gjson.Result) bool {
		out[key.Str] = utils.ResultString(val)
		return true
	})
	*t = out
	return nil
}

// Missing returns the keys with an empty translation, sorted.
func (t Translations) Missing() []string {
	var out []string
	for _, key := range sortedKeys(t) {
		if t[key] == "" {
			out = append(out, key)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// TranslationOutcome is the result of rewriting a dictionary.
type TranslationOutcome struct {
	Translations Translations
	Changed      int
	// Conflicts lists moved keys that landed on an existing translation.
	Conflicts []string
}

// RewriteTranslations applies the rules to a translation dictionary.
//
// Keys and values are rewritten. A moved key leaves an alias old -> new
// behind unless the old key still carries a translation. Every rule gets an
// old -> new alias, and every key under a rule's new path gets the matching
// alias under the old path. A value equal to its own key is moved like any
// other entry and then cleared.
// Entries that already are aliases are left alone, which makes a second run
// with the same rules a no-op.
func RewriteTranslations(in Translations, rules taxonomy.RuleSet) TranslationOutcome {
	out := make(Translations, len(in))
	res := TranslationOutcome{Translations: out}

	type move struct{ key, val, newKey, newVal string }
	var moved []move

	for _, key := range sortedKeys(in) {
		val := in[key]
		newKey := rewritePath(rules, key)
		newVal := val
		if val != "" {
			newVal = rewritePath(rules, val)
		}

		// Entries valued with their own key are untranslated, not aliases.
		if newKey != key && val != "" && val != key && newVal == newKey {
			if out[key] == "" {
				out[key] = val
			}
			continue
		}
		if newKey != key {
			moved = append(moved, move{key, val, newKey, newVal})
			continue
		}
		if newVal != val {
			res.Changed++
		}
		out[key] = newVal
	}

	// Moved entries never overwrite a translation already present at the target.
	for _, m := range moved {
		res.Changed++
		cur := out[m.newKey]
		switch {
		case cur == "":
			out[m.newKey] = m.newVal
		case m.newVal != "" && cur != m.newVal:
			res.Conflicts = append(res.Conflicts, m.key+" -> "+m.newKey)
		}
		if out[m.key] == "" {
			out[m.key] = m.newKey
			res.Changed++
		}
	}

	for _, r := range rules {
		if out[r.Old] != "" {
			continue
		}
		out[r.Old] = r.New
		res.Changed++
	}

	for _, r := range rules {
		for _, key := range sortedKeys(out) {
			if !taxonomy.IsWithin(key, r.New) {
				continue
			}
			oldKey := r.Old + key[len(r.New):]
			if out[oldKey] != "" {
				continue
			}
			out[oldKey] = key
			res.Changed++
		}
	}

	for key, val := range out {
		if val != "" && val == key {
			out[key] = ""
			res.Changed++
		}
	}

	return res
}

// TranslationStore rewrites the translation dictionary file.
type TranslationStore struct {
	files  *Files
	path   string
	logger *zap.Logger
}

// NewTranslationStore creates a store for the dictionary at path.
func NewTranslationStore(files *Files, path string, logger *zap.Logger) *TranslationStore {
	return &TranslationStore{files: files, path: path, logger: logger}
}

// Phase implements reconcile.Store.
func (s *TranslationStore) Phase() reconcile.Phase {
	return reconcile.PhaseTranslation
}

// Load reads the dictionary.
func (s *TranslationStore) Load() (Translations, error) {
	var t Translations
	if err := s.files.ReadJSON(s.path, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply implements reconcile.Store.
func (s *TranslationStore) Apply(ctx context.Context, rules taxonomy.RuleSet, opts reconcile.Options) (reconcile.Result, error) {
	var dict Translations
	if res, ok := s.files.load(s.path, &dict); !ok {
		return res, nil
	}

	outcome := RewriteTranslations(dict, rules)

	result := reconcile.Result{Changed: outcome.Changed}
	for _, c := range outcome.Conflicts {
		result.Advise("translation kept at target, moved entry dropped: %s", c)
	}
	if missing := outcome.Translations.Missing(); len(missing) > 0 {
		result.Advise("%d categories have no translation", len(missing))
	}

	if err := s.files.commit(ctx, s.path, outcome.Translations, outcome.Changed, opts); err != nil {
		return result, err
	}
	s.logger.Info("Translation dictionary processed", zap.String("path", s.path), zap.Int("changed", outcome.Changed))
	return result, nil
}
