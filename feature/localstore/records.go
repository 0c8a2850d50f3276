package localstore

import (
	"encoding/json"
	"fmt"

	"category-manager/core/taxonomy"
	"category-manager/core/utils"

	"github.com/tidwall/gjson"
)

// record is one element of a JSON list. Objects are decoded so they can be
// edited; anything else is carried through verbatim.
type record struct {
	obj *utils.Object
	raw json.RawMessage
}

func (r record) MarshalJSON() ([]byte, error) {
	if r.obj != nil {
		return r.obj.MarshalJSON()
	}
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func (r *record) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		r.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	r.obj = utils.NewObject()
	return r.obj.UnmarshalJSON(data)
}

func isObject(data []byte) bool {
	return gjson.ParseBytes(data).IsObject()
}

// decodeObject reads member key of o as an object, or nil when it is absent
// or not an object.
func decodeObject(o *utils.Object, key string) (*utils.Object, error) {
	res := o.Get(key)
	if !res.IsObject() {
		return nil, nil
	}
	sub := utils.NewObject()
	if err := sub.UnmarshalJSON([]byte(res.Raw)); err != nil {
		return nil, fmt.Errorf("member %q: %w", key, err)
	}
	return sub, nil
}

// rewritePath applies the rules to path. Loosely formatted paths are only
// normalized when a rule actually matches them.
func rewritePath(rules taxonomy.RuleSet, path string) string {
	norm := taxonomy.NormalizePath(path)
	if norm == "" {
		return path
	}
	out := rules.Rewrite(norm)
	if out == norm {
		return path
	}
	return out
}
