package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrNotObject is returned when a document that must be a JSON object is not.
var ErrNotObject = errors.New("expected JSON object")

// Object is a JSON object kept in its encoded form. Members are read with
// gjson and edited in place with sjson, so a file can be rewritten without
// reshuffling or dropping fields.
type Object struct {
	raw []byte
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{raw: []byte("{}")}
}

func (o *Object) doc() []byte {
	if len(o.raw) == 0 {
		return []byte("{}")
	}
	return o.raw
}

// UnmarshalJSON implements json.Unmarshaler. null yields an empty object.
func (o *Object) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid JSON", ErrNotObject)
	}
	res := gjson.ParseBytes(data)
	switch {
	case res.Type == gjson.Null:
		o.raw = nil
		return nil
	case !res.IsObject():
		return fmt.Errorf("%w, got %s", ErrNotObject, truncateRaw(res.Raw))
	}
	o.raw = append([]byte(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	return o.doc(), nil
}

// Keys returns the member names in document order.
func (o *Object) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	gjson.ParseBytes(o.doc()).ForEach(func(key, _ gjson.Result) bool {
		if !seen[key.Str] {
			seen[key.Str] = true
			keys = append(keys, key.Str)
		}
		return true
	})
	return keys
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.Keys())
}

// Get returns the member named key. The name is matched literally.
func (o *Object) Get(key string) gjson.Result {
	return gjson.GetBytes(o.doc(), gjson.Escape(key))
}

// Path returns the value at a gjson path such as "categories.0.name".
func (o *Object) Path(path string) gjson.Result {
	return gjson.GetBytes(o.doc(), path)
}

// Has reports whether the member exists.
func (o *Object) Has(key string) bool {
	return o.Get(key).Exists()
}

// Raw returns the raw member value.
func (o *Object) Raw(key string) (json.RawMessage, bool) {
	res := o.Get(key)
	if !res.Exists() {
		return nil, false
	}
	return json.RawMessage(res.Raw), true
}

// String returns the member as a string, "" when absent or not scalar.
func (o *Object) String(key string) string {
	return ResultString(o.Get(key))
}

// Decode unmarshals the member into v. It reports false when the member is absent.
func (o *Object) Decode(key string, v any) (bool, error) {
	raw, ok := o.Raw(key)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// Set stores v under key. New members are appended; existing members keep
// their position.
func (o *Object) Set(key string, v any) error {
	if o.Has(key) {
		return o.SetPath(gjson.Escape(key), v)
	}
	return o.appendMember(key, v)
}

// appendMember adds a new member after the last one. sjson encodes non-ASCII
// member names with json.Marshal, which would turn " > " into " \u003e ".
func (o *Object) appendMember(key string, v any) error {
	name, err := MarshalNoEscape(key)
	if err != nil {
		return fmt.Errorf("member %q: %w", key, err)
	}
	raw, err := MarshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("member %q: %w", key, err)
	}

	doc := bytes.TrimSpace(o.doc())
	body := bytes.TrimRight(doc[:len(doc)-1], " \t\r\n")
	out := make([]byte, 0, len(body)+len(name)+len(raw)+3)
	out = append(out, body...)
	if body[len(body)-1] != '{' {
		out = append(out, ',')
	}
	out = append(out, name...)
	out = append(out, ':')
	out = append(out, raw...)
	o.raw = append(out, '}')
	return nil
}

// SetPath stores v at a gjson path, creating intermediate objects as needed.
func (o *Object) SetPath(path string, v any) error {
	raw, err := MarshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("member %q: %w", path, err)
	}
	out, err := sjson.SetRawBytes(o.doc(), path, raw)
	if err != nil {
		return fmt.Errorf("member %q: %w", path, err)
	}
	o.raw = out
	return nil
}

func truncateRaw(s string) string {
	if len(s) > 20 {
		return s[:20] + "..."
	}
	return s
}

// MarshalNoEscape encodes v like json.Marshal but leaves <, > and & alone.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent encodes v with two-space indentation, no HTML escaping and a
// trailing newline.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
