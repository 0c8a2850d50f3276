package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ToInt64 converts various types to int64 using explicit type switching.
// It handles integer types, floats, json.Number, strings and byte slices.
// Unparseable input yields 0.
func ToInt64(val any) int64 {
	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return int64(f)
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i
	case []byte:
		i, _ := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return i
	default:
		return 0
	}
}

// ToString converts various types to string. Nil becomes "".
// Whole floats are printed without a fraction so JSON ids decoded as
// float64 keep their original form.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// RawString decodes a raw JSON value as a string. Numbers are rendered in
// their JSON form; null, objects and arrays yield "".
func RawString(raw json.RawMessage) string {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return ""
	}
	return ResultString(gjson.ParseBytes(raw))
}

// ResultString renders a scalar gjson result as a string. Numbers keep their
// JSON form; null, objects and arrays yield "".
func ResultString(res gjson.Result) string {
	switch res.Type {
	case gjson.String:
		return res.Str
	case gjson.Number, gjson.True, gjson.False:
		return res.Raw
	default:
		return ""
	}
}
