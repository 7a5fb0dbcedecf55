// internal/formdata/accessor.go
package formdata

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	apperrors "actionbridge/internal/common/errors"
)

// Map is the loosely typed form configuration produced by the query builder.
type Map map[string]interface{}

// keys that may sit next to "data" in the builder's wrapped value format
var wrapperKeys = map[string]bool{
	"data":          true,
	"componentData": true,
	"viewType":      true,
	"jsonData":      true,
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case Map:
		return t, true
	}
	return nil, false
}

func isWrapper(v interface{}) (map[string]interface{}, bool) {
	obj, ok := asObject(v)
	if !ok {
		return nil, false
	}
	if _, ok := obj["data"]; !ok {
		return nil, false
	}
	for k := range obj {
		if !wrapperKeys[k] {
			return nil, false
		}
	}
	return obj, true
}

func unwrap(v interface{}) interface{} {
	if obj, ok := isWrapper(v); ok {
		return obj["data"]
	}
	return v
}

// Lookup returns the raw value at field. A flat key wins over a dotted path.
func Lookup(m Map, field string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[field]; ok {
		return unwrap(v), true
	}
	if !strings.Contains(field, ".") {
		return nil, false
	}

	var cur interface{} = map[string]interface{}(m)
	for _, part := range strings.Split(field, ".") {
		obj, ok := asObject(unwrap(cur))
		if !ok {
			return nil, false
		}
		if cur, ok = obj[part]; !ok {
			return nil, false
		}
	}
	return unwrap(cur), true
}

// Present reports whether field holds a non-nil, non-blank value.
func Present(m Map, field string) bool {
	v, ok := Lookup(m, field)
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Set writes value at field, creating intermediate objects for dotted paths.
// A wrapped {"data": …} value keeps its wrapper.
func Set(m Map, field string, value interface{}) {
	if m == nil {
		return
	}
	if existing, ok := m[field]; ok || !strings.Contains(field, ".") {
		if w, ok := isWrapper(existing); ok {
			w["data"] = value
			return
		}
		m[field] = value
		return
	}

	parts := strings.Split(field, ".")
	cur := map[string]interface{}(m)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asObject(unwrap(cur[part]))
		if !ok {
			next = map[string]interface{}{}
			cur[part] = next
		}
		cur = next
	}
	last := parts[len(parts)-1]
	if w, ok := isWrapper(cur[last]); ok {
		w["data"] = value
		return
	}
	cur[last] = value
}

// Clone deep-copies nested objects and lists so a request can mutate its own snapshot.
func Clone(m Map) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case Map:
		return Clone(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	}
	return v
}

func GetString(m Map, field, def string) (string, error) {
	v, ok := Lookup(m, field)
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		return s, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case json.Number:
		return t.String(), nil
	}
	return "", apperrors.NewConfigurationTypeError(field, "string", v)
}

func GetBool(m Map, field string, def bool) (bool, error) {
	v, ok := Lookup(m, field)
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		b, err := strconv.ParseBool(strings.ToLower(s))
		if err != nil {
			return false, apperrors.NewConfigurationTypeError(field, "boolean", v)
		}
		return b, nil
	}
	return false, apperrors.NewConfigurationTypeError(field, "boolean", v)
}

func GetInt64(m Map, field string, def int64) (int64, error) {
	v, ok := Lookup(m, field)
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, apperrors.NewConfigurationTypeError(field, "integer", v)
		}
		return int64(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, apperrors.NewConfigurationTypeError(field, "integer", v)
		}
		return n, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, apperrors.NewConfigurationTypeError(field, "integer", v)
		}
		return n, nil
	}
	return 0, apperrors.NewConfigurationTypeError(field, "integer", v)
}

func GetInt(m Map, field string, def int) (int, error) {
	n, err := GetInt64(m, field, int64(def))
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, apperrors.NewConfigurationTypeError(field, "int32", n)
	}
	return int(n), nil
}

func GetObject(m Map, field string, def map[string]interface{}) (map[string]interface{}, error) {
	v, ok := Lookup(m, field)
	if !ok || v == nil {
		return def, nil
	}
	if obj, ok := asObject(v); ok {
		return obj, nil
	}
	return nil, apperrors.NewConfigurationTypeError(field, "object", v)
}

func GetList(m Map, field string, def []interface{}) ([]interface{}, error) {
	v, ok := Lookup(m, field)
	if !ok || v == nil {
		return def, nil
	}
	if l, ok := v.([]interface{}); ok {
		return l, nil
	}
	return nil, apperrors.NewConfigurationTypeError(field, "list", v)
}
