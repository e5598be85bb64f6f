// Package models defines data structures for folioscope
package models

import "strconv"

// Snapshot is the merged and derived result of one poll cycle: an
// arbitrarily nested tree of string-keyed maps, lists, and scalars.
// A snapshot is replaced wholesale each cycle; readers must not mutate it.
type Snapshot map[string]any

// Map returns the nested map at key, or ok=false when the key is absent
// or holds a non-map value.
func (s Snapshot) Map(key string) (map[string]any, bool) {
	return AsMap(s[key])
}

// List returns the list at key, or ok=false when absent or non-list.
func (s Snapshot) List(key string) ([]any, bool) {
	return AsList(s[key])
}

// Clone returns a deep copy of the snapshot. Maps and lists are copied,
// scalars are shared.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot(cloneMap(s))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// AsMap reports v as a string-keyed map.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// AsList reports v as a list.
func AsList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// AsFloat reports v as a float64. Numeric strings are accepted because
// the v2 API returns monetary amounts as strings.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsString reports v as a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool reports v as a bool.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// IsScalar reports whether v is a displayable scalar (not a map or list).
func IsScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any, nil:
		return false
	default:
		return true
	}
}

// MapAt returns the map element at index i, bounds-checked.
func MapAt(list []any, i int) (map[string]any, bool) {
	if i < 0 || i >= len(list) {
		return nil, false
	}
	return AsMap(list[i])
}

// FirstFloat resolves the first present numeric value among the ordered
// candidate field names.
func FirstFloat(m map[string]any, fields ...string) (float64, bool) {
	for _, f := range fields {
		if v, ok := m[f]; ok {
			if n, ok := AsFloat(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// FirstString resolves the first present non-empty string among the
// ordered candidate field names.
func FirstString(m map[string]any, fields ...string) (string, bool) {
	for _, f := range fields {
		if v, ok := m[f]; ok {
			if s, ok := AsString(v); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
