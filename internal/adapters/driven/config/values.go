// Package config holds the flat key/value representation shared by the
// ConfigStore adapters.
package config

import "sort"

// Values maps dot-separated keys ("import.max_file_size") to decoded
// values. TOML decodes integers as int64 and floats as float64; values set
// from Go code may also be int. Accessors return the zero value on a
// missing key or a type they cannot convert.
type Values map[string]any

// String returns the string at key.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Int64 returns the integer at key. Whole floats are accepted.
func (v Values) Int64(key string) int64 {
	switch n := v[key].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
	}
	return 0
}

// Float returns the number at key as float64.
func (v Values) Float(key string) float64 {
	switch n := v[key].(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// Bool returns the boolean at key.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
