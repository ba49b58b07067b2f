// Package normalize rewrites externally sourced record keys into the
// snake_case naming the storage schema uses. The scraping provider emits
// camelCase keys; everything downstream of it expects snake_case.
package normalize

import "strings"

// Keys returns a deep copy of v in which every map key has been rewritten
// from camelCase to snake_case. It recurses into []interface{} elements and
// map values. Scalars and nil pass through unchanged. The input is never
// mutated.
//
// Keys is total for JSON-decoded values (map[string]interface{},
// []interface{}, string, float64, bool, nil): it has no failure modes.
func Keys(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			out[SnakeCase(k)] = Keys(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = Keys(elem)
		}
		return out
	default:
		return v
	}
}

// SnakeCase converts a single camelCase key to snake_case. Each uppercase
// letter is prefixed with an underscore and lowered; keys already in
// snake_case come back unchanged.
func SnakeCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
