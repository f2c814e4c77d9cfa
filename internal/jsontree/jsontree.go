// Package jsontree provides defensive accessors for untyped JSON values.
// Every converter input is an arbitrarily shaped document; all lookups
// tolerate missing keys, wrong types, and nulls at any level.
package jsontree

// Lookup walks a chain of object keys starting at v. It returns the value at
// the end of the path, or false if any step is missing or not an object.
func Lookup(v any, keys ...string) (any, bool) {
	cur := v
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether the full key path exists, regardless of the value type.
func Has(v any, keys ...string) bool {
	_, ok := Lookup(v, keys...)
	return ok
}

// Map returns the object at the key path, or false if absent or not an object.
func Map(v any, keys ...string) (map[string]any, bool) {
	got, ok := Lookup(v, keys...)
	if !ok {
		return nil, false
	}
	m, ok := got.(map[string]any)
	return m, ok
}

// Slice returns the array at the key path, or false if absent or not an array.
func Slice(v any, keys ...string) ([]any, bool) {
	got, ok := Lookup(v, keys...)
	if !ok {
		return nil, false
	}
	s, ok := got.([]any)
	return s, ok
}

// String returns the string at the key path, or false if absent or not a string.
func String(v any, keys ...string) (string, bool) {
	got, ok := Lookup(v, keys...)
	if !ok {
		return "", false
	}
	s, ok := got.(string)
	return s, ok
}

// StringOr returns the string at the key path, or def when it is missing or
// not a string.
func StringOr(def string, v any, keys ...string) string {
	s, ok := String(v, keys...)
	if !ok {
		return def
	}
	return s
}

// SliceOr returns the array at the key path, or an empty slice when it is
// missing or not an array. The result is never nil.
func SliceOr(v any, keys ...string) []any {
	s, ok := Slice(v, keys...)
	if !ok || s == nil {
		return []any{}
	}
	return s
}
