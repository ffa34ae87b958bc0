// Package attrs implements dotted-path access over untyped input mappings.
package attrs

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Get returns the value at key. A literal top-level key wins over path
// walking, so {"a.b": 1} resolves "a.b" without descending into "a".
func Get(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}
	return walk(m, strings.Split(key, "."))
}

// Has reports whether key resolves to a value (including nil). For dotted
// keys a mapping that only exists as a prefix of deeper paths also counts.
func Has(m map[string]any, key string) bool {
	_, ok := Get(m, key)
	return ok
}

func walk(cur any, segs []string) (any, bool) {
	for _, seg := range segs {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			next, ok := walkReflect(node, seg)
			if !ok {
				return nil, false
			}
			cur = next
		}
	}
	return cur, true
}

// walkReflect covers typed maps and slices (map[string]string, []map[string]any, ...).
func walkReflect(node any, seg string) (any, bool) {
	rv := reflect.ValueOf(node)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		if m, ok := AsMap(node); ok {
			v, ok := m[seg]
			return v, ok
		}
		return nil, false
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	default:
		return nil, false
	}
}

// Dot flattens m into dotted keys. Empty mappings and lists are kept as
// leaves so their keys remain visible.
func Dot(m map[string]any) map[string]any {
	out := make(map[string]any)
	dot(out, "", m)
	return out
}

func dot(out map[string]any, prefix string, v any) {
	switch node := v.(type) {
	case map[string]any:
		if len(node) == 0 && prefix != "" {
			out[prefix] = node
			return
		}
		for k, child := range node {
			dot(out, join(prefix, k), child)
		}
	case []any:
		if len(node) == 0 && prefix != "" {
			out[prefix] = node
			return
		}
		for i, child := range node {
			dot(out, join(prefix, strconv.Itoa(i)), child)
		}
	default:
		if prefix != "" {
			out[prefix] = v
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Keys returns the keys of a flattened mapping in lexical order.
func Keys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies nested maps and slices so callers may mutate the copy.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		return Clone(node)
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return v
	}
}

// AsMap normalizes mapping-like values (map[string]any, map[any]any,
// map[string]string, ...) to map[string]any.
func AsMap(v any) (map[string]any, bool) {
	switch node := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return node, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := cast.ToStringE(iter.Key().Interface())
		if err != nil {
			return nil, false
		}
		m[k] = iter.Value().Interface()
	}
	return m, true
}

// IsEmpty mirrors the loose emptiness test used by the transformers: nil,
// empty string and empty collections are empty.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
