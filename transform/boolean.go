package transform

import (
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// truthy lists the accepted (lowercase) tokens of the Boolean transformer.
var truthy = []string{"yes", "true", "1", "on", "enabled", "active", "ok", "y"}

// Boolean recognizes boolean-ish tokens. Strings are matched
// case-insensitively against a fixed token list; other values use a loose
// truthiness test.
type Boolean struct{}

// Transform reports whether value is truthy.
func (Boolean) Transform(value any, _, _ string) (any, error) {
	if s, ok := value.(string); ok {
		return slices.Contains(truthy, strings.ToLower(s)), nil
	}
	return Truthy(value), nil
}

// Truthy reports the loose truthiness of v: nil, false, numeric zero and
// empty collections are false.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0
	}
	return true
}
