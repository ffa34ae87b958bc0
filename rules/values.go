package rules

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/reoring/dataobj/internal/coerce"
)

// numericRules switch size rules to numeric comparison.
var numericRules = []string{"numeric", "integer", "decimal"}

// toNumber reports v as a float when it is a number or a numeric string.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch {
	case isIntLike(rv.Kind()):
		return float64(toInt64(rv)), true
	case isFloatLike(rv.Kind()):
		return rv.Float(), true
	}
	return 0, false
}

// isInteger accepts integer types, integral floats and integer strings.
func isInteger(v any) bool {
	switch x := v.(type) {
	case json.Number:
		_, err := strconv.ParseInt(x.String(), 10, 64)
		return err == nil
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return err == nil
	case bool:
		return false
	}
	rv := reflect.ValueOf(v)
	switch {
	case isIntLike(rv.Kind()):
		return true
	case isFloatLike(rv.Kind()):
		f := rv.Float()
		return f == math.Trunc(f) && !math.IsInf(f, 0)
	}
	return false
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

// sizeOf measures v: its numeric value when numeric rules apply, the item
// count of lists, or the character length otherwise.
func sizeOf(v any, numeric bool) float64 {
	if numeric {
		if f, ok := toNumber(v); ok {
			return f
		}
	}
	if v == nil {
		return 0
	}
	if isList(v) {
		return float64(reflect.ValueOf(v).Len())
	}
	s, _ := coerce.String(v)
	return float64(utf8.RuneCountInString(s))
}

// isEmpty mirrors the "required" notion of emptiness.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	if isList(v) {
		return reflect.ValueOf(v).Len() == 0
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloatLike(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func toInt64(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return 0
	}
}

// stringOf renders scalars for comparison against rule parameters.
func stringOf(v any) (string, bool) {
	if v == nil || isList(v) {
		return "", false
	}
	s, err := coerce.String(v)
	return s, err == nil
}
