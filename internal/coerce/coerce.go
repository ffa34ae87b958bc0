// Package coerce implements the permissive scalar conversions used for
// primitive fields and tag defaults.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// IsScalarKind reports whether k is one of the primitive kinds.
func IsScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Scalar converts v to the scalar type t. Numbers use loose parsing (a
// leading numeric prefix, otherwise zero), booleans use Bool.
func Scalar(v any, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		out.SetBool(Bool(v))
	case reflect.String:
		s, err := String(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := Int(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("value %d overflows %s", n, t)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := Uint(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("value %d overflows %s", n, t)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f := Float(v)
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("value %g overflows %s", f, t)
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("%s is not a scalar type", t)
	}
	return out, nil
}

// String converts v to a string.
func String(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if b, ok := v.(bool); ok {
		if b {
			return "1", nil
		}
		return "", nil
	}
	return cast.ToStringE(v)
}

// Int converts v to an integer, truncating floats. Values outside the int64
// range are an error.
func Int(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case uint:
		return uintToInt(uint64(x))
	case uint64:
		return uintToInt(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("value %s overflows int64", x)
		}
		return floatToInt(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err == nil {
			return n, nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("value %s overflows int64", strings.TrimSpace(x))
		}
		return floatToInt(parseLeadingFloat(x))
	}
	if n, err := cast.ToInt64E(v); err == nil {
		return n, nil
	}
	return 0, nil
}

// Uint converts v to an unsigned integer. Negative values are an error.
func Uint(v any) (uint64, error) {
	switch x := v.(type) {
	case uint:
		return uint64(x), nil
	case uint64:
		return x, nil
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(x), 10, 64); err == nil {
			return n, nil
		}
	case json.Number:
		if n, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return n, nil
		}
	}
	n, err := Int(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("cannot assign negative value %d to an unsigned integer", n)
	}
	return uint64(n), nil
}

// 2^63 as a float64; int64 holds [-2^63, 2^63).
const twoTo63 = float64(1 << 63)

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) {
		return 0, nil
	}
	if f >= twoTo63 || f < -twoTo63 {
		return 0, fmt.Errorf("value %g overflows int64", f)
	}
	return int64(f), nil
}

func uintToInt(n uint64) (int64, error) {
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("value %d overflows int64", n)
	}
	return int64(n), nil
}

// Float converts v to a float.
func Float(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		return parseLeadingFloat(x)
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f
	}
	return 0
}

// Bool applies the boolean filter semantics of the scalar cast: "1",
// "true", "on" and "yes" (case-insensitive) are true, anything else is false.
func Bool(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "on", "yes":
			return true
		}
		return false
	}
	if reflect.ValueOf(v).Kind() == reflect.Float32 || reflect.ValueOf(v).Kind() == reflect.Float64 {
		return cast.ToFloat64(v) == 1
	}
	if n, err := cast.ToInt64E(v); err == nil {
		return n == 1
	}
	return false
}

// parseLeadingFloat parses the longest numeric prefix of s.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	for end := numericPrefixLen(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
	}
	return 0
}

func numericPrefixLen(s string) int {
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case (r == '-' || r == '+') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case r == '.' && !seenDot && !seenExp:
			seenDot = true
		case (r == 'e' || r == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			break scan
		}
		end = i + 1
	}
	return end
}
