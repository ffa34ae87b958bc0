package cast

import (
	"fmt"
	"reflect"

	"github.com/reoring/dataobj/internal/attrs"
	"github.com/reoring/dataobj/internal/coerce"
)

// Assign converts v into a value of type t for passthrough fields. It
// handles direct assignment, numeric conversions and element-wise
// conversion of slices and maps.
func Assign(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	switch {
	case t.Kind() == reflect.Pointer:
		inner, err := Assign(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil
	case coerce.IsScalarKind(t.Kind()) && coerce.IsScalarKind(rv.Kind()):
		return coerce.Scalar(v, t)
	case rv.Type().ConvertibleTo(t) && rv.Kind() == t.Kind():
		return rv.Convert(t), nil
	case t.Kind() == reflect.Slice && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := Assign(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case t.Kind() == reflect.Map && rv.Kind() == reflect.Map:
		m, ok := attrs.AsMap(v)
		if !ok {
			break
		}
		out := reflect.MakeMapWithSize(t, len(m))
		for k, val := range m {
			kv, err := Assign(k, t.Key())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			ev, err := Assign(val, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			out.SetMapIndex(kv, ev)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", rv.Type(), t)
}
