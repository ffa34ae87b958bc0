package dataobj

import (
	"fmt"
	"reflect"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/dataobj/internal/attrs"
	"github.com/reoring/dataobj/schema"
)

var (
	recordType = reflect.TypeOf(Record{})
	timeType   = reflect.TypeOf(time.Time{})
)

// ToMap converts a filled target into a plain mapping keyed by each field's
// input key. Nested targets and collections of targets are converted
// recursively; other values are copied as is. Fields keyed "-" are
// skipped. The object graph must be acyclic.
func ToMap(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dataobj: ToMap: %T is not a struct", v)
	}
	return structToMap(rv)
}

// ToJSON encodes ToMap(v) as JSON.
func ToJSON(v any) ([]byte, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func structToMap(rv reflect.Value) (map[string]any, error) {
	typ, err := schema.Of(rv.Type())
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(typ.Fields))
	for _, fd := range typ.Fields {
		if fd.Key == "-" {
			continue
		}
		pv, err := plain(rv.FieldByIndex(fd.Index), fd.Type.Kind == schema.KindCollection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fd.Name, err)
		}
		out[fd.Key] = pv
	}
	return out, nil
}

func plain(v reflect.Value, collection bool) (any, error) {
	switch v.Kind() {
	case reflect.Invalid:
		return nil, nil
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			if collection {
				return []any{}, nil
			}
			return nil, nil
		}
		return plain(v.Elem(), collection)
	case reflect.Struct:
		if v.Type() == timeType || v.Type().ConvertibleTo(timeType) {
			return v.Interface(), nil
		}
		return structToMap(v)
	case reflect.Map:
		if v.Type() == recordType {
			return map[string]any(attrs.Clone(v.Interface().(Record))), nil
		}
	case reflect.Slice:
		if !collection {
			break
		}
		out := make([]any, v.Len())
		for i := range out {
			e, err := plain(v.Index(i), false)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}
	return v.Interface(), nil
}
