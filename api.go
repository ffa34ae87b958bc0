package dataobj

import (
	"context"
	"fmt"
	"reflect"

	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/jsonschema"
	"github.com/reoring/dataobj/schema"
	"github.com/reoring/dataobj/source"
)

// From allocates a T and fills it from input. It returns nil on any error.
func From[T any](ctx context.Context, input map[string]any, opts ...Option) (*T, error) {
	var v T
	if err := Fill(ctx, &v, input, opts...); err != nil {
		return nil, err
	}
	return &v, nil
}

// MustFrom is like From but panics on error.
func MustFrom[T any](input map[string]any, opts ...Option) *T {
	v, err := From[T](context.Background(), input, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// FromAttributes fills a T from the mapping p provides.
func FromAttributes[T any](ctx context.Context, p AttributeProvider, opts ...Option) (*T, error) {
	if p == nil {
		return From[T](ctx, nil, opts...)
	}
	return From[T](ctx, p.ToAttributes(), opts...)
}

// FromJSON decodes a JSON object and fills a T from it. Integral numbers
// decode as int64, others as float64.
func FromJSON[T any](ctx context.Context, data []byte, opts ...Option) (*T, error) {
	m, err := source.DecodeJSONBytes(data, source.NumberNative)
	if err != nil {
		return nil, err
	}
	return From[T](ctx, m, opts...)
}

// FromYAML decodes a YAML mapping and fills a T from it.
func FromYAML[T any](ctx context.Context, data []byte, opts ...Option) (*T, error) {
	m, err := source.DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return From[T](ctx, m, opts...)
}

// Fill populates the struct target points to. target must be a non-nil
// pointer to a struct. On error the struct may be partially assigned and
// must not be used.
func Fill(ctx context.Context, target any, input map[string]any, opts ...Option) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fault.New(ErrConfiguration, fmt.Sprintf("%T", target), "", "fill target must be a non-nil pointer to a struct")
	}
	f := &filler{opts: buildOptions(opts)}
	return f.fill(ctx, rv, input)
}

// Describe returns the field descriptors derived for T.
func Describe[T any]() (*schema.Type, error) {
	return schema.Of(reflect.TypeOf((*T)(nil)).Elem())
}

// JSONSchema returns the JSON Schema of the input mapping T is filled from.
func JSONSchema[T any]() (*jsonschema.Schema, error) {
	typ, err := Describe[T]()
	if err != nil {
		return nil, err
	}
	return jsonschema.For(typ)
}

// Register makes T available as a union option under name, as in
// `union:"int,Address"`. Register before the first fill of any type that
// refers to name.
func Register[T any](name string) error {
	return schema.RegisterType(name, reflect.TypeOf((*T)(nil)).Elem())
}
