// Package cast converts transformed input values into a field's declared Go
// type, recursing into nested targets through a Filler.
package cast

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/reoring/dataobj/internal/attrs"
	"github.com/reoring/dataobj/internal/coerce"
	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/schema"
	"github.com/reoring/dataobj/transform"
)

// Filler builds a new nested target of type rt from input and returns a
// pointer to it.
type Filler interface {
	FillNew(ctx context.Context, rt reflect.Type, input map[string]any) (reflect.Value, error)
}

// Caster casts values for the fields of one target type.
type Caster struct {
	Filler Filler
	Type   *schema.Type
}

// Cast returns v converted to f's declared type. The result is assignable to
// the field.
func (c Caster) Cast(ctx context.Context, v any, f *schema.Field) (reflect.Value, error) {
	return c.castTo(ctx, v, f.Type, f)
}

func (c Caster) typeName() string {
	if c.Type == nil {
		return ""
	}
	return c.Type.Name
}

func (c Caster) invalid(f *schema.Field, format string, a ...any) error {
	return fault.New(fault.ErrInvalidCast, c.typeName(), f.Name, fmt.Sprintf(format, a...))
}

func (c Caster) castTo(ctx context.Context, v any, td *schema.TypeDesc, f *schema.Field) (reflect.Value, error) {
	if v == nil {
		if td.Nullable {
			return reflect.Zero(td.Go), nil
		}
		return reflect.Value{}, c.invalid(f, "cannot assign null or empty value to a field of type [%s]", td.Go)
	}
	switch td.Kind {
	case schema.KindScalar:
		return c.scalar(v, td, f)
	case schema.KindEnum:
		return c.enum(v, td, f)
	case schema.KindObject:
		return c.object(ctx, v, td, f)
	case schema.KindCollection:
		return c.collection(ctx, v, td, f)
	case schema.KindUnion:
		return c.union(ctx, v, td, f)
	case schema.KindDate:
		return c.date(v, td, f)
	default:
		out, err := Assign(v, td.Go)
		if err != nil {
			return reflect.Value{}, fault.Wrap(fault.ErrInvalidCast, c.typeName(), f.Name, "", err)
		}
		return out, nil
	}
}

func (c Caster) scalar(v any, td *schema.TypeDesc, f *schema.Field) (reflect.Value, error) {
	out, err := coerce.Scalar(v, td.Base)
	if err != nil {
		return reflect.Value{}, fault.Wrap(fault.ErrInvalidCast, c.typeName(), f.Name, "", err)
	}
	if out.Kind() == reflect.String && !f.NoTrim {
		out.SetString(strings.TrimSpace(out.String()))
	}
	return pointerTo(out, td), nil
}

func (c Caster) enum(v any, td *schema.TypeDesc, f *schema.Field) (reflect.Value, error) {
	s, ok := v.(string)
	if !ok {
		rv := reflect.ValueOf(v)
		switch {
		case rv.Type() == td.Base:
			return pointerTo(rv, td), nil
		case rv.Type() == reflect.PointerTo(td.Base) && !rv.IsNil():
			return pointerTo(rv.Elem(), td), nil
		}
		// Other values must name a member through their string form.
		str, err := coerce.String(v)
		if err != nil {
			return reflect.Value{}, fault.Wrap(fault.ErrInvalidCast, c.typeName(), f.Name, "", err)
		}
		s = str
	}
	for _, ev := range schema.EnumValues(td.Base) {
		if ev != s {
			continue
		}
		out, err := coerce.Scalar(s, td.Base)
		if err != nil {
			return reflect.Value{}, fault.Wrap(fault.ErrInvalidCast, c.typeName(), f.Name, "", err)
		}
		return pointerTo(out, td), nil
	}
	if td.Nullable {
		return reflect.Zero(td.Go), nil
	}
	return reflect.Value{}, c.invalid(f, "%q is not a valid backing value for enum %s", s, td.Base)
}

func (c Caster) object(ctx context.Context, v any, td *schema.TypeDesc, f *schema.Field) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type() == td.Base:
		return pointerTo(rv, td), nil
	case rv.Type() == reflect.PointerTo(td.Base):
		if rv.IsNil() {
			return c.castTo(ctx, nil, td, f)
		}
		if td.Go.Kind() == reflect.Pointer {
			return rv, nil
		}
		return rv.Elem(), nil
	}
	ptr, err := c.fillNew(ctx, td.Base, v)
	if err != nil {
		return reflect.Value{}, err
	}
	if td.Go.Kind() == reflect.Pointer {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

// fillNew runs the fill pipeline for a nested target. Values that are not
// mappings produce an instance filled from empty input.
func (c Caster) fillNew(ctx context.Context, rt reflect.Type, v any) (reflect.Value, error) {
	input := map[string]any{}
	if p, ok := v.(schema.AttributeProvider); ok {
		input = p.ToAttributes()
	} else if m, ok := attrs.AsMap(v); ok {
		input = m
	}
	return c.Filler.FillNew(ctx, rt, input)
}

func (c Caster) collection(ctx context.Context, v any, td *schema.TypeDesc, f *schema.Field) (reflect.Value, error) {
	items := elements(v)
	out := reflect.MakeSlice(td.Go, 0, len(items))
	for _, item := range items {
		ev, err := c.element(ctx, item, td.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, ev)
	}
	return out, nil
}

func (c Caster) element(ctx context.Context, item any, elem *schema.TypeDesc) (reflect.Value, error) {
	if elem.Kind != schema.KindObject {
		rec := reflect.New(elem.Go).Elem()
		m, ok := attrs.AsMap(item)
		if !ok {
			m = map[string]any{}
		}
		rec.Set(reflect.ValueOf(m).Convert(elem.Go))
		return rec, nil
	}
	if item != nil {
		rv := reflect.ValueOf(item)
		if rv.Type() == elem.Go {
			return rv, nil
		}
		if rv.Type() == elem.Base {
			return pointerTo(rv, elem), nil
		}
	}
	ptr, err := c.fillNew(ctx, elem.Base, item)
	if err != nil {
		return reflect.Value{}, err
	}
	if elem.Go.Kind() == reflect.Pointer {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

// elements lists the items of an iterable-like value. Mappings yield their
// values in key order; other non-iterables become a single item.
func elements(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case nil:
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	case reflect.Map:
		m, ok := attrs.AsMap(v)
		if !ok {
			return nil
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = m[k]
		}
		return out
	}
	return []any{v}
}

// union casts against the first castable option. When none is castable the
// value passes through unchanged, provided the field's interface type can
// hold it.
func (c Caster) union(ctx context.Context, v any, td *schema.TypeDesc, f *schema.Field) (reflect.Value, error) {
	for _, opt := range td.Options {
		if !opt.Castable() {
			continue
		}
		out, err := c.castTo(ctx, v, opt, f)
		if err != nil {
			return reflect.Value{}, err
		}
		if !out.Type().AssignableTo(td.Go) {
			return reflect.Value{}, c.invalid(f, "union option %s is not assignable to %s", out.Type(), td.Go)
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(td.Go) {
		return reflect.Value{}, c.invalid(f, "%s is not assignable to %s", rv.Type(), td.Go)
	}
	return rv, nil
}

func (c Caster) date(v any, td *schema.TypeDesc, f *schema.Field) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Type() == td.Base {
		return pointerTo(rv, td), nil
	}
	if rv.Type() == reflect.PointerTo(td.Base) && !rv.IsNil() {
		return pointerTo(rv.Elem(), td), nil
	}
	tm, err := transform.ParseTime(v, nil)
	if err != nil {
		return reflect.Value{}, fault.Wrap(fault.ErrInvalidCast, c.typeName(), f.Name, "cannot parse date", err)
	}
	return pointerTo(reflect.ValueOf(tm).Convert(td.Base), td), nil
}

func pointerTo(v reflect.Value, td *schema.TypeDesc) reflect.Value {
	if td.Go.Kind() != reflect.Pointer {
		return v
	}
	p := reflect.New(td.Base)
	p.Elem().Set(v)
	return p
}
