package dataobj

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/reoring/dataobj/internal/attrs"
	"github.com/reoring/dataobj/internal/cast"
	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/internal/resolve"
	"github.com/reoring/dataobj/rules"
	"github.com/reoring/dataobj/schema"
	"github.com/reoring/dataobj/transform"
)

// filler runs the fill pipeline. Nested targets reuse the same filler, so
// they are validated by the same engine.
type filler struct {
	opts options
}

// FillNew implements cast.Filler.
func (f *filler) FillNew(ctx context.Context, rt reflect.Type, input map[string]any) (reflect.Value, error) {
	ptr := reflect.New(rt)
	if err := f.fill(ctx, ptr, input); err != nil {
		return reflect.Value{}, err
	}
	return ptr, nil
}

// fill populates the struct ptr points to.
func (f *filler) fill(ctx context.Context, ptr reflect.Value, input map[string]any) error {
	typ, err := schema.Of(ptr.Type())
	if err != nil {
		return err
	}
	if typ.HasComputed && !ptr.Type().Implements(computerType) {
		return fault.New(ErrConfiguration, typ.Name, "",
			"type with computed fields must implement Compute() error")
	}
	log := f.opts.logger.With("type", typ.Name)
	log.Debug("fill start", "keys", len(input))

	raw := attrs.Clone(input)
	if raw == nil {
		raw = map[string]any{}
	}
	filled := attrs.Clone(raw)
	target := ptr.Interface()
	if bf, ok := target.(BeforeFiller); ok {
		// A nil result keeps the input, even if the hook changed its argument.
		if out := bf.BeforeFill(attrs.Clone(raw)); out != nil {
			filled = out
		}
	}
	if h, ok := target.(attributeHolder); ok {
		h.setAttributes(raw, filled)
	}

	if err := f.validate(ctx, typ, target, filled); err != nil {
		log.Debug("validation failed", "err", err)
		return err
	}

	res := resolve.Resolver{Type: typ}
	caster := cast.Caster{Filler: f, Type: typ}
	for _, fd := range typ.Fields {
		if fd.Ignore {
			continue
		}
		if err := f.assign(ctx, ptr, typ, fd, filled, res, caster); err != nil {
			return err
		}
	}

	if af, ok := target.(AfterFiller); ok {
		if err := af.AfterFill(); err != nil {
			return err
		}
	}
	if typ.HasComputed {
		if err := target.(Computer).Compute(); err != nil {
			return err
		}
	}
	log.Debug("fill done")
	return nil
}

// validate collects the rules of every non-ignored field under its
// resolved key and runs the engine once over the whole filled mapping.
func (f *filler) validate(ctx context.Context, typ *schema.Type, target any, filled map[string]any) error {
	res := resolve.Resolver{Type: typ}
	var rs rules.Ruleset
	for _, fd := range typ.Fields {
		if fd.Ignore {
			continue
		}
		r, err := res.Resolve(fd, filled)
		if err != nil {
			return err
		}
		if len(fd.Rules) == 0 {
			continue
		}
		key := r.Key
		if r.UseDefault {
			key = fd.Key
		}
		rs.Add(key, fd.Rules...)
	}
	if rs.Len() == 0 {
		return nil
	}

	var messages, labels map[string]string
	if mp, ok := target.(MessageProvider); ok {
		messages = mp.Messages()
	}
	if al, ok := target.(AttributeLabeler); ok {
		labels = al.ValidationAttributeLabels()
	}
	err := f.opts.engine.Validate(ctx, filled, rs, messages, labels)
	if err == nil {
		return nil
	}
	if iss, ok := rules.AsIssues(err); ok {
		return &ValidationError{Type: typ.Name, Issues: iss}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fault.Wrap(ErrConfiguration, typ.Name, "", "validation rules", err)
}

func (f *filler) assign(ctx context.Context, ptr reflect.Value, typ *schema.Type, fd *schema.Field,
	filled map[string]any, res resolve.Resolver, caster cast.Caster) error {
	fv := ptr.Elem().FieldByIndex(fd.Index)

	if fd.Computed {
		if fd.Default != nil {
			return setValue(fv, typ, fd, fd.Default.Value())
		}
		return nil
	}
	if fd.Handler != "" {
		v, err := callHandler(ptr, typ, fd)
		if err != nil {
			return err
		}
		out, err := caster.Cast(ctx, v, fd)
		if err != nil {
			return err
		}
		fv.Set(out)
		return nil
	}

	r, err := res.Resolve(fd, filled)
	if err != nil {
		return err
	}
	if r.UseDefault {
		return setValue(fv, typ, fd, fd.OneOf.Default)
	}
	if v, ok := attrs.Get(filled, r.Key); ok {
		v = transform.Normalize(v, !fd.NoTrim)
		v, err = fd.Chain.Apply(v, fd.Name, typ.Name)
		if err != nil {
			return fault.Wrap(ErrInvalidCast, typ.Name, fd.Name, "transform", err)
		}
		out, err := caster.Cast(ctx, v, fd)
		if err != nil {
			return err
		}
		fv.Set(out)
		return nil
	}
	switch {
	case fd.Default != nil:
		return setValue(fv, typ, fd, fd.Default.Value())
	case fd.Nullable():
		fv.Set(reflect.Zero(fv.Type()))
	case typ.Strict:
		return fault.New(ErrStrictnessFailed, typ.Name, fd.Name,
			fmt.Sprintf("the field is required, but key %q was not found in the input", r.Key))
	}
	return nil
}

func setValue(fv reflect.Value, typ *schema.Type, fd *schema.Field, v any) error {
	out, err := cast.Assign(v, fv.Type())
	if err != nil {
		return fault.Wrap(ErrConfiguration, typ.Name, fd.Name, "default", err)
	}
	fv.Set(out)
	return nil
}

// callHandler invokes the field's handler method. Its signature was checked
// when the descriptor was derived.
func callHandler(ptr reflect.Value, typ *schema.Type, fd *schema.Field) (any, error) {
	out := ptr.MethodByName(fd.Handler).Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fault.Wrap(ErrInvalidCast, typ.Name, fd.Name, "handler "+fd.Handler, out[1].Interface().(error))
	}
	v := out[0]
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil, nil
	}
	return v.Interface(), nil
}
