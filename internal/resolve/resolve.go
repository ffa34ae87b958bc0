// Package resolve determines which input key a field reads from.
package resolve

import (
	"fmt"

	"github.com/reoring/dataobj/internal/attrs"
	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/schema"
)

// Result is the outcome of resolving a field's input key.
type Result struct {
	Key string
	// UseDefault signals that no one-of candidate matched and the marker's
	// default must be assigned.
	UseDefault bool
}

// Resolver resolves input keys for the fields of one target type.
type Resolver struct {
	Type *schema.Type
}

// Resolve returns the input key for f given the current filled attributes.
func (r Resolver) Resolve(f *schema.Field, filled map[string]any) (Result, error) {
	switch {
	case f.MapFrom != "":
		return Result{Key: f.MapFrom}, nil
	case f.OneOf != nil:
		res, err := r.oneOf(f, filled)
		if err != nil {
			if f.Default == nil {
				return Result{}, err
			}
			return Result{Key: f.Key}, nil
		}
		return res, nil
	default:
		return Result{Key: f.Key}, nil
	}
}

func (r Resolver) oneOf(f *schema.Field, filled map[string]any) (Result, error) {
	for _, key := range f.OneOf.Keys {
		v, ok := attrs.Get(filled, key)
		if ok && Castable(v, f) {
			return Result{Key: key}, nil
		}
	}
	if f.OneOf.HasDefault {
		return Result{UseDefault: true}, nil
	}
	name := ""
	if r.Type != nil {
		name = r.Type.Name
	}
	return Result{}, fault.New(fault.ErrNoMappingKeyFound, name, f.Name,
		fmt.Sprintf("no castable mapping key found among %v", f.OneOf.Keys))
}

// Castable reports whether v may be cast to f's type. It runs before
// transformation and agrees with transform.Normalize: the empty string
// counts as null, a blank string does not.
func Castable(v any, f *schema.Field) bool {
	if v == nil || v == "" {
		return f.Nullable()
	}
	return true
}
