// Package schema derives the static field descriptor table of a target type
// from its struct declaration. Descriptors are derived once per type and
// cached process-wide.
package schema

import (
	"reflect"

	"github.com/reoring/dataobj/transform"
)

// Kind classifies a declared field type for the caster.
type Kind int

const (
	KindUnknown    Kind = iota // Passthrough with assignment conversion.
	KindScalar                 // bool, integers, floats, string (and named variants).
	KindEnum                   // Named type implementing Enum.
	KindObject                 // Nested target struct.
	KindCollection             // Slice of nested targets or Records.
	KindUnion                  // Interface field with declared options.
	KindDate                   // time.Time or a struct convertible to it.
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindCollection:
		return "collection"
	case KindUnion:
		return "union"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Record is the untyped passthrough element for collections.
type Record map[string]any

// Enum is implemented by named string or integer types whose values are
// restricted to a fixed set of backing values.
type Enum interface {
	EnumValues() []string
}

// AttributeProvider is implemented by values that can stand in for a nested
// input mapping.
type AttributeProvider interface {
	ToAttributes() map[string]any
}

// Defaulter supplies defaults keyed by Go field name. It is called on a fresh
// zero value, so it must not depend on instance state.
type Defaulter interface {
	Defaults() map[string]any
}

// Strict marks a type whose missing required fields fail the fill.
type Strict interface {
	StrictProperties()
}

// Base is implemented by the embeddable snapshot holder. Embedded fields of
// such types are not part of the descriptor.
type Base interface {
	DataObjectBase()
}

// TypeDesc describes a declared field type.
type TypeDesc struct {
	Kind     Kind
	Go       reflect.Type // Declared type, pointers included.
	Base     reflect.Type // Declared type with one pointer level removed.
	Nullable bool
	Elem     *TypeDesc   // KindCollection element.
	Options  []*TypeDesc // KindUnion options in declaration order; nil entries are not castable.
	Names    []string    // KindUnion option names.
}

// Castable reports whether the caster can target this type directly.
func (d *TypeDesc) Castable() bool {
	if d == nil {
		return false
	}
	switch d.Kind {
	case KindScalar, KindEnum, KindObject, KindCollection, KindDate:
		return true
	}
	return false
}

// DefaultSource records where a field's default lives.
type DefaultSource int

const (
	DefaultFromTag      DefaultSource = iota + 1 // `default:"..."` on the field.
	DefaultFromProvider                          // Defaults() on the type.
)

// Default is the single default value provider of a field.
type Default struct {
	Source DefaultSource
	get    func() any
}

// Value returns a fresh default value.
func (d *Default) Value() any { return d.get() }

// OneOf is the first-of-many remap marker.
type OneOf struct {
	Keys       []string
	HasDefault bool
	Default    any // Already converted to the field type.
}

// Field is the descriptor of one declared field.
type Field struct {
	Name      string // Go field name.
	Key       string // Own input key.
	Index     []int
	Type      *TypeDesc
	Default   *Default // nil when no default is available.
	MapFrom   string
	OneOf     *OneOf
	Computed  bool
	Ignore    bool
	NoTrim    bool
	Rules     []string
	Chain     transform.Chain
	ChainSpec []string
	Handler   string // Method name on the pointer receiver.
}

// Nullable reports whether null is an acceptable value for the field.
func (f *Field) Nullable() bool { return f.Type.Nullable }

// Type is the descriptor table of a target struct.
type Type struct {
	Name        string
	Go          reflect.Type
	Fields      []*Field
	Strict      bool
	HasComputed bool
}

// Field returns the field descriptor with the given Go name.
func (t *Type) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
