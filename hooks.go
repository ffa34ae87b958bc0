package dataobj

import (
	"reflect"

	"github.com/reoring/dataobj/schema"
)

// Optional hooks, implemented with pointer receivers on the target type.
type (
	// BeforeFiller may replace the input before validation. Returning nil
	// keeps the input as is.
	BeforeFiller interface {
		BeforeFill(input map[string]any) map[string]any
	}
	// AfterFiller runs after every non-computed field is assigned.
	AfterFiller interface {
		AfterFill() error
	}
	// Computer derives computed fields. Types declaring computed fields must
	// implement it.
	Computer interface {
		Compute() error
	}
	// MessageProvider supplies custom validation messages keyed by
	// "key.rule" or "rule".
	MessageProvider interface {
		Messages() map[string]string
	}
	// AttributeLabeler supplies human readable names for input keys.
	AttributeLabeler interface {
		ValidationAttributeLabels() map[string]string
	}
)

// Declaration helpers shared with the schema package.
type (
	// Record is the untyped element type of passthrough collections.
	Record = schema.Record
	// Enum is implemented by named types with a fixed set of backing values.
	Enum = schema.Enum
	// AttributeProvider is accepted wherever a nested mapping is expected.
	AttributeProvider = schema.AttributeProvider
	// Defaulter supplies defaults keyed by Go field name.
	Defaulter = schema.Defaulter
	// Strict marks types whose missing required fields fail the fill.
	Strict = schema.Strict
)

var computerType = reflect.TypeOf((*Computer)(nil)).Elem()
