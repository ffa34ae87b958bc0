package jsonschema

import (
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/reoring/dataobj/rules"
	"github.com/reoring/dataobj/schema"
)

// formats maps format rules to JSON Schema formats.
var formats = map[string]string{
	"email": "email",
	"url":   "uri",
	"uuid":  "uuid",
	"ipv4":  "ipv4",
	"ipv6":  "ipv6",
	"date":  "date-time",
}

// For returns the schema of the input mapping t is filled from. Fields that
// do not read input (computed, handler, ignored) are left out.
func For(t *schema.Type) (*Schema, error) {
	g := &generator{visiting: map[reflect.Type]bool{}}
	s, err := g.object(t)
	if err != nil {
		return nil, err
	}
	s.SchemaURI = Draft
	s.Title = t.Go.Name()
	return s, nil
}

type generator struct {
	visiting map[reflect.Type]bool
}

func (g *generator) object(t *schema.Type) (*Schema, error) {
	s := &Schema{Type: "object"}
	if g.visiting[t.Go] {
		return s, nil
	}
	g.visiting[t.Go] = true
	defer delete(g.visiting, t.Go)

	s.Properties = map[string]*Schema{}
	for _, f := range t.Fields {
		if f.Ignore || f.Computed || f.Handler != "" {
			continue
		}
		ps, err := g.field(f)
		if err != nil {
			return nil, err
		}
		keys := []string{f.Key}
		switch {
		case f.MapFrom != "":
			keys = []string{f.MapFrom}
		case f.OneOf != nil:
			keys = f.OneOf.Keys
		}
		for _, k := range keys {
			s.Properties[k] = ps
		}
		if len(keys) == 1 && required(t, f) {
			s.Required = append(s.Required, keys[0])
		}
	}
	return s, nil
}

func required(t *schema.Type, f *schema.Field) bool {
	if f.Default != nil {
		return false
	}
	for _, spec := range f.Rules {
		if name, _ := rules.ParseRule(spec); name == "required" {
			return true
		}
	}
	return t.Strict && !f.Nullable()
}

func (g *generator) field(f *schema.Field) (*Schema, error) {
	s, err := g.typeSchema(f.Type)
	if err != nil {
		return nil, err
	}
	if f.Default != nil {
		s.Default = plainDefault(f.Default.Value())
	}
	applyRules(s, f.Rules)
	return s, nil
}

func (g *generator) typeSchema(td *schema.TypeDesc) (*Schema, error) {
	var s *Schema
	switch td.Kind {
	case schema.KindScalar:
		s = &Schema{Type: kindType(td.Base.Kind())}
	case schema.KindEnum:
		s = &Schema{Type: kindType(td.Base.Kind())}
		for _, v := range schema.EnumValues(td.Base) {
			if s.Type == "integer" {
				s.Enum = append(s.Enum, cast.ToInt64(v))
			} else {
				s.Enum = append(s.Enum, v)
			}
		}
	case schema.KindDate:
		s = &Schema{Type: "string", Format: "date-time"}
	case schema.KindObject:
		t, err := schema.Of(td.Base)
		if err != nil {
			return nil, err
		}
		if s, err = g.object(t); err != nil {
			return nil, err
		}
	case schema.KindCollection:
		items := &Schema{Type: "object"}
		if td.Elem.Kind == schema.KindObject {
			var err error
			if items, err = g.typeSchema(td.Elem); err != nil {
				return nil, err
			}
			items.Nullable = false
		}
		s = &Schema{Type: "array", Items: items}
	case schema.KindUnion:
		s = &Schema{}
		for _, opt := range td.Options {
			if opt == nil {
				continue
			}
			o, err := g.typeSchema(opt)
			if err != nil {
				return nil, err
			}
			s.OneOf = append(s.OneOf, o)
		}
		// A non-castable option other than null accepts anything.
		for i, opt := range td.Options {
			if opt == nil && td.Names[i] != "null" && td.Names[i] != "nil" {
				s.OneOf = nil
				break
			}
		}
	default:
		s = g.goType(td.Go)
	}
	s.Nullable = td.Nullable
	return s, nil
}

// goType describes a passthrough field from its Go type alone.
func (g *generator) goType(rt reflect.Type) *Schema {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch rt.Kind() {
	case reflect.Map:
		return &Schema{Type: "object"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: g.goType(rt.Elem())}
	case reflect.Interface:
		return &Schema{}
	}
	return &Schema{Type: kindType(rt.Kind())}
}

func kindType(k reflect.Kind) string {
	switch k {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return ""
}

// applyRules narrows s with the constraints a rule list implies. Size rules
// apply to the value's length, magnitude or item count depending on its
// type, as they do during validation.
func applyRules(s *Schema, specs []string) {
	numeric := s.Type == "integer" || s.Type == "number"
	for _, spec := range specs {
		switch name, _ := rules.ParseRule(spec); name {
		case "integer":
			s.Type, numeric = "integer", true
		case "numeric":
			if s.Type != "integer" {
				s.Type = "number"
			}
			numeric = true
		}
	}
	for _, spec := range specs {
		name, params := rules.ParseRule(spec)
		switch name {
		case "nullable":
			s.Nullable = true
		case "in":
			s.Enum = nil
			for _, p := range params {
				if numeric {
					s.Enum = append(s.Enum, cast.ToFloat64(p))
				} else {
					s.Enum = append(s.Enum, p)
				}
			}
		case "regex":
			if len(params) == 1 {
				s.Pattern = trimDelimiters(params[0])
			}
		case "min":
			setBound(s, numeric, params, true, false)
		case "max":
			setBound(s, numeric, params, false, true)
		case "size":
			setBound(s, numeric, params, true, true)
		case "between":
			if len(params) == 2 {
				setBound(s, numeric, params[:1], true, false)
				setBound(s, numeric, params[1:], false, true)
			}
		default:
			if f, ok := formats[name]; ok {
				s.Format = f
			}
		}
	}
}

func setBound(s *Schema, numeric bool, params []string, lower, upper bool) {
	if len(params) == 0 {
		return
	}
	n, err := cast.ToFloat64E(params[0])
	if err != nil {
		return
	}
	switch {
	case numeric:
		if lower {
			s.Minimum = &n
		}
		if upper {
			s.Maximum = &n
		}
	case s.Type == "array":
		i := int(n)
		if lower {
			s.MinItems = &i
		}
		if upper {
			s.MaxItems = &i
		}
	case s.Type == "string":
		i := int(n)
		if lower {
			s.MinLength = &i
		}
		if upper {
			s.MaxLength = &i
		}
	}
}

// trimDelimiters turns "/^a+$/i" into "^a+$". Flags have no JSON Schema
// equivalent and are dropped.
func trimDelimiters(p string) string {
	if len(p) < 2 || p[0] != '/' {
		return p
	}
	if i := strings.LastIndexByte(p, '/'); i > 0 {
		return p[1:i]
	}
	return p
}

func plainDefault(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	if tm, ok := rv.Interface().(time.Time); ok {
		return tm.Format(time.RFC3339)
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.String) && rv.Len() == 0 {
		return nil
	}
	return rv.Interface()
}
