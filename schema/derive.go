package schema

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/reoring/dataobj/internal/coerce"
	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/transform"
)

var (
	cache sync.Map // reflect.Type -> *Type

	recordType    = reflect.TypeOf(Record{})
	enumType      = reflect.TypeOf((*Enum)(nil)).Elem()
	baseType      = reflect.TypeOf((*Base)(nil)).Elem()
	defaulterType = reflect.TypeOf((*Defaulter)(nil)).Elem()
	strictType    = reflect.TypeOf((*Strict)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

// Of returns the descriptor table of the struct type rt (a pointer to a
// struct is accepted). Successful derivations are cached.
func Of(rt reflect.Type) (*Type, error) {
	if rt == nil {
		return nil, fault.New(fault.ErrConfiguration, "", "", "nil type")
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if v, ok := cache.Load(rt); ok {
		return v.(*Type), nil
	}
	t, err := derive(rt)
	if err != nil {
		return nil, err
	}
	v, _ := cache.LoadOrStore(rt, t)
	return v.(*Type), nil
}

// TypeName renders rt for error messages.
func TypeName(rt reflect.Type) string {
	if rt == nil {
		return "<nil>"
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.PkgPath() == "" || rt.Name() == "" {
		return rt.String()
	}
	return rt.PkgPath() + "." + rt.Name()
}

func derive(rt reflect.Type) (*Type, error) {
	name := TypeName(rt)
	if rt.Kind() != reflect.Struct {
		return nil, fault.New(fault.ErrConfiguration, name, "", "target type must be a struct")
	}
	t := &Type{
		Name:   name,
		Go:     rt,
		Strict: reflect.PointerTo(rt).Implements(strictType) || rt.Implements(strictType),
	}
	var provided map[string]any
	if reflect.PointerTo(rt).Implements(defaulterType) {
		provided = reflect.New(rt).Interface().(Defaulter).Defaults()
	}
	if err := collectFields(t, rt, nil, provided); err != nil {
		return nil, err
	}
	return t, nil
}

func collectFields(t *Type, rt reflect.Type, prefix []int, provided map[string]any) error {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		index := append(append([]int(nil), prefix...), i)
		if sf.Anonymous {
			ft := sf.Type
			if ft.Implements(baseType) || reflect.PointerTo(ft).Implements(baseType) {
				continue
			}
			if ft.Kind() == reflect.Struct && sf.Tag.Get(TagOptions) == "" && sf.Tag.Get("json") == "" {
				if err := collectFields(t, ft, index, provided); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		f, err := describeField(t, sf, index, provided)
		if err != nil {
			return err
		}
		if f.Computed {
			t.HasComputed = true
		}
		t.Fields = append(t.Fields, f)
	}
	return nil
}

func describeField(t *Type, sf reflect.StructField, index []int, provided map[string]any) (*Field, error) {
	configErr := func(format string, a ...any) error {
		return fault.New(fault.ErrConfiguration, t.Name, sf.Name, fmt.Sprintf(format, a...))
	}
	opts, err := parseOptions(sf)
	if err != nil {
		return nil, configErr("%v", err)
	}
	key := ResolveKey(sf)
	f := &Field{
		Name:     sf.Name,
		Key:      key,
		Index:    index,
		MapFrom:  opts.from,
		Computed: opts.computed,
		Ignore:   opts.ignore || key == "-",
		NoTrim:   opts.notrim,
		Rules:    splitList(sf.Tag.Get(TagRules), "|"),
		Handler:  opts.handler,
	}

	td, err := describeType(sf.Type, splitList(sf.Tag.Get(TagUnion), ","), opts.collection)
	if err != nil {
		if fe, ok := err.(*fault.Error); ok {
			fe.Type, fe.Field = t.Name, sf.Name
			return nil, fe
		}
		return nil, configErr("%v", err)
	}
	f.Type = td

	for _, name := range splitList(sf.Tag.Get(TagTransform), ",") {
		tr, err := transform.Lookup(name)
		if err != nil {
			return nil, fault.Wrap(fault.ErrConfiguration, t.Name, sf.Name, "invalid transformer", err)
		}
		f.Chain = append(f.Chain, tr)
		f.ChainSpec = append(f.ChainSpec, name)
	}

	if keys := splitList(sf.Tag.Get(TagOneOf), ","); len(keys) > 0 {
		if f.MapFrom != "" {
			return nil, configErr("from= and oneof are mutually exclusive")
		}
		f.OneOf = &OneOf{Keys: keys}
		if raw, ok := sf.Tag.Lookup(TagOneOfDefault); ok {
			v, err := convertDefault(raw, td)
			if err != nil {
				return nil, configErr("oneofdefault: %v", err)
			}
			f.OneOf.HasDefault = true
			f.OneOf.Default = v
		}
	} else if _, ok := sf.Tag.Lookup(TagOneOfDefault); ok {
		return nil, configErr("oneofdefault requires oneof")
	}

	if raw, ok := sf.Tag.Lookup(TagDefault); ok {
		v, err := convertDefault(raw, td)
		if err != nil {
			return nil, configErr("default: %v", err)
		}
		f.Default = &Default{Source: DefaultFromTag, get: func() any { return v }}
	}
	if _, ok := provided[sf.Name]; ok {
		if f.Default != nil {
			return nil, configErr("default declared both as tag and in Defaults()")
		}
		rt, name := t.Go, sf.Name
		f.Default = &Default{Source: DefaultFromProvider, get: func() any {
			return reflect.New(rt).Interface().(Defaulter).Defaults()[name]
		}}
	}

	if f.Handler != "" {
		if err := checkHandler(t.Go, f.Handler); err != nil {
			return nil, configErr("%v", err)
		}
	}
	return f, nil
}

// checkHandler verifies that *T has a method name() V or name() (V, error).
func checkHandler(rt reflect.Type, name string) error {
	m, ok := reflect.PointerTo(rt).MethodByName(name)
	if !ok {
		return fmt.Errorf("handler method %s is missing", name)
	}
	mt := m.Type // receiver is the first input
	if mt.NumIn() != 1 {
		return fmt.Errorf("handler method %s must not take arguments", name)
	}
	switch mt.NumOut() {
	case 1:
	case 2:
		if mt.Out(1) != errorType {
			return fmt.Errorf("handler method %s: second result must be error", name)
		}
	default:
		return fmt.Errorf("handler method %s must return a value", name)
	}
	return nil
}

func describeType(rt reflect.Type, union []string, collection bool) (*TypeDesc, error) {
	td := &TypeDesc{Go: rt, Base: rt}
	switch rt.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		td.Nullable = true
	}
	if rt.Kind() == reflect.Pointer {
		td.Base = rt.Elem()
	}
	base := td.Base

	if len(union) > 0 {
		if rt.Kind() != reflect.Interface {
			return nil, fmt.Errorf("union options require an interface field, got %s", rt)
		}
		td.Kind = KindUnion
		td.Nullable = false
		for _, name := range union {
			td.Names = append(td.Names, name)
			if notCastable[name] {
				if name == "null" || name == "nil" {
					td.Nullable = true
				}
				td.Options = append(td.Options, nil)
				continue
			}
			ot, ok := LookupType(name)
			if !ok {
				td.Options = append(td.Options, nil)
				continue
			}
			opt, err := describeType(ot, nil, false)
			if err != nil {
				return nil, err
			}
			td.Options = append(td.Options, opt)
		}
		return td, nil
	}

	switch {
	case isEnum(base):
		td.Kind = KindEnum
	case isDate(base):
		td.Kind = KindDate
	case base.Kind() == reflect.Struct:
		td.Kind = KindObject
	case rt.Kind() == reflect.Slice:
		elem := rt.Elem()
		elemBase := elem
		if elemBase.Kind() == reflect.Pointer {
			elemBase = elemBase.Elem()
		}
		switch {
		case elem == recordType:
			td.Kind = KindCollection
			td.Elem = &TypeDesc{Kind: KindUnknown, Go: elem, Base: elem, Nullable: true}
		case elemBase.Kind() == reflect.Struct && !isDate(elemBase):
			td.Kind = KindCollection
			td.Elem = &TypeDesc{Kind: KindObject, Go: elem, Base: elemBase, Nullable: elem.Kind() == reflect.Pointer}
		case collection:
			return nil, fault.New(fault.ErrInvalidCast, "", "", fmt.Sprintf("uses an invalid collection type [%s]", elem))
		default:
			td.Kind = KindUnknown
		}
	case coerce.IsScalarKind(base.Kind()):
		td.Kind = KindScalar
	default:
		td.Kind = KindUnknown
	}
	if collection && td.Kind != KindCollection {
		return nil, fault.New(fault.ErrInvalidCast, "", "", fmt.Sprintf("uses an invalid collection type [%s]", rt))
	}
	return td, nil
}

func isEnum(rt reflect.Type) bool {
	if !(rt.Implements(enumType) || reflect.PointerTo(rt).Implements(enumType)) {
		return false
	}
	switch rt.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isDate(rt reflect.Type) bool {
	return rt == timeType || (rt.Kind() == reflect.Struct && rt.ConvertibleTo(timeType))
}

// EnumValues returns the backing values of an enum type.
func EnumValues(rt reflect.Type) []string {
	v := reflect.New(rt)
	if e, ok := v.Elem().Interface().(Enum); ok {
		return e.EnumValues()
	}
	if e, ok := v.Interface().(Enum); ok {
		return e.EnumValues()
	}
	return nil
}

// convertDefault parses a tag default into a value of the declared type.
func convertDefault(raw string, td *TypeDesc) (any, error) {
	switch td.Kind {
	case KindScalar:
		v, err := coerce.Scalar(raw, td.Base)
		if err != nil {
			return nil, err
		}
		return wrapPointer(v, td).Interface(), nil
	case KindEnum:
		for _, ev := range EnumValues(td.Base) {
			if ev == raw {
				v, err := coerce.Scalar(raw, td.Base)
				if err != nil {
					return nil, err
				}
				return wrapPointer(v, td).Interface(), nil
			}
		}
		return nil, fmt.Errorf("%q is not a value of %s", raw, td.Base)
	case KindDate:
		tm, err := transform.ParseTime(raw, nil)
		if err != nil {
			return nil, err
		}
		return wrapPointer(reflect.ValueOf(tm).Convert(td.Base), td).Interface(), nil
	case KindUnknown:
		if td.Go.Kind() == reflect.Interface {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("tag defaults are not supported for %s fields", td.Go)
}

func wrapPointer(v reflect.Value, td *TypeDesc) reflect.Value {
	if td.Go.Kind() != reflect.Pointer {
		return v
	}
	p := reflect.New(td.Base)
	p.Elem().Set(v)
	return p
}
