package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

var (
	typesMu sync.RWMutex
	types   = map[string]reflect.Type{
		"int":     reflect.TypeOf(int(0)),
		"int64":   reflect.TypeOf(int64(0)),
		"uint":    reflect.TypeOf(uint(0)),
		"float":   reflect.TypeOf(float64(0)),
		"float64": reflect.TypeOf(float64(0)),
		"bool":    reflect.TypeOf(false),
		"string":  reflect.TypeOf(""),
		"time":    timeType,
		"date":    timeType,
	}
)

// notCastable names never resolve to a cast target in a union.
var notCastable = map[string]bool{"null": true, "nil": true, "any": true, "mixed": true}

// RegisterType makes t available as a union option under name. Names are
// case-insensitive.
func RegisterType(name string, t reflect.Type) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || t == nil {
		return fmt.Errorf("schema: invalid type registration %q", name)
	}
	if notCastable[name] {
		return fmt.Errorf("schema: %q is reserved", name)
	}
	typesMu.Lock()
	types[name] = t
	typesMu.Unlock()
	return nil
}

// LookupType returns the type registered under name.
func LookupType(name string) (reflect.Type, bool) {
	typesMu.RLock()
	t, ok := types[strings.ToLower(strings.TrimSpace(name))]
	typesMu.RUnlock()
	return t, ok
}
