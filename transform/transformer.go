// Package transform provides the value transformers applied to input values
// before they are cast to a field's declared type.
package transform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Transformer rewrites a single input value. field is the Go field name and
// typeName the target type name; both are informational.
type Transformer interface {
	Transform(value any, field, typeName string) (any, error)
}

// Func adapts a plain function to Transformer.
type Func func(value any, field, typeName string) (any, error)

// Transform calls f.
func (f Func) Transform(value any, field, typeName string) (any, error) {
	return f(value, field, typeName)
}

// ErrUnknownTransformer is returned by Lookup for unregistered names.
var ErrUnknownTransformer = errors.New("transform: unknown transformer")

var (
	registryMu sync.RWMutex
	registry   = map[string]Transformer{}
)

func init() {
	for name, t := range map[string]Transformer{
		"boolean":   Boolean{},
		"bool":      Boolean{},
		"lowercase": Lowercase{},
		"lower":     Lowercase{},
		"uppercase": Uppercase{},
		"upper":     Uppercase{},
		"string":    String{},
		"date":      Date{},
	} {
		registry[name] = t
	}
}

// Register makes t available under name for `transform:"..."` tags. Names are
// case-insensitive; registering an existing name replaces it.
func Register(name string, t Transformer) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("transform: empty transformer name")
	}
	if t == nil {
		return fmt.Errorf("transform: transformer %q is nil", name)
	}
	registryMu.Lock()
	registry[name] = t
	registryMu.Unlock()
	return nil
}

// Lookup returns the transformer registered under name.
func Lookup(name string) (Transformer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	t, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w [%s]", ErrUnknownTransformer, name)
	}
	return t, nil
}

// Names lists the registered transformer names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
