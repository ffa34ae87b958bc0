// Package source decodes JSON and YAML documents into input mappings.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/dataobj/internal/attrs"
)

// ErrNotObject is returned when a document's top level is not a mapping.
var ErrNotObject = errors.New("source: document is not an object")

// NumberMode dictates how JSON numbers are decoded.
type NumberMode int

const (
	NumberNative     NumberMode = iota // int64 when integral, float64 otherwise.
	NumberJSONNumber                   // Preserve json.Number.
	NumberFloat64                      // Fast mode (with potential precision loss).
)

// Format names a document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf infers the format from a file name. Unknown extensions are JSON.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeJSON reads one JSON object from r.
func DecodeJSON(r io.Reader, mode NumberMode) (map[string]any, error) {
	dec := j.NewDecoder(r)
	if mode != NumberFloat64 {
		dec.UseNumber()
	}
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	if mode == NumberNative {
		doc = normalizeNumbers(doc)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// DecodeJSONBytes decodes a JSON object held in b.
func DecodeJSONBytes(b []byte, mode NumberMode) (map[string]any, error) {
	return DecodeJSON(bytes.NewReader(b), mode)
}

// DecodeYAML decodes a YAML mapping. Non-string keys are stringified.
func DecodeYAML(b []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	m, ok := stringKeys(doc).(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// Decode decodes b in the given format.
func Decode(b []byte, f Format) (map[string]any, error) {
	if f == FormatYAML {
		return DecodeYAML(b)
	}
	return DecodeJSONBytes(b, NumberNative)
}

func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case j.Number:
		if n, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
	}
	return v
}

func stringKeys(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = stringKeys(e)
		}
		return x
	case map[any]any:
		m, ok := attrs.AsMap(x)
		if !ok {
			return x
		}
		return stringKeys(m)
	case []any:
		for i, e := range x {
			x[i] = stringKeys(e)
		}
	}
	return v
}
