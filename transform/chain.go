package transform

import "strings"

// Chain applies transformers in declaration order, each consuming the
// previous output.
type Chain []Transformer

// Apply runs the chain over value.
func (c Chain) Apply(value any, field, typeName string) (any, error) {
	for _, t := range c {
		out, err := t.Transform(value, field, typeName)
		if err != nil {
			return nil, err
		}
		value = out
	}
	return value, nil
}

// Normalize prepares a raw input value for the chain: the empty string
// becomes nil and, when trim is set, other strings are trimmed. A blank
// string trims to "" and stays a string.
func Normalize(value any, trim bool) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	if s == "" {
		return nil
	}
	if trim {
		return strings.TrimSpace(s)
	}
	return s
}
