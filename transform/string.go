package transform

import (
	"fmt"

	"github.com/spf13/cast"
)

// String coerces values to string; nil stays nil.
type String struct{}

// Transform returns value as a string.
func (String) Transform(value any, field, _ string) (any, error) {
	if value == nil {
		return nil, nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, fmt.Errorf("transform: field %s: %w", field, err)
	}
	return s, nil
}
