package transform

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lowercase folds strings to lower case; other values pass through.
type Lowercase struct{}

// Transform lowercases string values.
func (Lowercase) Transform(value any, _, _ string) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	return cases.Lower(language.Und).String(s), nil
}

// Uppercase folds strings to upper case; other values pass through.
type Uppercase struct{}

// Transform uppercases string values.
func (Uppercase) Transform(value any, _, _ string) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	return cases.Upper(language.Und).String(s), nil
}
