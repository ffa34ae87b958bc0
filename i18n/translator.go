// Package i18n loads validation message catalogs and renders message
// templates.
//
// A catalog is a YAML or JSON document mapping rule names to templates.
// Size-dependent rules nest one level by value type:
//
//	required: "The :attribute field is required."
//	max:
//	  numeric: "The :attribute field must not be greater than :max."
//	  string: "The :attribute field must not be greater than :max characters."
//	attributes:
//	  email: "email address"
//	custom:
//	  email:
//	    required: "We need to know your email address."
//
// Keys are flattened to dotted form ("max.numeric", "custom.email.required").
package i18n

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Translator retrieves message templates by dotted key.
type Translator interface {
	Lookup(key string) (string, bool)
}

// Catalog is a flattened message catalog.
type Catalog struct {
	Locale string
	// Source names the file the catalog was loaded from ("builtin:<locale>"
	// for embedded catalogs, empty when no catalog was found).
	Source   string
	messages map[string]string
}

// NewCatalog builds a catalog from already flattened messages.
func NewCatalog(locale string, messages map[string]string) *Catalog {
	m := make(map[string]string, len(messages))
	for k, v := range messages {
		m[k] = v
	}
	return &Catalog{Locale: locale, messages: m}
}

// Lookup returns the template stored under key. A nil catalog has no
// entries.
func (c *Catalog) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	s, ok := c.messages[key]
	return s, ok
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

// Keys returns the catalog keys in sorted order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.messages))
	for k := range c.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format substitutes :name placeholders in template. Each placeholder also
// matches its upper-case (:NAME) and capitalized (:Name) spelling. Longer
// names are replaced first so that :max does not clobber :max_digits.
func Format(template string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(template, ":") {
		return template
	}
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	pairs := make([]string, 0, len(names)*6)
	for _, k := range names {
		v := params[k]
		pairs = append(pairs,
			":"+strings.ToUpper(k), strings.ToUpper(v),
			":"+upperFirst(k), upperFirst(v),
			":"+k, v,
		)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
