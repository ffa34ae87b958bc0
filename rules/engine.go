// Package rules is the default validation engine. It validates an input
// mapping against per-key rule specs such as "required|integer|max:30"
// and renders messages from i18n catalogs.
package rules

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/reoring/dataobj/i18n"
	"github.com/reoring/dataobj/internal/attrs"
)

// Engine validates a mapping against a rule set. It returns Issues when any
// rule fails and a plain error when the rules themselves are invalid.
type Engine interface {
	Validate(ctx context.Context, data map[string]any, rules Ruleset, messages, labels map[string]string) error
}

// Validator is the built-in Engine.
type Validator struct {
	Settings Settings
	// Logger receives debug records for failed rules. Nil disables them.
	Logger *log.Logger
}

// New returns a Validator using s.
func New(s Settings) *Validator {
	return &Validator{Settings: s}
}

// Default returns a Validator configured from the process-wide settings.
func Default() *Validator {
	return New(Current())
}

func (v *Validator) translator() (i18n.Translator, error) {
	if v.Settings.Translator != nil {
		return v.Settings.Translator, nil
	}
	return i18n.Find(i18n.Options{
		Locale:  v.Settings.Locale,
		Path:    v.Settings.CatalogPath,
		Builtin: v.Settings.Builtin,
	})
}

// Validate checks every key of rs. Keys may contain "*" segments that
// expand over the items of the addressed list or map. After an implicit
// rule such as "required" fails, the remaining rules of that key are
// skipped; "bail" stops at the first failure of any rule.
func (v *Validator) Validate(ctx context.Context, data map[string]any, rs Ruleset, messages, labels map[string]string) error {
	tr, err := v.translator()
	if err != nil {
		return err
	}
	r := renderer{tr: tr, messages: messages, labels: labels}
	var issues Issues
	for _, pattern := range rs.Keys() {
		if err := ctx.Err(); err != nil {
			return err
		}
		specs := rs.Get(pattern)
		names := make([]string, len(specs))
		for i, s := range specs {
			names[i], _ = ParseRule(s)
		}
		for _, key := range expand(data, pattern) {
			iss, err := v.validateKey(data, key, pattern, specs, names, r)
			if err != nil {
				return err
			}
			issues = append(issues, iss...)
		}
	}
	if len(issues) > 0 {
		return issues
	}
	return nil
}

func (v *Validator) validateKey(data map[string]any, key, pattern string, specs, names []string, r renderer) (Issues, error) {
	value, present := attrs.Get(data, key)
	base := Context{Key: key, Value: value, Present: present, Data: data, Names: names}
	if !present && base.HasRule("sometimes") {
		return nil, nil
	}
	bail := base.HasRule("bail")
	var out Issues
	for _, spec := range specs {
		name, params := ParseRule(spec)
		rule, ok := lookupRule(name)
		if !ok {
			return nil, fmt.Errorf("rules: %q on %s: %w", name, key, ErrUnknownRule)
		}
		if !rule.Implicit && !validatable(base) {
			continue
		}
		c := base
		c.Params = params
		ok, err := rule.Check(c)
		if err != nil {
			return nil, fmt.Errorf("rules: %s: %w", spec, err)
		}
		if ok {
			continue
		}
		out = append(out, r.issue(c, pattern, name, spec, rule))
		if v.Logger != nil {
			v.Logger.Debug("rule failed", "key", key, "rule", spec)
		}
		if bail || rule.Implicit {
			break
		}
	}
	return out, nil
}

// validatable reports whether non-implicit rules apply: the attribute must
// be present, not blank, and not null when marked nullable.
func validatable(c Context) bool {
	if !c.Present {
		return false
	}
	if s, ok := c.Value.(string); ok && strings.TrimSpace(s) == "" {
		return false
	}
	if c.Value == nil && c.HasRule("nullable") {
		return false
	}
	return true
}

// expand resolves "*" segments of pattern against data. Patterns without
// wildcards expand to themselves.
func expand(data map[string]any, pattern string) []string {
	if !strings.Contains(pattern, "*") {
		return []string{pattern}
	}
	var out []string
	var walk func(node any, prefix string, segs []string)
	walk = func(node any, prefix string, segs []string) {
		if len(segs) == 0 {
			out = append(out, prefix)
			return
		}
		join := func(seg string) string {
			if prefix == "" {
				return seg
			}
			return prefix + "." + seg
		}
		if segs[0] != "*" {
			var next any
			if m, ok := attrs.AsMap(node); ok {
				next, _ = attrs.Get(m, segs[0])
			}
			walk(next, join(segs[0]), segs[1:])
			return
		}
		switch x := node.(type) {
		case []any:
			for i, item := range x {
				walk(item, join(strconv.Itoa(i)), segs[1:])
			}
		case map[string]any:
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(x[k], join(k), segs[1:])
			}
		}
	}
	walk(data, "", strings.Split(pattern, "."))
	return out
}

type renderer struct {
	tr       i18n.Translator
	messages map[string]string
	labels   map[string]string
}

func (r renderer) issue(c Context, pattern, name, spec string, rule Rule) Issue {
	params := map[string]string{}
	if rule.Replace != nil {
		for k, v := range rule.Replace(c, r.label) {
			params[k] = v
		}
	}
	params["attribute"] = r.label(c.Key)
	return Issue{
		Path:    c.Key,
		Code:    name,
		Message: i18n.Format(r.template(c, pattern, name, rule), params),
		Params:  params,
		Rule:    spec,
	}
}

// template resolves the message template: inline messages first
// ("key.rule", then "rule"), then the catalog's custom section, then the
// catalog rule entry. Without any match the raw "validation.<rule>" key is
// returned, with the type suffix for sized rules.
func (r renderer) template(c Context, pattern, name string, rule Rule) string {
	typ := ""
	if rule.Sized {
		typ = attributeType(c)
	}
	keys := []string{c.Key + "." + name}
	if pattern != c.Key {
		keys = append(keys, pattern+"."+name)
	}
	keys = append(keys, name)
	for _, k := range keys {
		if typ != "" {
			if m, ok := r.messages[k+"."+typ]; ok {
				return m
			}
		}
		if m, ok := r.messages[k]; ok {
			return m
		}
	}
	for _, k := range []string{"custom." + c.Key + "." + name, "custom." + pattern + "." + name} {
		if m, ok := r.tr.Lookup(k); ok {
			return m
		}
	}
	key := name
	if typ != "" {
		key += "." + typ
	}
	if m, ok := r.tr.Lookup(key); ok {
		return m
	}
	return "validation." + key
}

// label renders an attribute for messages: the caller's labels, then the
// catalog's attributes section, then the key with underscores as spaces.
func (r renderer) label(key string) string {
	if l, ok := r.labels[key]; ok {
		return l
	}
	if l, ok := r.tr.Lookup("attributes." + key); ok {
		return l
	}
	return strings.ReplaceAll(snake(key), "_", " ")
}

func attributeType(c Context) string {
	switch {
	case c.HasRule(numericRules...):
		return "numeric"
	case c.HasRule("array") || isList(c.Value):
		return "array"
	default:
		return "string"
	}
}

// snake converts camelCase keys to snake_case.
func snake(s string) string {
	var b strings.Builder
	prev := rune(0)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
