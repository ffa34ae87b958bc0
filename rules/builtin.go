package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/reoring/dataobj/internal/attrs"
	"github.com/reoring/dataobj/transform"
)

// ErrUnknownRule is returned for rule names with no registered check.
var ErrUnknownRule = errors.New("unknown rule")

// Context is what a rule check sees for one attribute.
type Context struct {
	Key     string
	Value   any
	Present bool
	Params  []string
	Data    map[string]any
	// Names lists every rule name declared on the attribute.
	Names []string
}

// HasRule reports whether any of names is declared on the attribute.
func (c Context) HasRule(names ...string) bool {
	for _, n := range c.Names {
		for _, want := range names {
			if n == want {
				return true
			}
		}
	}
	return false
}

// Lookup reads another attribute from the validated data.
func (c Context) Lookup(key string) (any, bool) { return attrs.Get(c.Data, key) }

func (c Context) needParams(n int) error {
	if len(c.Params) < n {
		return fmt.Errorf("rule on %s requires at least %d parameter(s)", c.Key, n)
	}
	return nil
}

// Rule is a named check.
type Rule struct {
	// Implicit rules also run when the attribute is absent or empty.
	Implicit bool
	// Sized rules pick a message variant by attribute type
	// (numeric, array or string).
	Sized bool
	Check func(c Context) (bool, error)
	// Replace returns placeholder values for the message.
	Replace func(c Context, label func(string) string) map[string]string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Rule{}

	formats = sync.OnceValue(func() *validator.Validate { return validator.New() })
)

// RegisterRule makes r available under name for every Validator.
func RegisterRule(name string, r Rule) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || r.Check == nil {
		return fmt.Errorf("rules: invalid registration %q", name)
	}
	registryMu.Lock()
	registry[name] = r
	registryMu.Unlock()
	return nil
}

func lookupRule(name string) (Rule, bool) {
	registryMu.RLock()
	r, ok := registry[name]
	registryMu.RUnlock()
	return r, ok
}

// RuleNames lists the registered rule names.
func RuleNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

func pass(Context) (bool, error) { return true, nil }

func init() {
	for _, n := range []string{"nullable", "sometimes", "bail"} {
		registry[n] = Rule{Check: pass}
	}
	registry["required"] = Rule{Implicit: true, Check: func(c Context) (bool, error) {
		return c.Present && !isEmpty(c.Value), nil
	}}
	registry["present"] = Rule{Implicit: true, Check: func(c Context) (bool, error) {
		return c.Present, nil
	}}
	registry["filled"] = Rule{Implicit: true, Check: func(c Context) (bool, error) {
		return !c.Present || !isEmpty(c.Value), nil
	}}
	registry["accepted"] = Rule{Implicit: true, Check: func(c Context) (bool, error) {
		s, ok := stringOf(c.Value)
		if !ok {
			return false, nil
		}
		switch strings.ToLower(s) {
		case "yes", "on", "1", "true":
			return true, nil
		}
		return false, nil
	}}
	registry["required_with"] = Rule{Implicit: true, Check: requiredWith(true), Replace: replaceValues}
	registry["required_without"] = Rule{Implicit: true, Check: requiredWith(false), Replace: replaceValues}

	registry["string"] = Rule{Check: func(c Context) (bool, error) {
		_, ok := c.Value.(string)
		return ok, nil
	}}
	registry["integer"] = Rule{Check: func(c Context) (bool, error) { return isInteger(c.Value), nil }}
	registry["numeric"] = Rule{Check: func(c Context) (bool, error) {
		_, ok := toNumber(c.Value)
		return ok, nil
	}}
	registry["boolean"] = Rule{Check: func(c Context) (bool, error) {
		switch x := c.Value.(type) {
		case bool:
			return true, nil
		case string:
			return x == "0" || x == "1", nil
		}
		f, ok := toNumber(c.Value)
		return ok && (f == 0 || f == 1), nil
	}}
	registry["array"] = Rule{Check: func(c Context) (bool, error) { return isList(c.Value), nil }}
	registry["date"] = Rule{Check: func(c Context) (bool, error) {
		if s, ok := c.Value.(string); ok && strings.TrimSpace(s) == "" {
			return false, nil
		}
		_, err := transform.ParseTime(c.Value, nil)
		return err == nil, nil
	}}

	registry["in"] = Rule{Check: inList(true), Replace: replaceList}
	registry["not_in"] = Rule{Check: inList(false), Replace: replaceList}

	registry["min"] = Rule{Sized: true, Check: compareSize(func(s, p float64) bool { return s >= p }), Replace: replaceParam("min")}
	registry["max"] = Rule{Sized: true, Check: compareSize(func(s, p float64) bool { return s <= p }), Replace: replaceParam("max")}
	registry["size"] = Rule{Sized: true, Check: compareSize(func(s, p float64) bool { return s == p }), Replace: replaceParam("size")}
	registry["between"] = Rule{Sized: true, Check: between, Replace: func(c Context, _ func(string) string) map[string]string {
		m := map[string]string{}
		if len(c.Params) >= 2 {
			m["min"], m["max"] = c.Params[0], c.Params[1]
		}
		return m
	}}

	registry["regex"] = Rule{Check: matchRegex(true)}
	registry["not_regex"] = Rule{Check: matchRegex(false)}
	registry["same"] = Rule{Check: compareOther(true), Replace: replaceOther}
	registry["different"] = Rule{Check: compareOther(false), Replace: replaceOther}
	registry["confirmed"] = Rule{Check: func(c Context) (bool, error) {
		other, ok := c.Lookup(c.Key + "_confirmation")
		if !ok {
			return false, nil
		}
		a, _ := stringOf(c.Value)
		b, _ := stringOf(other)
		return a == b, nil
	}}
	registry["starts_with"] = Rule{Check: affix(strings.HasPrefix), Replace: replaceList}
	registry["ends_with"] = Rule{Check: affix(strings.HasSuffix), Replace: replaceList}
	registry["alpha_dash"] = Rule{Check: matchPattern(regexp.MustCompile(`^[\pL\pM\pN_-]+$`))}
	registry["digits"] = Rule{Check: digits, Replace: replaceParam("digits")}

	// Format rules backed by go-playground/validator tags.
	for name, tag := range map[string]string{
		"email":     "email",
		"url":       "url",
		"uuid":      "uuid",
		"ip":        "ip",
		"ipv4":      "ipv4",
		"ipv6":      "ipv6",
		"mac":       "mac",
		"alpha":     "alphaunicode",
		"alpha_num": "alphanumunicode",
		"ascii":     "ascii",
		"lowercase": "lowercase",
		"uppercase": "uppercase",
		"json":      "json",
		"hex_color": "hexcolor",
		"ulid":      "ulid",
	} {
		registry[name] = Rule{Check: format(tag)}
	}
}

// format validates string values against a validator tag.
func format(tag string) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		s, ok := c.Value.(string)
		if !ok {
			return false, nil
		}
		return formats().Var(s, tag) == nil, nil
	}
}

func requiredWith(with bool) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		if err := c.needParams(1); err != nil {
			return false, err
		}
		triggered := false
		for _, other := range c.Params {
			v, ok := c.Lookup(other)
			filled := ok && !isEmpty(v)
			if filled == with {
				triggered = true
				break
			}
		}
		if !triggered {
			return true, nil
		}
		return c.Present && !isEmpty(c.Value), nil
	}
}

func inList(want bool) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		s, ok := stringOf(c.Value)
		if !ok {
			return !want, nil
		}
		for _, p := range c.Params {
			if p == s {
				return want, nil
			}
		}
		return !want, nil
	}
}

func compareSize(cmp func(size, param float64) bool) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		if err := c.needParams(1); err != nil {
			return false, err
		}
		p, err := strconv.ParseFloat(c.Params[0], 64)
		if err != nil {
			return false, fmt.Errorf("rule on %s: parameter %q is not numeric", c.Key, c.Params[0])
		}
		return cmp(sizeOf(c.Value, c.HasRule(numericRules...)), p), nil
	}
}

func between(c Context) (bool, error) {
	if err := c.needParams(2); err != nil {
		return false, err
	}
	lo, err1 := strconv.ParseFloat(c.Params[0], 64)
	hi, err2 := strconv.ParseFloat(c.Params[1], 64)
	if err := errors.Join(err1, err2); err != nil {
		return false, fmt.Errorf("rule on %s: %w", c.Key, err)
	}
	s := sizeOf(c.Value, c.HasRule(numericRules...))
	return s >= lo && s <= hi, nil
}

var (
	regexMu    sync.Mutex
	regexCache = map[string]*regexp.Regexp{}
)

// compilePattern accepts delimited patterns like /^a+$/i as well as bare
// Go regular expressions.
func compilePattern(raw string) (*regexp.Regexp, error) {
	regexMu.Lock()
	defer regexMu.Unlock()
	if re, ok := regexCache[raw]; ok {
		return re, nil
	}
	expr := raw
	if len(raw) >= 2 && raw[0] == '/' {
		if end := strings.LastIndexByte(raw, '/'); end > 0 {
			expr = raw[1:end]
			var flags strings.Builder
			for _, f := range raw[end+1:] {
				switch f {
				case 'i', 'm', 's':
					flags.WriteRune(f)
				case 'u':
				default:
					return nil, fmt.Errorf("unsupported regex flag %q", f)
				}
			}
			if flags.Len() > 0 {
				expr = "(?" + flags.String() + ")" + expr
			}
		}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	regexCache[raw] = re
	return re, nil
}

func matchRegex(want bool) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		if err := c.needParams(1); err != nil {
			return false, err
		}
		re, err := compilePattern(c.Params[0])
		if err != nil {
			return false, fmt.Errorf("rule on %s: %w", c.Key, err)
		}
		s, ok := stringOf(c.Value)
		if !ok {
			return false, nil
		}
		return re.MatchString(s) == want, nil
	}
}

func matchPattern(re *regexp.Regexp) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		s, ok := stringOf(c.Value)
		return ok && re.MatchString(s), nil
	}
}

func compareOther(same bool) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		if err := c.needParams(1); err != nil {
			return false, err
		}
		other, ok := c.Lookup(c.Params[0])
		if !ok {
			return !same, nil
		}
		a, _ := stringOf(c.Value)
		b, _ := stringOf(other)
		return (a == b) == same, nil
	}
}

func affix(match func(s, affix string) bool) func(Context) (bool, error) {
	return func(c Context) (bool, error) {
		s, ok := stringOf(c.Value)
		if !ok {
			return false, nil
		}
		for _, p := range c.Params {
			if match(s, p) {
				return true, nil
			}
		}
		return false, nil
	}
}

func digits(c Context) (bool, error) {
	if err := c.needParams(1); err != nil {
		return false, err
	}
	n, err := strconv.Atoi(c.Params[0])
	if err != nil {
		return false, fmt.Errorf("rule on %s: %w", c.Key, err)
	}
	s, ok := stringOf(c.Value)
	if !ok || len(s) != n {
		return false, nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false, nil
		}
	}
	return true, nil
}

func replaceParam(name string) func(Context, func(string) string) map[string]string {
	return func(c Context, _ func(string) string) map[string]string {
		if len(c.Params) == 0 {
			return nil
		}
		return map[string]string{name: c.Params[0]}
	}
}

func replaceList(c Context, _ func(string) string) map[string]string {
	return map[string]string{"values": strings.Join(c.Params, ", ")}
}

func replaceValues(c Context, label func(string) string) map[string]string {
	names := make([]string, len(c.Params))
	for i, p := range c.Params {
		names[i] = label(p)
	}
	return map[string]string{"values": strings.Join(names, " / ")}
}

func replaceOther(c Context, label func(string) string) map[string]string {
	if len(c.Params) == 0 {
		return nil
	}
	return map[string]string{"other": label(c.Params[0])}
}
