package rules

import (
	"sort"
	"strings"
)

// Ruleset maps attribute keys to rule specs, keeping insertion order.
type Ruleset struct {
	keys  []string
	specs map[string][]string
}

// Add sets the specs for key. Each spec may hold several rules joined by
// "|". Adding an existing key replaces its rules but keeps its position.
func (r *Ruleset) Add(key string, specs ...string) {
	if r.specs == nil {
		r.specs = map[string][]string{}
	}
	if _, ok := r.specs[key]; !ok {
		r.keys = append(r.keys, key)
	}
	var out []string
	for _, s := range specs {
		for _, p := range strings.Split(s, "|") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	r.specs[key] = out
}

// Keys returns the keys in insertion order.
func (r Ruleset) Keys() []string { return append([]string(nil), r.keys...) }

// Get returns the specs of key.
func (r Ruleset) Get(key string) []string { return r.specs[key] }

// Len returns the number of keys.
func (r Ruleset) Len() int { return len(r.keys) }

// RulesetFromMap builds a Ruleset with keys in sorted order.
func RulesetFromMap(m map[string][]string) Ruleset {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var r Ruleset
	for _, k := range keys {
		r.Add(k, m[k]...)
	}
	return r
}

// ParseRule splits "max:30" into its lower-cased name and parameters.
// Pattern rules keep their single parameter intact.
func ParseRule(spec string) (string, []string) {
	name, raw, ok := strings.Cut(strings.TrimSpace(spec), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if !ok {
		return name, nil
	}
	if name == "regex" || name == "not_regex" {
		return name, []string{raw}
	}
	params := strings.Split(raw, ",")
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}
	return name, params
}
