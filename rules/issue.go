package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Issue is a single failed rule on one attribute.
type Issue struct {
	Path    string // Attribute key, dotted for nested values.
	Code    string // Rule name, e.g. "required" or "max".
	Message string
	// Params carries the placeholder values used to render Message.
	Params map[string]string
	// Rule records the full rule spec that failed, e.g. "max:30".
	Rule string
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ByKey groups messages per attribute key.
func (iss Issues) ByKey() map[string][]string {
	out := make(map[string][]string, len(iss))
	for _, it := range iss {
		out[it.Path] = append(out[it.Path], it.Message)
	}
	return out
}

// Keys returns the attribute keys with issues, in first-failure order.
func (iss Issues) Keys() []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range iss {
		if !seen[it.Path] {
			seen[it.Path] = true
			out = append(out, it.Path)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
