package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Struct tag names.
const (
	TagOptions      = "dataobj"
	TagOneOf        = "oneof"
	TagOneOfDefault = "oneofdefault"
	TagRules        = "rules"
	TagTransform    = "transform"
	TagUnion        = "union"
	TagDefault      = "default"
)

// ResolveKey resolves a struct field's own input key.
// Priority: dataobj:"name=..." > json tag name > field name; "-" disables the field.
func ResolveKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get(TagOptions); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if p == "-" {
				return "-"
			}
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return sf.Name
			}
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

type options struct {
	computed   bool
	ignore     bool
	notrim     bool
	collection bool
	from       string
	handler    string
}

func parseOptions(sf reflect.StructField) (options, error) {
	var o options
	raw := sf.Tag.Get(TagOptions)
	if raw == "" {
		return o, nil
	}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case p == "-" || p == "ignore":
			o.ignore = true
		case p == "computed":
			o.computed = true
		case p == "notrim":
			o.notrim = true
		case p == "collection":
			o.collection = true
		case strings.HasPrefix(p, "name="):
		case strings.HasPrefix(p, "from="):
			o.from = strings.TrimPrefix(p, "from=")
			if o.from == "" {
				return o, fmt.Errorf("empty from= key")
			}
		case strings.HasPrefix(p, "handler="):
			o.handler = strings.TrimPrefix(p, "handler=")
		default:
			return o, fmt.Errorf("unknown %s option %q", TagOptions, p)
		}
	}
	return o, nil
}

func splitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
