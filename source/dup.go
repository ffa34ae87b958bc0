package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// ErrDuplicateKey is returned by DecodeJSONStrict for objects that repeat a
// key. Plain decoding keeps the last occurrence.
var ErrDuplicateKey = errors.New("duplicate key")

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	path         string
	keys         map[string]struct{}
	key          string
	index        int
	expectingKey bool
}

// DuplicateKeys lists the dotted paths of repeated object keys in a JSON
// document, in document order.
func DuplicateKeys(data []byte) ([]string, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		stack []dupFrame
		dups  []string
	)
	// valueDone advances the enclosing container past one value.
	valueDone := func() {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			if top.kind == kindObject {
				top.expectingKey = true
			} else {
				top.index++
			}
		}
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return dups, nil
		}
		if err != nil {
			return dups, err
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				stack = append(stack, dupFrame{kind: kindObject, path: childPath(stack), keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, dupFrame{kind: kindArray, path: childPath(stack)})
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
				valueDone()
			}
			continue
		case string:
			if n := len(stack); n > 0 && stack[n-1].kind == kindObject && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, ok := top.keys[v]; ok {
					dups = append(dups, joinPath(top.path, v))
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
		}
		valueDone()
	}
}

// childPath is the path of the value about to start in the top container.
func childPath(stack []dupFrame) string {
	n := len(stack)
	if n == 0 {
		return ""
	}
	top := stack[n-1]
	if top.kind == kindObject {
		return joinPath(top.path, top.key)
	}
	return joinPath(top.path, strconv.Itoa(top.index))
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// DecodeJSONStrict is DecodeJSONBytes that rejects repeated object keys.
func DecodeJSONStrict(b []byte, mode NumberMode) (map[string]any, error) {
	dups, err := DuplicateKeys(b)
	if err != nil {
		return nil, err
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, strings.Join(dups, ", "))
	}
	return DecodeJSONBytes(b, mode)
}
