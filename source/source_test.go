package source

import (
	"strings"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_NumberModes(t *testing.T) {
	doc := `{"a": 1, "b": 1.5, "c": [2, {"d": 9007199254740993}], "e": "x"}`

	m, err := DecodeJSON(strings.NewReader(doc), NumberNative)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m["a"])
	assert.Equal(t, 1.5, m["b"])
	assert.Equal(t, []any{int64(2), map[string]any{"d": int64(9007199254740993)}}, m["c"])
	assert.Equal(t, "x", m["e"])

	m, err = DecodeJSONBytes([]byte(doc), NumberJSONNumber)
	require.NoError(t, err)
	assert.Equal(t, j.Number("1"), m["a"])

	m, err = DecodeJSONBytes([]byte(doc), NumberFloat64)
	require.NoError(t, err)
	assert.Equal(t, float64(1), m["a"])
}

func TestDecodeJSON_Errors(t *testing.T) {
	_, err := DecodeJSONBytes([]byte(`[1,2]`), NumberNative)
	require.ErrorIs(t, err, ErrNotObject)

	_, err = DecodeJSONBytes([]byte(`{`), NumberNative)
	require.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	m, err := DecodeYAML([]byte("name: Alice\nage: 30\nitems:\n  - id: 1\n    tags: [a, b]\n"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", m["name"])
	assert.Equal(t, 30, m["age"])
	assert.Equal(t, []any{map[string]any{"id": 1, "tags": []any{"a", "b"}}}, m["items"])

	m, err = DecodeYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = DecodeYAML([]byte("- a\n- b\n"))
	require.ErrorIs(t, err, ErrNotObject)
}

func TestDecodeByFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("in.YML"))
	assert.Equal(t, FormatJSON, FormatOf("in.json"))
	assert.Equal(t, FormatJSON, FormatOf("-"))

	m, err := Decode([]byte(`k: v`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "v", m["k"])

	m, err = Decode([]byte(`{"k": 2}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m["k"])
}
