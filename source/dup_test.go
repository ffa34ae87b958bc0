package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateKeys(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{name: "none", doc: `{"a": 1, "b": {"a": 2}, "c": [{"a": 1}, {"a": 2}]}`},
		{name: "top level", doc: `{"a": 1, "b": "x", "a": 2}`, want: []string{"a"}},
		{name: "nested", doc: `{"b": {"c": 1, "c": {"d": true}}}`, want: []string{"b.c"}},
		{name: "in list", doc: `{"l": [1, {"x": null, "x": 2}]}`, want: []string{"l.1.x"}},
		{name: "after containers", doc: `{"a": [], "b": {}, "a": {}, "b": 1}`, want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DuplicateKeys([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSONStrict(t *testing.T) {
	m, err := DecodeJSONStrict([]byte(`{"a": 1}`), NumberNative)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, m)

	_, err = DecodeJSONStrict([]byte(`{"a": 1, "a": 2}`), NumberNative)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.ErrorContains(t, err, ": a")

	// Plain decoding keeps the last value.
	m, err = DecodeJSONBytes([]byte(`{"a": 1, "a": 2}`), NumberNative)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m["a"])
}
