package resolve

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/schema"
)

type target struct {
	Plain    string  `json:"plain"`
	Mapped   string  `dataobj:"from=other.key"`
	First    string  `oneof:"k1,k2"`
	Nullable *string `oneof:"k1,k2"`
	Fallback string  `oneof:"x,y" oneofdefault:"none"`
	WithDef  string  `json:"with_def" oneof:"x,y" default:"d"`
	Nested   int     `oneof:"a.b,c"`
}

func setup(t *testing.T) (Resolver, *schema.Type) {
	t.Helper()
	typ, err := schema.Of(reflect.TypeOf(target{}))
	require.NoError(t, err)
	return Resolver{Type: typ}, typ
}

func field(t *testing.T, typ *schema.Type, name string) *schema.Field {
	t.Helper()
	f, ok := typ.Field(name)
	require.True(t, ok, name)
	return f
}

func TestResolve_DirectAndMapFrom(t *testing.T) {
	r, typ := setup(t)

	res, err := r.Resolve(field(t, typ, "Plain"), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Key: "plain"}, res)

	// No existence check for a single remap.
	res, err = r.Resolve(field(t, typ, "Mapped"), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, Result{Key: "other.key"}, res)
}

func TestResolve_OneOfPicksFirstCastable(t *testing.T) {
	r, typ := setup(t)
	f := field(t, typ, "First")

	res, err := r.Resolve(f, map[string]any{"k2": "two"})
	require.NoError(t, err)
	assert.Equal(t, "k2", res.Key)

	res, err = r.Resolve(f, map[string]any{"k2": "two", "k1": "one"})
	require.NoError(t, err)
	assert.Equal(t, "k1", res.Key)

	// Empty is not castable into a non-nullable field.
	res, err = r.Resolve(f, map[string]any{"k1": "", "k2": "two"})
	require.NoError(t, err)
	assert.Equal(t, "k2", res.Key)

	// Whitespace is a value; only the empty string counts as null.
	res, err = r.Resolve(f, map[string]any{"k1": "  ", "k2": "two"})
	require.NoError(t, err)
	assert.Equal(t, "k1", res.Key)

	// But it is for a nullable one.
	res, err = r.Resolve(field(t, typ, "Nullable"), map[string]any{"k1": nil, "k2": "two"})
	require.NoError(t, err)
	assert.Equal(t, "k1", res.Key)
}

func TestResolve_OneOfDottedPath(t *testing.T) {
	r, typ := setup(t)
	res, err := r.Resolve(field(t, typ, "Nested"), map[string]any{"a": map[string]any{"b": 3}})
	require.NoError(t, err)
	assert.Equal(t, "a.b", res.Key)
}

func TestResolve_OneOfFallbacks(t *testing.T) {
	r, typ := setup(t)

	res, err := r.Resolve(field(t, typ, "Fallback"), map[string]any{"z": 1})
	require.NoError(t, err)
	assert.True(t, res.UseDefault)

	res, err = r.Resolve(field(t, typ, "WithDef"), map[string]any{"z": 1})
	require.NoError(t, err)
	assert.Equal(t, Result{Key: "with_def"}, res)

	_, err = r.Resolve(field(t, typ, "First"), map[string]any{"dummy": "x"})
	require.ErrorIs(t, err, fault.ErrNoMappingKeyFound)
	assert.Contains(t, err.Error(), "First")
}
