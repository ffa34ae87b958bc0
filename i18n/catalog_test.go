package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestFormat(t *testing.T) {
	got := Format(":Attribute must be <= :max (not :max_digits), :ATTRIBUTE", map[string]string{
		"attribute":  "age",
		"max":        "30",
		"max_digits": "2",
	})
	assert.Equal(t, "Age must be <= 30 (not 2), AGE", got)
	assert.Equal(t, "plain", Format("plain", map[string]string{"x": "y"}))
}

func TestParse_FlattensNestedKeys(t *testing.T) {
	c, err := Parse([]byte(`
required: "req"
max:
  numeric: "max num"
attributes:
  email: "email address"
custom:
  email:
    required: "need email"
`), false, "en")
	require.NoError(t, err)

	for key, want := range map[string]string{
		"required":              "req",
		"max.numeric":           "max num",
		"attributes.email":      "email address",
		"custom.email.required": "need email",
	} {
		got, ok := c.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got)
	}

	c, err = Parse([]byte(`{"in": "bad :attribute", "max": {"string": "long"}}`), true, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"in", "max.string"}, c.Keys())

	_, err = Parse([]byte(`{`), true, "en")
	require.Error(t, err)
}

func TestFind_LookupOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvLangPath, "")
	ClearCache()
	t.Cleanup(ClearCache)

	// Nothing on disk: empty catalog, raw keys upstream.
	c, err := Find(Options{})
	require.NoError(t, err)
	assert.Zero(t, c.Len())
	assert.Equal(t, "en", c.Locale)

	// Builtin as a last resort.
	c, err = Find(Options{Locale: "ja", Builtin: true})
	require.NoError(t, err)
	assert.Equal(t, "builtin:ja", c.Source)

	writeFile(t, filepath.Join(dir, "resources", "lang", "en", "validation.json"), `{"required": "from resources"}`)
	ClearCache()
	c, err = Find(Options{Locale: "en-US"})
	require.NoError(t, err)
	msg, _ := c.Lookup("required")
	assert.Equal(t, "from resources", msg)

	writeFile(t, filepath.Join(dir, "lang", "en", "validation.yaml"), `required: "from lang"`)
	ClearCache()
	c, err = Find(Options{Locale: "en"})
	require.NoError(t, err)
	msg, _ = c.Lookup("required")
	assert.Equal(t, "from lang", msg)

	envDir := filepath.Join(dir, "env")
	writeFile(t, filepath.Join(envDir, "en", "validation.yml"), `required: "from env"`)
	t.Setenv(EnvLangPath, envDir)
	ClearCache()
	c, err = Find(Options{Locale: "en"})
	require.NoError(t, err)
	msg, _ = c.Lookup("required")
	assert.Equal(t, "from env", msg)

	custom := filepath.Join(dir, "custom.yaml")
	writeFile(t, custom, `required: "from custom"`)
	ClearCache()
	c, err = Find(Options{Locale: "en", Path: custom})
	require.NoError(t, err)
	msg, _ = c.Lookup("required")
	assert.Equal(t, "from custom", msg)
	assert.Equal(t, custom, c.Source)

	// A missing custom path falls back to the conventional lookup.
	c, err = Find(Options{Locale: "en", Path: filepath.Join(dir, "missing.yaml")})
	require.NoError(t, err)
	msg, _ = c.Lookup("required")
	assert.Equal(t, "from env", msg)
}

func TestFind_CachesUntilCleared(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvLangPath, "")
	ClearCache()
	t.Cleanup(ClearCache)

	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, `required: "one"`)
	c, err := Find(Options{Path: path})
	require.NoError(t, err)
	msg, _ := c.Lookup("required")
	assert.Equal(t, "one", msg)

	writeFile(t, path, `required: "two"`)
	c, _ = Find(Options{Path: path})
	msg, _ = c.Lookup("required")
	assert.Equal(t, "one", msg)

	ClearCache()
	c, _ = Find(Options{Path: path})
	msg, _ = c.Lookup("required")
	assert.Equal(t, "two", msg)
}

func TestBuiltin(t *testing.T) {
	assert.ElementsMatch(t, []string{"en", "ja"}, BuiltinLocales())

	c, ok := Builtin("en")
	require.True(t, ok)
	msg, ok := c.Lookup("max.numeric")
	require.True(t, ok)
	assert.Equal(t, "The age field must not be greater than 30.",
		Format(msg, map[string]string{"attribute": "age", "max": "30"}))

	_, ok = Builtin("xx")
	assert.False(t, ok)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"en"}, Candidates(""))
	assert.Equal(t, []string{"pt_BR", "pt-BR", "pt"}, Candidates("pt_BR"))
	assert.Equal(t, []string{"ja-JP", "ja_JP", "ja"}, Candidates("ja-JP"))
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Lookup("required")
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	var tr Translator = NewCatalog("en", map[string]string{"in": "x"})
	got, ok := tr.Lookup("in")
	assert.True(t, ok)
	assert.Equal(t, "x", got)
}
