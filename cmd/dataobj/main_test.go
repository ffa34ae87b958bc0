package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dataobj"
	"github.com/reoring/dataobj/i18n"
	"github.com/reoring/dataobj/source"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() {
		dataobj.SetLogger(nil)
		i18n.ClearCache()
	})
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const signupRules = `
rules:
  name: required|string|max:20
  age: [integer, "max:30"]
  gender: in:male,female
  email: required|email
labels:
  email: E-Mail Address
`

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", signupRules)

	t.Run("raw keys without catalog", func(t *testing.T) {
		input := writeFile(t, dir, "bad.json", `{"name": "", "age": 50, "gender": "x"}`)
		out, _, err := run(t, "", "validate", "--rules", rulesPath, input)
		require.Error(t, err)
		assert.Equal(t, ExitValidationError, exitCode(err))
		assert.Equal(t, strings.Join([]string{
			"name: validation.required",
			"age: validation.max.numeric",
			"gender: validation.in",
			"email: validation.required",
		}, "\n")+"\n", out)
	})

	t.Run("builtin catalog", func(t *testing.T) {
		out, _, err := run(t, "name: Bart\n", "validate", "--builtin", "--format", "yaml", "-r", rulesPath, "-")
		assert.ErrorIs(t, err, errValidation)
		assert.Equal(t, "email: The E-Mail Address field is required.\n", out)
	})

	t.Run("locale from env", func(t *testing.T) {
		t.Setenv("DATAOBJ_LOCALE", "ja")
		t.Setenv("DATAOBJ_BUILTIN", "true")
		out, _, err := run(t, `{"name": "Bart"}`, "validate", "-r", rulesPath, "-")
		assert.ErrorIs(t, err, errValidation)
		assert.Equal(t, "email: E-Mail Addressは必須項目です。\n", out)
	})

	t.Run("valid input", func(t *testing.T) {
		input := writeFile(t, dir, "good.yaml", "name: Lisa\nage: 8\nemail: lisa@example.com\n")
		out, _, err := run(t, "", "validate", "--rules", rulesPath, input)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("missing rules flag", func(t *testing.T) {
		_, _, err := run(t, "{}", "validate", "-")
		require.Error(t, err)
		assert.Equal(t, ExitGeneralError, exitCode(err))
	})

	t.Run("unknown rule", func(t *testing.T) {
		bad := writeFile(t, dir, "unknown.yaml", "rules:\n  name: frobnicate\n")
		_, _, err := run(t, `{"name": "x"}`, "validate", "-r", bad, "-")
		require.Error(t, err)
		assert.NotErrorIs(t, err, errValidation)
	})
}

func TestValidate_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", signupRules)
	writeFile(t, dir, "lang/de/validation.yaml", "required: \":attribute fehlt.\"\n")
	cfg := writeFile(t, dir, "config.yaml", "locale: de\ncatalog: "+filepath.Join(dir, "lang")+"\n")

	out, _, err := run(t, `{"name": "Bart"}`, "validate", "-c", cfg, "-r", rulesPath, "-")
	assert.ErrorIs(t, err, errValidation)
	assert.Equal(t, "email: E-Mail Address fehlt.\n", out)

	_, _, err = run(t, `{}`, "validate", "-c", writeFile(t, dir, "broken.yaml", "logLevel: loud\n"), "-r", rulesPath, "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestParseRulesFile(t *testing.T) {
	rf, err := parseRulesFile([]byte(signupRules))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "gender", "email"}, rf.Rules.Keys())
	assert.Equal(t, []string{"integer", "max:30"}, rf.Rules.Get("age"))
	assert.Equal(t, map[string]string{"email": "E-Mail Address"}, rf.Labels)

	_, err = parseRulesFile([]byte("rules: [a, b]\n"))
	assert.Error(t, err)
	_, err = parseRulesFile([]byte("rules:\n  a: {x: 1}\n"))
	assert.Error(t, err)
	_, err = parseRulesFile([]byte("labels: {}\n"))
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	out, _, err := run(t, `{"user": {"name": "Ann", "tags": ["a", "b"], "meta": {}}, "n": 1.5}`, "flatten", "-")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`n=1.5`,
		`user.meta={}`,
		`user.name="Ann"`,
		`user.tags.0="a"`,
		`user.tags.1="b"`,
	}, "\n")+"\n", out)

	_, _, err = run(t, `[1]`, "flatten", "-")
	assert.Error(t, err)
}

func TestFlatten_StrictKeys(t *testing.T) {
	out, _, err := run(t, `{"a": 1, "a": 2}`, "flatten", "-")
	require.NoError(t, err)
	assert.Equal(t, "a=2\n", out)

	_, _, err = run(t, `{"a": 1, "a": 2}`, "flatten", "--strict-keys", "-")
	assert.ErrorIs(t, err, source.ErrDuplicateKey)
}

func TestMessages(t *testing.T) {
	out, _, err := run(t, "", "messages", "--builtin", "--locale", "ja")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# builtin:ja (ja)\n"))
	assert.Contains(t, out, "required: :attributeは必須項目です。\n")

	out, errOut, err := run(t, "", "messages", "--locale", "xx")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "no message catalog found")
}

func TestVerboseLogging(t *testing.T) {
	_, errOut, err := run(t, `{"a": 1}`, "-v", "flatten", "-")
	require.NoError(t, err)
	assert.Contains(t, errOut, "config loaded")
	assert.Contains(t, errOut, "flattened")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitValidationError, exitCode(errValidation))
	assert.Equal(t, ExitGeneralError, exitCode(errors.New("boom")))
}
