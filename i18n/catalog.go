package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/reoring/dataobj/internal/attrs"
)

// EnvLangPath names an extra directory searched before the conventional
// ones.
const EnvLangPath = "DATAOBJ_LANG_PATH"

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

//go:embed lang/*.yaml
var builtinFS embed.FS

// SearchDirs are the conventional catalog directories, relative to the
// working directory. Each holds <locale>/validation.{yaml,yml,json}.
var SearchDirs = []string{"lang", "resources/lang"}

var extensions = []string{".yaml", ".yml", ".json"}

// Options selects a catalog.
type Options struct {
	Locale string
	// Path is an explicit catalog file or directory. When it does not
	// exist the conventional lookup applies.
	Path string
	// Builtin enables the embedded catalogs as a last resort.
	Builtin bool
}

var (
	cacheMu sync.Mutex
	cache   = map[Options]*Catalog{}
)

// Find returns the first catalog found for opts. When nothing is found it
// returns an empty catalog, so lookups fall back to raw keys. Results are
// cached until ClearCache.
func Find(opts Options) (*Catalog, error) {
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	cacheMu.Lock()
	c, ok := cache[opts]
	cacheMu.Unlock()
	if ok {
		return c, nil
	}
	c, err := find(opts)
	if err != nil {
		return nil, err
	}
	cacheMu.Lock()
	cache[opts] = c
	cacheMu.Unlock()
	return c, nil
}

// ClearCache drops every cached catalog.
func ClearCache() {
	cacheMu.Lock()
	cache = map[Options]*Catalog{}
	cacheMu.Unlock()
}

func find(opts Options) (*Catalog, error) {
	locales := Candidates(opts.Locale)
	if opts.Path != "" {
		if c, err := loadPath(opts.Path, locales); err == nil || !errors.Is(err, fs.ErrNotExist) {
			return c, err
		}
	}
	var dirs []string
	if env := os.Getenv(EnvLangPath); env != "" {
		dirs = append(dirs, env)
	}
	dirs = append(dirs, SearchDirs...)
	for _, dir := range dirs {
		for _, loc := range locales {
			c, err := loadDir(filepath.Join(dir, loc), loc)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return c, err
		}
	}
	if opts.Builtin {
		for _, loc := range locales {
			if c, ok := Builtin(loc); ok {
				return c, nil
			}
		}
	}
	return &Catalog{Locale: opts.Locale, messages: map[string]string{}}, nil
}

// loadPath loads an explicit catalog file, or a directory laid out like the
// conventional ones.
func loadPath(path string, locales []string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return Load(path, locales[0])
	}
	for _, loc := range locales {
		c, err := loadDir(filepath.Join(path, loc), loc)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return c, err
	}
	return loadDir(path, locales[0])
}

func loadDir(dir, locale string) (*Catalog, error) {
	for _, ext := range extensions {
		p := filepath.Join(dir, "validation"+ext)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return Load(p, locale)
	}
	return nil, fmt.Errorf("no validation catalog in %s: %w", dir, fs.ErrNotExist)
}

// Load reads one catalog file. The format follows the extension; anything
// other than .json is parsed as YAML.
func Load(path, locale string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".json"), locale)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	c.Source = path
	return c, nil
}

// Parse decodes a catalog document.
func Parse(data []byte, isJSON bool, locale string) (*Catalog, error) {
	doc := map[string]any{}
	var err error
	if isJSON {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	msgs := map[string]string{}
	for k, v := range attrs.Dot(doc) {
		s, err := cast.ToStringE(v)
		if err != nil {
			// Empty sections stay as nested maps.
			continue
		}
		msgs[k] = s
	}
	return &Catalog{Locale: locale, messages: msgs}, nil
}

// Builtin returns the embedded catalog for locale.
func Builtin(locale string) (*Catalog, bool) {
	data, err := builtinFS.ReadFile("lang/" + locale + ".yaml")
	if err != nil {
		return nil, false
	}
	c, err := Parse(data, false, locale)
	if err != nil {
		return nil, false
	}
	c.Source = "builtin:" + locale
	return c, true
}

// BuiltinLocales lists the embedded catalog locales.
func BuiltinLocales() []string {
	entries, _ := builtinFS.ReadDir("lang")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return out
}

// Candidates lists the directory names tried for locale: the locale as
// given, its canonical BCP 47 form with an underscore variant, then its base
// language.
func Candidates(locale string) []string {
	if locale == "" {
		locale = DefaultLocale
	}
	out := []string{locale}
	add := func(s string) {
		for _, have := range out {
			if have == s {
				return
			}
		}
		out = append(out, s)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return out
	}
	add(tag.String())
	add(strings.ReplaceAll(tag.String(), "-", "_"))
	if base, conf := tag.Base(); conf != language.No {
		add(base.String())
	}
	return out
}
