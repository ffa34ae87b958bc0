// Package config loads the validation settings used by the dataobj command
// from an optional YAML file and DATAOBJ_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/dataobj/i18n"
	"github.com/reoring/dataobj/rules"
)

// DefaultConfigFile is read when no explicit config file is given.
const DefaultConfigFile = ".dataobj.yaml"

// Config holds the validation settings of the command.
type Config struct {
	// Locale selects the message catalog.
	// Env: DATAOBJ_LOCALE, Default: "en"
	Locale string `mapstructure:"locale"`

	// Catalog is a catalog file or directory tried before the conventional
	// lang/ and resources/lang/ directories.
	// Env: DATAOBJ_CATALOG
	Catalog string `mapstructure:"catalog"`

	// Builtin falls back to the embedded catalogs when nothing else is found.
	// Env: DATAOBJ_BUILTIN
	Builtin bool `mapstructure:"builtin"`

	// LogLevel is one of debug, info, warn, error.
	// Env: DATAOBJ_LOG_LEVEL, Default: "warn"
	LogLevel string `mapstructure:"logLevel"`
}

// WithDefaults returns a copy with empty values replaced by defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Locale == "" {
		out.Locale = i18n.DefaultLocale
	}
	if out.LogLevel == "" {
		out.LogLevel = "warn"
	}
	return &out
}

// Settings converts the config into rule engine settings.
func (c *Config) Settings() rules.Settings {
	return rules.Settings{
		Locale:      c.Locale,
		CatalogPath: c.Catalog,
		Builtin:     c.Builtin,
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
