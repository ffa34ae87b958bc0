package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for dataobj configuration.
const envPrefix = "DATAOBJ"

// Loader merges the config file with environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("locale", "DATAOBJ_LOCALE")
	_ = v.BindEnv("catalog", "DATAOBJ_CATALOG")
	_ = v.BindEnv("builtin", "DATAOBJ_BUILTIN")
	_ = v.BindEnv("logLevel", "DATAOBJ_LOG_LEVEL")

	return &Loader{v: v}
}

// Load reads configFile, or DefaultConfigFile when it is empty. A missing
// file is not an error. Environment variables take precedence over file
// values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	path, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(path)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}
	return cfg.WithDefaults(), nil
}

// Set overrides a key, as a command line flag does.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}
