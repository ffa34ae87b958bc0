package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/reoring/dataobj"
	"github.com/reoring/dataobj/internal/config"
	"github.com/reoring/dataobj/source"
)

// app carries global flags and the resolved config to subcommands.
type app struct {
	configFile string
	verbose    bool
	locale     string
	catalog    string
	builtin    bool

	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "dataobj",
		Short: "Validate and inspect input documents",
		Long: `dataobj runs the dataobj rule engine against JSON or YAML documents.

It provides commands to:
  - Validate a document against a rules file
  - Flatten a document into dotted keys
  - Print the effective message catalog`,
		PersistentPreRunE: a.initialize,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.configFile, "config", "c", "", "path to config file (default "+config.DefaultConfigFile+")")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "increase output verbosity")
	f.StringVar(&a.locale, "locale", "", "message locale (env: DATAOBJ_LOCALE)")
	f.StringVar(&a.catalog, "catalog", "", "message catalog file or directory (env: DATAOBJ_CATALOG)")
	f.BoolVar(&a.builtin, "builtin", false, "fall back to the embedded catalogs (env: DATAOBJ_BUILTIN)")

	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newFlattenCmd(a))
	root.AddCommand(newMessagesCmd(a))
	return root
}

// initialize loads the config and sets up logging.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader()
	f := cmd.Flags()
	if f.Changed("locale") {
		loader.Set("locale", a.locale)
	}
	if f.Changed("catalog") {
		loader.Set("catalog", a.catalog)
	}
	if f.Changed("builtin") {
		loader.Set("builtin", a.builtin)
	}
	cfg, err := loader.LoadWithDefaults(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if a.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:           level,
		ReportTimestamp: a.verbose,
		Prefix:          "dataobj",
	})
	dataobj.SetLogger(a.logger)
	a.logger.Debug("config loaded", "locale", cfg.Locale, "catalog", cfg.Catalog, "builtin", cfg.Builtin)
	return nil
}

// inputFlags select how readInput decodes a document.
type inputFlags struct {
	format     string
	strictKeys bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "input format: json or yaml (default: by extension)")
	cmd.Flags().BoolVar(&f.strictKeys, "strict-keys", false, "reject JSON objects with repeated keys")
}

// readInput decodes the document at path; "-" reads stdin.
func readInput(cmd *cobra.Command, path string, in inputFlags) (map[string]any, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	f := source.FormatOf(path)
	if in.format != "" {
		f = source.Format(in.format)
	}
	var m map[string]any
	if f == source.FormatJSON && in.strictKeys {
		m, err = source.DecodeJSONStrict(b, source.NumberNative)
	} else {
		m, err = source.Decode(b, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}
