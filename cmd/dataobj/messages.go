package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/dataobj/i18n"
)

func newMessagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "messages",
		Short: "Print the effective message catalog",
		Long: `Messages resolves the catalog the validate command would use for the
configured locale and prints its templates as key: template.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := i18n.Find(i18n.Options{
				Locale:  a.cfg.Locale,
				Path:    a.cfg.Catalog,
				Builtin: a.cfg.Builtin,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c.Source == "" {
				a.logger.Warn("no message catalog found; messages render as raw keys", "locale", a.cfg.Locale)
				return nil
			}
			fmt.Fprintf(out, "# %s (%s)\n", c.Source, c.Locale)
			for _, k := range c.Keys() {
				s, _ := c.Lookup(k)
				fmt.Fprintf(out, "%s: %s\n", k, s)
			}
			return nil
		},
	}
}
