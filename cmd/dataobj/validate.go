package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/dataobj/rules"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		rulesPath string
		in        inputFlags
	)
	cmd := &cobra.Command{
		Use:   "validate --rules FILE INPUT",
		Short: "Validate a JSON or YAML document against a rules file",
		Long: `Validate runs every rule of the rules file against INPUT ("-" reads stdin)
and prints one line per failed rule as "key: message". It exits with
status 2 when validation fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := loadRulesFile(rulesPath)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0], in)
			if err != nil {
				return err
			}

			v := rules.New(a.cfg.Settings())
			v.Logger = a.logger
			err = v.Validate(cmd.Context(), data, rf.Rules, rf.Messages, rf.Labels)
			if err == nil {
				a.logger.Info("input is valid", "keys", rf.Rules.Len())
				return nil
			}
			iss, ok := rules.AsIssues(err)
			if !ok {
				return err
			}
			out := cmd.OutOrStdout()
			for _, is := range iss {
				fmt.Fprintf(out, "%s: %s\n", is.Path, is.Message)
			}
			return fmt.Errorf("%w: %d failed rules", errValidation, len(iss))
		},
	}
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "rules file (YAML or JSON)")
	in.register(cmd)
	_ = cmd.MarkFlagRequired("rules")
	return cmd
}
