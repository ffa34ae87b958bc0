package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/dataobj/internal/attrs"
)

func newFlattenCmd(a *app) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "flatten INPUT",
		Short: "Print a document as dotted keys",
		Long: `Flatten prints every leaf of INPUT ("-" reads stdin) as key=value in key
order. These are the keys rules and messages refer to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0], in)
			if err != nil {
				return err
			}
			flat := attrs.Dot(data)
			out := cmd.OutOrStdout()
			for _, k := range attrs.Keys(flat) {
				b, err := json.Marshal(flat[k])
				if err != nil {
					return fmt.Errorf("%s: %w", k, err)
				}
				fmt.Fprintf(out, "%s=%s\n", k, b)
			}
			a.logger.Debug("flattened", "keys", len(flat))
			return nil
		},
	}
	in.register(cmd)
	return cmd
}
