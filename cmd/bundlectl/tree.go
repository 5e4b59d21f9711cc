package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newTreeCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the analyzed tree for --root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := opts.client()
			if err != nil {
				return err
			}
			tree, err := cli.Tree(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tree)
			}
			for _, f := range tree.Files {
				fmt.Fprintln(out, f.Label())
				for _, fn := range f.Functions {
					fmt.Fprintf(out, "  %s()  L%d-%d\n", fn.Name, fn.Start, fn.End)
				}
				for _, c := range f.Classes {
					fmt.Fprintf(out, "  class %s  L%d-%d\n", c.Name, c.Start, c.End)
					for _, m := range c.Methods {
						fmt.Fprintf(out, "    %s()  L%d-%d\n", m.Name, m.Start, m.End)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
