package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codebundle/internal/picker"
)

func newPickCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Open the interactive picker for --root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := opts.client()
			if err != nil {
				return err
			}
			tree, err := cli.Tree(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			final, err := picker.Run(cmd.Context(), tree, cli)
			if err != nil {
				return err
			}
			if err := final.LastError(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "last export: %v\n", err)
			}
			return nil
		},
	}
}
