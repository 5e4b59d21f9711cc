package main

import (
	"time"

	"github.com/spf13/cobra"

	"codebundle/internal/exportclient"
)

type rootOptions struct {
	server  string
	timeout time.Duration
	root    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "bundlectl",
		Short:         "Pick functions and classes from a source tree and export them as one bundle",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", "http://localhost:5000", "bundle gateway base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", exportclient.DefaultTimeout, "per-request timeout")
	cmd.PersistentFlags().StringVar(&opts.root, "root", ".", "project root to load")

	cmd.AddCommand(newPickCmd(opts), newExportCmd(opts), newTreeCmd(opts))
	return cmd
}

func (o *rootOptions) client() (*exportclient.Client, error) {
	return exportclient.New(exportclient.Options{BaseURL: o.server, Timeout: o.timeout})
}
