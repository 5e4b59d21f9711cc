package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"codebundle/internal/selection"
	t "codebundle/internal/types"
)

type exportOptions struct {
	all       bool
	files     []string
	functions []string
	classes   []string
	filter    string
	dryRun    bool
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	eo := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a selection without the picker",
		Long: `Selects by relative path and submits one export.

  --file utils.py                 whole file
  --function utils.py:f1          one top-level function
  --class utils.py:C              class with each of its methods
  --class utils.py:C.m1           one method`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := opts.client()
			if err != nil {
				return err
			}
			tree, err := cli.Tree(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			st, err := selection.New(tree.Files)
			if err != nil {
				return err
			}
			if err := eo.apply(st, tree); err != nil {
				return err
			}
			payload := st.Payload(tree.Root)
			if len(payload.Selection) == 0 {
				return fmt.Errorf("nothing selected")
			}
			if eo.dryRun {
				s := st.Stats()
				fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d items selected\n", s.Files, s.Items)
				return nil
			}
			resp, err := cli.Export(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d files, %d tokens)\n", resp.OutPath, resp.Files, resp.Tokens)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&eo.all, "all", false, "select every file")
	f.StringArrayVar(&eo.files, "file", nil, "select a whole file by relative path")
	f.StringArrayVar(&eo.functions, "function", nil, "select rel:function")
	f.StringArrayVar(&eo.classes, "class", nil, "select rel:Class or rel:Class.method")
	f.StringVar(&eo.filter, "filter", "", "select every file matching this filter")
	f.BoolVar(&eo.dryRun, "dry-run", false, "print the selection size and exit")
	return cmd
}

func (eo *exportOptions) apply(st *selection.State, tree t.Tree) error {
	byRel := make(map[string]string, len(tree.Files))
	for _, f := range tree.Files {
		byRel[f.Label()] = f.Path
	}
	lookup := func(rel string) (string, error) {
		p, ok := byRel[strings.TrimSpace(rel)]
		if !ok {
			return "", fmt.Errorf("no analyzed file %q under %s", rel, tree.Root)
		}
		return p, nil
	}

	if eo.all {
		st.SetAll(true)
	}
	if q := strings.TrimSpace(eo.filter); q != "" {
		vis := st.ApplyFilter(q)
		for _, p := range st.Paths() {
			if vis[p] {
				if err := st.SetFile(p, true); err != nil {
					return err
				}
			}
		}
	}
	for _, rel := range eo.files {
		p, err := lookup(rel)
		if err != nil {
			return err
		}
		if err := st.SetFile(p, true); err != nil {
			return err
		}
	}
	for _, spec := range eo.functions {
		rel, name, ok := strings.Cut(spec, ":")
		if !ok {
			return fmt.Errorf("--function %q: want rel:name", spec)
		}
		p, err := lookup(rel)
		if err != nil {
			return err
		}
		if err := st.SetFunction(p, name, true); err != nil {
			return fmt.Errorf("--function %q: %w", spec, err)
		}
	}
	for _, spec := range eo.classes {
		rel, name, ok := strings.Cut(spec, ":")
		if !ok {
			return fmt.Errorf("--class %q: want rel:Class[.method]", spec)
		}
		p, err := lookup(rel)
		if err != nil {
			return err
		}
		if class, method, isMethod := strings.Cut(name, "."); isMethod {
			err = st.SetMethod(p, class, method, true)
		} else {
			err = st.SetClass(p, name, true)
		}
		if err != nil {
			return fmt.Errorf("--class %q: %w", spec, err)
		}
	}
	return nil
}
