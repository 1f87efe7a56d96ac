package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/internal/errutil"
	"github.com/spf13/cobra"
)

func newShowRefCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-ref",
		Short: "List references in a local repository",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return showRefCmd(cmd.OutOrStdout(), cfg)
	}
	return cmd
}

func showRefCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	refs, err := r.ListReferences()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		target := refs[name]
		if target == ginternals.NullOid {
			continue
		}
		fmt.Fprintf(out, "%s %s\n", target.String(), name)
	}
	return nil
}
