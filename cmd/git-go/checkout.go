package main

import (
	"fmt"
	"io"

	"github.com/Nivl/git-go/ginternals/object"
	"github.com/Nivl/git-go/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newCheckoutCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout commit-ish path",
		Short: "Materialise a tree into an empty or absent directory",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return checkoutCmd(cmd.OutOrStdout(), cfg, args[0], args[1])
	}
	return cmd
}

func checkoutCmd(out io.Writer, cfg *globalFlags, commitish, dest string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	treeID, err := r.ResolveRevisionAs(commitish, object.TypeTree, true)
	if err != nil {
		return xerrors.Errorf("%s: %w", commitish, err)
	}

	if err := r.Checkout(treeID, dest, nil); err != nil {
		return err
	}

	fmt.Fprintf(out, "Checked out %s to %s\n", commitish, dest)
	return nil
}
