package main

import (
	"fmt"
	"io"

	"github.com/Nivl/git-go/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newRevParseCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rev-parse name",
		Short: "Resolve a name to its canonical object ID",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return revParseCmd(cmd.OutOrStdout(), cfg, args[0])
	}
	return cmd
}

func revParseCmd(out io.Writer, cfg *globalFlags, name string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveRevision(name)
	if err != nil {
		return xerrors.Errorf("%s: %w", name, err)
	}

	fmt.Fprintln(out, oid.String())
	return nil
}
