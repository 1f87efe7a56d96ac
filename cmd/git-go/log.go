package main

import (
	"fmt"
	"io"

	git "github.com/Nivl/git-go"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/Nivl/git-go/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newLogCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log [commit-ish]",
		Short: "Show commit logs",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		commitish := "HEAD"
		if len(args) > 0 {
			commitish = args[0]
		}
		return logCmd(cmd.OutOrStdout(), cfg, commitish)
	}
	return cmd
}

func logCmd(out io.Writer, cfg *globalFlags, commitish string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveRevisionAs(commitish, object.TypeCommit, true)
	if err != nil {
		return xerrors.Errorf("%s: %w", commitish, err)
	}

	return r.WalkHistory(oid, func(entry git.LogEntry) error {
		fmt.Fprintf(out, "commit %s\n", entry.ID.String())
		fmt.Fprintf(out, "Author: %s <%s>\n", entry.Author.Name, entry.Author.Email)
		fmt.Fprintf(out, "Date:   %s\n\n", entry.Author.Time.Format("Mon Jan 2 15:04:05 2006 -0700"))
		fmt.Fprintf(out, "    %s\n\n", entry.ShortMessage)
		return nil
	})
}
