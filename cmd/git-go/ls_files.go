package main

import (
	"fmt"
	"io"
	"os/user"
	"strconv"

	"github.com/Nivl/git-go/ginternals/index"
	"github.com/Nivl/git-go/internal/errutil"
	"github.com/spf13/cobra"
)

func newLsFilesCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls-files",
		Short: "Show information about files in the index",
		Args:  cobra.NoArgs,
	}

	verbose := cmd.Flags().BoolP("verbose", "v", false, "Show the uid/gid/perms of each entry, in addition to its name.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return lsFilesCmd(cmd.OutOrStdout(), cfg, *verbose)
	}
	return cmd
}

func lsFilesCmd(out io.Writer, cfg *globalFlags, verbose bool) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	idx, err := r.Index()
	if err != nil {
		return err
	}

	for _, e := range idx.Entries {
		if !verbose {
			fmt.Fprintln(out, e.Path)
			continue
		}
		fmt.Fprintf(out, "%o %s %d\t%s\t%s %s\n",
			(e.ModeType<<12)|e.ModePerms, e.ID.String(), e.Stage, e.Path,
			lookupUID(e), lookupGID(e))
	}
	return nil
}

// lookupUID resolves an index entry's recorded uid via the platform's
// passwd database, falling back to the numeric id when unavailable.
// This replaces the source's stdin-metadata stub (spec.md §9's Open
// Question resolution).
func lookupUID(e index.Entry) string {
	u, err := user.LookupId(strconv.FormatUint(uint64(e.UID), 10))
	if err != nil {
		return strconv.FormatUint(uint64(e.UID), 10)
	}
	return u.Username
}

// lookupGID resolves an index entry's recorded gid via the platform's
// group database, falling back to the numeric id when unavailable.
func lookupGID(e index.Entry) string {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(e.GID), 10))
	if err != nil {
		return strconv.FormatUint(uint64(e.GID), 10)
	}
	return g.Name
}
