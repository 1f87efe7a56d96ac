package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Nivl/git-go/internal/errutil"
	"github.com/spf13/cobra"
)

// errNoMatch is returned when none of the given paths matched an
// ignore rule, mirroring check-ignore's non-zero exit code in that case.
var errNoMatch = errors.New("no path matched an ignore rule")

func newCheckIgnoreCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-ignore path...",
		Short: "Check whether paths are excluded by ignore rules",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return checkIgnoreCmd(cmd.OutOrStdout(), cfg, args)
	}
	return cmd
}

func checkIgnoreCmd(out io.Writer, cfg *globalFlags, paths []string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	ig, err := r.LoadIgnore(cfg.env)
	if err != nil {
		return err
	}

	matched := false
	for _, p := range paths {
		ignored, err := ig.Check(p)
		if err != nil {
			return err
		}
		if ignored {
			matched = true
			fmt.Fprintln(out, p)
		}
	}
	if !matched {
		return errNoMatch
	}
	return nil
}
