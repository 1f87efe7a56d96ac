package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	git "github.com/Nivl/git-go"
	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/Nivl/git-go/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newTagCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [name [object]]",
		Short: "List or create tags",
		Args:  cobra.MaximumNArgs(2),
	}

	annotate := cmd.Flags().BoolP("annotate", "a", false, "Make an unsigned, annotated tag object.")
	message := cmd.Flags().StringP("message", "m", "", "Use the given tag message.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name, target := "", "HEAD"
		if len(args) > 0 {
			name = args[0]
		}
		if len(args) > 1 {
			target = args[1]
		}
		return tagCmd(cmd.OutOrStdout(), cfg, name, target, *annotate, *message)
	}
	return cmd
}

func tagCmd(out io.Writer, cfg *globalFlags, name, target string, annotate bool, message string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	if name == "" {
		return listTags(out, r)
	}

	oid, err := r.ResolveRevision(target)
	if err != nil {
		return xerrors.Errorf("%s: %w", target, err)
	}

	if !annotate {
		if _, err := r.NewLightweightTag(name, oid); err != nil {
			return err
		}
		return nil
	}

	o, err := r.GetObject(oid)
	if err != nil {
		return err
	}
	_, err = r.NewTag(&object.TagParams{
		Target:  o,
		Name:    name,
		Tagger:  object.NewSignature(cfg.env.Get("GIT_AUTHOR_NAME"), cfg.env.Get("GIT_AUTHOR_EMAIL")),
		Message: message,
	})
	return err
}

func listTags(out io.Writer, r *git.Repository) error {
	refs, err := r.ListReferences()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(refs))
	for name := range refs {
		if short := ginternals.LocalTagShortName(name); short != name {
			names = append(names, strings.TrimPrefix(short, "/"))
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
