package main

import (
	"fmt"
	"io"

	git "github.com/Nivl/git-go"
	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/config"
)

func loadRepository(cfg *globalFlags) (*git.Repository, error) {
	p, err := config.LoadConfig(cfg.env, config.LoadConfigOptions{
		WorkingDirectory: cfg.C.String(),
		GitDirPath:       cfg.GitDir,
		WorkTreePath:     cfg.WorkTree,
		IsBare:           cfg.Bare,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create param: %w", err)
	}

	// run the command
	return git.OpenRepositoryWithParams(p, git.OpenOptions{
		IsBare: cfg.Bare,
	})
}

// resolveObjectName resolves name using the repository's name
// resolver, falling back to treating it as a bare ref path (ex.
// "heads/master") when the resolver's rules don't cover it — a
// shorthand a few plumbing commands accept that isn't one of
// spec.md §4.H's resolution rules.
func resolveObjectName(r *git.Repository, name string) (ginternals.Oid, error) {
	oid, err := r.ResolveRevision(name)
	if err == nil {
		return oid, nil
	}
	ref, refErr := r.GetReference(ginternals.RefFullName(name))
	if refErr != nil {
		return ginternals.NullOid, err
	}
	return ref.Target(), nil
}

func fprintln(quiet bool, out io.Writer, msg ...interface{}) {
	if !quiet {
		fmt.Fprintln(out, msg...)
	}
}

func fprintf(quiet bool, out io.Writer, format string, a ...interface{}) {
	if !quiet {
		fmt.Fprintf(out, format, a...)
	}
}
