package git

import (
	"os"
	"path"
	"path/filepath"

	"github.com/Nivl/git-go/env"
	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/ignore"
	"github.com/spf13/afero"
)

// LoadIgnore assembles the repository's ignore rule set: the
// repo-local info/exclude file, the user's global ignore file
// ($XDG_CONFIG_HOME/git/ignore or $HOME/.config/git/ignore), and every
// .gitignore tracked in the index, scoped to the directory it lives in.
func (r *Repository) LoadIgnore(e *env.Env) (*ignore.Ignore, error) {
	ig := ignore.New()

	if raw, err := afero.ReadFile(r.Config.FS, ginternals.ExcludesFilePath(r.Config)); err == nil {
		ig.AddAbsoluteRules(raw)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	globalPath := globalIgnorePath(e)
	if globalPath != "" {
		if raw, err := afero.ReadFile(r.Config.FS, globalPath); err == nil {
			ig.AddAbsoluteRules(raw)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	idx, err := r.Index()
	if err != nil {
		return nil, err
	}
	for _, entry := range idx.Entries {
		if path.Base(entry.Path) != ".gitignore" {
			continue
		}
		o, err := r.GetObject(entry.ID)
		if err != nil {
			return nil, err
		}
		ig.AddScopedRules(path.Dir(entry.Path), o.Bytes())
	}

	return ig, nil
}

func globalIgnorePath(e *env.Env) string {
	if e == nil {
		return ""
	}
	if xdg := e.Get("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	if home := e.Get("HOME"); home != "" {
		return filepath.Join(home, ".config", "git", "ignore")
	}
	return ""
}
