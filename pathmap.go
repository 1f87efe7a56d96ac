package git

import (
	"path"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
)

// PathMap flattens the tree at treeID into a repo-relative
// path → blob/gitlink sha mapping, recursing into sub-trees.
// Gitlink entries (submodules) are included with their recorded sha
// but are never followed.
func (r *Repository) PathMap(treeID ginternals.Oid) (map[string]ginternals.Oid, error) {
	out := map[string]ginternals.Oid{}
	if err := r.walkPathMap(treeID, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) walkPathMap(treeID ginternals.Oid, prefix string, out map[string]ginternals.Oid) error {
	tree, err := r.GetTree(treeID)
	if err != nil {
		return err
	}
	for _, e := range tree.Entries() {
		p := e.Path
		if prefix != "" {
			p = path.Join(prefix, e.Path)
		}
		if e.Mode == object.ModeDirectory {
			if err := r.walkPathMap(e.ID, p, out); err != nil {
				return err
			}
			continue
		}
		out[p] = e.ID
	}
	return nil
}
