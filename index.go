package git

import (
	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/index"
)

// Index reads and parses the repository's binary staging index,
// returning an empty one if it hasn't been written yet.
func (r *Repository) Index() (*index.Index, error) {
	return index.ReadFile(r.Config.FS, ginternals.IndexPath(r.Config))
}

// WriteIndex persists idx as the repository's binary staging index.
func (r *Repository) WriteIndex(idx *index.Index) error {
	return index.WriteFile(r.Config.FS, ginternals.IndexPath(r.Config), idx)
}
