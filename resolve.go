package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
)

// ErrWrongObjectKind is thrown when a resolved revision cannot be
// coerced to the object kind the caller asked for (ex: resolving a
// blob as a tree).
var ErrWrongObjectKind = errors.New("wrong object kind")

// shortHashFinder adapts Backend.WalkLooseObjectIDs into a
// ginternals.ShortHashFinder.
func (r *Repository) shortHashFinder(prefix string) ([]ginternals.Oid, error) {
	var out []ginternals.Oid
	err := r.dotGit.WalkLooseObjectIDs(func(oid ginternals.Oid) error {
		if strings.HasPrefix(oid.String(), prefix) {
			out = append(out, oid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveRevision resolves name to the single Oid it denotes, trying
// in turn: HEAD, an (abbreviated) object hash, a local tag, and a
// local branch. It returns ErrRevisionAmbiguous if more than one
// candidate matches, and ErrRevisionNotFound if none does.
func (r *Repository) ResolveRevision(name string) (ginternals.Oid, error) {
	candidates, err := ginternals.ResolveRevisionCandidates(name, r.dotGit.Reference, r.shortHashFinder)
	if err != nil {
		return ginternals.NullOid, fmt.Errorf("could not resolve %s: %w", name, err)
	}
	switch len(candidates) {
	case 0:
		return ginternals.NullOid, fmt.Errorf("%s: %w", name, ginternals.ErrRevisionNotFound)
	case 1:
		return candidates[0], nil
	default:
		return ginternals.NullOid, fmt.Errorf("%s: %w (%d candidates)", name, ginternals.ErrRevisionAmbiguous, len(candidates))
	}
}

// ResolveRevisionAs resolves name like ResolveRevision, then coerces
// the result to kind: a tag is followed to its target (and, if follow
// is set, transitively through further tags), and a commit resolved as
// a tree yields its root tree. Any other mismatch is ErrWrongObjectKind.
func (r *Repository) ResolveRevisionAs(name string, kind object.Type, follow bool) (ginternals.Oid, error) {
	oid, err := r.ResolveRevision(name)
	if err != nil {
		return ginternals.NullOid, err
	}
	return r.coerceRevision(oid, kind, follow)
}

func (r *Repository) coerceRevision(oid ginternals.Oid, kind object.Type, follow bool) (ginternals.Oid, error) {
	o, err := r.GetObject(oid)
	if err != nil {
		return ginternals.NullOid, err
	}
	if o.Type() == kind {
		return oid, nil
	}
	if o.Type() == object.TypeTag && follow {
		tag, err := o.AsTag()
		if err != nil {
			return ginternals.NullOid, err
		}
		return r.coerceRevision(tag.Target(), kind, follow)
	}
	if o.Type() == object.TypeCommit && kind == object.TypeTree {
		c, err := o.AsCommit()
		if err != nil {
			return ginternals.NullOid, err
		}
		return r.coerceRevision(c.TreeID(), kind, follow)
	}
	return ginternals.NullOid, fmt.Errorf("%s is a %s, not a %s: %w", oid.String(), o.Type().String(), kind.String(), ErrWrongObjectKind)
}
