package ginternals

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrRevisionNotFound is thrown when a revision name doesn't match
	// anything in the repository.
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrRevisionAmbiguous is thrown when a revision name matches more
	// than one object.
	ErrRevisionAmbiguous = errors.New("revision is ambiguous")
)

// shortHashPattern matches anything that could be a (possibly
// abbreviated) hex object id. Git requires at least 4 characters to
// consider a string a short hash.
var shortHashPattern = regexp.MustCompile(`^[0-9a-fA-F]{4,40}$`)

// RefResolver resolves the reference named name, following symbolic
// references transitively until an Oid is reached. It must return
// ErrRefNotFound (wrapped or not) if no such reference exists.
//
// This matches backend.Backend.Reference's signature exactly, so a
// caller holding a *backend.Backend can pass the method value straight
// through without writing an adapter.
type RefResolver func(name string) (*Reference, error)

// ShortHashFinder enumerates the Oids of every loose object whose hex
// representation starts with prefix.
type ShortHashFinder func(prefix string) ([]Oid, error)

// ResolveRevisionCandidates implements the name resolution rules of
// the revision grammar: HEAD, an (abbreviated) object hash, a local
// tag, and a local branch, each contributing zero or more candidate
// Oids. It performs no format coercion (tag-to-commit, commit-to-tree):
// that requires inspecting parsed object content, which would need an
// import of the object package, a layer above ginternals'; callers
// that can see both layers (see Repository.ResolveRevision) apply that
// step on top of the candidate set returned here.
//
// Candidates are deduplicated and returned in a stable (sorted) order;
// the caller decides what "more than one candidate" means (usually
// ErrRevisionAmbiguous).
func ResolveRevisionCandidates(name string, resolve RefResolver, shortHash ShortHashFinder) ([]Oid, error) {
	seen := map[Oid]struct{}{}
	add := func(o Oid) { seen[o] = struct{}{} }

	tryRef := func(refName string) error {
		ref, err := resolve(refName)
		switch {
		case err == nil:
			add(ref.Target())
			return nil
		case errors.Is(err, ErrRefNotFound):
			return nil
		default:
			return err
		}
	}

	if name == Head {
		if err := tryRef(Head); err != nil {
			return nil, err
		}
	}

	if shortHashPattern.MatchString(name) {
		oids, err := shortHash(strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("could not scan object database for prefix %s: %w", name, err)
		}
		for _, o := range oids {
			add(o)
		}
	}

	for _, full := range []string{LocalTagFullName(name), LocalBranchFullName(name)} {
		if err := tryRef(full); err != nil {
			return nil, err
		}
	}

	out := make([]Oid, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
