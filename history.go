package git

import (
	"strings"

	"github.com/Nivl/git-go/ginternals"
	"github.com/Nivl/git-go/ginternals/object"
	"github.com/pkg/errors"
)

// LogEntry is one record emitted by the history walker: enough to
// render a single `log` line without re-fetching the commit.
type LogEntry struct {
	ID           ginternals.Oid
	Author       object.Signature
	ShortMessage string
}

// maxShortMessageLen is the number of message bytes kept in a
// LogEntry's ShortMessage, matching the first line of `git log
// --oneline`'s output.
const maxShortMessageLen = 80

// WalkHistory performs a DFS from the commit at startID, visiting
// every ancestor at most once, and calls visit for each one in
// traversal order. A commit's parents are visited in their declared
// order (the first parent first), matching a merge commit's recorded
// parent list.
//
// Missing parents and parents that turn out not to be commits are
// swallowed rather than propagated: a shallow clone can legitimately
// lack ancestors.
func (r *Repository) WalkHistory(startID ginternals.Oid, visit func(LogEntry) error) error {
	visited := map[ginternals.Oid]struct{}{}
	return r.walkHistory(startID, visited, visit)
}

func (r *Repository) walkHistory(id ginternals.Oid, visited map[ginternals.Oid]struct{}, visit func(LogEntry) error) error {
	if _, seen := visited[id]; seen {
		return nil
	}
	visited[id] = struct{}{}

	o, err := r.GetObject(id)
	if err != nil {
		if errors.Is(err, ginternals.ErrObjectNotFound) {
			return nil
		}
		return errors.Wrapf(err, "could not get commit %s", id.String())
	}
	if o.Type() != object.TypeCommit {
		return nil
	}
	c, err := o.AsCommit()
	if err != nil {
		return errors.Wrapf(err, "could not get commit %s", id.String())
	}

	if err := visit(newLogEntry(c)); err != nil {
		return err
	}

	for _, parentID := range c.ParentIDs() {
		if err := r.walkHistory(parentID, visited, visit); err != nil {
			return err
		}
	}
	return nil
}

func newLogEntry(c *object.Commit) LogEntry {
	msg := c.Message()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if len(msg) > maxShortMessageLen {
		msg = msg[:maxShortMessageLen]
	}
	return LogEntry{
		ID:           c.ID(),
		Author:       c.Author(),
		ShortMessage: msg,
	}
}
