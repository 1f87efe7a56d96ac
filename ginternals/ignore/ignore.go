// Package ignore implements the two-layer ignore-rule evaluator: a
// flat list of absolute rules (info/exclude, the user's global
// ignore file) and a directory-scoped map of rules contributed by
// every tracked .gitignore.
//
// Grounded on original_source's git_ignore.rs (GitIgnore, absolute vs.
// scoped rule maps, last-match-wins), the one piece of spec.md §4.K
// the teacher repo never got around to implementing.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"path"
	"strings"
)

// ErrMustBeRelative is returned by Check when given an absolute path.
var ErrMustBeRelative = errors.New("path must be relative to the repository root")

// rule is a single parsed line: a glob pattern and its polarity
// (true = ignore, false = negated/un-ignore).
type rule struct {
	pattern string
	ignore  bool
}

// Ignore holds every ignore rule known to a repository: the absolute
// rules (read once, from info/exclude and the user's global ignore
// file) and the scoped rules (one set per directory that carries a
// tracked .gitignore).
type Ignore struct {
	absolute []rule
	scoped   map[string][]rule
}

// New returns an empty rule set.
func New() *Ignore {
	return &Ignore{
		scoped: map[string][]rule{},
	}
}

// AddAbsoluteRules parses r as a .gitignore-style file and appends its
// rules to the absolute layer, in encounter order.
func (ig *Ignore) AddAbsoluteRules(r []byte) {
	ig.absolute = append(ig.absolute, parseRules(r)...)
}

// AddScopedRules parses r as the .gitignore tracked at dir (repo-relative,
// using "." for the repository root) and registers its rules for that
// directory, replacing any rules previously registered for it.
func (ig *Ignore) AddScopedRules(dir string, r []byte) {
	ig.scoped[dir] = parseRules(r)
}

// parseRules parses the content of a .gitignore-style file.
//
// Rule parse: trim; skip empty and "#"-prefixed; "!prefix" = negation
// with remainder; "\"-prefixed = literal; else positive.
func parseRules(raw []byte) []rule {
	var rules []rule
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "!"):
			rules = append(rules, rule{pattern: line[1:], ignore: false})
		case strings.HasPrefix(line, `\`):
			rules = append(rules, rule{pattern: line[1:], ignore: true})
		default:
			rules = append(rules, rule{pattern: line, ignore: true})
		}
	}
	return rules
}

// Check evaluates repoRelativePath against every rule, following
// spec.md §4.K's precedence: walk parent directories upward, and
// return the last-matching scoped rule's polarity; if none match,
// fall back to the last-matching absolute rule; otherwise not ignored.
func (ig *Ignore) Check(repoRelativePath string) (ignored bool, err error) {
	if path.IsAbs(repoRelativePath) {
		return false, ErrMustBeRelative
	}
	clean := path.Clean(repoRelativePath)

	if v, ok := checkScoped(ig.scoped, clean); ok {
		return v, nil
	}
	return checkRules(ig.absolute, clean), nil
}

func checkScoped(scoped map[string][]rule, p string) (ignored bool, matched bool) {
	dir := path.Dir(p)
	for {
		if rules, ok := scoped[dir]; ok {
			if v, found := lastMatch(rules, p); found {
				return v, true
			}
		}
		if dir == "." || dir == "/" {
			return false, false
		}
		dir = path.Dir(dir)
	}
}

func checkRules(rules []rule, p string) bool {
	v, _ := lastMatch(rules, p)
	return v
}

// lastMatch scans rules in order and returns the polarity of the last
// one whose pattern matches p.
func lastMatch(rules []rule, p string) (ignored bool, found bool) {
	base := path.Base(p)
	for _, r := range rules {
		if matches(r.pattern, p, base) {
			ignored = r.ignore
			found = true
		}
	}
	return ignored, found
}

// matches reports whether pattern matches either the full repo-relative
// path or just the file's base name, the way a .gitignore pattern
// without a "/" applies at any depth.
func matches(pattern, fullPath, base string) bool {
	if ok, _ := path.Match(pattern, fullPath); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
