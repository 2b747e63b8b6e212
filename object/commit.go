// Package object defines commits, their canonical byte encoding and the
// content-addressed store that persists them.
package object

import (
	"bytes"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// IDLength is the length of a full commit id: a hex encoded SHA3-256 digest.
const IDLength = 64

// Snapshot maps a repository-relative, slash-separated path to file content.
type Snapshot map[string][]byte

// Clone returns a copy of the snapshot. Content slices are shared, which is
// fine since snapshot content is never modified in place.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for p, b := range s {
		out[p] = b
	}
	return out
}

// Has reports whether path is tracked.
func (s Snapshot) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Same reports whether path is tracked with exactly content b.
func (s Snapshot) Same(path string, b []byte) bool {
	cur, ok := s[path]
	return ok && bytes.Equal(cur, b)
}

// Paths returns the tracked paths in lexical order.
func (s Snapshot) Paths() []string {
	p := maps.Keys(s)
	slices.Sort(p)
	return p
}

// Commit is an immutable snapshot of the tracked files plus its history links.
type Commit struct {
	Message      string
	Timestamp    string
	Parent       string // empty for the root commit
	SecondParent string // only set on merge commits
	Files        Snapshot
}

// IsMerge reports whether the commit has two parents.
func (c *Commit) IsMerge() bool {
	return c.SecondParent != ""
}

// Parents returns the parent ids, first parent first.
func (c *Commit) Parents() []string {
	var p []string
	if c.Parent != "" {
		p = append(p, c.Parent)
	}
	if c.SecondParent != "" {
		p = append(p, c.SecondParent)
	}
	return p
}

// Short returns the abbreviated form of id used in log output.
func Short(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[:6]
}
