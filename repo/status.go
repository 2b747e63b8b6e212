package repo

import (
	"bytes"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kinds of unstaged modification reported by Status.
const (
	Modified = "modified"
	Deleted  = "deleted"
)

// Branch is a branch name and whether it is checked out.
type Branch struct {
	Name    string
	Current bool
}

// Modification is a file whose working copy disagrees with what would be committed.
type Modification struct {
	Path string
	Kind string // Modified or Deleted
}

// Status is a read-only report of the repository. Every list is sorted.
type Status struct {
	Branches      []Branch
	Staged        []string
	Removed       []string
	Modifications []Modification
	Untracked     []string
}

// Status reports branches, staged files, unstaged modifications and
// untracked files without changing anything.
func (r *Repository) Status() (*Status, error) {
	cur, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	names, err := r.Branches()
	if err != nil {
		return nil, err
	}
	st := &Status{}
	for _, n := range names {
		st.Branches = append(st.Branches, Branch{Name: n, Current: n == cur})
	}

	staged, err := r.stagedContent()
	if err != nil {
		return nil, err
	}
	st.Staged = staged.Paths()
	if st.Removed, err = r.StagedRemovals(); err != nil {
		return nil, err
	}

	_, head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}

	mods := make(map[string]string)
	for _, p := range st.Staged {
		b, ok, err := r.readWork(p)
		if err != nil {
			return nil, err
		}
		// A staged file that has since gone missing counts as modified too
		if !ok || !bytes.Equal(b, staged[p]) {
			mods[p] = Modified
		}
	}
	for _, p := range head.Files.Paths() {
		b, ok, err := r.readWork(p)
		if err != nil {
			return nil, err
		}
		removed := r.isStagedForRemoval(p)
		switch {
		case ok && !bytes.Equal(b, head.Files[p]) && !staged.Has(p) && !removed:
			mods[p] = Modified
		case !ok && !removed:
			mods[p] = Deleted
		}
	}
	paths := maps.Keys(mods)
	slices.Sort(paths)
	for _, p := range paths {
		st.Modifications = append(st.Modifications, Modification{Path: p, Kind: mods[p]})
	}

	files, err := r.workFiles()
	if err != nil {
		return nil, err
	}
	for _, p := range files {
		if !staged.Has(p) && !head.Files.Has(p) {
			st.Untracked = append(st.Untracked, p)
		}
	}
	return st, nil
}
