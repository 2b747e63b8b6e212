package repo

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/object"
)

// UntrackedInTheWay is the warning emitted for a working file that a merge,
// checkout or reset is about to overwrite.
const UntrackedInTheWay = "There is an untracked file in the way. Delete it, or add and commit it first."

// MergeResult describes the outcome of Merge.
type MergeResult struct {
	Branch string // merged branch
	Into   string // current branch

	// Ancestor is set when the merged branch is already contained in the
	// current one; nothing else happens in that case.
	Ancestor bool

	// FastForward is set when the current branch head is the merge base.
	// A two-parent merge commit is still created.
	FastForward bool

	// Conflicted is set when at least one file got conflict markers.
	Conflicted bool

	Commit   string   // id of the merge commit
	Warnings []string // untracked files in the way; never fatal
}

// Message returns the commit message used for the merge commit.
func (m *MergeResult) Message() string {
	return fmt.Sprintf("Merged %s into %s.", m.Branch, m.Into)
}

// Merge merges the head of branch into the current branch with a three-way
// merge against their lowest common ancestor.
func (r *Repository) Merge(branch string) (*MergeResult, error) {
	// Preconditions, nothing is touched if any fails
	empty, err := r.StagingEmpty()
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, errdefs.InvalidState("You have uncommitted changes.")
	}
	targetID, err := r.BranchHead(branch)
	if err != nil {
		return nil, err
	}
	cur, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if cur == branch {
		return nil, errdefs.InvalidState("Cannot merge a branch with itself.")
	}

	currentID, current, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	lcaID, err := r.LowestCommonAncestor(currentID, targetID)
	if err != nil {
		return nil, err
	}
	if lcaID == "" {
		return nil, errdefs.NotFound("No common ancestor between %s and %s.", cur, branch)
	}

	res := &MergeResult{Branch: branch, Into: cur}
	if targetID == lcaID {
		res.Ancestor = true
		return res, nil
	}
	if currentID == lcaID {
		res.FastForward = true
	}

	target, err := r.commit(targetID)
	if err != nil {
		return nil, err
	}
	lca, err := r.commit(lcaID)
	if err != nil {
		return nil, err
	}

	// Warn about files the target tracks that sit untracked in the working tree
	for _, p := range target.Files.Paths() {
		if current.Files.Has(p) {
			continue
		}
		if _, ok, err := r.readWork(p); err != nil {
			return nil, err
		} else if ok {
			res.Warnings = append(res.Warnings, UntrackedInTheWay)
			r.log.Warn("untracked file in the way", "path", p)
		}
	}

	if err := r.applyMerge(res, current.Files, target.Files, lca.Files); err != nil {
		return nil, err
	}

	id, err := r.finalize(res.Message(), targetID)
	if err != nil {
		return nil, err
	}
	res.Commit = id
	r.log.Debug("merged", "branch", branch, "into", cur, "commit", id,
		"fast_forward", res.FastForward, "conflicted", res.Conflicted)
	return res, nil
}

// applyMerge runs the per-file decision table, writing results into the
// working tree and staging them.
func (r *Repository) applyMerge(res *MergeResult, cur, tgt, base object.Snapshot) error {
	for _, p := range cur.Paths() {
		c := cur[p]
		t, inTarget := tgt[p]
		l, inBase := base[p]

		switch {
		case inTarget && inBase:
			if bytes.Equal(c, l) && !bytes.Equal(c, t) {
				// Modified only in the target
				if err := r.takeFile(p, t); err != nil {
					return err
				}
			} else if !bytes.Equal(c, t) && !bytes.Equal(c, l) && !bytes.Equal(t, l) {
				if err := r.conflict(res, p, c, t); err != nil {
					return err
				}
			}
		case inTarget && !inBase:
			// Added on both sides
			if !bytes.Equal(c, t) {
				if err := r.conflict(res, p, c, t); err != nil {
					return err
				}
			}
		case !inTarget && inBase:
			if bytes.Equal(c, l) {
				// Deleted in the target, untouched here
				if err := r.Remove(p); err != nil {
					return err
				}
			} else if err := r.conflict(res, p, c, nil); err != nil {
				return err
			}
		}
	}

	for _, p := range tgt.Paths() {
		if cur.Has(p) {
			continue
		}
		t := tgt[p]
		l, inBase := base[p]
		switch {
		case inBase && !bytes.Equal(t, l):
			// Deleted here, modified in the target
			if err := r.conflict(res, p, nil, t); err != nil {
				return err
			}
		case !inBase:
			// Added only in the target
			if err := r.takeFile(p, t); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repository) takeFile(p string, content []byte) error {
	if err := r.writeWork(p, content); err != nil {
		return err
	}
	_, err := r.Add(p)
	return err
}

func (r *Repository) conflict(res *MergeResult, p string, cur, tgt []byte) error {
	if err := r.writeWork(p, []byte(ConflictMarker(p, string(cur), string(tgt)))); err != nil {
		return err
	}
	res.Conflicted = true
	r.log.Debug("merge conflict", "path", p)
	_, err := r.Add(p)
	return err
}

// ConflictMarker builds the content written for a conflicting file. Each
// non-empty side loses its trailing ASCII whitespace and ends with CRLF.
func ConflictMarker(path, cur, tgt string) string {
	side := func(s string) string {
		if s == "" {
			return ""
		}
		return strings.TrimRight(s, " \t\n\v\f\r") + "\r\n"
	}
	return "<<<<<<< HEAD: " + path + "\r\n" +
		side(cur) +
		"=======\r\n" +
		side(tgt) +
		">>>>>>>\r\n"
}
