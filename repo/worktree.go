package repo

import (
	"bytes"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/object"
)

// CheckoutResult carries the non-fatal warnings of a checkout or reset.
type CheckoutResult struct {
	Commit   string
	Warnings []string
}

// CheckoutFile overwrites p in the working tree with its content at rev, or
// at HEAD when rev is empty. rev may be abbreviated. Staging is untouched.
func (r *Repository) CheckoutFile(p, rev string) error {
	p, err := r.cleanPath(p)
	if err != nil {
		return err
	}

	var c *object.Commit
	if rev == "" {
		_, c, err = r.HeadCommit()
		if err != nil {
			return err
		}
		if !c.Files.Has(p) {
			return errdefs.NotFound("File does not exist in the head commit.")
		}
	} else {
		_, c, err = r.ResolveCommit(rev)
		if err != nil {
			return err
		}
		if !c.Files.Has(p) {
			return errdefs.NotFound("File does not exist in that commit.")
		}
	}
	r.log.Debug("checked out file", "path", p, "rev", rev)
	return r.writeWork(p, c.Files[p])
}

// CheckoutBranch replaces the working tree with the files of branch and
// makes it the current branch.
func (r *Repository) CheckoutBranch(name string) (*CheckoutResult, error) {
	if !r.BranchExists(name) {
		return nil, errdefs.NotFound("No such branch exists.")
	}
	cur, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if cur == name {
		return nil, errdefs.InvalidState("The system is already located at the current branch.")
	}

	_, head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	targetID, err := r.BranchHead(name)
	if err != nil {
		return nil, err
	}
	target, err := r.commit(targetID)
	if err != nil {
		return nil, err
	}

	res := &CheckoutResult{Commit: targetID}
	inTheWay, err := r.untrackedInTheWay(head.Files, target.Files)
	if err != nil {
		return nil, err
	}
	for range inTheWay {
		res.Warnings = append(res.Warnings, UntrackedInTheWay)
	}

	// Drop what only the old HEAD tracks, then write everything the target tracks
	for _, p := range head.Files.Paths() {
		if !target.Files.Has(p) {
			if err := r.removeWork(p); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range target.Files.Paths() {
		if err := r.writeWork(p, target.Files[p]); err != nil {
			return nil, err
		}
	}

	if err := r.setHead(targetID); err != nil {
		return nil, err
	}
	if err := r.setCurrentBranch(name); err != nil {
		return nil, err
	}
	if err := r.clearStaging(); err != nil {
		return nil, err
	}
	r.log.Debug("checked out branch", "branch", name, "commit", targetID)
	return res, nil
}

// Reset checks out every file of the commit rev, removes files tracked by
// HEAD that rev does not track, and moves the current branch to rev.
func (r *Repository) Reset(rev string) (*CheckoutResult, error) {
	id, err := r.store.Resolve(rev)
	if err != nil {
		return nil, err
	}
	if !r.store.Has(id) {
		return nil, errdefs.NotFound("Found no commit with that ID.")
	}
	target, err := r.commit(id)
	if err != nil {
		return nil, err
	}
	_, head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}

	res := &CheckoutResult{Commit: id}
	inTheWay, err := r.untrackedInTheWay(head.Files, target.Files)
	if err != nil {
		return nil, err
	}
	flagged := make(map[string]struct{}, len(inTheWay))
	for _, p := range inTheWay {
		flagged[p] = struct{}{}
		res.Warnings = append(res.Warnings, UntrackedInTheWay)
	}

	for _, p := range head.Files.Paths() {
		if target.Files.Has(p) {
			continue
		}
		if _, ok := flagged[p]; ok {
			continue
		}
		if _, exists, err := r.readWork(p); err != nil {
			return nil, err
		} else if exists {
			if err := r.Remove(p); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range target.Files.Paths() {
		if err := r.CheckoutFile(p, id); err != nil {
			return nil, err
		}
	}

	if err := r.moveHead(id); err != nil {
		return nil, err
	}
	if err := r.clearStaging(); err != nil {
		return nil, err
	}
	r.log.Debug("reset", "commit", id)
	return res, nil
}

// untrackedInTheWay returns working files that head does not track but
// target tracks with different content.
func (r *Repository) untrackedInTheWay(head, target object.Snapshot) ([]string, error) {
	files, err := r.workFiles()
	if err != nil {
		return nil, err
	}
	var found []string
	for _, p := range files {
		if head.Has(p) || !target.Has(p) {
			continue
		}
		b, _, err := r.readWork(p)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(b, target[p]) {
			found = append(found, p)
			r.log.Warn("untracked file in the way", "path", p)
		}
	}
	return found, nil
}
