package repo

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/fsutil"
	"github.com/gitplit/gitplit/object"
)

// Add stages the working copy of p for addition. It reports false, and
// leaves the staged additions alone, when HEAD already tracks p with the
// same content. A pending removal of p is always dropped.
func (r *Repository) Add(p string) (bool, error) {
	p, err := r.cleanPath(p)
	if err != nil {
		return false, err
	}
	content, ok, err := r.readWork(p)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errdefs.NotFound("File does not exist.")
	}

	if err := fsutil.Remove(r.fs, r.path(removalsDir, p)); err != nil {
		return false, err
	}
	_, head, err := r.HeadCommit()
	if err != nil {
		return false, err
	}
	if head.Files.Same(p, content) {
		r.log.Debug("file unchanged from HEAD", "path", p)
		return false, nil
	}

	if err := fsutil.WriteFile(r.fs, r.path(additionsDir, p), content); err != nil {
		return false, errors.Wrapf(err, "staging %s", p)
	}
	r.log.Debug("staged addition", "path", p, "bytes", len(content))
	return true, nil
}

// Remove unstages p and, if HEAD tracks it, deletes the working copy and
// stages its removal. A path that is only staged is just unstaged.
func (r *Repository) Remove(p string) error {
	p, err := r.cleanPath(p)
	if err != nil {
		return err
	}
	_, head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	staged := r.isStagedForAddition(p)
	if !staged && !head.Files.Has(p) {
		return errdefs.InvalidState("The file is neither staged nor tracked by the head commit.")
	}
	if err := fsutil.Remove(r.fs, r.path(additionsDir, p)); err != nil {
		return err
	}
	if !head.Files.Has(p) {
		r.log.Debug("unstaged addition", "path", p)
		return nil
	}

	if err := r.removeWork(p); err != nil {
		return err
	}
	if err := fsutil.WriteFile(r.fs, r.path(removalsDir, p), nil); err != nil {
		return errors.Wrapf(err, "staging removal of %s", p)
	}
	r.log.Debug("staged removal", "path", p)
	return nil
}

// StagedAdditions returns the paths staged for addition in lexical order.
func (r *Repository) StagedAdditions() ([]string, error) {
	return fsutil.ListFiles(r.fs, r.path(additionsDir))
}

// StagedRemovals returns the paths staged for removal in lexical order.
func (r *Repository) StagedRemovals() ([]string, error) {
	return fsutil.ListFiles(r.fs, r.path(removalsDir))
}

// stagedContent reads every staged addition.
func (r *Repository) stagedContent() (object.Snapshot, error) {
	paths, err := r.StagedAdditions()
	if err != nil {
		return nil, err
	}
	out := make(object.Snapshot, len(paths))
	for _, p := range paths {
		b, err := fsutil.ReadFile(r.fs, r.path(additionsDir, p))
		if err != nil {
			return nil, err
		}
		out[p] = b
	}
	return out, nil
}

func (r *Repository) isStagedForRemoval(p string) bool {
	return fsutil.IsFile(r.fs, r.path(removalsDir, p))
}

func (r *Repository) isStagedForAddition(p string) bool {
	return fsutil.IsFile(r.fs, r.path(additionsDir, p))
}

// StagingEmpty reports whether nothing is staged.
func (r *Repository) StagingEmpty() (bool, error) {
	adds, err := r.StagedAdditions()
	if err != nil {
		return false, err
	}
	rms, err := r.StagedRemovals()
	if err != nil {
		return false, err
	}
	return len(adds) == 0 && len(rms) == 0, nil
}

// clearStaging empties both staging sets.
func (r *Repository) clearStaging() error {
	return multierr.Append(
		fsutil.ClearDir(r.fs, r.path(additionsDir)),
		fsutil.ClearDir(r.fs, r.path(removalsDir)),
	)
}
