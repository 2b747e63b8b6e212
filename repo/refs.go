package repo

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/fsutil"
	"github.com/gitplit/gitplit/object"
)

// Head returns the HEAD commit id. It is empty only while Init is running.
func (r *Repository) Head() (string, error) {
	return fsutil.ReadString(r.fs, r.path(headFile))
}

// HeadCommit returns the HEAD commit.
func (r *Repository) HeadCommit() (string, *object.Commit, error) {
	id, err := r.Head()
	if err != nil {
		return "", nil, err
	}
	c, err := r.commit(id)
	if err != nil {
		return "", nil, errors.Wrap(err, "reading HEAD commit")
	}
	return id, c, nil
}

func (r *Repository) setHead(id string) error {
	return fsutil.WriteFile(r.fs, r.path(headFile), []byte(id))
}

// CurrentBranch returns the name of the checked-out branch.
func (r *Repository) CurrentBranch() (string, error) {
	return fsutil.ReadString(r.fs, r.path(currentBranchFile))
}

func (r *Repository) setCurrentBranch(name string) error {
	return fsutil.WriteFile(r.fs, r.path(currentBranchFile), []byte(name))
}

func validBranchName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return errdefs.InvalidArgument("%q is not a valid branch name.", name)
	}
	return nil
}

// Branches returns every branch name in lexical order.
func (r *Repository) Branches() ([]string, error) {
	entries, err := afero.ReadDir(r.fs, r.path(branchesDir))
	if err != nil {
		return nil, errors.Wrap(err, "listing branches")
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// BranchExists reports whether a branch called name exists.
func (r *Repository) BranchExists(name string) bool {
	return validBranchName(name) == nil && fsutil.IsFile(r.fs, r.path(branchesDir, name))
}

// BranchHead returns the commit id a branch points at.
func (r *Repository) BranchHead(name string) (string, error) {
	if !r.BranchExists(name) {
		return "", errdefs.NotFound("A branch with that name does not exist.")
	}
	return fsutil.ReadString(r.fs, r.path(branchesDir, name))
}

func (r *Repository) setBranch(name, id string) error {
	return fsutil.WriteFile(r.fs, r.path(branchesDir, name), []byte(id))
}

// CreateBranch adds a branch pointing at HEAD. The current branch is unchanged.
func (r *Repository) CreateBranch(name string) error {
	if err := validBranchName(name); err != nil {
		return err
	}
	if r.BranchExists(name) {
		return errdefs.InvalidState("A branch with that name already exists.")
	}
	head, err := r.Head()
	if err != nil {
		return err
	}
	if err := r.setBranch(name, head); err != nil {
		return err
	}
	r.log.Debug("created branch", "branch", name, "commit", head)
	return nil
}

// DeleteBranch removes a branch. Its commits stay in the store.
func (r *Repository) DeleteBranch(name string) error {
	if !r.BranchExists(name) {
		return errdefs.NotFound("A branch with that name does not exist.")
	}
	cur, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if cur == name {
		return errdefs.InvalidState("Cannot remove the current branch.")
	}
	if err := fsutil.Remove(r.fs, r.path(branchesDir, name)); err != nil {
		return err
	}
	r.log.Debug("deleted branch", "branch", name)
	return nil
}

// moveHead points HEAD and then the current branch at id.
func (r *Repository) moveHead(id string) error {
	if err := r.setHead(id); err != nil {
		return err
	}
	cur, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	return r.setBranch(cur, id)
}
