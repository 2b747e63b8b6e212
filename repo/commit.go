package repo

import (
	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/object"
)

// finalize turns the staging area into a new commit on the current branch.
// The parent is HEAD (none during Init); secondParent is only set by merges.
func (r *Repository) finalize(message, secondParent string) (string, error) {
	parent, err := r.Head()
	if err != nil {
		return "", err
	}

	// Start from the parent's snapshot
	files := make(object.Snapshot)
	if parent != "" {
		pc, err := r.commit(parent)
		if err != nil {
			return "", err
		}
		files = pc.Files.Clone()
	}

	// Apply the staged additions, then the staged removals
	adds, err := r.stagedContent()
	if err != nil {
		return "", err
	}
	for p, b := range adds {
		files[p] = b
	}
	rms, err := r.StagedRemovals()
	if err != nil {
		return "", err
	}
	for _, p := range rms {
		delete(files, p)
	}

	c := &object.Commit{
		Message:      message,
		Timestamp:    r.now(),
		Parent:       parent,
		SecondParent: secondParent,
		Files:        files,
	}
	id, err := r.store.Put(c)
	if err != nil {
		return "", err
	}
	r.cache[id] = c

	if err := r.moveHead(id); err != nil {
		return "", err
	}
	if err := r.clearStaging(); err != nil {
		return "", err
	}
	r.log.Debug("created commit", "commit", id, "parent", parent, "second_parent", secondParent,
		"files", len(files))
	return id, nil
}

// Commit records the staged changes as a new commit on the current branch
// and returns its id.
func (r *Repository) Commit(message string) (string, error) {
	if message == "" {
		return "", errdefs.InvalidState("Please enter a commit message.")
	}
	empty, err := r.StagingEmpty()
	if err != nil {
		return "", err
	}
	if empty {
		return "", errdefs.InvalidState("No changes added to the commit.")
	}
	return r.finalize(message, "")
}

// LogEntry is one commit in the history shown by Log.
type LogEntry struct {
	ID     string
	Commit *object.Commit
}

// Log returns the first-parent history from HEAD back to the root commit.
func (r *Repository) Log() ([]LogEntry, error) {
	id, err := r.Head()
	if err != nil {
		return nil, err
	}
	var entries []LogEntry
	for id != "" {
		c, err := r.commit(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{ID: id, Commit: c})
		id = c.Parent
	}
	return entries, nil
}

// Find returns the ids of every commit whose message is exactly message,
// in storage order.
func (r *Repository) Find(message string) ([]string, error) {
	ids, err := r.store.IDs()
	if err != nil {
		return nil, err
	}
	var found []string
	for _, id := range ids {
		c, err := r.commit(id)
		if err != nil {
			return nil, err
		}
		if c.Message == message {
			found = append(found, id)
		}
	}
	if len(found) == 0 {
		return nil, errdefs.NotFound("Found no commit with that message.")
	}
	return found, nil
}
