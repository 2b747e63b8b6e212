package object

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/fsutil"
)

// MinPrefix is the shortest abbreviated id Resolve accepts.
const MinPrefix = 6

// Store persists commits under a directory, one file per commit, named by id.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a store rooted at dir, creating dir if needed.
func NewStore(afs afero.Fs, dir string) (*Store, error) {
	if err := afs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating commits dir")
	}
	return &Store{fs: afs, dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id)
}

// Put writes c to the store and returns its id. Storing a commit whose
// fields are identical to an existing one reproduces the same id and record.
func (s *Store) Put(c *Commit) (string, error) {
	data := Encode(c)
	id, err := Hash(data)
	if err != nil {
		return "", err
	}
	if fsutil.IsFile(s.fs, s.path(id)) {
		return id, nil // already stored
	}
	if err := fsutil.SafeWrite(s.fs, s.path(id), data); err != nil {
		return "", errors.Wrapf(err, "storing commit %s", id)
	}
	return id, nil
}

// Get reads the commit stored under id.
func (s *Store) Get(id string) (*Commit, error) {
	if !s.Has(id) {
		return nil, errdefs.NotFound("No commit with that ID exists.")
	}
	data, err := fsutil.ReadFile(s.fs, s.path(id))
	if err != nil {
		return nil, err
	}
	c, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "commit %s", id)
	}
	return c, nil
}

// Has reports whether a commit with id is stored.
func (s *Store) Has(id string) bool {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return false
	}
	return fsutil.IsFile(s.fs, s.path(id))
}

// IDs returns every stored commit id in storage iteration order.
func (s *Store) IDs() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing commits")
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

// Resolve expands an abbreviated commit id. A prefix shorter than MinPrefix
// is rejected. A full-length id is returned unchanged without checking that
// it exists. Otherwise the first stored id starting with prefix is returned;
// if none does, prefix itself comes back and the caller must check existence.
// Ambiguous prefixes resolve to the first match in storage order.
func (s *Store) Resolve(prefix string) (string, error) {
	if len(prefix) < MinPrefix {
		return "", errdefs.InvalidArgument("The length of abbreviated commit ID must be at least %d.", MinPrefix)
	}
	if len(prefix) == IDLength {
		return prefix, nil
	}
	ids, err := s.IDs()
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			return id, nil
		}
	}
	return prefix, nil
}
