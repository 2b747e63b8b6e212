// Package fsutil contains the byte-level file primitives the repository is
// built on. Everything goes through an afero.Fs so the same code runs on the
// real disk and on an in-memory filesystem.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Exists reports whether anything exists at path.
func Exists(afs afero.Fs, path string) bool {
	_, err := afs.Stat(path)
	return err == nil
}

// IsFile reports whether path exists and is not a directory.
func IsFile(afs afero.Fs, path string) bool {
	fi, err := afs.Stat(path)
	return err == nil && !fi.IsDir()
}

// IsDir reports whether path exists and is a directory.
func IsDir(afs afero.Fs, path string) bool {
	fi, err := afs.Stat(path)
	return err == nil && fi.IsDir()
}

// IsNotExist reports whether err (possibly wrapped) means a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// ReadFile returns the contents of path.
func ReadFile(afs afero.Fs, path string) ([]byte, error) {
	b, err := afero.ReadFile(afs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return b, nil
}

// ReadString returns the contents of path as text, without surrounding whitespace.
func ReadString(afs afero.Fs, path string) (string, error) {
	b, err := ReadFile(afs, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// WriteFile writes data to path, creating any missing parent directories.
func WriteFile(afs afero.Fs, path string, data []byte) error {
	if err := afs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	if err := afero.WriteFile(afs, path, data, filePerm); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// SafeWrite writes data to path through a temp file in the same directory
// followed by a rename, so readers never see a partially written file.
func SafeWrite(afs afero.Fs, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = afs.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}
	f, err := afero.TempFile(afs, dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmp := f.Name()

	// Clean up on any error
	defer func() {
		if err != nil {
			_ = afs.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = afs.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "renaming temp file to %s", path)
	}
	return nil
}

// Remove deletes the file at path. A missing file is not an error.
func Remove(afs afero.Fs, path string) error {
	if err := afs.Remove(path); err != nil && !IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}

// ListFiles returns the slash-separated paths, relative to dir, of every
// regular file below dir in lexical order. Directories named in skip are not
// descended into. A missing dir yields an empty list.
func ListFiles(afs afero.Fs, dir string, skip ...string) ([]string, error) {
	if !IsDir(afs, dir) {
		return nil, nil
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipped[filepath.Clean(s)] = struct{}{}
	}

	var files []string
	err := afero.Walk(afs, dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if _, ok := skipped[filepath.Clean(p)]; ok {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	slices.Sort(files)
	return files, nil
}

// ClearDir removes everything inside dir, leaving dir itself in place.
func ClearDir(afs afero.Fs, dir string) error {
	entries, err := afero.ReadDir(afs, dir)
	if err != nil {
		if IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", dir)
	}
	var errs error
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := afs.RemoveAll(p); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "removing %s", p))
		}
	}
	return errs
}

// CopyTree recursively copies the directory src into dst, overwriting files
// that already exist there. Every file is attempted; failures are combined.
func CopyTree(afs afero.Fs, src, dst string) error {
	if !IsDir(afs, src) {
		return errors.Errorf("%s is not a directory", src)
	}
	var errs error
	walkErr := afero.Walk(afs, src, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			if err := afs.MkdirAll(target, dirPerm); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "creating %s", target))
			}
			return nil
		}
		b, err := ReadFile(afs, p)
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		errs = multierr.Append(errs, WriteFile(afs, target, b))
		return nil
	})
	return multierr.Append(errs, walkErr)
}
