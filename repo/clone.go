package repo

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/fsutil"
)

// Clone copies the repository root found in src into the existing directory
// dst, overwriting any repository already there. Working files are not copied.
func Clone(afs afero.Fs, src, dst string, opts Options) error {
	opts = opts.withDefaults()
	if !fsutil.Exists(afs, src) || !fsutil.Exists(afs, dst) {
		return errdefs.InvalidArgument("Invalid path.")
	}
	if !fsutil.IsDir(afs, dst) {
		return errdefs.InvalidArgument("The provided directory path does not lead to a directory.")
	}
	from := filepath.Join(src, opts.Dir)
	if !fsutil.IsDir(afs, from) {
		return errdefs.NotFound("A gitplit repository does not exist in %s.", src)
	}
	to := filepath.Join(dst, opts.Dir)
	if filepath.Clean(from) == filepath.Clean(to) {
		return errdefs.InvalidArgument("Cannot clone a repository onto itself.")
	}
	opts.Logger.Debug("cloning repository", "from", from, "to", to)
	return fsutil.CopyTree(afs, from, to)
}
