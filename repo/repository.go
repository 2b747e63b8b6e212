// Package repo implements the version-control engine on top of the object
// store: the staging area, branches and HEAD, commit finalization, ancestry,
// three-way merge and working-tree synchronization.
//
// A Repository works on one working directory. All of its state lives as
// plain files below a hidden repository root inside that directory:
//
//	additions/<path>   staged additions, one file per path
//	removals/<path>    zero-byte staged removal markers
//	commits/<id>       encoded commit records
//	head_commit        HEAD commit id
//	branches/<name>    commit id of each branch
//	current_branch     name of the checked-out branch
//
// Operations are synchronous and not atomic across files; concurrent use of
// one repository by several processes is not supported.
package repo

import (
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/fsutil"
	"github.com/gitplit/gitplit/object"
)

// Defaults used when an Options field is left empty.
const (
	DefaultDir            = ".gitplit_repository"
	DefaultBranch         = "master"
	DefaultInitialMessage = "initial commit"
	DefaultTimeFormat     = "2006/01/02 15:04:05"
)

// Names of the entries below the repository root.
const (
	additionsDir      = "additions"
	removalsDir       = "removals"
	commitsDir        = "commits"
	headFile          = "head_commit"
	branchesDir       = "branches"
	currentBranchFile = "current_branch"
)

// Options tunes a Repository. The zero value is usable.
type Options struct {
	Dir            string // name of the hidden repository root
	DefaultBranch  string // branch created by Init
	InitialMessage string // message of the root commit
	TimeFormat     string // layout for commit timestamps
	Now            func() time.Time
	Logger         *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.DefaultBranch == "" {
		o.DefaultBranch = DefaultBranch
	}
	if o.InitialMessage == "" {
		o.InitialMessage = DefaultInitialMessage
	}
	if o.TimeFormat == "" {
		o.TimeFormat = DefaultTimeFormat
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Repository is a working directory together with its hidden repository root.
type Repository struct {
	fs    afero.Fs
	work  string
	root  string
	opts  Options
	log   *slog.Logger
	store *object.Store

	// Commits are immutable, so anything read once can be kept
	cache map[string]*object.Commit
}

func newRepository(afs afero.Fs, work string, opts Options) *Repository {
	opts = opts.withDefaults()
	return &Repository{
		fs:    afs,
		work:  filepath.Clean(work),
		root:  filepath.Join(filepath.Clean(work), opts.Dir),
		opts:  opts,
		log:   opts.Logger,
		cache: make(map[string]*object.Commit),
	}
}

// Exists reports whether work already holds a repository.
func Exists(afs afero.Fs, work string, opts Options) bool {
	return fsutil.IsDir(afs, filepath.Join(work, opts.withDefaults().Dir))
}

// Init creates a repository in work with a single branch pointing at a root
// commit that tracks nothing.
func Init(afs afero.Fs, work string, opts Options) (*Repository, error) {
	r := newRepository(afs, work, opts)
	if fsutil.Exists(afs, r.root) {
		return nil, errdefs.InvalidState("A gitplit version control system already exists in the current directory.")
	}

	for _, d := range []string{additionsDir, removalsDir, branchesDir} {
		if err := afs.MkdirAll(r.path(d), 0755); err != nil {
			return nil, errors.Wrapf(err, "creating %s", d)
		}
	}
	store, err := object.NewStore(afs, r.path(commitsDir))
	if err != nil {
		return nil, err
	}
	r.store = store
	for _, f := range []string{headFile, currentBranchFile} {
		if err := fsutil.WriteFile(afs, r.path(f), nil); err != nil {
			return nil, err
		}
	}

	if err := r.setBranch(r.opts.DefaultBranch, ""); err != nil {
		return nil, err
	}
	if err := r.setCurrentBranch(r.opts.DefaultBranch); err != nil {
		return nil, err
	}
	id, err := r.finalize(r.opts.InitialMessage, "")
	if err != nil {
		return nil, err
	}
	r.log.Debug("initialized repository", "root", r.root, "branch", r.opts.DefaultBranch, "commit", id)
	return r, nil
}

// Open returns the repository in work.
func Open(afs afero.Fs, work string, opts Options) (*Repository, error) {
	r := newRepository(afs, work, opts)
	if !fsutil.IsDir(afs, r.root) {
		return nil, errdefs.NotFound("Need an initialized gitplit repository. Try 'gitplit init'.")
	}
	store, err := object.NewStore(afs, r.path(commitsDir))
	if err != nil {
		return nil, err
	}
	r.store = store
	return r, nil
}

// WorkDir returns the working tree root.
func (r *Repository) WorkDir() string { return r.work }

// Root returns the hidden repository root.
func (r *Repository) Root() string { return r.root }

// Store returns the commit store.
func (r *Repository) Store() *object.Store { return r.store }

func (r *Repository) path(elem ...string) string {
	return filepath.Join(append([]string{r.root}, elem...)...)
}

// workPath maps a clean repository-relative path into the working tree.
func (r *Repository) workPath(p string) string {
	return filepath.Join(r.work, filepath.FromSlash(p))
}

func (r *Repository) now() string {
	return r.opts.Now().Format(r.opts.TimeFormat)
}

// cleanPath normalizes a user supplied path to the slash-separated,
// repository-relative form used as snapshot key.
func (r *Repository) cleanPath(p string) (string, error) {
	if p == "" {
		return "", errdefs.InvalidArgument("Please enter a file name.")
	}
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.work, p)
		if err != nil {
			return "", errdefs.InvalidArgument("%s is outside the repository.", p)
		}
		p = rel
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errdefs.InvalidArgument("%s is outside the repository.", p)
	}
	if first := strings.SplitN(clean, "/", 2)[0]; first == r.opts.Dir {
		return "", errdefs.InvalidArgument("%s is inside the repository storage.", p)
	}
	return clean, nil
}

// commit returns the commit stored under id.
func (r *Repository) commit(id string) (*object.Commit, error) {
	if c, ok := r.cache[id]; ok {
		return c, nil
	}
	c, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}
	r.cache[id] = c
	return c, nil
}

// ResolveCommit returns the commit with the given, possibly abbreviated, id.
func (r *Repository) ResolveCommit(rev string) (string, *object.Commit, error) {
	id, err := r.store.Resolve(rev)
	if err != nil {
		return "", nil, err
	}
	if !r.store.Has(id) {
		return "", nil, errdefs.NotFound("No commit with that ID exists.")
	}
	c, err := r.commit(id)
	if err != nil {
		return "", nil, err
	}
	return id, c, nil
}

// readWork returns the content of p in the working tree, and whether p exists there.
func (r *Repository) readWork(p string) ([]byte, bool, error) {
	wp := r.workPath(p)
	if !fsutil.IsFile(r.fs, wp) {
		return nil, false, nil
	}
	b, err := fsutil.ReadFile(r.fs, wp)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Repository) writeWork(p string, b []byte) error {
	return fsutil.WriteFile(r.fs, r.workPath(p), b)
}

func (r *Repository) removeWork(p string) error {
	return fsutil.Remove(r.fs, r.workPath(p))
}

// workFiles lists every file in the working tree, outside the repository root.
func (r *Repository) workFiles() ([]string, error) {
	return fsutil.ListFiles(r.fs, r.work, r.root)
}
