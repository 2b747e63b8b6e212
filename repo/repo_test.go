package repo

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	chk "gopkg.in/check.v1"

	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/fsutil"
	"github.com/gitplit/gitplit/object"
)

const work = "/work"

type RepoSuite struct {
	fs    afero.Fs
	repo  *Repository
	clock time.Time
}

var _ = chk.Suite(&RepoSuite{})

func Test(t *testing.T) {
	chk.TestingT(t)
}

func (s *RepoSuite) opts() Options {
	return Options{
		Now: func() time.Time {
			// Every call moves one second on, so commits never collide by accident
			s.clock = s.clock.Add(time.Second)
			return s.clock
		},
	}
}

func (s *RepoSuite) SetUpTest(c *chk.C) {
	s.fs = afero.NewMemMapFs()
	s.clock = time.Date(2019, time.March, 15, 18, 1, 0, 0, time.UTC)
	c.Assert(s.fs.MkdirAll(work, 0755), chk.IsNil)
	var err error
	s.repo, err = Init(s.fs, work, s.opts())
	c.Assert(err, chk.IsNil)
}

// Helpers

func (s *RepoSuite) write(c *chk.C, p, content string) {
	c.Assert(fsutil.WriteFile(s.fs, work+"/"+p, []byte(content)), chk.IsNil)
}

func (s *RepoSuite) read(c *chk.C, p string) string {
	b, err := fsutil.ReadFile(s.fs, work+"/"+p)
	c.Assert(err, chk.IsNil)
	return string(b)
}

func (s *RepoSuite) exists(p string) bool {
	return fsutil.Exists(s.fs, work+"/"+p)
}

// commitFiles writes, stages and commits the given files.
func (s *RepoSuite) commitFiles(c *chk.C, msg string, files map[string]string) string {
	for p, content := range files {
		s.write(c, p, content)
		_, err := s.repo.Add(p)
		c.Assert(err, chk.IsNil)
	}
	id, err := s.repo.Commit(msg)
	c.Assert(err, chk.IsNil)
	return id
}

func (s *RepoSuite) head(c *chk.C) (string, *object.Commit) {
	id, com, err := s.repo.HeadCommit()
	c.Assert(err, chk.IsNil)
	return id, com
}

func (s *RepoSuite) checkout(c *chk.C, branch string) {
	_, err := s.repo.CheckoutBranch(branch)
	c.Assert(err, chk.IsNil)
}

// Init & open

func (s *RepoSuite) TestInit(c *chk.C) {
	branches, err := s.repo.Branches()
	c.Assert(err, chk.IsNil)
	c.Check(branches, chk.DeepEquals, []string{"master"})
	cur, err := s.repo.CurrentBranch()
	c.Assert(err, chk.IsNil)
	c.Check(cur, chk.Equals, "master")

	id, com := s.head(c)
	c.Check(id, chk.HasLen, object.IDLength)
	c.Check(com.Message, chk.Equals, "initial commit")
	c.Check(com.Timestamp, chk.Equals, "2019/03/15 18:01:01")
	c.Check(com.Parent, chk.Equals, "")
	c.Check(com.Files, chk.HasLen, 0)

	bh, err := s.repo.BranchHead("master")
	c.Assert(err, chk.IsNil)
	c.Check(bh, chk.Equals, id)

	// Layout on disk
	for _, p := range []string{"additions", "removals", "commits", "branches"} {
		c.Check(fsutil.IsDir(s.fs, work+"/.gitplit_repository/"+p), chk.Equals, true, chk.Commentf(p))
	}
	c.Check(fsutil.IsFile(s.fs, work+"/.gitplit_repository/commits/"+id), chk.Equals, true)

	_, err = Init(s.fs, work, s.opts())
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)

	_, err = Open(s.fs, "/elsewhere", s.opts())
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
	c.Check(Exists(s.fs, work, Options{}), chk.Equals, true)
}

func (s *RepoSuite) TestOpenSeesState(c *chk.C) {
	id := s.commitFiles(c, "one", map[string]string{"a.txt": "a"})
	r, err := Open(s.fs, work, s.opts())
	c.Assert(err, chk.IsNil)
	head, err := r.Head()
	c.Assert(err, chk.IsNil)
	c.Check(head, chk.Equals, id)
}

// Staging

func (s *RepoSuite) TestAdd(c *chk.C) {
	_, err := s.repo.Add("missing.txt")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)

	s.write(c, "a.txt", "alpha")
	staged, err := s.repo.Add("a.txt")
	c.Assert(err, chk.IsNil)
	c.Check(staged, chk.Equals, true)
	adds, err := s.repo.StagedAdditions()
	c.Assert(err, chk.IsNil)
	c.Check(adds, chk.DeepEquals, []string{"a.txt"})

	_, err = s.repo.Add("../outside")
	c.Check(errdefs.IsUsage(err), chk.Equals, true)
	_, err = s.repo.Add(".gitplit_repository/head_commit")
	c.Check(errdefs.IsUsage(err), chk.Equals, true)
}

func (s *RepoSuite) TestTmpPrefixedFilesAreOrdinary(c *chk.C) {
	s.write(c, ".tmp-notes", "scratch")
	st, err := s.repo.Status()
	c.Assert(err, chk.IsNil)
	c.Check(st.Untracked, chk.DeepEquals, []string{".tmp-notes"})

	staged, err := s.repo.Add(".tmp-notes")
	c.Assert(err, chk.IsNil)
	c.Check(staged, chk.Equals, true)
	adds, err := s.repo.StagedAdditions()
	c.Assert(err, chk.IsNil)
	c.Check(adds, chk.DeepEquals, []string{".tmp-notes"})

	_, err = s.repo.Commit("notes")
	c.Assert(err, chk.IsNil)
	_, com := s.head(c)
	c.Check(string(com.Files[".tmp-notes"]), chk.Equals, "scratch")
}

func (s *RepoSuite) TestAddUnchangedIsNoop(c *chk.C) {
	s.commitFiles(c, "one", map[string]string{"a.txt": "alpha"})

	staged, err := s.repo.Add("a.txt")
	c.Assert(err, chk.IsNil)
	c.Check(staged, chk.Equals, false)
	empty, err := s.repo.StagingEmpty()
	c.Assert(err, chk.IsNil)
	c.Check(empty, chk.Equals, true)
}

func (s *RepoSuite) TestAddDropsPendingRemoval(c *chk.C) {
	s.commitFiles(c, "one", map[string]string{"a.txt": "alpha"})
	c.Assert(s.repo.Remove("a.txt"), chk.IsNil)
	rms, err := s.repo.StagedRemovals()
	c.Assert(err, chk.IsNil)
	c.Check(rms, chk.DeepEquals, []string{"a.txt"})

	s.write(c, "a.txt", "alpha again")
	staged, err := s.repo.Add("a.txt")
	c.Assert(err, chk.IsNil)
	c.Check(staged, chk.Equals, true)
	rms, err = s.repo.StagedRemovals()
	c.Assert(err, chk.IsNil)
	c.Check(rms, chk.HasLen, 0)
}

func (s *RepoSuite) TestRemove(c *chk.C) {
	err := s.repo.Remove("nothing.txt")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)

	// Only staged: unstage, keep the file, no marker
	s.write(c, "new.txt", "n")
	_, err = s.repo.Add("new.txt")
	c.Assert(err, chk.IsNil)
	c.Assert(s.repo.Remove("new.txt"), chk.IsNil)
	c.Check(s.exists("new.txt"), chk.Equals, true)
	empty, err := s.repo.StagingEmpty()
	c.Assert(err, chk.IsNil)
	c.Check(empty, chk.Equals, true)

	// Tracked: delete and mark
	s.commitFiles(c, "one", map[string]string{"t.txt": "t"})
	c.Assert(s.repo.Remove("t.txt"), chk.IsNil)
	c.Check(s.exists("t.txt"), chk.Equals, false)
	rms, err := s.repo.StagedRemovals()
	c.Assert(err, chk.IsNil)
	c.Check(rms, chk.DeepEquals, []string{"t.txt"})

	_, err = s.repo.Commit("drop t")
	c.Assert(err, chk.IsNil)
	_, com := s.head(c)
	c.Check(com.Files.Has("t.txt"), chk.Equals, false)
}

// Commits

func (s *RepoSuite) TestCommitPreconditions(c *chk.C) {
	_, err := s.repo.Commit("nothing staged")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
	c.Check(err, chk.ErrorMatches, "No changes added to the commit.")

	s.write(c, "a.txt", "a")
	_, err = s.repo.Add("a.txt")
	c.Assert(err, chk.IsNil)
	_, err = s.repo.Commit("")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
}

func (s *RepoSuite) TestCommitBuildsOnParent(c *chk.C) {
	root, _ := s.head(c)
	first := s.commitFiles(c, "first", map[string]string{"a.txt": "a", "b.txt": "b"})
	second := s.commitFiles(c, "second", map[string]string{"b.txt": "b2", "dir/c.txt": "c"})

	com, err := s.repo.Store().Get(second)
	c.Assert(err, chk.IsNil)
	c.Check(com.Parent, chk.Equals, first)
	c.Check(com.SecondParent, chk.Equals, "")
	c.Check(com.Files.Paths(), chk.DeepEquals, []string{"a.txt", "b.txt", "dir/c.txt"})
	c.Check(string(com.Files["b.txt"]), chk.Equals, "b2")

	firstCom, err := s.repo.Store().Get(first)
	c.Assert(err, chk.IsNil)
	c.Check(firstCom.Parent, chk.Equals, root)

	// Staging is cleared and the branch follows HEAD
	empty, err := s.repo.StagingEmpty()
	c.Assert(err, chk.IsNil)
	c.Check(empty, chk.Equals, true)
	bh, err := s.repo.BranchHead("master")
	c.Assert(err, chk.IsNil)
	c.Check(bh, chk.Equals, second)
}

func (s *RepoSuite) TestCommitImmutable(c *chk.C) {
	id := s.commitFiles(c, "first", map[string]string{"a.txt": "a"})
	before, err := s.repo.Store().Get(id)
	c.Assert(err, chk.IsNil)

	s.commitFiles(c, "second", map[string]string{"a.txt": "changed"})
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	_, err = s.repo.Reset(id)
	c.Assert(err, chk.IsNil)

	// A fresh store reads the record from disk
	store, err := object.NewStore(s.fs, work+"/.gitplit_repository/commits")
	c.Assert(err, chk.IsNil)
	after, err := store.Get(id)
	c.Assert(err, chk.IsNil)
	c.Check(after, chk.DeepEquals, before)
}

func (s *RepoSuite) TestRoundTrip(c *chk.C) {
	content := "line one\r\nline two\x00binary\n"
	s.commitFiles(c, "round trip", map[string]string{"r.bin": content})
	s.write(c, "r.bin", "scribbled over")
	c.Assert(s.repo.CheckoutFile("r.bin", ""), chk.IsNil)
	c.Check(s.read(c, "r.bin"), chk.Equals, content)
}

func (s *RepoSuite) TestLogAndFind(c *chk.C) {
	root, _ := s.head(c)
	a := s.commitFiles(c, "same message", map[string]string{"a.txt": "a"})
	b := s.commitFiles(c, "same message", map[string]string{"a.txt": "b"})

	entries, err := s.repo.Log()
	c.Assert(err, chk.IsNil)
	c.Assert(entries, chk.HasLen, 3)
	c.Check(entries[0].ID, chk.Equals, b)
	c.Check(entries[1].ID, chk.Equals, a)
	c.Check(entries[2].ID, chk.Equals, root)
	c.Check(entries[2].Commit.Message, chk.Equals, "initial commit")

	found, err := s.repo.Find("same message")
	c.Assert(err, chk.IsNil)
	c.Check(found, chk.HasLen, 2)
	c.Check(strings.Join(found, " "), chk.Matches, ".*"+a+".*")
	c.Check(strings.Join(found, " "), chk.Matches, ".*"+b+".*")

	_, err = s.repo.Find("never written")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
}

// Branches

func (s *RepoSuite) TestBranches(c *chk.C) {
	head, _ := s.head(c)
	c.Assert(s.repo.CreateBranch("feature"), chk.IsNil)
	c.Check(errdefs.IsRepositoryState(s.repo.CreateBranch("feature")), chk.Equals, true)
	c.Check(errdefs.IsUsage(s.repo.CreateBranch("bad/name")), chk.Equals, true)

	bh, err := s.repo.BranchHead("feature")
	c.Assert(err, chk.IsNil)
	c.Check(bh, chk.Equals, head)

	// Creating a branch does not switch to it
	cur, err := s.repo.CurrentBranch()
	c.Assert(err, chk.IsNil)
	c.Check(cur, chk.Equals, "master")

	branches, err := s.repo.Branches()
	c.Assert(err, chk.IsNil)
	c.Check(branches, chk.DeepEquals, []string{"feature", "master"})

	c.Check(errdefs.IsRepositoryState(s.repo.DeleteBranch("nope")), chk.Equals, true)
	c.Assert(s.repo.DeleteBranch("feature"), chk.IsNil)
	branches, err = s.repo.Branches()
	c.Assert(err, chk.IsNil)
	c.Check(branches, chk.DeepEquals, []string{"master"})
}

func (s *RepoSuite) TestDeleteCurrentBranchFails(c *chk.C) {
	head, _ := s.head(c)
	err := s.repo.DeleteBranch("master")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
	c.Check(err, chk.ErrorMatches, "Cannot remove the current branch.")

	bh, err := s.repo.BranchHead("master")
	c.Assert(err, chk.IsNil)
	c.Check(bh, chk.Equals, head)
}

// Ancestry

func (s *RepoSuite) lca(c *chk.C, a, b string) string {
	id, err := s.repo.LowestCommonAncestor(a, b)
	c.Assert(err, chk.IsNil)
	return id
}

func (s *RepoSuite) TestLCASelfAndLine(c *chk.C) {
	root, _ := s.head(c)
	a := s.commitFiles(c, "A", map[string]string{"f": "a"})
	b := s.commitFiles(c, "B", map[string]string{"f": "b"})

	c.Check(s.lca(c, root, root), chk.Equals, root)
	c.Check(s.lca(c, b, b), chk.Equals, b)
	c.Check(s.lca(c, a, b), chk.Equals, a)
	c.Check(s.lca(c, b, a), chk.Equals, a)
	c.Check(s.lca(c, b, root), chk.Equals, root)
}

func (s *RepoSuite) TestLCAAcrossMerges(c *chk.C) {
	a := s.commitFiles(c, "A", map[string]string{"f": "a"})
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	b := s.commitFiles(c, "B", map[string]string{"g": "b"})

	s.checkout(c, "other")
	cc := s.commitFiles(c, "C", map[string]string{"h": "c"})
	c.Check(s.lca(c, b, cc), chk.Equals, a)

	s.checkout(c, "master")
	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	m := res.Commit
	mc, err := s.repo.Store().Get(m)
	c.Assert(err, chk.IsNil)
	c.Check(mc.Parent, chk.Equals, b)
	c.Check(mc.SecondParent, chk.Equals, cc)

	s.checkout(c, "other")
	d := s.commitFiles(c, "D", map[string]string{"h": "d"})

	// The merge reaches C through its second parent, which is closer than A
	c.Check(s.lca(c, m, d), chk.Equals, cc)
	c.Check(s.lca(c, m, cc), chk.Equals, cc)
	c.Check(s.lca(c, d, m), chk.Equals, cc)
}

func (s *RepoSuite) TestLCAEqualIndexKeepsLastChain(c *chk.C) {
	fork := s.commitFiles(c, "X", map[string]string{"f": "x"})
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	s.checkout(c, "other")
	o := s.commitFiles(c, "O", map[string]string{"g": "o"})
	s.checkout(c, "master")

	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	c.Assert(res.FastForward, chk.Equals, true)
	m := res.Commit

	// O and X both sit one step from M; the first-parent chain is evaluated last
	c.Check(s.lca(c, m, o), chk.Equals, fork)

	again, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	c.Check(again.Ancestor, chk.Equals, false)
	c.Check(again.FastForward, chk.Equals, false)
	c.Assert(again.Commit, chk.Not(chk.Equals), "")
	com, err := s.repo.Store().Get(again.Commit)
	c.Assert(err, chk.IsNil)
	c.Check(com.Parent, chk.Equals, m)
	c.Check(com.SecondParent, chk.Equals, o)
}

func (s *RepoSuite) TestAncestorChainsOrder(c *chk.C) {
	root, _ := s.head(c)
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	b := s.commitFiles(c, "B", map[string]string{"g": "b"})
	s.checkout(c, "other")
	cc := s.commitFiles(c, "C", map[string]string{"h": "c"})
	s.checkout(c, "master")
	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)

	chains, err := s.repo.ancestorChains(res.Commit)
	c.Assert(err, chk.IsNil)
	c.Check(chains, chk.DeepEquals, [][]string{
		{res.Commit, cc, root},
		{res.Commit, b, root},
	})
}

// Merge

func (s *RepoSuite) TestMergePreconditions(c *chk.C) {
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)

	_, err := s.repo.Merge("nope")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
	_, err = s.repo.Merge("master")
	c.Check(err, chk.ErrorMatches, "Cannot merge a branch with itself.")

	s.write(c, "a.txt", "a")
	_, err = s.repo.Add("a.txt")
	c.Assert(err, chk.IsNil)
	_, err = s.repo.Merge("other")
	c.Check(err, chk.ErrorMatches, "You have uncommitted changes.")
	adds, err := s.repo.StagedAdditions()
	c.Assert(err, chk.IsNil)
	c.Check(adds, chk.DeepEquals, []string{"a.txt"})
}

func (s *RepoSuite) TestMergeAncestor(c *chk.C) {
	c.Assert(s.repo.CreateBranch("old"), chk.IsNil)
	head := s.commitFiles(c, "ahead", map[string]string{"a.txt": "a"})

	res, err := s.repo.Merge("old")
	c.Assert(err, chk.IsNil)
	c.Check(res.Ancestor, chk.Equals, true)
	c.Check(res.Commit, chk.Equals, "")
	now, _ := s.head(c)
	c.Check(now, chk.Equals, head)
}

func (s *RepoSuite) TestMergeFastForwardStillCommits(c *chk.C) {
	base := s.commitFiles(c, "base", map[string]string{"f.txt": "base"})
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	s.checkout(c, "other")
	tip := s.commitFiles(c, "T", map[string]string{"f.txt": "changed", "new.txt": "new"})
	s.checkout(c, "master")

	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	c.Check(res.FastForward, chk.Equals, true)
	c.Check(res.Ancestor, chk.Equals, false)
	c.Check(res.Conflicted, chk.Equals, false)

	id, com := s.head(c)
	c.Check(id, chk.Equals, res.Commit)
	c.Check(com.Parent, chk.Equals, base)
	c.Check(com.SecondParent, chk.Equals, tip)
	c.Check(com.Message, chk.Equals, "Merged other into master.")
	c.Check(string(com.Files["f.txt"]), chk.Equals, "changed")
	c.Check(string(com.Files["new.txt"]), chk.Equals, "new")
	c.Check(s.read(c, "new.txt"), chk.Equals, "new")
}

// diverge builds base on master, then one commit on each of master and
// other, and leaves master checked out.
func (s *RepoSuite) diverge(c *chk.C, base, cur, tgt map[string]string, rmCur, rmTgt []string) {
	s.commitFiles(c, "base", base)
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)

	for _, p := range rmCur {
		c.Assert(s.repo.Remove(p), chk.IsNil)
	}
	s.commitFiles(c, "current side", cur)

	s.checkout(c, "other")
	for _, p := range rmTgt {
		c.Assert(s.repo.Remove(p), chk.IsNil)
	}
	s.commitFiles(c, "target side", tgt)
	s.checkout(c, "master")
}

func (s *RepoSuite) TestMergeConflict(c *chk.C) {
	s.diverge(c,
		map[string]string{"f.txt": "base"},
		map[string]string{"f.txt": "current"},
		map[string]string{"f.txt": "target"}, nil, nil)

	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	c.Check(res.Conflicted, chk.Equals, true)
	c.Check(res.FastForward, chk.Equals, false)

	want := "<<<<<<< HEAD: f.txt\r\ncurrent\r\n=======\r\ntarget\r\n>>>>>>>\r\n"
	c.Check(s.read(c, "f.txt"), chk.Equals, want)
	_, com := s.head(c)
	c.Check(string(com.Files["f.txt"]), chk.Equals, want)
	c.Check(com.SecondParent, chk.Not(chk.Equals), "")
}

func (s *RepoSuite) TestMergeDeletionPropagates(c *chk.C) {
	s.diverge(c,
		map[string]string{"g.txt": "keep me", "x.txt": "x"},
		map[string]string{"x.txt": "x changed here"},
		map[string]string{"y.txt": "y"}, nil, []string{"g.txt"})
	c.Assert(s.exists("g.txt"), chk.Equals, true)

	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	c.Check(res.Conflicted, chk.Equals, false)
	c.Check(s.exists("g.txt"), chk.Equals, false)
	_, com := s.head(c)
	c.Check(com.Files.Has("g.txt"), chk.Equals, false)
	c.Check(string(com.Files["x.txt"]), chk.Equals, "x changed here")
	c.Check(string(com.Files["y.txt"]), chk.Equals, "y")
}

func (s *RepoSuite) TestMergeDecisionTable(c *chk.C) {
	// take: C=L, T!=L. keep: C!=L, T=L. modvsdel: C!=L, T absent.
	// delvsmod: C absent, T!=L. delvskeep: C absent, T=L. same: both changed alike.
	// bothadd and sameadd are added on both sides, onlyT only in the target.
	s.diverge(c,
		map[string]string{
			"take.txt":      "base",
			"keep.txt":      "base",
			"modvsdel.txt":  "base",
			"delvsmod.txt":  "base",
			"delvskeep.txt": "base",
			"same.txt":      "base",
		},
		map[string]string{
			"keep.txt":     "mine",
			"modvsdel.txt": "mine  \n\n",
			"same.txt":     "both",
			"bothadd.txt":  "mine",
			"sameadd.txt":  "equal",
		},
		map[string]string{
			"take.txt":     "theirs",
			"delvsmod.txt": "theirs\n",
			"same.txt":     "both",
			"bothadd.txt":  "theirs",
			"sameadd.txt":  "equal",
			"onlyT.txt":    "fresh",
		},
		[]string{"delvsmod.txt", "delvskeep.txt"},
		[]string{"modvsdel.txt"})

	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	c.Check(res.Conflicted, chk.Equals, true)
	_, com := s.head(c)
	f := func(p string) string { return string(com.Files[p]) }

	c.Check(f("take.txt"), chk.Equals, "theirs")
	c.Check(f("keep.txt"), chk.Equals, "mine")
	c.Check(f("modvsdel.txt"), chk.Equals, "<<<<<<< HEAD: modvsdel.txt\r\nmine\r\n=======\r\n>>>>>>>\r\n")
	c.Check(f("delvsmod.txt"), chk.Equals, "<<<<<<< HEAD: delvsmod.txt\r\n=======\r\ntheirs\r\n>>>>>>>\r\n")
	c.Check(com.Files.Has("delvskeep.txt"), chk.Equals, false)
	c.Check(s.exists("delvskeep.txt"), chk.Equals, false)
	c.Check(f("same.txt"), chk.Equals, "both")
	c.Check(f("bothadd.txt"), chk.Equals, "<<<<<<< HEAD: bothadd.txt\r\nmine\r\n=======\r\ntheirs\r\n>>>>>>>\r\n")
	c.Check(f("sameadd.txt"), chk.Equals, "equal")
	c.Check(f("onlyT.txt"), chk.Equals, "fresh")
	c.Check(s.read(c, "onlyT.txt"), chk.Equals, "fresh")

	empty, err := s.repo.StagingEmpty()
	c.Assert(err, chk.IsNil)
	c.Check(empty, chk.Equals, true)
}

func (s *RepoSuite) TestMergeUntrackedWarningDoesNotAbort(c *chk.C) {
	s.commitFiles(c, "base", map[string]string{"a.txt": "a"})
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	s.commitFiles(c, "current", map[string]string{"a.txt": "a2"})
	s.checkout(c, "other")
	s.commitFiles(c, "target", map[string]string{"n.txt": "from target"})
	s.checkout(c, "master")

	s.write(c, "n.txt", "untracked local")
	res, err := s.repo.Merge("other")
	c.Assert(err, chk.IsNil)
	c.Check(res.Warnings, chk.DeepEquals, []string{UntrackedInTheWay})
	c.Check(res.Commit, chk.Not(chk.Equals), "")
	c.Check(s.read(c, "n.txt"), chk.Equals, "from target")
}

func (s *RepoSuite) TestConflictMarker(c *chk.C) {
	c.Check(ConflictMarker("p", "a\n", "b \t\n"), chk.Equals,
		"<<<<<<< HEAD: p\r\na\r\n=======\r\nb\r\n>>>>>>>\r\n")
	c.Check(ConflictMarker("p", "", "b"), chk.Equals,
		"<<<<<<< HEAD: p\r\n=======\r\nb\r\n>>>>>>>\r\n")
	c.Check(ConflictMarker("p", "a", ""), chk.Equals,
		"<<<<<<< HEAD: p\r\na\r\n=======\r\n>>>>>>>\r\n")
	// Only ASCII whitespace is trimmed
	c.Check(ConflictMarker("p", "a\u00a0", "b\u2003\r\n"), chk.Equals,
		"<<<<<<< HEAD: p\r\na\u00a0\r\n=======\r\nb\u2003\r\n>>>>>>>\r\n")
}

// Working tree

func (s *RepoSuite) TestCheckoutFile(c *chk.C) {
	first := s.commitFiles(c, "v1", map[string]string{"a.txt": "v1"})
	s.commitFiles(c, "v2", map[string]string{"a.txt": "v2"})

	c.Check(errdefs.IsRepositoryState(s.repo.CheckoutFile("zzz.txt", "")), chk.Equals, true)

	c.Assert(s.repo.CheckoutFile("a.txt", first[:8]), chk.IsNil)
	c.Check(s.read(c, "a.txt"), chk.Equals, "v1")
	empty, err := s.repo.StagingEmpty()
	c.Assert(err, chk.IsNil)
	c.Check(empty, chk.Equals, true)

	c.Assert(s.repo.CheckoutFile("a.txt", ""), chk.IsNil)
	c.Check(s.read(c, "a.txt"), chk.Equals, "v2")

	c.Check(errdefs.IsUsage(s.repo.CheckoutFile("a.txt", "abc")), chk.Equals, true)
	c.Check(errdefs.IsRepositoryState(s.repo.CheckoutFile("a.txt", "abcdefabcdef")), chk.Equals, true)
	c.Check(errdefs.IsRepositoryState(s.repo.CheckoutFile("zzz.txt", first)), chk.Equals, true)
}

func (s *RepoSuite) TestCheckoutBranch(c *chk.C) {
	s.commitFiles(c, "base", map[string]string{"shared.txt": "base", "gone.txt": "g"})
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	s.checkout(c, "other")
	c.Assert(s.repo.Remove("gone.txt"), chk.IsNil)
	tip := s.commitFiles(c, "other work", map[string]string{"shared.txt": "other", "extra.txt": "e"})
	s.checkout(c, "master")
	c.Check(s.read(c, "shared.txt"), chk.Equals, "base")
	c.Check(s.read(c, "gone.txt"), chk.Equals, "g")
	c.Check(s.exists("extra.txt"), chk.Equals, false)

	// Staged work is discarded by a branch checkout
	s.write(c, "scratch.txt", "s")
	_, err := s.repo.Add("scratch.txt")
	c.Assert(err, chk.IsNil)

	res, err := s.repo.CheckoutBranch("other")
	c.Assert(err, chk.IsNil)
	c.Check(res.Warnings, chk.HasLen, 0)
	c.Check(s.read(c, "shared.txt"), chk.Equals, "other")
	c.Check(s.read(c, "extra.txt"), chk.Equals, "e")
	c.Check(s.exists("gone.txt"), chk.Equals, false)

	head, _ := s.head(c)
	c.Check(head, chk.Equals, tip)
	cur, err := s.repo.CurrentBranch()
	c.Assert(err, chk.IsNil)
	c.Check(cur, chk.Equals, "other")
	empty, err := s.repo.StagingEmpty()
	c.Assert(err, chk.IsNil)
	c.Check(empty, chk.Equals, true)

	_, err = s.repo.CheckoutBranch("other")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
	_, err = s.repo.CheckoutBranch("missing")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)
}

func (s *RepoSuite) TestCheckoutBranchWarnsButProceeds(c *chk.C) {
	c.Assert(s.repo.CreateBranch("other"), chk.IsNil)
	s.checkout(c, "other")
	s.commitFiles(c, "other", map[string]string{"u.txt": "tracked on other"})
	s.checkout(c, "master")
	c.Check(s.exists("u.txt"), chk.Equals, false)

	s.write(c, "u.txt", "local")
	res, err := s.repo.CheckoutBranch("other")
	c.Assert(err, chk.IsNil)
	c.Check(res.Warnings, chk.DeepEquals, []string{UntrackedInTheWay})
	c.Check(s.read(c, "u.txt"), chk.Equals, "tracked on other")
}

func (s *RepoSuite) TestReset(c *chk.C) {
	first := s.commitFiles(c, "first", map[string]string{"a.txt": "a1"})
	s.commitFiles(c, "second", map[string]string{"a.txt": "a2", "b.txt": "b"})
	s.write(c, "pending.txt", "p")
	_, err := s.repo.Add("pending.txt")
	c.Assert(err, chk.IsNil)

	_, err = s.repo.Reset("abc")
	c.Check(errdefs.IsUsage(err), chk.Equals, true)
	_, err = s.repo.Reset("0123456789")
	c.Check(errdefs.IsRepositoryState(err), chk.Equals, true)

	res, err := s.repo.Reset(first[:6])
	c.Assert(err, chk.IsNil)
	c.Check(res.Commit, chk.Equals, first)
	c.Check(s.read(c, "a.txt"), chk.Equals, "a1")
	c.Check(s.exists("b.txt"), chk.Equals, false)

	head, _ := s.head(c)
	c.Check(head, chk.Equals, first)
	bh, err := s.repo.BranchHead("master")
	c.Assert(err, chk.IsNil)
	c.Check(bh, chk.Equals, first)
	empty, err := s.repo.StagingEmpty()
	c.Assert(err, chk.IsNil)
	c.Check(empty, chk.Equals, true)
}

func (s *RepoSuite) TestResetWarnsAboutUntracked(c *chk.C) {
	old := s.commitFiles(c, "with u", map[string]string{"u.txt": "old", "a.txt": "a"})
	c.Assert(s.repo.Remove("u.txt"), chk.IsNil)
	_, err := s.repo.Commit("drop u")
	c.Assert(err, chk.IsNil)

	s.write(c, "u.txt", "local")
	res, err := s.repo.Reset(old)
	c.Assert(err, chk.IsNil)
	c.Check(res.Warnings, chk.DeepEquals, []string{UntrackedInTheWay})
	c.Check(s.read(c, "u.txt"), chk.Equals, "old")

	rms, err := s.repo.StagedRemovals()
	c.Assert(err, chk.IsNil)
	c.Check(rms, chk.HasLen, 0)
	_, com := s.head(c)
	c.Check(string(com.Files["u.txt"]), chk.Equals, "old")
}

// Status

func (s *RepoSuite) TestStatus(c *chk.C) {
	s.commitFiles(c, "base", map[string]string{
		"mod.txt": "m", "del.txt": "d", "rm.txt": "r", "clean.txt": "c", "stagedmod.txt": "s",
	})
	c.Assert(s.repo.CreateBranch("zeta"), chk.IsNil)
	c.Assert(s.repo.CreateBranch("alpha"), chk.IsNil)

	s.write(c, "mod.txt", "m changed")
	c.Assert(s.repo.Remove("rm.txt"), chk.IsNil)
	c.Assert(s.fs.Remove(work+"/del.txt"), chk.IsNil)
	s.write(c, "b-new.txt", "new")
	_, err := s.repo.Add("b-new.txt")
	c.Assert(err, chk.IsNil)
	s.write(c, "stagedmod.txt", "s staged")
	_, err = s.repo.Add("stagedmod.txt")
	c.Assert(err, chk.IsNil)
	s.write(c, "stagedmod.txt", "s edited after staging")
	s.write(c, "zz-untracked.txt", "u")
	s.write(c, "aa-untracked.txt", "u")

	st, err := s.repo.Status()
	c.Assert(err, chk.IsNil)
	c.Check(st.Branches, chk.DeepEquals, []Branch{
		{Name: "alpha"}, {Name: "master", Current: true}, {Name: "zeta"},
	})
	c.Check(st.Staged, chk.DeepEquals, []string{"b-new.txt", "stagedmod.txt"})
	c.Check(st.Removed, chk.DeepEquals, []string{"rm.txt"})
	c.Check(st.Modifications, chk.DeepEquals, []Modification{
		{Path: "del.txt", Kind: Deleted},
		{Path: "mod.txt", Kind: Modified},
		{Path: "stagedmod.txt", Kind: Modified},
	})
	c.Check(st.Untracked, chk.DeepEquals, []string{"aa-untracked.txt", "zz-untracked.txt"})

	// Reading status changes nothing
	again, err := s.repo.Status()
	c.Assert(err, chk.IsNil)
	c.Check(again, chk.DeepEquals, st)
}

func (s *RepoSuite) TestStatusStagedThenDeleted(c *chk.C) {
	s.write(c, "n.txt", "n")
	_, err := s.repo.Add("n.txt")
	c.Assert(err, chk.IsNil)
	c.Assert(s.fs.Remove(work+"/n.txt"), chk.IsNil)

	st, err := s.repo.Status()
	c.Assert(err, chk.IsNil)
	c.Check(st.Modifications, chk.DeepEquals, []Modification{{Path: "n.txt", Kind: Modified}})
	c.Check(st.Untracked, chk.HasLen, 0)
}

// Clone

func (s *RepoSuite) TestClone(c *chk.C) {
	id := s.commitFiles(c, "first", map[string]string{"a.txt": "a"})
	c.Assert(s.fs.MkdirAll("/copy", 0755), chk.IsNil)

	c.Assert(Clone(s.fs, work, "/copy", Options{}), chk.IsNil)
	r, err := Open(s.fs, "/copy", s.opts())
	c.Assert(err, chk.IsNil)
	head, err := r.Head()
	c.Assert(err, chk.IsNil)
	c.Check(head, chk.Equals, id)
	c.Check(fsutil.Exists(s.fs, "/copy/a.txt"), chk.Equals, false)

	c.Check(errdefs.IsUsage(Clone(s.fs, work, "/missing", Options{})), chk.Equals, true)
	c.Check(errdefs.IsUsage(Clone(s.fs, work, work+"/a.txt", Options{})), chk.Equals, true)
	c.Check(errdefs.IsRepositoryState(Clone(s.fs, "/copy/.gitplit_repository", "/copy", Options{})), chk.Equals, true)
}
