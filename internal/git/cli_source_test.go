package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/branchdiff/internal/diff"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func TestCLISource_MatchesGoGit(t *testing.T) {
	requireGit(t)
	fx := newFixture(t)
	cli := NewCLISource(NewRealExecutor(fx.dir), 3, nil)
	gg := NewGoGitSource(fx.repo, 3, nil)

	cliCommits, err := cli.ResolveCommits(bg, "main", "feature")
	require.NoError(t, err)
	ggCommits, err := gg.ResolveCommits(bg, "main", "feature")
	require.NoError(t, err)
	require.Equal(t, ggCommits, cliCommits)

	for _, c := range cliCommits {
		cliSeq, err := cli.Diff(bg, c.Hash)
		require.NoError(t, err)
		ggSeq, err := gg.Diff(bg, c.Hash)
		require.NoError(t, err)
		require.Equal(t, collect(t, ggSeq), collect(t, cliSeq), "commit %s", c.Hash)
	}
}

func TestCLISource_RootCommit(t *testing.T) {
	requireGit(t)
	fx := newFixture(t)
	cli := NewCLISource(NewRealExecutor(fx.dir), 3, nil)

	seq, err := cli.Diff(bg, fx.root.String())
	require.NoError(t, err)
	lines := collect(t, seq)
	require.Equal(t, strings.Repeat("+", 10), kindsOf(lines, "keep.txt"))
	require.Equal(t, "+++", kindsOf(lines, "old.txt"))
}

func TestCLISource_UnknownRef(t *testing.T) {
	requireGit(t)
	fx := newFixture(t)
	cli := NewCLISource(NewRealExecutor(fx.dir), 3, nil)

	_, err := cli.ResolveCommits(bg, "nope", "feature")

	var rre *ReferenceResolutionError
	require.ErrorAs(t, err, &rre)
	require.Equal(t, "nope", rre.Ref)
	require.ErrorIs(t, err, ErrUnknownRevision)
}

func TestCLISource_NotARepo(t *testing.T) {
	requireGit(t)
	cli := NewCLISource(NewRealExecutor(t.TempDir()), 3, nil)

	_, err := cli.ResolveCommits(bg, "main", "feature")
	require.ErrorIs(t, err, ErrNotGitRepo)
}

func TestRealExecutor_RepoRoot(t *testing.T) {
	requireGit(t)
	fx := newFixture(t)
	e := NewRealExecutor(fx.dir)

	require.True(t, e.IsGitRepo())
	root, err := e.GetRepoRoot()
	require.NoError(t, err)
	require.NotEmpty(t, root)

	hash, err := e.ResolveCommit(bg, "main")
	require.NoError(t, err)
	require.Equal(t, fx.root.String(), hash)

	_, err = e.ResolveCommit(bg, "--all")
	require.ErrorIs(t, err, ErrUnknownRevision)
}

// fakeExecutor scripts GitExecutor responses.
type fakeExecutor struct {
	repo    bool
	resolve map[string]error
	revs    []string
	revErr  error
	meta    map[string][2]string
	diffs   map[string]string
	diffErr error
}

func (f *fakeExecutor) IsGitRepo() bool              { return f.repo }
func (f *fakeExecutor) GetRepoRoot() (string, error) { return "/repo", nil }

func (f *fakeExecutor) ResolveCommit(_ context.Context, ref string) (string, error) {
	if err := f.resolve[ref]; err != nil {
		return "", err
	}
	return ref + "-hash", nil
}

func (f *fakeExecutor) RevList(context.Context, string, string) ([]string, error) {
	return f.revs, f.revErr
}

func (f *fakeExecutor) GetCommitMeta(_ context.Context, hash string) (string, string, error) {
	m, ok := f.meta[hash]
	if !ok {
		return "", "", errors.New("bad object")
	}
	return m[0], m[1], nil
}

func (f *fakeExecutor) GetFirstParentDiff(_ context.Context, hash string, _ int) (string, error) {
	return f.diffs[hash], f.diffErr
}

const sampleDiff = `diff --git a/src/a.go b/src/a.go
index 1111111..2222222 100644
--- a/src/a.go
+++ b/src/a.go
@@ -1,3 +1,3 @@
 package a
-var x = 1
+var x = 2
 // end
\ No newline at end of file
diff --git a/img.png b/img.png
new file mode 100644
index 0000000..3333333
Binary files /dev/null and b/img.png differ
diff --git a/gone.go b/gone.go
deleted file mode 100644
index 4444444..0000000
--- a/gone.go
+++ /dev/null
@@ -1,2 +0,0 @@
-package gone
-
`

func TestCLISource_ParsesDiff(t *testing.T) {
	fe := &fakeExecutor{repo: true, diffs: map[string]string{"c1": sampleDiff}}
	cli := NewCLISource(fe, 3, nil)

	seq, err := cli.Diff(bg, "c1")
	require.NoError(t, err)
	lines := collect(t, seq)

	require.Equal(t, " -+ ", kindsOf(lines, "src/a.go"))
	require.Equal(t, "--", kindsOf(lines, "gone.go"))
	require.Equal(t, "var x = 2", lines[2].Text)

	var binary []diff.StreamLine
	for _, l := range lines {
		if l.Path == "img.png" {
			binary = append(binary, l)
		}
	}
	require.Len(t, binary, 1)
	require.Equal(t, diff.KindOther, binary[0].Kind)

	tree := buildTree(t, lines)
	require.Equal(t, 2, tree.FileCount())
	require.Equal(t, 6, tree.DiffLen)
}

func TestCLISource_DiffErrors(t *testing.T) {
	fe := &fakeExecutor{repo: true, diffErr: errors.New("fatal: bad object")}
	cli := NewCLISource(fe, 3, nil)

	_, err := cli.Diff(bg, "c1")
	var dce *DiffComputationError
	require.ErrorAs(t, err, &dce)
	require.Equal(t, "c1", dce.Hash)

	fe = &fakeExecutor{repo: true, diffs: map[string]string{"c2": "garbage that is not a diff\n"}}
	_, err = NewCLISource(fe, 3, nil).Diff(bg, "c2")
	require.ErrorAs(t, err, &dce)
}

func TestCLISource_ResolveErrors(t *testing.T) {
	boom := errors.New("boom")

	fe := &fakeExecutor{repo: false}
	_, err := NewCLISource(fe, 3, nil).ResolveCommits(bg, "a", "b")
	require.ErrorIs(t, err, ErrNotGitRepo)

	fe = &fakeExecutor{repo: true, resolve: map[string]error{"b": ErrUnknownRevision}}
	_, err = NewCLISource(fe, 3, nil).ResolveCommits(bg, "a", "b")
	var rre *ReferenceResolutionError
	require.ErrorAs(t, err, &rre)
	require.Equal(t, "b", rre.Ref)

	fe = &fakeExecutor{repo: true, revErr: boom}
	_, err = NewCLISource(fe, 3, nil).ResolveCommits(bg, "a", "b")
	require.ErrorIs(t, err, boom)

	fe = &fakeExecutor{repo: true, revs: []string{"c1"}}
	_, err = NewCLISource(fe, 3, nil).ResolveCommits(bg, "a", "b")
	require.ErrorAs(t, err, &rre)
	require.Equal(t, "c1", rre.Ref)
}

func TestCLISource_ResolveCommits(t *testing.T) {
	fe := &fakeExecutor{
		repo: true,
		revs: []string{"c1", "c2"},
		meta: map[string][2]string{"c1": {"Ann", "one"}, "c2": {"Bob", ""}},
	}

	commits, err := NewCLISource(fe, 3, nil).ResolveCommits(bg, "a", "b")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	require.Equal(t, "Ann", commits[0].Author)
	require.Equal(t, "", commits[1].Message)
}

func TestParseGitError(t *testing.T) {
	orig := errors.New("exit status 128")

	err := parseGitError("fatal: not a git repository (or any of the parent directories): .git", orig)
	require.ErrorIs(t, err, ErrNotGitRepo)

	err = parseGitError("fatal: ambiguous argument 'x..y': unknown revision or path not in the working tree.", orig)
	require.ErrorIs(t, err, ErrUnknownRevision)

	err = parseGitError("fatal: something else", orig)
	require.ErrorIs(t, err, orig)
	require.Contains(t, err.Error(), "something else")
}

func TestErrorTypes(t *testing.T) {
	inner := errors.New("inner")

	rre := &ReferenceResolutionError{Ref: "main", Err: inner}
	require.ErrorIs(t, rre, inner)
	require.Equal(t, `resolving "main": inner`, rre.Error())

	dce := &DiffComputationError{Hash: "abc", Err: inner}
	require.ErrorIs(t, dce, inner)
	require.Equal(t, "computing diff of abc: inner", dce.Error())
}
