package git

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/branchdiff/internal/diff"
)

// testRepo is a scratch repository built with go-git.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt, when: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (r *testRepo) write(path, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, path)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
	_, err := r.wt.Add(path)
	require.NoError(r.t, err)
}

func (r *testRepo) remove(path string) {
	r.t.Helper()
	_, err := r.wt.Remove(path)
	require.NoError(r.t, err)
}

func (r *testRepo) commit(msg, author string) plumbing.Hash {
	r.t.Helper()
	r.when = r.when.Add(time.Minute)
	hash, err := r.wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: author, Email: strings.ToLower(author) + "@example.com", When: r.when},
	})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) branch(name string, hash plumbing.Hash) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	require.NoError(r.t, r.repo.Storer.SetReference(ref))
}

func numbered(n int, replace map[int]string) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		line, ok := replace[i]
		if !ok {
			line = "line " + string(rune('0'+i%10))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// fixture is main = root commit, feature = main + two commits.
type fixture struct {
	*testRepo
	root, addA, modify plumbing.Hash
}

func newFixture(t *testing.T) *fixture {
	r := newTestRepo(t)

	r.write("keep.txt", numbered(10, nil))
	r.write("old.txt", "x\ny\nz\n")
	root := r.commit("initial", "Ann")
	r.branch("main", root)

	r.write("src/a.rs", "fn a() {\n    1\n    2\n    3\n}\n")
	addA := r.commit("add a.rs", "Bob")

	r.write("keep.txt", numbered(10, map[int]string{5: "five"}))
	r.remove("old.txt")
	modify := r.commit("modify keep\n\nand drop old", "Cid")
	r.branch("feature", modify)

	return &fixture{testRepo: r, root: root, addA: addA, modify: modify}
}

func collect(t *testing.T, seq func(func(diff.StreamLine) bool)) []diff.StreamLine {
	t.Helper()
	return slices.Collect(seq)
}

func kindsOf(lines []diff.StreamLine, path string) string {
	var b strings.Builder
	for _, l := range lines {
		if l.Path == path {
			b.WriteString(l.Kind.Sign())
		}
	}
	return b.String()
}

func buildTree(t *testing.T, lines []diff.StreamLine) *diff.Tree {
	t.Helper()
	tree, err := diff.Build(slices.Values(lines))
	require.NoError(t, err)
	return tree
}

var bg = context.Background()
