package git

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMissingRevision(t *testing.T) {
	requireGit(t)
	fx := newFixture(t)

	e := NewRealExecutor(fx.dir)
	_, err := e.runGitOutput(bg, "rev-parse", "--verify", "--quiet", fx.root.String()+"^1")
	require.Error(t, err)
	require.True(t, isMissingRevision(err), "root commit has no parent")

	_, err = NewRealExecutor(t.TempDir()).runGitOutput(bg, "rev-parse", "--verify", "--quiet", "HEAD^1")
	require.ErrorIs(t, err, ErrNotGitRepo)
	require.False(t, isMissingRevision(err))

	require.False(t, isMissingRevision(context.Canceled))
	require.False(t, isMissingRevision(exec.ErrNotFound))
}

func TestGetFirstParentDiff_ErrorsAreNotRootCommits(t *testing.T) {
	requireGit(t)
	fx := newFixture(t)

	ctx, cancel := context.WithCancel(bg)
	cancel()
	_, err := NewRealExecutor(fx.dir).GetFirstParentDiff(ctx, fx.root.String(), 3)
	require.ErrorIs(t, err, context.Canceled)

	_, err = NewRealExecutor(t.TempDir()).GetFirstParentDiff(bg, fx.root.String(), 3)
	require.ErrorIs(t, err, ErrNotGitRepo)

	out, err := NewRealExecutor(fx.dir).GetFirstParentDiff(bg, fx.root.String(), 3)
	require.NoError(t, err)
	require.Contains(t, out, "+++ b/keep.txt")
}
