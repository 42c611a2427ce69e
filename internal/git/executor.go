package git

import "context"

// GitExecutor runs the git commands the CLI source needs.
// This abstraction allows for easy testing with mock implementations.
type GitExecutor interface {
	IsGitRepo() bool
	GetRepoRoot() (string, error)

	// ResolveCommit returns the full hash of the commit ref names.
	// Returns ErrUnknownRevision if ref does not resolve to a commit.
	ResolveCommit(ctx context.Context, ref string) (string, error)
	// RevList returns the commits reachable from head but not from base,
	// oldest first in topological order.
	RevList(ctx context.Context, base, head string) ([]string, error)
	// GetCommitMeta returns the author name and full message of hash.
	GetCommitMeta(ctx context.Context, hash string) (author, message string, err error)
	// GetFirstParentDiff returns the unified diff of hash against its first
	// parent, or against the empty tree for a root commit, with
	// contextLines unchanged lines around each change.
	GetFirstParentDiff(ctx context.Context, hash string, contextLines int) (string, error)
}
