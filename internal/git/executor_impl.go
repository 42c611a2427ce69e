package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// emptyTree is the hash of the tree with no entries, present in every repository.
const emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Compile-time check that RealExecutor implements GitExecutor.
var _ GitExecutor = (*RealExecutor)(nil)

// RealExecutor implements GitExecutor by executing actual git commands.
type RealExecutor struct {
	workDir string
}

// NewRealExecutor creates a new RealExecutor.
func NewRealExecutor(workDir string) *RealExecutor {
	return &RealExecutor{workDir: workDir}
}

// runGitOutput executes a git command and returns trimmed stdout.
func (e *RealExecutor) runGitOutput(ctx context.Context, args ...string) (string, error) {
	out, err := e.runGitRaw(ctx, args...)
	return strings.TrimSpace(out), err
}

// runGitRaw executes a git command and returns stdout untouched.
func (e *RealExecutor) runGitRaw(ctx context.Context, args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", parseGitError(stderrStr, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}

	// fatal: ambiguous argument 'x': unknown revision or path not in the working tree.
	// fatal: Needed a single revision
	// fatal: bad revision 'x'
	if strings.Contains(stderrLower, "unknown revision") ||
		strings.Contains(stderrLower, "needed a single revision") ||
		strings.Contains(stderrLower, "bad revision") ||
		strings.Contains(stderrLower, "invalid object name") {
		return fmt.Errorf("%w: %s", ErrUnknownRevision, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// IsGitRepo checks if the working directory is inside a git repository.
func (e *RealExecutor) IsGitRepo() bool {
	_, err := e.runGitOutput(context.Background(), "rev-parse", "--git-dir")
	return err == nil
}

// GetRepoRoot returns the top-level directory of the repository.
func (e *RealExecutor) GetRepoRoot() (string, error) {
	return e.runGitOutput(context.Background(), "rev-parse", "--show-toplevel")
}

// ResolveCommit returns the full hash of the commit ref points at.
func (e *RealExecutor) ResolveCommit(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "-") {
		return "", fmt.Errorf("%w: %s", ErrUnknownRevision, ref)
	}
	hash, err := e.runGitOutput(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		if errors.Is(err, ErrNotGitRepo) || errors.Is(err, ErrUnknownRevision) {
			return "", err
		}
		// --quiet exits 1 without a message
		return "", fmt.Errorf("%w: %s", ErrUnknownRevision, ref)
	}
	return hash, nil
}

// RevList returns base..head oldest first.
func (e *RealExecutor) RevList(ctx context.Context, base, head string) ([]string, error) {
	out, err := e.runGitOutput(ctx, "rev-list", "--topo-order", "--reverse", base+".."+head)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// GetCommitMeta returns the author name and raw message body.
func (e *RealExecutor) GetCommitMeta(ctx context.Context, hash string) (string, string, error) {
	out, err := e.runGitRaw(ctx, "show", "-s", "--format=%an%x00%B", hash)
	if err != nil {
		return "", "", err
	}
	author, message, ok := strings.Cut(out, "\x00")
	if !ok {
		return "", "", fmt.Errorf("unexpected git show output for %s", hash)
	}
	return author, strings.TrimRight(message, "\n"), nil
}

// GetFirstParentDiff returns the diff introduced by hash relative to its
// first parent. Renames are reported as a deletion plus a creation.
func (e *RealExecutor) GetFirstParentDiff(ctx context.Context, hash string, contextLines int) (string, error) {
	parent, err := e.runGitOutput(ctx, "rev-parse", "--verify", "--quiet", hash+"^1")
	if err != nil {
		if !isMissingRevision(err) || ctx.Err() != nil {
			return "", err
		}
		// root commit
		parent = emptyTree
	}
	return e.runGitRaw(ctx, "diff", "--no-color", "--no-ext-diff", "--no-renames", "--unified="+strconv.Itoa(contextLines), parent, hash)
}

// isMissingRevision reports the silent exit 1 of rev-parse --verify --quiet
// for a revision that does not exist.
func isMissingRevision(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}
