package git

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/zjrosen/branchdiff/internal/diff"
	"github.com/zjrosen/branchdiff/internal/log"
	"github.com/zjrosen/branchdiff/internal/session"
)

var _ session.Source = (*CLISource)(nil)

// CLISource reads the range through the git executable.
type CLISource struct {
	exec         GitExecutor
	contextLines int
	logger       *log.Logger
}

// NewCLISource creates a source backed by exec.
func NewCLISource(exec GitExecutor, contextLines int, logger *log.Logger) *CLISource {
	return &CLISource{exec: exec, contextLines: contextLines, logger: logger}
}

// ResolveCommits lists base..head oldest first.
func (s *CLISource) ResolveCommits(ctx context.Context, base, head string) ([]session.CommitInfo, error) {
	if !s.exec.IsGitRepo() {
		return nil, &ReferenceResolutionError{Ref: head, Err: ErrNotGitRepo}
	}

	for _, ref := range []string{base, head} {
		hash, err := s.exec.ResolveCommit(ctx, ref)
		if err != nil {
			return nil, &ReferenceResolutionError{Ref: ref, Err: err}
		}
		s.logger.Debug(log.CatGit, "resolved ref", "ref", ref, "hash", hash)
	}

	hashes, err := s.exec.RevList(ctx, base, head)
	if err != nil {
		return nil, &ReferenceResolutionError{Ref: base + ".." + head, Err: err}
	}

	commits := make([]session.CommitInfo, 0, len(hashes))
	for _, hash := range hashes {
		author, message, err := s.exec.GetCommitMeta(ctx, hash)
		if err != nil {
			return nil, &ReferenceResolutionError{Ref: hash, Err: err}
		}
		commits = append(commits, session.CommitInfo{Hash: hash, Author: author, Message: message})
	}
	return commits, nil
}

// Diff streams hash's first-parent diff.
func (s *CLISource) Diff(ctx context.Context, hash string) (iter.Seq[diff.StreamLine], error) {
	out, err := s.exec.GetFirstParentDiff(ctx, hash, s.contextLines)
	if err != nil {
		return nil, &DiffComputationError{Hash: hash, Err: err}
	}
	files, _, err := gitdiff.Parse(strings.NewReader(out))
	if err != nil {
		return nil, &DiffComputationError{Hash: hash, Err: err}
	}
	if len(files) == 0 && strings.TrimSpace(out) != "" {
		return nil, &DiffComputationError{Hash: hash, Err: errors.New("no files in diff output")}
	}
	s.logger.Debug(log.CatGit, "parsed diff", "hash", hash, "files", len(files))
	return streamFiles(files), nil
}
