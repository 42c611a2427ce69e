package git

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/samber/lo"

	"github.com/zjrosen/branchdiff/internal/diff"
	"github.com/zjrosen/branchdiff/internal/linediff"
	"github.com/zjrosen/branchdiff/internal/log"
	"github.com/zjrosen/branchdiff/internal/session"
)

var _ session.Source = (*GoGitSource)(nil)

// GoGitSource reads the range in-process with go-git.
type GoGitSource struct {
	repo         *gogit.Repository
	contextLines int
	logger       *log.Logger
}

// OpenGoGit opens the repository containing path.
func OpenGoGit(path string, contextLines int, logger *log.Logger) (*GoGitSource, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, path)
		}
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	return NewGoGitSource(repo, contextLines, logger), nil
}

// NewGoGitSource wraps an already opened repository.
func NewGoGitSource(repo *gogit.Repository, contextLines int, logger *log.Logger) *GoGitSource {
	return &GoGitSource{repo: repo, contextLines: contextLines, logger: logger}
}

func (s *GoGitSource) resolve(ref string) (plumbing.Hash, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			err = fmt.Errorf("%w: %s", ErrUnknownRevision, ref)
		}
		return plumbing.ZeroHash, &ReferenceResolutionError{Ref: ref, Err: err}
	}
	if _, err := s.repo.CommitObject(*hash); err != nil {
		return plumbing.ZeroHash, &ReferenceResolutionError{Ref: ref, Err: err}
	}
	s.logger.Debug(log.CatGit, "resolved ref", "ref", ref, "hash", hash.String())
	return *hash, nil
}

// ResolveCommits lists the commits reachable from head but not from base.
// Parents always come before their children.
func (s *GoGitSource) ResolveCommits(ctx context.Context, base, head string) ([]session.CommitInfo, error) {
	baseHash, err := s.resolve(base)
	if err != nil {
		return nil, err
	}
	headHash, err := s.resolve(head)
	if err != nil {
		return nil, err
	}

	hidden, err := s.ancestors(ctx, baseHash)
	if err != nil {
		return nil, &ReferenceResolutionError{Ref: base, Err: err}
	}

	var ordered []*object.Commit
	visited := map[plumbing.Hash]bool{}
	var visit func(h plumbing.Hash) error
	visit = func(h plumbing.Hash) error {
		if visited[h] || hidden[h] {
			return nil
		}
		visited[h] = true
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := s.repo.CommitObject(h)
		if err != nil {
			return err
		}
		for _, p := range c.ParentHashes {
			if err := visit(p); err != nil {
				return err
			}
		}
		ordered = append(ordered, c)
		return nil
	}
	if err := visit(headHash); err != nil {
		return nil, &ReferenceResolutionError{Ref: base + ".." + head, Err: err}
	}

	return lo.Map(ordered, func(c *object.Commit, _ int) session.CommitInfo {
		return session.CommitInfo{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Message: strings.TrimRight(c.Message, "\n"),
		}
	}), nil
}

// ancestors collects every commit reachable from h, h included.
func (s *GoGitSource) ancestors(ctx context.Context, h plumbing.Hash) (map[plumbing.Hash]bool, error) {
	commits, err := s.repo.Log(&gogit.LogOptions{From: h})
	if err != nil {
		return nil, err
	}
	defer commits.Close()

	seen := map[plumbing.Hash]bool{}
	err = commits.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	return seen, err
}

type fileChange struct {
	path     string
	from, to *object.File
}

// Diff computes hash's diff against its first parent, file by file in
// path order, keeping contextLines unchanged lines around each change.
func (s *GoGitSource) Diff(ctx context.Context, hash string) (iter.Seq[diff.StreamLine], error) {
	lines, err := s.diffLines(ctx, plumbing.NewHash(hash))
	if err != nil {
		return nil, &DiffComputationError{Hash: hash, Err: err}
	}
	return slices.Values(lines), nil
}

func (s *GoGitSource) diffLines(ctx context.Context, hash plumbing.Hash) ([]diff.StreamLine, error) {
	commit, err := s.repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, &object.DiffTreeOptions{})
	if err != nil {
		return nil, err
	}

	files := make([]fileChange, 0, len(changes))
	for _, change := range changes {
		from, to, err := change.Files()
		if err != nil {
			return nil, err
		}
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		files = append(files, fileChange{path: name, from: from, to: to})
	}
	slices.SortFunc(files, func(a, b fileChange) int { return strings.Compare(a.path, b.path) })

	var out []diff.StreamLine
	for _, fc := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileLines, err := s.fileLines(fc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fc.path, err)
		}
		out = append(out, fileLines...)
	}
	s.logger.Debug(log.CatGit, "computed diff", "hash", hash.String(), "files", len(files), "lines", len(out))
	return out, nil
}

func (s *GoGitSource) fileLines(fc fileChange) ([]diff.StreamLine, error) {
	var contents [2]string
	for i, f := range []*object.File{fc.from, fc.to} {
		if f == nil {
			continue
		}
		binary, err := f.IsBinary()
		if err != nil {
			return nil, err
		}
		if binary {
			return []diff.StreamLine{{Path: fc.path, Text: binaryNotice, Kind: diff.KindOther}}, nil
		}
		if contents[i], err = f.Contents(); err != nil {
			return nil, err
		}
	}

	ops := linediff.Unified(linediff.Do(contents[0], contents[1], 0), s.contextLines)
	return lo.Map(ops, func(op linediff.Line, _ int) diff.StreamLine {
		return diff.StreamLine{Path: fc.path, Text: op.Text, Kind: lineKind(op.Op)}
	}), nil
}

func lineKind(op linediff.Operation) diff.Kind {
	switch op {
	case linediff.DiffInsert:
		return diff.KindInsertion
	case linediff.DiffDelete:
		return diff.KindDeletion
	default:
		return diff.KindContext
	}
}
