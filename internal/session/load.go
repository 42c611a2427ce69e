package session

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/branchdiff/internal/diff"
	"github.com/zjrosen/branchdiff/internal/log"
)

// CommitInfo describes one commit of a resolved range.
type CommitInfo struct {
	Hash    string
	Author  string
	Message string
}

// Source resolves a commit range and streams each commit's diff.
type Source interface {
	// ResolveCommits lists the commits reachable from head but not from
	// base, oldest first in topological order.
	ResolveCommits(ctx context.Context, base, head string) ([]CommitInfo, error)
	// Diff streams the diff of hash against its first parent.
	Diff(ctx context.Context, hash string) (iter.Seq[diff.StreamLine], error)
}

// LoadOptions tunes Load.
type LoadOptions struct {
	Concurrency int       // parallel diff builds; <= 0 means one
	Progress    io.Writer // progress bar destination; nil disables it
	Logger      *log.Logger
}

// Load resolves base..head and builds every commit's diff tree before
// returning, so the session never waits on the repository afterwards.
func Load(ctx context.Context, src Source, base, head string, opts LoadOptions) (*Session, error) {
	logger := opts.Logger

	infos, err := src.ResolveCommits(ctx, base, head)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrNoCommits
	}
	logger.Info(log.CatSession, "resolved range", "base", base, "head", head, "commits", len(infos))

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = newProgressBar(opts.Progress, len(infos))
	}

	commits := make([]*Commit, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Concurrency))
	sink := logger.Category(log.CatBuilder)

	for i, info := range infos {
		g.Go(func() error {
			lines, err := src.Diff(gctx, info.Hash)
			if err != nil {
				return err
			}
			tree, err := diff.Build(lines, diff.WithSink(sink))
			if err != nil {
				return fmt.Errorf("building diff of %s: %w", info.Hash, err)
			}
			commits[i] = &Commit{
				Hash:    info.Hash,
				Author:  info.Author,
				Message: info.Message,
				Tree:    tree,
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			logger.Debug(log.CatSession, "built commit diff", "hash", info.Hash, "files", tree.FileCount(), "lines", tree.DiffLen)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return New(head, base, commits)
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("loading commits"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
