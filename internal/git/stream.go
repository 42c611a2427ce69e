package git

import (
	"iter"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/zjrosen/branchdiff/internal/diff"
)

// binaryNotice is streamed for binary files, which have no text lines.
const binaryNotice = "Binary files differ"

// streamFiles flattens parsed diff files into a line stream, file by file
// in the order git printed them.
func streamFiles(files []*gitdiff.File) iter.Seq[diff.StreamLine] {
	return func(yield func(diff.StreamLine) bool) {
		for _, f := range files {
			path := filePath(f)
			if f.IsBinary {
				if !yield(diff.StreamLine{Path: path, Text: binaryNotice, Kind: diff.KindOther}) {
					return
				}
				continue
			}
			for _, frag := range f.TextFragments {
				for _, line := range frag.Lines {
					l := diff.StreamLine{
						Path: path,
						Text: strings.TrimSuffix(line.Line, "\n"),
						Kind: opKind(line.Op),
					}
					if !yield(l) {
						return
					}
				}
			}
		}
	}
}

// filePath is the post-image name, or the pre-image name for deletions.
func filePath(f *gitdiff.File) string {
	if f.IsDelete || f.NewName == "" {
		return f.OldName
	}
	return f.NewName
}

func opKind(op gitdiff.LineOp) diff.Kind {
	switch op {
	case gitdiff.OpContext:
		return diff.KindContext
	case gitdiff.OpAdd:
		return diff.KindInsertion
	case gitdiff.OpDelete:
		return diff.KindDeletion
	default:
		return diff.KindOther
	}
}
