// Package linediff computes line-oriented diffs between two texts.
package linediff

import (
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type Operation int8

const (
	DiffDelete Operation = Operation(diffmatchpatch.DiffDelete)
	DiffInsert Operation = Operation(diffmatchpatch.DiffInsert)
	DiffEqual  Operation = Operation(diffmatchpatch.DiffEqual)
)

// Line is one line of a diff, without its trailing newline.
type Line struct {
	Op   Operation
	Text string
}

// Do diffs src against dst line by line. A zero timeout lets the diff run
// to completion.
func Do(src, dst string, timeout time.Duration) []Line {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = timeout

	index := newLineIndex()
	wSrc := index.encode(src)
	wDst := index.encode(dst)
	diffs := dmp.DiffMainRunes(wSrc, wDst, false)

	var out []Line
	for _, d := range diffs {
		for _, r := range []rune(d.Text) {
			out = append(out, Line{Op: Operation(d.Type), Text: index.lines[r]})
		}
	}
	return out
}

// Unified keeps every changed line plus up to context unchanged lines on
// either side of each change, the way unified diffs frame their hunks.
func Unified(lines []Line, context int) []Line {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == DiffEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var out []Line
	for i, l := range lines {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}

// lineIndex maps each distinct line to a rune so diffmatchpatch can diff
// whole lines as characters.
type lineIndex struct {
	ids   map[string]rune
	lines []string
}

func newLineIndex() *lineIndex {
	return &lineIndex{ids: make(map[string]rune)}
}

func (x *lineIndex) encode(text string) []rune {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	result := make([]rune, len(parts))
	for i, part := range parts {
		line := strings.TrimSuffix(part, "\n")
		id, ok := x.ids[line]
		if !ok {
			id = rune(len(x.lines))
			x.ids[line] = id
			x.lines = append(x.lines, line)
		}
		result[i] = id
	}
	return result
}
