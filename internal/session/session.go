// Package session holds the navigation state of one viewing session: the
// commit range, the focused pane, the selected commit and file, and the
// diff scroll position.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/branchdiff/internal/diff"
)

// Pane identifies one of the three focusable panes.
type Pane int

const (
	PaneCommits Pane = iota
	PaneFiles
	PaneDiff
)

func (p Pane) String() string {
	switch p {
	case PaneCommits:
		return "commits"
	case PaneFiles:
		return "files"
	case PaneDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// Next returns the pane after p in tab order.
func (p Pane) Next() Pane {
	switch p {
	case PaneDiff:
		return PaneFiles
	case PaneFiles:
		return PaneCommits
	default:
		return PaneDiff
	}
}

// Direction is a vertical movement.
type Direction int

const (
	Up Direction = iota
	Down
)

var (
	// ErrNoCommits is returned when the range holds nothing to show.
	ErrNoCommits = errors.New("no commits to display")
	// ErrCommitOutOfRange reports a commit index outside the range.
	ErrCommitOutOfRange = errors.New("commit index out of range")
)

// Commit is one commit of the range with its built diff.
type Commit struct {
	Hash    string
	Author  string
	Message string // empty when the commit has none
	Tree    *diff.Tree
}

// DiffLen is the number of diff lines in the commit.
func (c *Commit) DiffLen() int {
	if c.Tree == nil {
		return 0
	}
	return c.Tree.DiffLen
}

// ShortHash returns the abbreviated hash.
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Subject returns the first line of the message.
func (c *Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}

// Session is the state machine behind the three panes. Every mutator keeps
// the scroll position within [0, MaxScroll()].
type Session struct {
	FromBranch string
	IntoBranch string

	commits map[string]*Commit
	order   []string

	pane           Pane
	selectedCommit int
	selectedFile   int
	scroll         int
	scrollHeight   int
	exit           bool
}

// New builds a session over commits, given oldest first. The diff pane
// starts focused on the first commit.
func New(from, into string, commits []*Commit) (*Session, error) {
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}
	s := &Session{
		FromBranch: from,
		IntoBranch: into,
		commits:    make(map[string]*Commit, len(commits)),
		order:      make([]string, 0, len(commits)),
		pane:       PaneDiff,
	}
	for _, c := range commits {
		if c == nil || c.Tree == nil {
			return nil, fmt.Errorf("commit %d has no diff", len(s.order))
		}
		if _, dup := s.commits[c.Hash]; dup {
			return nil, fmt.Errorf("duplicate commit %s in range", c.Hash)
		}
		s.commits[c.Hash] = c
		s.order = append(s.order, c.Hash)
	}
	return s, nil
}

// Pane returns the focused pane.
func (s *Session) Pane() Pane { return s.pane }

// CommitCount is the number of commits in the range.
func (s *Session) CommitCount() int { return len(s.order) }

// Commits returns the commits in range order.
func (s *Session) Commits() []*Commit {
	out := make([]*Commit, len(s.order))
	for i, h := range s.order {
		out[i] = s.commits[h]
	}
	return out
}

// SelectedCommitIndex is the position of the selected commit in the range.
func (s *Session) SelectedCommitIndex() int { return s.selectedCommit }

// SelectedCommit returns the selected commit. A missing entry means the
// session was corrupted and is not recoverable.
func (s *Session) SelectedCommit() *Commit {
	c, ok := s.commits[s.order[s.selectedCommit]]
	if !ok {
		panic(fmt.Sprintf("session: commit %s missing from map", s.order[s.selectedCommit]))
	}
	return c
}

// SelectedFile is the index of the selected file in traversal order.
func (s *Session) SelectedFile() int { return s.selectedFile }

// Scroll is the first logical diff line in view.
func (s *Session) Scroll() int { return s.scroll }

// ScrollHeight is the viewport height used for scroll bounds.
func (s *Session) ScrollHeight() int { return s.scrollHeight }

// MaxScroll is the largest scroll position for the selected commit: the
// first one whose rendered window shows the last diff line.
func (s *Session) MaxScroll() int {
	return diff.MaxScroll(s.SelectedCommit().Tree, s.scrollHeight)
}

// Exit reports whether the user asked to quit.
func (s *Session) Exit() bool { return s.exit }

// Quit marks the session as finished.
func (s *Session) Quit() { s.exit = true }

// SelectPane focuses p.
func (s *Session) SelectPane(p Pane) {
	s.pane = p
}

// Select confirms the current selection. Only the commit list reacts: it
// hands focus to the diff.
func (s *Session) Select() {
	if s.pane == PaneCommits {
		s.pane = PaneDiff
	}
}

// Navigate moves within the focused pane. Commits wrap around, files clamp
// to the list and the diff stops at either end.
func (s *Session) Navigate(dir Direction) {
	switch s.pane {
	case PaneCommits:
		n := len(s.order)
		next := s.selectedCommit + 1
		if dir == Up {
			next = s.selectedCommit - 1 + n
		}
		if err := s.SelectCommit(next % n); err != nil {
			panic(err)
		}
	case PaneFiles:
		count := s.SelectedCommit().Tree.FileCount()
		if dir == Up {
			s.selectedFile = max(0, s.selectedFile-1)
		} else {
			s.selectedFile = max(0, min(count-1, s.selectedFile+1))
		}
	case PaneDiff:
		if dir == Up {
			if s.scroll > 0 {
				s.scroll--
			}
		} else if s.scroll < s.MaxScroll() {
			s.scroll++
		}
	}
}

// SelectCommit switches to the i-th commit and resets the file selection
// and scroll position. The index is checked before anything changes.
func (s *Session) SelectCommit(i int) error {
	if i < 0 || i >= len(s.order) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCommitOutOfRange, i, len(s.order))
	}
	s.selectedCommit = i
	s.selectedFile = 0
	s.scroll = 0
	return nil
}

// SelectFile selects the i-th file of the current commit, clamped.
func (s *Session) SelectFile(i int) {
	count := s.SelectedCommit().Tree.FileCount()
	s.selectedFile = max(0, min(count-1, i))
}

// SetScrollHeight records the viewport height and re-clamps the scroll.
func (s *Session) SetScrollHeight(h int) {
	s.scrollHeight = max(0, h)
	s.clampScroll()
}

// ScrollBy moves the diff by n lines, clamped.
func (s *Session) ScrollBy(n int) {
	s.scroll += n
	s.clampScroll()
}

// ScrollToTop jumps to the first diff line.
func (s *Session) ScrollToTop() {
	s.scroll = 0
}

// ScrollToBottom jumps to the page ending on the last diff line.
func (s *Session) ScrollToBottom() {
	s.scroll = s.MaxScroll()
}

// NextHunk scrolls to the first file, in display order, starting after the
// current position. It reports whether there was one.
func (s *Session) NextHunk() bool {
	next, ok := s.SelectedCommit().Tree.NextFileAfter(s.scroll)
	if !ok {
		return false
	}
	s.scroll = next
	s.clampScroll()
	return true
}

// PrevHunk scrolls to the last file, in display order, starting before the
// current position.
func (s *Session) PrevHunk() bool {
	prev, ok := s.SelectedCommit().Tree.PrevFileBefore(s.scroll)
	if !ok {
		return false
	}
	s.scroll = prev
	s.clampScroll()
	return true
}

func (s *Session) clampScroll() {
	s.scroll = max(0, min(s.scroll, s.MaxScroll()))
}
