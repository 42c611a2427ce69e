package diffviewer

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/branchdiff/internal/diff"
	"github.com/zjrosen/branchdiff/internal/session"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fileLines struct {
	path  string
	kind  diff.Kind
	count int
}

func buildTree(t *testing.T, files ...fileLines) *diff.Tree {
	t.Helper()
	var lines []diff.StreamLine
	for _, f := range files {
		for i := range f.count {
			lines = append(lines, diff.StreamLine{Path: f.path, Text: fmt.Sprintf("line %d", i+1), Kind: f.kind})
		}
	}
	tree, err := diff.Build(slices.Values(lines))
	require.NoError(t, err)
	return tree
}

// newSession: commit A adds src/a.rs (+5) and deletes src/b.rs (-3);
// commit B has 40 context lines in README.md.
func newSession(t *testing.T) *session.Session {
	t.Helper()
	a := buildTree(t, fileLines{"src/a.rs", diff.KindInsertion, 5}, fileLines{"src/b.rs", diff.KindDeletion, 3})
	b := buildTree(t, fileLines{"README.md", diff.KindContext, 40})
	s, err := session.New("feature", "main", []*session.Commit{
		{Hash: "aaaaaaaaaa", Author: "Ann", Message: "add a", Tree: a},
		{Hash: "bbbbbbbbbb", Author: "Bob", Message: "docs\n\nlong body", Tree: b},
	})
	require.NoError(t, err)
	return s
}

func newModel(t *testing.T, width, height int) Model {
	t.Helper()
	m := New(newSession(t), Options{ShowStatusBar: true, FileListRatio: 30})
	m, _ = m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "ctrl+d":
			msg = tea.KeyMsg{Type: tea.KeyCtrlD}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func viewLines(m Model) []string {
	return strings.Split(ansi.Strip(zone.Scan(m.View())), "\n")
}

func TestModel_ResizeSetsViewportHeight(t *testing.T) {
	m := newModel(t, 80, 20)
	require.Equal(t, 17, m.Session().ScrollHeight(), "status bar and diff border excluded")

	m = New(newSession(t), Options{ShowStatusBar: false})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	require.Equal(t, 18, m.Session().ScrollHeight())

	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	require.Equal(t, 0, m.Session().ScrollHeight())
}

func TestModel_KeysDriveSession(t *testing.T) {
	m := newModel(t, 80, 20)
	s := m.Session()
	require.Equal(t, session.PaneDiff, s.Pane())

	m, _ = press(t, m, "c")
	require.Equal(t, session.PaneCommits, s.Pane())

	m, _ = press(t, m, "j")
	require.Equal(t, 1, s.SelectedCommitIndex())

	m, _ = press(t, m, "enter")
	require.Equal(t, session.PaneDiff, s.Pane())

	m, _ = press(t, m, "j", "j")
	require.Equal(t, 2, s.Scroll())

	m, _ = press(t, m, "G")
	require.Equal(t, 40-15, s.Scroll(), "the block border leaves 15 rows for lines")

	m, _ = press(t, m, "g")
	require.Equal(t, 0, s.Scroll())

	m, _ = press(t, m, "ctrl+d")
	require.Equal(t, 8, s.Scroll())

	m, _ = press(t, m, "ctrl+u")
	require.Equal(t, 0, s.Scroll())

	m, _ = press(t, m, "tab")
	require.Equal(t, session.PaneFiles, s.Pane())

	_, _ = press(t, m, "d")
	require.Equal(t, session.PaneDiff, s.Pane())
}

func TestModel_CommitWrapsAndResets(t *testing.T) {
	m := newModel(t, 80, 20)
	s := m.Session()

	m, _ = press(t, m, "c", "k")
	require.Equal(t, 1, s.SelectedCommitIndex(), "up from the first commit wraps")

	m, _ = press(t, m, "enter", "j", "j", "c", "j")
	require.Equal(t, 0, s.SelectedCommitIndex())
	require.Equal(t, 0, s.Scroll())
	require.Equal(t, 0, s.SelectedFile())
	_ = m
}

func TestModel_HunkJumps(t *testing.T) {
	m := newModel(t, 80, 20)
	s := m.Session()

	// both files fit, so the jump is clamped to MaxScroll = 0
	m, _ = press(t, m, "]")
	require.Equal(t, 0, s.Scroll())

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 9})
	require.Equal(t, 6, s.ScrollHeight())
	m, _ = press(t, m, "]")
	require.Equal(t, 5, s.Scroll(), "b.rs starts at line 5 and fits below")
	require.Contains(t, strings.Join(viewLines(m), "\n"), "- line 3")
	_, _ = press(t, m, "[")
	require.Equal(t, 0, s.Scroll())
}

func TestModel_FilesPaneClamps(t *testing.T) {
	m := newModel(t, 80, 20)
	s := m.Session()

	m, _ = press(t, m, "f", "j", "j", "j")
	require.Equal(t, 1, s.SelectedFile())
	_, _ = press(t, m, "k", "k")
	require.Equal(t, 0, s.SelectedFile())
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, 80, 20)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.True(t, m.Session().Exit())

	m = newModel(t, 80, 20)
	_, cmd = press(t, m, "ctrl+c")
	require.NotNil(t, cmd)
	require.True(t, m.Session().Exit())
}

func TestModel_HelpSwallowsKeys(t *testing.T) {
	m := newModel(t, 80, 20)
	s := m.Session()

	m, _ = press(t, m, "?")
	require.True(t, m.showHelp)
	require.Contains(t, strings.Join(viewLines(m), "\n"), "press ? to close")

	m, _ = press(t, m, "c", "j")
	require.Equal(t, session.PaneDiff, s.Pane())

	m, _ = press(t, m, "?")
	require.False(t, m.showHelp)
}

func TestModel_MouseWheelScrollsDiff(t *testing.T) {
	m := newModel(t, 80, 20)
	s := m.Session()
	require.NoError(t, s.SelectCommit(1))

	m, _ = m.Update(tea.MouseMsg{X: 60, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	require.Equal(t, scrollLines, s.Scroll())

	m, _ = m.Update(tea.MouseMsg{X: 2, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	require.Equal(t, scrollLines, s.Scroll(), "wheel over the left column is ignored")

	_, _ = m.Update(tea.MouseMsg{X: 60, Y: 5, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	require.Equal(t, 0, s.Scroll())
}

func TestModel_ViewLayout(t *testing.T) {
	m := newModel(t, 80, 20)
	lines := viewLines(m)

	require.Len(t, lines, 20)
	for i, l := range lines {
		require.Equal(t, 80, ansi.StringWidth(l), "line %d: %q", i, l)
	}

	view := strings.Join(lines, "\n")
	require.Contains(t, view, "Commits")
	require.Contains(t, view, "aaaaaaa Ann add a")
	require.Contains(t, view, "bbbbbbb Bob docs")
	require.Contains(t, view, "src/")
	require.Contains(t, view, "A a.rs +5")
	require.Contains(t, view, "D b.rs -3")
	require.Contains(t, view, "src/a.rs")
	require.Contains(t, view, "+ line 1")
	require.Contains(t, view, "- line 3")
	require.Contains(t, lines[19], "main <- feature")
	require.Contains(t, lines[19], "commit 1/2")
	require.Contains(t, lines[19], "lines 1-8 of 8")
}

func TestModel_ViewPartialTopAndTruncation(t *testing.T) {
	m := newModel(t, 80, 9)
	s := m.Session()
	require.Equal(t, 6, s.ScrollHeight())

	// a.rs shows 4 of its 5 lines; b.rs has no room left
	view := strings.Join(viewLines(m), "\n")
	require.Contains(t, view, "+ line 4")
	require.NotContains(t, view, "+ line 5")
	require.Contains(t, view, "1 more")
	require.NotContains(t, view, "- line 1")
	require.Contains(t, view, "lines 1-4 of 8", "status counts lines actually shown")

	s.ScrollBy(2)
	view = strings.Join(viewLines(m), "\n")
	require.Contains(t, view, "src/a.rs (from line 3)")
	require.Contains(t, view, "+ line 3")
	require.Contains(t, view, "+ line 5")
	require.NotContains(t, view, "+ line 2")
	require.NotContains(t, view, "more")
}

func TestModel_ViewTooSmall(t *testing.T) {
	m := newModel(t, 30, 6)
	require.Contains(t, m.View(), "terminal too small")

	m = New(newSession(t), Options{})
	require.Equal(t, "", m.View(), "nothing before the first size")
}

func TestModel_EmptyCommit(t *testing.T) {
	empty, err := diff.Build(slices.Values([]diff.StreamLine{{Path: "bin", Text: "Binary files differ", Kind: diff.KindOther}}))
	require.NoError(t, err)
	s, err := session.New("f", "m", []*session.Commit{{Hash: "eeeeeeeeee", Author: "Eve", Message: "binary", Tree: empty}})
	require.NoError(t, err)

	m := New(s, Options{ShowStatusBar: true})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := strings.Join(viewLines(m), "\n")
	require.Contains(t, view, "no textual changes in this commit")
	require.Contains(t, view, "no lines")

	m, _ = press(t, m, "j", "G", "]", "f", "j")
	require.Equal(t, 0, s.Scroll())
	require.Equal(t, 0, s.SelectedFile())
}

func TestExpandTabs(t *testing.T) {
	require.Equal(t, "    x", expandTabs("\tx"))
	require.Equal(t, "ab  x", expandTabs("ab\tx"))
	require.Equal(t, "日本    x", expandTabs("日本\tx"))
	require.Equal(t, "plain", expandTabs("plain"))
}

func TestLineRange(t *testing.T) {
	require.Equal(t, "lines 1-17 of 40", lineRange(0, 17, 40))
	require.Equal(t, "lines 24-40 of 40", lineRange(23, 17, 40))
	require.Equal(t, "lines 1,001-1,010 of 12,345", lineRange(1000, 10, 12345))
	require.Equal(t, "no lines", lineRange(0, 10, 0))
	require.Equal(t, "lines 1-1 of 8", lineRange(0, 0, 8))
}
