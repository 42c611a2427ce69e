package diffviewer

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/branchdiff/internal/keys"
	"github.com/zjrosen/branchdiff/internal/session"
)

// commandID uniquely identifies commands in the viewer.
type commandID string

const (
	// Panes
	cmdFocusCommits commandID = "focus_commits"
	cmdFocusFiles   commandID = "focus_files"
	cmdFocusDiff    commandID = "focus_diff"
	cmdCyclePanes   commandID = "cycle_panes"

	// Movement
	cmdUp           commandID = "up"
	cmdDown         commandID = "down"
	cmdSelect       commandID = "select"
	cmdHalfPageUp   commandID = "half_page_up"
	cmdHalfPageDown commandID = "half_page_down"
	cmdGotoTop      commandID = "goto_top"
	cmdGotoBottom   commandID = "goto_bottom"
	cmdNextHunk     commandID = "next_hunk"
	cmdPrevHunk     commandID = "prev_hunk"

	// General
	cmdToggleHelp commandID = "toggle_help"
	cmdQuit       commandID = "quit"
)

// keyBindings is checked in order so overlapping bindings resolve the
// same way every time.
var keyBindings = []struct {
	binding *key.Binding
	cmd     commandID
}{
	{&keys.Viewer.Quit, cmdQuit},
	{&keys.Viewer.Help, cmdToggleHelp},
	{&keys.Viewer.Commits, cmdFocusCommits},
	{&keys.Viewer.Files, cmdFocusFiles},
	{&keys.Viewer.Diff, cmdFocusDiff},
	{&keys.Viewer.NextPane, cmdCyclePanes},
	{&keys.Viewer.Up, cmdUp},
	{&keys.Viewer.Down, cmdDown},
	{&keys.Viewer.Enter, cmdSelect},
	{&keys.Viewer.HalfPageUp, cmdHalfPageUp},
	{&keys.Viewer.HalfPageDown, cmdHalfPageDown},
	{&keys.Viewer.Top, cmdGotoTop},
	{&keys.Viewer.Bottom, cmdGotoBottom},
	{&keys.Viewer.NextHunk, cmdNextHunk},
	{&keys.Viewer.PrevHunk, cmdPrevHunk},
}

// keyToCommand returns the commandID for a given key message, or empty string if no match.
func keyToCommand(msg tea.KeyMsg) commandID {
	for _, kb := range keyBindings {
		if key.Matches(msg, *kb.binding) {
			return kb.cmd
		}
	}
	return ""
}

// executeCommand applies cmd to the session.
func (m *Model) executeCommand(cmd commandID) tea.Cmd {
	s := m.session
	switch cmd {
	case cmdQuit:
		s.Quit()
		return tea.Quit
	case cmdToggleHelp:
		m.showHelp = !m.showHelp
	case cmdFocusCommits:
		s.SelectPane(session.PaneCommits)
	case cmdFocusFiles:
		s.SelectPane(session.PaneFiles)
	case cmdFocusDiff:
		s.SelectPane(session.PaneDiff)
	case cmdCyclePanes:
		s.SelectPane(s.Pane().Next())
	case cmdUp:
		s.Navigate(session.Up)
	case cmdDown:
		s.Navigate(session.Down)
	case cmdSelect:
		s.Select()
	case cmdHalfPageUp:
		s.ScrollBy(-max(1, s.ScrollHeight()/2))
	case cmdHalfPageDown:
		s.ScrollBy(max(1, s.ScrollHeight()/2))
	case cmdGotoTop:
		s.ScrollToTop()
	case cmdGotoBottom:
		s.ScrollToBottom()
	case cmdNextHunk:
		s.NextHunk()
	case cmdPrevHunk:
		s.PrevHunk()
	}
	m.logger.Debug(logCat, "command", "cmd", string(cmd), "pane", s.Pane().String(),
		"commit", s.SelectedCommitIndex(), "file", s.SelectedFile(), "scroll", s.Scroll())
	return nil
}
