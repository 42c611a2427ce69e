package diffviewer

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/branchdiff/internal/log"
	"github.com/zjrosen/branchdiff/internal/session"
	"github.com/zjrosen/branchdiff/internal/ui/styles"
)

const logCat = log.CatUI

// Lines moved per mouse wheel notch.
const scrollLines = 3

// Smallest terminal the layout is drawn in.
const (
	minWidth  = 40
	minHeight = 8
)

// Options configures the viewer.
type Options struct {
	SyntaxHighlight bool
	ShowStatusBar   bool
	FileListRatio   int // percent of the width for the commits/files column
	Logger          *log.Logger
}

// Model is the viewer's bubbletea component. It owns no navigation state of
// its own: every key is translated into a Session operation.
type Model struct {
	session *session.Session
	opts    Options
	logger  *log.Logger
	hl      *highlighter
	help    help.Model

	showHelp      bool
	width, height int
}

// New creates a viewer over s.
func New(s *session.Session, opts Options) Model {
	if opts.FileListRatio <= 0 {
		opts.FileListRatio = 30
	}
	m := Model{
		session: s,
		opts:    opts,
		logger:  opts.Logger,
		help:    help.New(),
	}
	if opts.SyntaxHighlight {
		m.hl = newHighlighter(opts.Logger)
	}
	return m
}

// Session returns the state the viewer drives.
func (m Model) Session() *session.Session { return m.session }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the viewer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			// Only the help toggle and quit get through while help is open
			switch keyToCommand(msg) {
			case cmdToggleHelp:
				m.showHelp = false
			case cmdQuit:
				return m, (&m).executeCommand(cmdQuit)
			}
			return m, nil
		}
		if cmd := keyToCommand(msg); cmd != "" {
			return m, (&m).executeCommand(cmd)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouseMsg(msg), nil
	}
	return m, nil
}

// SetSize records the terminal size and updates the session's viewport height.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	m.session.SetScrollHeight(m.diffViewportHeight())
	m.logger.Debug(logCat, "resized", "width", width, "height", height, "viewport", m.session.ScrollHeight())
	return m
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) Model {
	s := m.session
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.X < m.leftWidth() {
			return m
		}
		if msg.Button == tea.MouseButtonWheelUp {
			s.ScrollBy(-scrollLines)
		} else {
			s.ScrollBy(scrollLines)
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease {
			return m
		}
		for i := range s.CommitCount() {
			if z := zone.Get(commitZoneID(i)); z != nil && z.InBounds(msg) {
				s.SelectPane(session.PaneCommits)
				if err := s.SelectCommit(i); err != nil {
					m.logger.ErrorErr(logCat, "commit click", err)
				}
				return m
			}
		}
		for i := range s.SelectedCommit().Tree.FileCount() {
			if z := zone.Get(fileZoneID(i)); z != nil && z.InBounds(msg) {
				s.SelectPane(session.PaneFiles)
				s.SelectFile(i)
				return m
			}
		}
		if z := zone.Get(diffZoneID); z != nil && z.InBounds(msg) {
			s.SelectPane(session.PaneDiff)
		}
	}
	return m
}

// Layout

func (m Model) bodyHeight() int {
	h := m.height
	if m.opts.ShowStatusBar {
		h--
	}
	return max(h, 0)
}

func (m Model) leftWidth() int {
	w := m.width * m.opts.FileListRatio / 100
	return max(12, min(w, m.width-12))
}

// diffViewportHeight is the number of diff rows inside the diff pane border.
func (m Model) diffViewportHeight() int {
	if m.tooSmall() {
		return 0
	}
	return max(m.bodyHeight()-2, 0)
}

func (m Model) tooSmall() bool {
	return m.width < minWidth || m.height < minHeight
}

// View renders the viewer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.tooSmall() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.MutedStyle.Render("terminal too small"))
	}
	if m.showHelp {
		return m.renderHelp()
	}

	bodyH := m.bodyHeight()
	leftW := m.leftWidth()
	commitsH := max(3, bodyH/2)
	filesH := bodyH - commitsH

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCommitsPane(leftW, commitsH),
		m.renderFilesPane(leftW, filesH),
	)
	right := m.renderDiffPane(m.width-leftW, bodyH)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if !m.opts.ShowStatusBar {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar(m.width))
}
