// Package app contains the root application model.
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/branchdiff/internal/config"
	"github.com/zjrosen/branchdiff/internal/log"
	"github.com/zjrosen/branchdiff/internal/session"
	"github.com/zjrosen/branchdiff/internal/ui/diffviewer"
)

// Model is the root application state.
type Model struct {
	viewer diffviewer.Model
	logger *log.Logger

	// Global state
	width  int
	height int
}

// New creates the application model over a loaded session.
func New(s *session.Session, cfg config.Config, logger *log.Logger) Model {
	return Model{
		viewer: diffviewer.New(s, diffviewer.Options{
			SyntaxHighlight: cfg.UI.SyntaxHighlight,
			ShowStatusBar:   cfg.UI.ShowStatusBar,
			FileListRatio:   cfg.UI.FileListRatio,
			Logger:          logger,
		}),
		logger: logger,
	}
}

// Session returns the state the viewer drives.
func (m Model) Session() *session.Session {
	return m.viewer.Session()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.viewer.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
	}

	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)

	// The session is the source of truth for quitting; anything that set the
	// exit flag without returning tea.Quit still ends the program.
	if cmd == nil && m.viewer.Session().Exit() {
		return m, tea.Quit
	}
	return m, cmd
}

// View implements tea.Model. Zone markers are resolved here, once, for the
// whole screen.
func (m Model) View() string {
	return zone.Scan(m.viewer.View())
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	s := m.viewer.Session()
	m.logger.Info(log.CatUI, "viewer closed",
		"commit", s.SelectedCommitIndex(), "pane", s.Pane().String())
	return nil
}
