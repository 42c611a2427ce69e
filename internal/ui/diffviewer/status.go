package diffviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/zjrosen/branchdiff/internal/diff"
	"github.com/zjrosen/branchdiff/internal/keys"
	"github.com/zjrosen/branchdiff/internal/ui/styles"
)

// renderStatusBar builds the one-line footer:
//
//	main <- feature │ commit 2/5 │ lines 11-40 of 1,204 │ diff │ ? help
func (m Model) renderStatusBar(width int) string {
	s := m.session
	c := s.SelectedCommit()

	sep := styles.MutedStyle.Render(" │ ")
	parts := []string{
		styles.TitleStyle.Render(s.IntoBranch + " <- " + s.FromBranch),
		fmt.Sprintf("commit %d/%d", s.SelectedCommitIndex()+1, s.CommitCount()),
		lineRange(s.Scroll(), diff.Render(c.Tree, s.Scroll(), s.ScrollHeight()).Shown, c.DiffLen()),
		s.Pane().String(),
		styles.MutedStyle.Render("? help"),
	}
	line := strings.Join(parts, sep)
	return styles.StatusBarStyle.Width(width).MaxWidth(width).Render(styles.TruncateString(line, max(width-2, 1)))
}

// lineRange describes the shown lines of the linear diff.
func lineRange(scroll, shown, total int) string {
	if total == 0 {
		return "no lines"
	}
	first := min(scroll+1, total)
	last := max(first, min(scroll+shown, total))
	return fmt.Sprintf("lines %s-%s of %s",
		humanize.Comma(int64(first)), humanize.Comma(int64(last)), humanize.Comma(int64(total)))
}

// renderHelp draws the full key reference centered on the screen.
func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(1, 2).
		Render(styles.TitleStyle.Render("Keys") + "\n\n" + h.View(keys.Viewer) + "\n\n" +
			styles.MutedStyle.Render("press ? to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
