package diffviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/branchdiff/internal/diff"
	"github.com/zjrosen/branchdiff/internal/session"
	"github.com/zjrosen/branchdiff/internal/ui/shared/panes"
	"github.com/zjrosen/branchdiff/internal/ui/styles"
)

const tabWidth = 4

// Zone IDs for mouse click detection.
const (
	zoneCommitPrefix = "commit:"
	zoneFilePrefix   = "file:"
	diffZoneID       = "diff"
)

func commitZoneID(i int) string { return fmt.Sprintf("%s%d", zoneCommitPrefix, i) }
func fileZoneID(i int) string   { return fmt.Sprintf("%s%d", zoneFilePrefix, i) }

// Commits pane

func (m Model) renderCommitsPane(width, height int) string {
	s := m.session
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	commits := s.Commits()
	selected := s.SelectedCommitIndex()
	offset := panes.ListOffset(selected, len(commits), innerH)

	rows := make([]string, 0, innerH)
	for i := offset; i < len(commits) && len(rows) < innerH; i++ {
		rows = append(rows, zone.Mark(commitZoneID(i), commitRow(commits[i], i == selected, innerW)))
	}

	return panes.BorderedPane(panes.BorderConfig{
		Content:  strings.Join(rows, "\n"),
		Width:    width,
		Height:   height,
		TopLeft:  "Commits",
		TopRight: fmt.Sprintf("%d/%d", selected+1, len(commits)),
		Focused:  s.Pane() == session.PaneCommits,
	})
}

// commitRow renders "abc1234 Author subject" in exactly width cells.
func commitRow(c *session.Commit, selected bool, width int) string {
	hash := c.ShortHash()
	author := runewidth.Truncate(c.Author, 12, "…")
	subject := c.Subject()

	if selected {
		plain := hash + " " + author + " " + subject
		return styles.SelectedStyle.Render(styles.PadRight(plain, width))
	}
	row := styles.HunkStyle.UnsetItalic().Render(hash) + " " +
		styles.SecondaryStyle.Render(author) + " " + subject
	return styles.PadRight(row, width)
}

// Files pane

func (m Model) renderFilesPane(width, height int) string {
	s := m.session
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)
	tree := s.SelectedCommit().Tree

	rows, selectedRow := fileTreeRows(tree, s.SelectedFile(), innerW)
	offset := panes.ListOffset(selectedRow, len(rows), innerH)
	visible := rows[offset:min(len(rows), offset+innerH)]

	content := strings.Join(visible, "\n")
	if len(rows) == 0 {
		content = styles.MutedStyle.Render("no textual changes")
	}

	ins, del := tree.Root.Stats()
	return panes.BorderedPane(panes.BorderConfig{
		Content:  content,
		Width:    width,
		Height:   height,
		TopLeft:  "Files",
		TopRight: styles.FormatStats(ins, del),
		Focused:  s.Pane() == session.PaneFiles,
	})
}

// fileTreeRows renders the tree in display order, directories included,
// and reports which row holds the selected file.
func fileTreeRows(tree *diff.Tree, selectedFile, width int) (rows []string, selectedRow int) {
	fileIndex := 0
	for e := range tree.Root.Walk() {
		indent := strings.Repeat("  ", e.Depth)
		switch n := e.Node.(type) {
		case *diff.Directory:
			rows = append(rows, styles.PadRight(indent+styles.MutedStyle.Render(n.Name+"/"), width))
		case *diff.File:
			ins, del := n.Stats()
			if fileIndex == selectedFile {
				selectedRow = len(rows)
				plain := fmt.Sprintf("%s%s %s %s", indent, n.ChangeKind.Indicator(), n.Name, plainStats(ins, del))
				rows = append(rows, zone.Mark(fileZoneID(fileIndex),
					styles.SelectedStyle.Render(styles.PadRight(plain, width))))
			} else {
				row := indent + kindStyle(n.ChangeKind).Render(n.ChangeKind.Indicator()) + " " + n.Name + " " + styles.FormatStats(ins, del)
				rows = append(rows, zone.Mark(fileZoneID(fileIndex), styles.PadRight(row, width)))
			}
			fileIndex++
		default:
			panic(fmt.Sprintf("diffviewer: unexpected node %T", e.Node))
		}
	}
	return rows, selectedRow
}

func plainStats(ins, del int) string {
	var parts []string
	if ins > 0 {
		parts = append(parts, fmt.Sprintf("+%d", ins))
	}
	if del > 0 {
		parts = append(parts, fmt.Sprintf("-%d", del))
	}
	return strings.Join(parts, " ")
}

func kindStyle(k diff.FileChangeKind) lipgloss.Style {
	switch k {
	case diff.FileCreation:
		return styles.InsertionStyle
	case diff.FileDeletion:
		return styles.DeletionStyle
	case diff.FileModification:
		return styles.HunkStyle.UnsetItalic()
	default:
		return styles.MutedStyle
	}
}

// Diff pane

func (m Model) renderDiffPane(width, height int) string {
	s := m.session
	c := s.SelectedCommit()
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	win := diff.Render(c.Tree, s.Scroll(), s.ScrollHeight())

	var content string
	if c.Tree.DiffLen == 0 {
		content = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center,
			styles.MutedStyle.Render("no textual changes in this commit"))
	} else {
		textW := max(innerW-1, 1)
		selected, _ := c.Tree.FileAt(s.SelectedFile())
		body := m.renderWindow(win, textW, innerH, selected)
		bar := RenderScrollbar(win.Total, innerH, win.Offset, win.MaxScroll)
		content = lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
	}

	return zone.Mark(diffZoneID, panes.BorderedPane(panes.BorderConfig{
		Content:  content,
		Width:    width,
		Height:   height,
		TopLeft:  c.ShortHash() + " " + c.Subject(),
		TopRight: c.Author,
		Focused:  s.Pane() == session.PaneDiff,
	}))
}

// renderWindow draws the blocks of win into exactly height rows of width cells.
func (m Model) renderWindow(win diff.Window, width, height int, selected *diff.File) string {
	rows := make([]string, 0, height)
	for _, b := range win.Blocks {
		for len(rows) < b.Row {
			rows = append(rows, strings.Repeat(" ", width))
		}
		rows = append(rows, m.renderBlock(b, width, b.File == selected)...)
	}
	for len(rows) < height {
		rows = append(rows, strings.Repeat(" ", width))
	}
	return strings.Join(rows[:height], "\n")
}

// renderBlock draws one file block: a framed box titled with the path, or
// bare lines when the window had no room for the frame.
func (m Model) renderBlock(b diff.Block, width int, highlighted bool) []string {
	if !b.Bordered {
		out := make([]string, 0, len(b.Lines))
		for _, l := range b.Lines {
			out = append(out, m.renderLine(b.File.Path, l, width))
		}
		return out
	}

	borderStyle, titleStyle := panes.EdgeStyles(highlighted)
	innerW := max(width-2, 1)

	title := b.File.Path
	if b.PartialTop {
		title += fmt.Sprintf(" (from line %d)", b.FirstLine+1)
	}
	ins, del := b.File.Stats()
	right := b.File.ChangeKind.Indicator() + " " + plainStats(ins, del)

	var footer string
	if b.Truncated {
		rest := b.File.Len() - b.FirstLine - len(b.Lines)
		footer = fmt.Sprintf("%d more", rest)
	}

	side := borderStyle.Render("│")
	out := make([]string, 0, len(b.Lines)+2)
	out = append(out, panes.Edge(true, title, right, innerW, borderStyle, titleStyle))
	for _, l := range b.Lines {
		out = append(out, side+m.renderLine(b.File.Path, l, innerW)+side)
	}
	out = append(out, panes.Edge(false, "", footer, innerW, borderStyle, styles.HunkStyle))
	return out
}

// renderLine draws "+ text" in exactly width cells.
func (m Model) renderLine(path string, l diff.LineChange, width int) string {
	var sign lipgloss.Style
	switch l.Kind {
	case diff.KindInsertion:
		sign = styles.InsertionStyle
	case diff.KindDeletion:
		sign = styles.DeletionStyle
	default:
		sign = styles.MutedStyle
	}

	textW := max(width-2, 0)
	text := runewidth.Truncate(expandTabs(l.Text), textW, "…")

	var body string
	switch {
	case m.hl != nil:
		body = m.hl.Highlight(path, text)
	case l.Kind == diff.KindInsertion:
		body = styles.InsertionStyle.Render(text)
	case l.Kind == diff.KindDeletion:
		body = styles.DeletionStyle.Render(text)
	default:
		body = text
	}

	padding := max(textW-runewidth.StringWidth(text), 0)
	return styles.PadRight(sign.Render(l.Kind.Sign())+" "+body+strings.Repeat(" ", padding), width)
}

// expandTabs replaces tabs with spaces up to the next tab stop, counting
// cells rather than runes.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
