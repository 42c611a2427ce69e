// Package panes contains reusable bordered pane UI components.
package panes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/branchdiff/internal/ui/styles"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// BorderConfig configures the appearance of a bordered panel.
type BorderConfig struct {
	Content string // The content to render inside the border
	Width   int    // Total width including borders
	Height  int    // Total height including borders

	TopLeft     string // Title on top border, left-aligned
	TopRight    string // Title on top border, right-aligned
	BottomLeft  string
	BottomRight string

	// Focused panes use styles.BorderFocusColor and a bold title.
	Focused bool
	// BorderColor overrides the unfocused border color when set.
	BorderColor lipgloss.TerminalColor
}

// BorderedPane renders content within a bordered panel with optional titles.
// Content lines beyond the inner height are dropped; short content is padded.
func BorderedPane(cfg BorderConfig) string {
	borderStyle, titleStyle := edgeStyles(cfg.Focused, cfg.BorderColor)
	innerWidth := max(cfg.Width-2, 1)
	contentHeight := max(cfg.Height-2, 1)

	var b strings.Builder
	b.WriteString(Edge(true, cfg.TopLeft, cfg.TopRight, innerWidth, borderStyle, titleStyle))
	b.WriteByte('\n')

	lines := strings.Split(cfg.Content, "\n")
	side := borderStyle.Render(borderVertical)
	for i := range contentHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString(side)
		b.WriteString(styles.PadRight(line, innerWidth))
		b.WriteString(side)
		b.WriteByte('\n')
	}

	b.WriteString(Edge(false, cfg.BottomLeft, cfg.BottomRight, innerWidth, borderStyle, titleStyle))
	return b.String()
}

// Side returns the styled vertical border character.
func Side(focused bool) string {
	borderStyle, _ := edgeStyles(focused, nil)
	return borderStyle.Render(borderVertical)
}

// EdgeStyles returns the border and title styles for a pane.
func EdgeStyles(focused bool) (border, title lipgloss.Style) {
	return edgeStyles(focused, nil)
}

func edgeStyles(focused bool, borderColor lipgloss.TerminalColor) (border, title lipgloss.Style) {
	color := borderColor
	if color == nil {
		color = styles.BorderDefaultColor
	}
	if focused {
		color = styles.BorderFocusColor
	}
	border = lipgloss.NewStyle().Foreground(color)
	title = lipgloss.NewStyle().Foreground(color)
	if focused {
		title = title.Bold(true)
	}
	return border, title
}

// Edge renders a horizontal border line innerWidth+2 cells wide with
// optional titles embedded on each side:
//
//	╭─ Left ───────── Right ─╮
//
// When both titles do not fit, the right one is dropped and the left one is
// truncated.
func Edge(top bool, left, right string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	lc, rc := borderBottomLeft, borderBottomRight
	if top {
		lc, rc = borderTopLeft, borderTopRight
	}
	if innerWidth < 1 {
		return borderStyle.Render(lc + rc)
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	// "─ " + left + " " ... " " + right + " ─"
	need := 0
	if left != "" {
		need += leftWidth + 3
	}
	if right != "" {
		need += rightWidth + 3
	}
	if need+1 > innerWidth && right != "" {
		right, rightWidth = "", 0
		need = 0
		if left != "" {
			need = leftWidth + 3
		}
	}
	if left != "" && need+1 > innerWidth {
		if innerWidth < 5 {
			return borderStyle.Render(lc + strings.Repeat(borderHorizontal, innerWidth) + rc)
		}
		left = styles.TruncateString(left, innerWidth-4)
		leftWidth = lipgloss.Width(left)
		need = leftWidth + 3
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(lc))
	if left != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(left))
		b.WriteString(borderStyle.Render(" "))
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, max(innerWidth-need, 0))))
	if right != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(right))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(rc))
	return b.String()
}
