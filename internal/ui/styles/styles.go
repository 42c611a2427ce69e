// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Authors, hashes
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused pane

	// Diff colors
	InsertionColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	DeletionColor  = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	HunkColor      = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"} // Continuation markers

	// Selection
	SelectionBackgroundColor = lipgloss.AdaptiveColor{Light: "#DDE6F5", Dark: "#2A3A55"}

	StatusErrorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
)

// Styles derived from the colors above. Rebuilt by ApplyTheme.
var (
	TitleStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	SecondaryStyle lipgloss.Style
	InsertionStyle lipgloss.Style
	DeletionStyle  lipgloss.Style
	ContextStyle   lipgloss.Style
	HunkStyle      lipgloss.Style
	SelectedStyle  lipgloss.Style
	StatusBarStyle lipgloss.Style
	ErrorStyle     lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	SecondaryStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)

	InsertionStyle = lipgloss.NewStyle().Foreground(InsertionColor)
	DeletionStyle = lipgloss.NewStyle().Foreground(DeletionColor)
	ContextStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	HunkStyle = lipgloss.NewStyle().Foreground(HunkColor).Italic(true)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(TextPrimaryColor).
		Background(SelectionBackgroundColor).
		Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)
}
