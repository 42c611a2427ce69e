// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
// ANSI sequences in s are preserved.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces to exactly width cells, truncating when longer.
func PadRight(s string, width int) string {
	if width < 1 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// FormatStats returns "+ins -del" with thousands separators, each half
// styled. Zero halves are left out; both zero gives "".
func FormatStats(ins, del int) string {
	var parts []string
	if ins > 0 {
		parts = append(parts, InsertionStyle.Render("+"+humanize.Comma(int64(ins))))
	}
	if del > 0 {
		parts = append(parts, DeletionStyle.Render("-"+humanize.Comma(int64(del))))
	}
	return strings.Join(parts, " ")
}
