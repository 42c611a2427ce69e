// Package diffviewer renders a Session as three panes and maps input onto it.
package diffviewer

import (
	"strings"

	"github.com/zjrosen/branchdiff/internal/ui/styles"
)

// Scrollbar characters
const (
	scrollbarThumbChar = "█" // Full block
	scrollbarTrackChar = "░" // Light shade
)

// thumbBounds returns the start row and height of the scroll thumb for a
// track of height rows over total lines scrolled to offset. maxScroll is
// the largest offset the content can reach.
func thumbBounds(total, height, offset, maxScroll int) (start, size int) {
	if total <= 0 || height <= 0 {
		return 0, 0
	}
	if maxScroll <= 0 {
		return 0, height
	}

	// Thumb size proportional to the visible share, at least one row. Block
	// borders can make a diff shorter than the track scroll, so leave the
	// thumb a row to move in.
	size = max(1, min(height-1, height*height/total))
	track := height - size
	if track <= 0 {
		return 0, size
	}
	start = track * min(offset, maxScroll) / maxScroll
	return max(0, min(start, height-size)), size
}

// RenderScrollbar renders a one-column scrollbar, height rows joined by \n.
// When nothing scrolls the column is blank.
func RenderScrollbar(total, height, offset, maxScroll int) string {
	if height <= 0 {
		return ""
	}
	lines := make([]string, height)
	if total <= 0 || maxScroll <= 0 {
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	start, size := thumbBounds(total, height, offset, maxScroll)
	for row := range height {
		if row >= start && row < start+size {
			lines[row] = styles.SecondaryStyle.Render(scrollbarThumbChar)
		} else {
			lines[row] = styles.MutedStyle.Render(scrollbarTrackChar)
		}
	}
	return strings.Join(lines, "\n")
}
