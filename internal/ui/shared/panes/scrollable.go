package panes

// ListOffset returns the first row to draw so that selected stays visible
// in a list of count rows shown height at a time. The selection is kept
// roughly centred once the list is longer than the pane.
func ListOffset(selected, count, height int) int {
	if height <= 0 || count <= height {
		return 0
	}
	selected = max(0, min(selected, count-1))
	offset := selected - height/2
	return max(0, min(offset, count-height))
}
