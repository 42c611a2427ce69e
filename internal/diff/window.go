package diff

// BorderRows is the number of rows a bordered file block spends on its frame.
const BorderRows = 2

// Block is the visible part of one file inside a window.
type Block struct {
	File       *File
	Lines      []LineChange
	FirstLine  int  // index into File.Changes of Lines[0]
	Row        int  // first viewport row occupied by the block
	Height     int  // rows occupied, including the border when Bordered
	Bordered   bool // false only when the viewport is too short for a frame
	PartialTop bool // the file started above the window
	Truncated  bool // the file continues below the window
}

// Window is the result of rendering a tree at a scroll position.
type Window struct {
	Blocks    []Block
	Offset    int // logical line shown first
	Shown     int // logical lines shown across all blocks
	Total     int // logical lines in the tree
	MaxScroll int // smallest scroll whose window reaches the last line
}

// Render lays out the files of t that are visible when the linear diff is
// scrolled to scroll in a viewport of height rows.
//
// The linear diff is every file's lines concatenated in traversal order.
// The blocks returned show exactly the lines [Offset, Offset+Shown) of it,
// in order, so rendering again at Offset+Shown continues without gaps or
// repeats.
func Render(t *Tree, scroll, height int) Window {
	w := render(t, scroll, height)
	w.MaxScroll = MaxScroll(t, height)
	return w
}

// MaxScroll is the smallest scroll position whose window shows the last line
// of t. Block borders take rows from the viewport, so this is usually larger
// than DiffLen-height. A viewport with no rows cannot scroll.
func MaxScroll(t *Tree, height int) int {
	if height <= 0 || t.DiffLen == 0 {
		return 0
	}
	// A window never shows more lines than it has rows.
	for s := max(0, t.DiffLen-height); s < t.DiffLen; s++ {
		if w := render(t, s, height); w.Offset+w.Shown >= t.DiffLen {
			return s
		}
	}
	return t.DiffLen - 1
}

func render(t *Tree, scroll, height int) Window {
	w := Window{Total: t.DiffLen}
	scroll = max(0, min(scroll, t.DiffLen))
	w.Offset = scroll
	if height <= 0 {
		return w
	}

	rows, consumed := 0, 0
	for f := range t.Root.Files() {
		n := f.Len()
		if n == 0 {
			continue
		}
		if consumed+n <= scroll {
			consumed += n
			continue
		}

		remaining := height - rows
		border := BorderRows
		if remaining < BorderRows+1 {
			if rows > 0 {
				break
			}
			border = 0
		}

		start := max(0, scroll-consumed)
		count := min(n-start, remaining-border)
		if count <= 0 {
			break
		}

		w.Blocks = append(w.Blocks, Block{
			File:       f,
			Lines:      f.Changes[start : start+count],
			FirstLine:  start,
			Row:        rows,
			Height:     count + border,
			Bordered:   border > 0,
			PartialTop: start > 0,
			Truncated:  start+count < n,
		})
		rows += count + border
		w.Shown += count
		consumed += n

		if rows >= height {
			break
		}
	}
	return w
}
