package diff

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Node is either a *Directory or a *File. The set is closed: switches over
// a Node handle both cases and nothing else.
type Node interface {
	NodeName() string
	node()
}

// Directory is an interior node of the file tree.
type Directory struct {
	Name     string
	Children []Node
}

// File is a leaf holding one file's diff lines.
type File struct {
	Name        string // last path segment
	Path        string // full slash-separated path
	Changes     []LineChange
	ChangeKind  FileChangeKind
	ScrollStart int // lines emitted for earlier files in the stream
}

func (d *Directory) NodeName() string { return d.Name }
func (f *File) NodeName() string      { return f.Name }

func (*Directory) node() {}
func (*File) node()      {}

// Stats counts inserted and deleted lines.
func (f *File) Stats() (insertions, deletions int) {
	for _, c := range f.Changes {
		switch c.Kind {
		case KindInsertion:
			insertions++
		case KindDeletion:
			deletions++
		}
	}
	return insertions, deletions
}

// Len is the number of diff lines in the file.
func (f *File) Len() int { return len(f.Changes) }

// StructuralError reports a path that cannot be placed in the tree.
type StructuralError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("diff tree: cannot insert %q at %q: %s", e.Path, e.Segment, e.Reason)
}

// Insert places f at path, creating intermediate directories. Paths are
// slash-separated and relative to d.
func (d *Directory) Insert(path string, f *File) error {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for _, p := range parts {
		if p == "" {
			return &StructuralError{Path: path, Segment: p, Reason: "empty path segment"}
		}
	}

	dir := d
	for _, part := range parts[:len(parts)-1] {
		child, err := dir.childDir(path, part)
		if err != nil {
			return err
		}
		dir = child
	}

	name := parts[len(parts)-1]
	if existing := dir.child(name); existing != nil {
		switch existing.(type) {
		case *File:
			return &StructuralError{Path: path, Segment: name, Reason: "file inserted twice"}
		case *Directory:
			return &StructuralError{Path: path, Segment: name, Reason: "directory already exists"}
		}
	}
	f.Name = name
	f.Path = path
	dir.Children = append(dir.Children, f)
	return nil
}

// childDir finds or creates the directory named part.
func (d *Directory) childDir(path, part string) (*Directory, error) {
	switch n := d.child(part).(type) {
	case nil:
		nd := &Directory{Name: part}
		d.Children = append(d.Children, nd)
		return nd, nil
	case *Directory:
		return n, nil
	case *File:
		return nil, &StructuralError{Path: path, Segment: part, Reason: "file where a directory was expected"}
	default:
		panic(fmt.Sprintf("diff: unknown node type %T", n))
	}
}

func (d *Directory) child(name string) Node {
	for _, c := range d.Children {
		if c.NodeName() == name {
			return c
		}
	}
	return nil
}

// Sort orders every directory's children descending by name, recursively.
// Traversal walks children from the back, so the visible order is ascending.
func (d *Directory) Sort() {
	sort.SliceStable(d.Children, func(i, j int) bool {
		return d.Children[i].NodeName() > d.Children[j].NodeName()
	})
	for _, c := range d.Children {
		if sub, ok := c.(*Directory); ok {
			sub.Sort()
		}
	}
}

// Entry is a node visited by Walk.
type Entry struct {
	Node  Node
	Depth int
}

// Walk yields every node below d in pre-order. Children of d have depth 0.
func (d *Directory) Walk() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		d.walk(0, yield)
	}
}

func (d *Directory) walk(depth int, yield func(Entry) bool) bool {
	for i := len(d.Children) - 1; i >= 0; i-- {
		c := d.Children[i]
		if !yield(Entry{Node: c, Depth: depth}) {
			return false
		}
		switch n := c.(type) {
		case *Directory:
			if !n.walk(depth+1, yield) {
				return false
			}
		case *File:
		default:
			panic(fmt.Sprintf("diff: unknown node type %T", n))
		}
	}
	return true
}

// Files yields the leaves below d in traversal order.
func (d *Directory) Files() iter.Seq[*File] {
	return func(yield func(*File) bool) {
		for e := range d.Walk() {
			if f, ok := e.Node.(*File); ok {
				if !yield(f) {
					return
				}
			}
		}
	}
}

// FileCount counts the leaves below d.
func (d *Directory) FileCount() int {
	n := 0
	for _, c := range d.Children {
		switch c := c.(type) {
		case *Directory:
			n += c.FileCount()
		case *File:
			n++
		}
	}
	return n
}

// Stats sums insertions and deletions below d.
func (d *Directory) Stats() (insertions, deletions int) {
	for f := range d.Files() {
		i, del := f.Stats()
		insertions += i
		deletions += del
	}
	return insertions, deletions
}

// Tree is one commit's built diff.
type Tree struct {
	Root    *Directory
	DiffLen int // total lines across all files
}

// FileCount is the number of leaves.
func (t *Tree) FileCount() int {
	return t.Root.FileCount()
}

// FileAt returns the i-th leaf in traversal order.
func (t *Tree) FileAt(i int) (*File, bool) {
	if i < 0 {
		return nil, false
	}
	n := 0
	for f := range t.Root.Files() {
		if n == i {
			return f, true
		}
		n++
	}
	return nil, false
}

// Offset returns the first logical line of the i-th leaf in traversal
// order, the coordinate space used by Render.
func (t *Tree) Offset(i int) (int, bool) {
	consumed, n := 0, 0
	for f := range t.Root.Files() {
		if n == i {
			return consumed, true
		}
		consumed += f.Len()
		n++
	}
	return 0, false
}

// NextHunkAfter returns the smallest file ScrollStart strictly greater than
// offset, or false when no file starts after it.
func (t *Tree) NextHunkAfter(offset int) (int, bool) {
	best, found := 0, false
	for f := range t.Root.Files() {
		if f.ScrollStart > offset && (!found || f.ScrollStart < best) {
			best, found = f.ScrollStart, true
		}
	}
	return best, found
}

// PrevHunkBefore returns the largest file ScrollStart strictly less than
// offset, or false when no file starts before it.
func (t *Tree) PrevHunkBefore(offset int) (int, bool) {
	best, found := 0, false
	for f := range t.Root.Files() {
		if f.ScrollStart < offset && (!found || f.ScrollStart > best) {
			best, found = f.ScrollStart, true
		}
	}
	return best, found
}

// NextFileAfter returns the first logical line, in traversal order, of the
// first file starting strictly after offset. This is the coordinate space
// Render scrolls in, unlike ScrollStart which follows the stream order.
func (t *Tree) NextFileAfter(offset int) (int, bool) {
	consumed := 0
	for f := range t.Root.Files() {
		if consumed > offset {
			return consumed, true
		}
		consumed += f.Len()
	}
	return 0, false
}

// PrevFileBefore returns the first logical line of the last file starting
// strictly before offset, in traversal order.
func (t *Tree) PrevFileBefore(offset int) (int, bool) {
	best, found, consumed := 0, false, 0
	for f := range t.Root.Files() {
		if consumed >= offset {
			break
		}
		best, found = consumed, true
		consumed += f.Len()
	}
	return best, found
}
