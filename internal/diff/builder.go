package diff

import (
	"iter"
	"path"
	"strings"
)

// StreamLine is one line of a commit's diff as produced by a diff source.
// Lines of one file arrive contiguously.
type StreamLine struct {
	Path string
	Text string
	Kind Kind
}

// Sink receives warnings about input lines the builder had to skip.
type Sink interface {
	Warn(msg string, fields ...any)
}

// BuildOption configures Build.
type BuildOption func(*accumulator)

// WithSink routes skip warnings to s.
func WithSink(s Sink) BuildOption {
	return func(a *accumulator) {
		a.sink = s
	}
}

// accumulator is the fold state of Build.
type accumulator struct {
	root    *Directory
	path    string
	changes []LineChange
	kind    FileChangeKind
	total   int // lines in files already flushed
	skipped int
	sink    Sink
}

// Build folds a line stream into a sorted file tree. Each file's
// ScrollStart is the number of lines emitted before it in the stream.
func Build(lines iter.Seq[StreamLine], opts ...BuildOption) (*Tree, error) {
	acc := &accumulator{root: &Directory{}}
	for _, opt := range opts {
		opt(acc)
	}

	for line := range lines {
		if err := acc.push(line); err != nil {
			return nil, err
		}
	}
	if err := acc.flush(); err != nil {
		return nil, err
	}

	acc.root.Sort()
	if acc.skipped > 0 {
		acc.warn("skipped lines without a usable path", "count", acc.skipped)
	}
	return &Tree{Root: acc.root, DiffLen: acc.total}, nil
}

func (a *accumulator) push(line StreamLine) error {
	if !line.Kind.Valid() {
		return nil
	}
	path, ok := resolvePath(line.Path)
	if !ok {
		a.skipped++
		a.warn("skipping diff line with unresolvable path", "path", line.Path, "kind", line.Kind)
		return nil
	}

	if path != a.path {
		if err := a.flush(); err != nil {
			return err
		}
		a.path = path
	}
	a.changes = append(a.changes, LineChange{Text: line.Text, Kind: line.Kind})
	a.kind = Classify(a.kind, line.Kind)
	return nil
}

// flush inserts the file being accumulated, if any, and resets for the next.
func (a *accumulator) flush() error {
	if len(a.changes) == 0 {
		return nil
	}
	f := &File{
		Changes:     a.changes,
		ChangeKind:  a.kind,
		ScrollStart: a.total,
	}
	if err := a.root.Insert(a.path, f); err != nil {
		return err
	}
	a.total += len(a.changes)
	a.path = ""
	a.changes = nil
	a.kind = FileChangeNone
	return nil
}

func (a *accumulator) warn(msg string, fields ...any) {
	if a.sink != nil {
		a.sink.Warn(msg, fields...)
	}
}

// resolvePath normalizes a stream path to a clean relative form. Empty
// paths and /dev/null do not name a file.
func resolvePath(p string) (string, bool) {
	p = strings.TrimSpace(p)
	if p == "" || p == "/dev/null" {
		return "", false
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" || p == "." {
		return "", false
	}
	return p, true
}
