// Package diff turns a commit's flat line stream into a per-file tree and
// renders windows of it into a fixed-height viewport.
package diff

// Kind is the kind of a single diff line.
type Kind int

const (
	KindContext Kind = iota
	KindInsertion
	KindDeletion
)

// KindOther marks stream lines that carry no content change, such as
// "\ No newline at end of file" or binary notices. The builder drops them.
const KindOther Kind = -1

// Valid reports whether k can become a LineChange.
func (k Kind) Valid() bool {
	return k == KindContext || k == KindInsertion || k == KindDeletion
}

// Sign returns the unified diff gutter character for k.
func (k Kind) Sign() string {
	switch k {
	case KindInsertion:
		return "+"
	case KindDeletion:
		return "-"
	default:
		return " "
	}
}

func (k Kind) String() string {
	switch k {
	case KindContext:
		return "context"
	case KindInsertion:
		return "insertion"
	case KindDeletion:
		return "deletion"
	default:
		return "other"
	}
}

// LineChange is one line of a file's diff.
type LineChange struct {
	Text string
	Kind Kind
}

// FileChangeKind classifies a whole file from the kinds of its lines.
type FileChangeKind int

const (
	FileChangeNone FileChangeKind = iota // nothing seen yet
	FileCreation
	FileDeletion
	FileModification
)

func (k FileChangeKind) String() string {
	switch k {
	case FileCreation:
		return "created"
	case FileDeletion:
		return "deleted"
	case FileModification:
		return "modified"
	default:
		return "none"
	}
}

// Indicator returns the single-letter status shown next to a file.
func (k FileChangeKind) Indicator() string {
	switch k {
	case FileCreation:
		return "A"
	case FileDeletion:
		return "D"
	case FileModification:
		return "M"
	default:
		return ""
	}
}

// Classify folds one more line kind into a file's running classification.
//
// A file stays a creation only while every line is an insertion and a
// deletion only while every line is a deletion; any context line, or a mix,
// makes it a modification. Modification is absorbing.
func Classify(prev FileChangeKind, k Kind) FileChangeKind {
	switch prev {
	case FileChangeNone:
		switch k {
		case KindInsertion:
			return FileCreation
		case KindDeletion:
			return FileDeletion
		default:
			return FileModification
		}
	case FileCreation:
		if k == KindInsertion {
			return FileCreation
		}
		return FileModification
	case FileDeletion:
		if k == KindDeletion {
			return FileDeletion
		}
		return FileModification
	default:
		return FileModification
	}
}
