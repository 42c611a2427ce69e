package git

import (
	"errors"
	"fmt"
)

var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrUnknownRevision indicates a ref that names no commit.
	ErrUnknownRevision = errors.New("unknown revision")
)

// ReferenceResolutionError reports a ref that could not be turned into a
// commit or a range that could not be walked.
type ReferenceResolutionError struct {
	Ref string
	Err error
}

func (e *ReferenceResolutionError) Error() string {
	return fmt.Sprintf("resolving %q: %v", e.Ref, e.Err)
}

func (e *ReferenceResolutionError) Unwrap() error { return e.Err }

// DiffComputationError reports a commit whose diff could not be produced.
type DiffComputationError struct {
	Hash string
	Err  error
}

func (e *DiffComputationError) Error() string {
	return fmt.Sprintf("computing diff of %s: %v", e.Hash, e.Err)
}

func (e *DiffComputationError) Unwrap() error { return e.Err }
