package pipeline

import "fmt"

// ParseError means the document (or selection) is not valid TSX/JSX.
type ParseError struct {
	URI string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.URI, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ApplyError means the host refused or failed to apply a batch. The
// document is left as it was.
type ApplyError struct {
	URI     string
	BatchID string
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("cannot apply edits to %s: %v", e.URI, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }
