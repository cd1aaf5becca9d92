// Package host defines the capability surface the rewrite pipeline needs
// from its environment: reading the active document and selection,
// applying an edit batch atomically, and reporting failures.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zjrosen/bpgroup/internal/edit"
)

// ErrNoActiveTarget means there is no document to work on. Pipelines exit
// quietly on it; it is not a user-visible failure.
var ErrNoActiveTarget = errors.New("no active document")

// ErrStale is returned when a document changed after its snapshot was taken.
var ErrStale = errors.New("document changed since it was read")

// Host is implemented by the environment running the pipeline.
type Host interface {
	// ActiveDocument returns a snapshot of the document to rewrite.
	ActiveDocument(ctx context.Context) (*Document, error)
	// Selection returns the selected byte range, if any.
	Selection(ctx context.Context) (Selection, bool)
	// ApplyEdits commits batch to the document atomically: either every
	// edit lands or the document is untouched.
	ApplyEdits(ctx context.Context, uri string, batch edit.Batch) error
	// ReportFailure shows a failure to the user.
	ReportFailure(msg string)
}

// Selection is a byte range within a document.
type Selection struct {
	Start int
	End   int
}

// Validate checks the selection against a document of size n.
func (s Selection) Validate(n int) error {
	if s.Start < 0 || s.End < s.Start || s.End > n {
		return fmt.Errorf("selection [%d,%d) outside document of %d bytes", s.Start, s.End, n)
	}
	return nil
}

// Document is an immutable snapshot of a document's text.
type Document struct {
	URI  string
	Name string // file name used for grammar detection
	Text string

	once  sync.Once
	index *edit.LineIndex
}

// NewDocument creates a snapshot.
func NewDocument(uri, name, text string) *Document {
	return &Document{URI: uri, Name: name, Text: text}
}

// PositionAt converts a byte offset into a line/character position.
func (d *Document) PositionAt(offset int) edit.Position {
	return d.Lines().PositionAt(offset)
}

// Lines returns the document's line index, building it on first use.
func (d *Document) Lines() *edit.LineIndex {
	d.once.Do(func() { d.index = edit.NewLineIndex(d.Text) })
	return d.index
}

// LineSelection converts a 1-based inclusive line range into a byte
// selection covering those lines.
func (d *Document) LineSelection(first, last int) (Selection, error) {
	lines := d.Lines()
	if first < 1 || last < first || first > lines.Lines() {
		return Selection{}, fmt.Errorf("line range %d:%d outside document of %d lines", first, last, lines.Lines())
	}
	return Selection{
		Start: lines.OffsetOfLine(first - 1),
		End:   lines.OffsetOfLine(last),
	}, nil
}
