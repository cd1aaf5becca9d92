package edit

import "github.com/google/uuid"

// Edit replaces the bytes under Span with NewText. A zero-width span is
// an insertion.
type Edit struct {
	Span    Span   `json:"-"`
	NewText string `json:"newText"`
	Range   Range  `json:"range"`
}

// Batch is the set of edits produced by one invocation for one document.
// Edits never overlap; Import, when set, inserts the import line at the
// start of the document.
type Batch struct {
	ID     string
	URI    string
	Edits  []Edit
	Import *Edit
}

// NewBatch returns an empty batch for uri with a fresh ID.
func NewBatch(uri string) Batch {
	return Batch{ID: uuid.NewString(), URI: uri}
}

// Empty reports whether the batch changes nothing.
func (b Batch) Empty() bool {
	return len(b.Edits) == 0 && b.Import == nil
}

// Len returns the number of edits including the import insertion.
func (b Batch) Len() int {
	n := len(b.Edits)
	if b.Import != nil {
		n++
	}
	return n
}

// All returns the attribute edits followed by the import insertion.
func (b Batch) All() []Edit {
	out := make([]Edit, 0, b.Len())
	out = append(out, b.Edits...)
	if b.Import != nil {
		out = append(out, *b.Import)
	}
	return out
}
