package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrOverlap is returned when two edits in a batch cover the same bytes.
	ErrOverlap = errors.New("overlapping edits")
	// ErrOutOfBounds is returned when an edit falls outside the text.
	ErrOutOfBounds = errors.New("edit out of bounds")
)

// Apply returns text with every edit in batch applied. Spans refer to the
// original text. Insertions at the same offset as a replacement go first.
func Apply(text string, batch Batch) (string, error) {
	edits := batch.All()
	if len(edits) == 0 {
		return text, nil
	}

	for _, e := range edits {
		if !e.Span.Valid(len(text)) {
			return "", fmt.Errorf("%w: %s in %d bytes", ErrOutOfBounds, e.Span, len(text))
		}
	}

	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i].Span, edits[j].Span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Len() < b.Len()
	})

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for i, e := range edits {
		if i > 0 && e.Span.Start < last {
			return "", fmt.Errorf("%w: %s and %s", ErrOverlap, edits[i-1].Span, e.Span)
		}
		sb.WriteString(text[last:e.Span.Start])
		sb.WriteString(e.NewText)
		last = e.Span.End
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}
