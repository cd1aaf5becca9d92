// Package edit collects text edits against a document and applies them.
package edit

import "fmt"

// Span is a half-open [Start, End) byte range into a text buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Shift returns the span translated by off bytes.
func (s Span) Shift(off int) Span { return Span{Start: s.Start + off, End: s.End + off} }

// Overlaps reports whether two spans share at least one byte.
// Zero-width spans never overlap anything.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Valid reports whether the span is well formed and fits a text of size n.
func (s Span) Valid(n int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= n
}

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }
