package edit

import (
	"sort"
	"unicode/utf8"
)

// Position is a zero-based line and character, where Character counts
// UTF-16 code units as editor protocols do.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a pair of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Positioner converts byte offsets into positions.
type Positioner interface {
	PositionAt(offset int) Position
}

// LineIndex maps byte offsets of a text to positions.
type LineIndex struct {
	text  string
	lines []int // byte offset of each line start
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string) *LineIndex {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{text: text, lines: lines}
}

// PositionAt converts offset, clamped to the text, into a Position.
func (x *LineIndex) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.text) {
		offset = len(x.text)
	}
	line := sort.Search(len(x.lines), func(i int) bool { return x.lines[i] > offset }) - 1

	char := 0
	for s := x.text[x.lines[line]:offset]; len(s) > 0; {
		r, size := utf8.DecodeRuneInString(s)
		if r >= 0x10000 {
			char += 2
		} else {
			char++
		}
		s = s[size:]
	}
	return Position{Line: line, Character: char}
}

// OffsetOfLine returns the byte offset where the zero-based line starts,
// or len(text) past the last line.
func (x *LineIndex) OffsetOfLine(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(x.lines) {
		return len(x.text)
	}
	return x.lines[line]
}

// Lines returns the number of lines in the text.
func (x *LineIndex) Lines() int { return len(x.lines) }
