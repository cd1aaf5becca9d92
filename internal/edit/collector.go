package edit

import (
	"strings"

	"github.com/zjrosen/bpgroup/internal/log"
)

// Collector accumulates replacement edits found in a (possibly partial)
// scanned text and maps them onto the full document.
type Collector struct {
	offset     int
	importLine string
	edits      []Edit
}

// NewCollector creates a collector for text that starts at offset within
// the document. importLine is inserted at the top of the document when at
// least one edit is collected and the document does not already contain it.
func NewCollector(offset int, importLine string) *Collector {
	return &Collector{offset: offset, importLine: importLine}
}

// Add records a replacement for span, given in scanned-text coordinates.
func (c *Collector) Add(span Span, newText string) {
	abs := span.Shift(c.offset)
	c.edits = append(c.edits, Edit{Span: abs, NewText: newText})
	log.Debug(log.CatEdit, "collected edit", "span", abs, "bytes", len(newText))
}

// Len returns the number of collected replacement edits.
func (c *Collector) Len() int { return len(c.edits) }

// Finish builds the batch for the document. document must be the entire
// original text: the import check looks at all of it, not only the
// scanned range. pos, when non-nil, fills each edit's Range.
func (c *Collector) Finish(uri, document string, pos Positioner) Batch {
	batch := NewBatch(uri)
	batch.Edits = append(batch.Edits, c.edits...)

	if len(batch.Edits) > 0 && c.importLine != "" && !strings.Contains(document, c.importLine) {
		batch.Import = &Edit{
			Span:    Span{Start: 0, End: 0},
			NewText: c.importLine + LineEnding(document),
		}
		log.Debug(log.CatEdit, "adding import", "batch", batch.ID, "line", c.importLine)
	}

	if pos != nil {
		for i := range batch.Edits {
			batch.Edits[i].Range = rangeOf(pos, batch.Edits[i].Span)
		}
		if batch.Import != nil {
			batch.Import.Range = rangeOf(pos, batch.Import.Span)
		}
	}
	return batch
}

func rangeOf(pos Positioner, s Span) Range {
	return Range{Start: pos.PositionAt(s.Start), End: pos.PositionAt(s.End)}
}

// LineEnding returns "\r\n" when text uses CRLF line endings and "\n"
// otherwise.
func LineEnding(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
