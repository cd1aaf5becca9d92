package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	styles Styles
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer, styles Styles) *Formatter {
	return &Formatter{
		writer: writer,
		styles: styles,
	}
}

// FormatJSON writes v as indented JSON
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatReportsText writes one summary line per report that has edits or
// an error.
func (f *Formatter) FormatReportsText(reports []ReportDTO) error {
	for _, r := range reports {
		var line string
		switch {
		case r.Error != "":
			line = fmt.Sprintf("%s: %s", f.styles.Paint(f.styles.Path, r.File), f.styles.Fail(r.Error))
		case len(r.Edits) > 0:
			line = fmt.Sprintf("%s: %d rewritten, %d edits", f.styles.Paint(f.styles.Path, r.File), r.Rewritten, len(r.Edits))
		default:
			continue
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatPartitionText writes a human-readable classification.
func (f *Formatter) FormatPartitionText(p PartitionDTO) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", f.styles.Paint(f.styles.Muted, "base:"), strings.Join(p.Base, " "))
	for _, g := range p.Groups {
		fmt.Fprintf(&sb, "%s %s\n", f.styles.Paint(f.styles.Prefix, g.Prefix), strings.Join(g.Tokens, " "))
	}
	if p.Call != "" {
		fmt.Fprintf(&sb, "\n%s\n", p.Call)
	}
	fmt.Fprintf(&sb, "\n%s %s\n", f.styles.Paint(f.styles.Muted, "merged:"), p.Merged)
	_, err := io.WriteString(f.writer, sb.String())
	return err
}
