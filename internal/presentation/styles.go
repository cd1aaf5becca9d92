package presentation

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds terminal styles for command output. The zero value renders
// plain text.
type Styles struct {
	color bool

	Error   lipgloss.Style
	Path    lipgloss.Style
	Muted   lipgloss.Style
	Added   lipgloss.Style
	Removed lipgloss.Style
	Hunk    lipgloss.Style
	Prefix  lipgloss.Style
}

// NewStyles returns colored styles when color is true and plain styles
// otherwise.
func NewStyles(color bool) Styles {
	if !color {
		return Styles{}
	}
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		color:   true,
		Error:   base.Foreground(lipgloss.Color("#EF4444")).Bold(true),
		Path:    base.Bold(true),
		Muted:   base.Foreground(lipgloss.Color("#6B7280")),
		Added:   base.Foreground(lipgloss.Color("#10B981")),
		Removed: base.Foreground(lipgloss.Color("#EF4444")),
		Hunk:    base.Foreground(lipgloss.Color("#06B6D4")),
		Prefix:  base.Foreground(lipgloss.Color("#A855F7")).Bold(true),
	}
}

// Paint renders text with st, or returns it untouched for plain styles.
func (s Styles) Paint(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}

// Fail renders a failure message.
func (s Styles) Fail(msg string) string {
	return s.Paint(s.Error, msg)
}

// RenderDiff colors a unified diff line by line.
func (s Styles) RenderDiff(diff string) string {
	if !s.color || diff == "" {
		return diff
	}
	var sb strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			body = s.Path.Render(body)
		case strings.HasPrefix(body, "@@"):
			body = s.Hunk.Render(body)
		case strings.HasPrefix(body, "+"):
			body = s.Added.Render(body)
		case strings.HasPrefix(body, "-"):
			body = s.Removed.Render(body)
		case strings.HasPrefix(body, `\`):
			body = s.Muted.Render(body)
		}
		sb.WriteString(body)
		if strings.HasSuffix(line, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
