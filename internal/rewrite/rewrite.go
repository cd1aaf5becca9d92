// Package rewrite turns candidate class attributes into grouped join calls.
package rewrite

import (
	"regexp"
	"strings"

	"github.com/zjrosen/bpgroup/internal/breakpoint"
	"github.com/zjrosen/bpgroup/internal/edit"
	"github.com/zjrosen/bpgroup/internal/jsx"
	"github.com/zjrosen/bpgroup/internal/log"
)

// Outcome describes what happened to one candidate.
type Outcome int

const (
	// Unsupported means the literal text could not be moved safely.
	Unsupported Outcome = iota
	// NoMedia means no token carried a breakpoint prefix.
	NoMedia
	// Unchanged means the value is already in canonical form.
	Unchanged
	// Rewritten means the value gets a replacement.
	Rewritten
)

func (o Outcome) String() string {
	switch o {
	case NoMedia:
		return "no-media"
	case Unchanged:
		return "unchanged"
	case Rewritten:
		return "rewritten"
	default:
		return "unsupported"
	}
}

// Result is the rewriter's verdict on one candidate. Span and Text are
// set only when Outcome is Rewritten.
type Result struct {
	Outcome   Outcome
	Span      edit.Span
	Text      string
	Partition breakpoint.Partition
}

// Options configures the emitted call.
type Options struct {
	JoinFunction string // e.g. "twMerge"
	Indent       string // prefix of each argument line
	Newline      string // line terminator inside the call, "\n" or "\r\n"
}

// Rewriter renders candidates into grouped join calls.
type Rewriter struct {
	opts Options
}

// New returns a Rewriter. An empty indent defaults to two spaces and an
// empty newline to "\n".
func New(opts Options) *Rewriter {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	if opts.Newline == "" {
		opts.Newline = "\n"
	}
	return &Rewriter{opts: opts}
}

// entity matches an HTML character reference such as &amp; or &#38;.
var entity = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

// Tokens extracts the class tokens of a candidate in source order.
// Literals containing escape sequences are refused: JSX attribute strings
// have no escapes and JS strings would need decoding to split safely.
// Character references in bare attribute strings are refused too, since
// JSX decodes them there but not inside a JS string.
func Tokens(c jsx.Candidate) ([]string, bool) {
	var tokens []string
	for _, lit := range c.Literals {
		if strings.ContainsRune(lit.Raw, '\\') {
			return nil, false
		}
		if c.Shape == jsx.ShapeString && entity.MatchString(lit.Raw) {
			return nil, false
		}
		tokens = append(tokens, breakpoint.Tokens(lit.Raw)...)
	}
	return tokens, true
}

// Rewrite classifies the candidate's tokens and, when any token carries a
// breakpoint prefix, returns the replacement for its value span. src is
// the text the candidate was scanned from.
func (r *Rewriter) Rewrite(c jsx.Candidate, src []byte) Result {
	tokens, ok := Tokens(c)
	if !ok {
		log.Debug(log.CatRewrite, "unsupported literal", "span", c.Span, "shape", c.Shape)
		return Result{Outcome: Unsupported}
	}

	p := breakpoint.Classify(tokens)
	if p.Empty() {
		return Result{Outcome: NoMedia, Partition: p}
	}

	text := r.Render(p)
	if c.Span.Valid(len(src)) && string(src[c.Span.Start:c.Span.End]) == text {
		return Result{Outcome: Unchanged, Partition: p}
	}

	log.Debug(log.CatRewrite, "rewriting attribute",
		"span", c.Span, "shape", c.Shape, "groups", len(p.Groups))
	return Result{Outcome: Rewritten, Span: c.Span, Text: text, Partition: p}
}

// Render builds the braced join call for a partition: the base group
// first (omitted when empty), then one argument per prefix group.
func (r *Rewriter) Render(p breakpoint.Partition) string {
	args := make([]string, 0, len(p.Groups)+1)
	if len(p.Base) > 0 {
		args = append(args, quote(p.Base))
	}
	for _, g := range p.Groups {
		args = append(args, quote(g.Tokens))
	}

	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(r.opts.JoinFunction)
	sb.WriteString("(")
	sb.WriteString(r.opts.Newline)
	for i, arg := range args {
		sb.WriteString(r.opts.Indent)
		sb.WriteString(arg)
		if i < len(args)-1 {
			sb.WriteString(",")
		}
		sb.WriteString(r.opts.Newline)
	}
	sb.WriteString(")}")
	return sb.String()
}

// quote joins tokens with single spaces into a double-quoted literal.
func quote(tokens []string) string {
	s := strings.Join(tokens, " ")
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
