// Package pipeline runs one rewrite invocation against a host: snapshot,
// parse, scan, rewrite, collect and apply.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/bpgroup/internal/edit"
	"github.com/zjrosen/bpgroup/internal/host"
	"github.com/zjrosen/bpgroup/internal/jsx"
	"github.com/zjrosen/bpgroup/internal/log"
	"github.com/zjrosen/bpgroup/internal/rewrite"
	"github.com/zjrosen/bpgroup/internal/tracing"
)

// Options configures a run. Zero values fall back to the defaults.
type Options struct {
	Attribute    string
	JoinFunction string
	MergeLibrary string
	Language     jsx.Language
	Indent       string
	LiteralOnly  bool
	Tracer       trace.Tracer
}

// Defaults for Options.
const (
	DefaultAttribute    = "className"
	DefaultJoinFunction = "twMerge"
	DefaultMergeLibrary = "tailwind-merge"
)

// ImportLine returns the import statement for the join function.
func (o Options) ImportLine() string {
	return fmt.Sprintf("import { %s } from %q;", o.JoinFunction, o.MergeLibrary)
}

func (o Options) withDefaults() Options {
	if o.Attribute == "" {
		o.Attribute = DefaultAttribute
	}
	if o.JoinFunction == "" {
		o.JoinFunction = DefaultJoinFunction
	}
	if o.MergeLibrary == "" {
		o.MergeLibrary = DefaultMergeLibrary
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("")
	}
	return o
}

// Result summarizes one run.
type Result struct {
	URI         string
	Name        string
	Candidates  int
	Rewritten   int
	Unchanged   int
	NoMedia     int
	Unsupported int
	Batch       edit.Batch
}

func (r *Result) count(o rewrite.Outcome) {
	switch o {
	case rewrite.Rewritten:
		r.Rewritten++
	case rewrite.Unchanged:
		r.Unchanged++
	case rewrite.NoMedia:
		r.NoMedia++
	default:
		r.Unsupported++
	}
}

// Run performs one invocation against h. It returns (nil, nil) when the
// host has no active document. Parse and apply failures are reported to
// the host once and returned as *ParseError and *ApplyError. No edit is
// issued unless the whole batch was built.
func Run(ctx context.Context, h host.Host, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	ctx, span := opts.Tracer.Start(ctx, tracing.SpanRun)
	defer span.End()

	doc, err := h.ActiveDocument(ctx)
	if errors.Is(err, host.ErrNoActiveTarget) {
		log.Debug(log.CatPipeline, "no active document")
		return nil, nil
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.ReportFailure(err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrDocumentURI, doc.URI),
		attribute.Int(tracing.AttrDocumentSize, len(doc.Text)),
	)

	offset, text := 0, doc.Text
	if sel, ok := h.Selection(ctx); ok {
		if err := sel.Validate(len(doc.Text)); err != nil {
			span.SetStatus(codes.Error, err.Error())
			h.ReportFailure(err.Error())
			return nil, err
		}
		offset, text = sel.Start, doc.Text[sel.Start:sel.End]
		span.SetAttributes(attribute.IntSlice(tracing.AttrSelection, []int{sel.Start, sel.End}))
	}

	res := &Result{URI: doc.URI, Name: doc.Name}
	src := []byte(text)

	lang := opts.Language.Resolve(doc.Name)
	tree, err := parse(ctx, opts.Tracer, lang, src)
	if err != nil {
		perr := &ParseError{URI: doc.URI, Err: err}
		span.SetStatus(codes.Error, perr.Error())
		log.ErrorErr(log.CatPipeline, "parse failed", err, "uri", doc.URI)
		h.ReportFailure(perr.Error())
		return nil, perr
	}
	defer tree.Close()

	collector := edit.NewCollector(offset, opts.ImportLine())
	rw := rewrite.New(rewrite.Options{
		JoinFunction: opts.JoinFunction,
		Indent:       opts.Indent,
		Newline:      edit.LineEnding(doc.Text),
	})

	_, scanSpan := opts.Tracer.Start(ctx, tracing.SpanScan)
	candidates := jsx.Scan(tree.Root(), src, jsx.Options{
		Attribute:    opts.Attribute,
		JoinFunction: opts.JoinFunction,
		LiteralOnly:  opts.LiteralOnly,
	})
	scanSpan.SetAttributes(attribute.Int(tracing.AttrCandidates, len(candidates)))
	scanSpan.End()

	_, rwSpan := opts.Tracer.Start(ctx, tracing.SpanRewrite)
	for _, c := range candidates {
		r := rw.Rewrite(c, src)
		res.count(r.Outcome)
		if r.Outcome == rewrite.Rewritten {
			collector.Add(r.Span, r.Text)
		}
	}
	res.Candidates = len(candidates)
	rwSpan.SetAttributes(
		attribute.Int(tracing.AttrRewritten, res.Rewritten),
		attribute.Int(tracing.AttrUnchanged, res.Unchanged),
		attribute.Int(tracing.AttrNoMedia, res.NoMedia),
		attribute.Int(tracing.AttrUnsupported, res.Unsupported),
	)
	rwSpan.End()

	res.Batch = collector.Finish(doc.URI, doc.Text, doc)

	_, applySpan := opts.Tracer.Start(ctx, tracing.SpanApply, trace.WithAttributes(
		attribute.String(tracing.AttrBatchID, res.Batch.ID),
		attribute.Int(tracing.AttrBatchEdits, res.Batch.Len()),
		attribute.Bool(tracing.AttrImport, res.Batch.Import != nil),
	))
	defer applySpan.End()

	if err := h.ApplyEdits(ctx, doc.URI, res.Batch); err != nil {
		aerr := &ApplyError{URI: doc.URI, BatchID: res.Batch.ID, Err: err}
		applySpan.SetStatus(codes.Error, err.Error())
		span.SetStatus(codes.Error, aerr.Error())
		log.ErrorErr(log.CatPipeline, "apply failed", err, "uri", doc.URI, "batch", res.Batch.ID)
		h.ReportFailure(aerr.Error())
		return res, aerr
	}

	log.Info(log.CatPipeline, "run complete",
		"uri", doc.URI,
		"candidates", res.Candidates,
		"rewritten", res.Rewritten,
		"unchanged", res.Unchanged,
		"batch", res.Batch.ID)
	return res, nil
}

func parse(ctx context.Context, tracer trace.Tracer, lang jsx.Language, src []byte) (*jsx.Tree, error) {
	ctx, span := tracer.Start(ctx, tracing.SpanParse, trace.WithAttributes(
		attribute.String(tracing.AttrLanguage, string(lang)),
	))
	defer span.End()

	tree, err := jsx.Parse(ctx, lang, src)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return tree, nil
}
