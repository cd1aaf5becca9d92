package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zjrosen/bpgroup/internal/cachemanager"
	"github.com/zjrosen/bpgroup/internal/diff"
	"github.com/zjrosen/bpgroup/internal/host"
	"github.com/zjrosen/bpgroup/internal/log"
	"github.com/zjrosen/bpgroup/internal/pipeline"
	"github.com/zjrosen/bpgroup/internal/presentation"
)

// errCheckFailed makes the process exit non-zero under --check.
var errCheckFailed = errors.New("some files need their classes regrouped")

type runOptions struct {
	mode         host.Mode
	explicitMode bool
	json         bool
	byteRange    *host.Selection
	lines        *[2]int
	pipeline     pipeline.Options
	stdinName    string
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	styles       presentation.Styles
	ownWrites    *cachemanager.OwnWrites
}

// runner processes documents one at a time and accumulates the outcome.
type runner struct {
	opts    runOptions
	reports []presentation.ReportDTO
	changed bool
	failed  int
	total   int
}

func newRunner(opts runOptions) *runner {
	return &runner{opts: opts}
}

func (r *runner) runFile(ctx context.Context, path string) {
	r.total++
	if _, err := os.Stat(path); err != nil {
		r.fail(path, err)
		return
	}

	h := &host.FileHost{
		Path:   path,
		Mode:   r.opts.mode,
		Range:  r.opts.byteRange,
		Lines:  r.opts.lines,
		Out:    r.opts.stdout,
		Err:    r.opts.stderr,
		Styles: r.opts.styles,
	}
	if r.opts.json {
		h.Out = io.Discard
	}
	if r.opts.ownWrites != nil {
		h.OnWrite = func(p, content string) { r.opts.ownWrites.Record(ctx, p, content) }
	}

	res, err := pipeline.Run(ctx, h, r.opts.pipeline)
	if h.Changed() {
		r.changed = true
	}
	r.record(path, res, err)
}

func (r *runner) runStdin(ctx context.Context) {
	r.total++
	data, err := io.ReadAll(r.opts.stdin)
	if err != nil {
		r.fail("<stdin>", err)
		return
	}
	before := string(data)
	h := host.NewMemoryHost("stdin://"+r.opts.stdinName, r.opts.stdinName, before)

	switch {
	case r.opts.byteRange != nil:
		h.Select(r.opts.byteRange.Start, r.opts.byteRange.End)
	case r.opts.lines != nil:
		doc := host.NewDocument("", r.opts.stdinName, before)
		sel, err := doc.LineSelection(r.opts.lines[0], r.opts.lines[1])
		if err != nil {
			r.fail("<stdin>", err)
			return
		}
		h.Select(sel.Start, sel.End)
	}

	res, err := pipeline.Run(ctx, h, r.opts.pipeline)
	for _, msg := range h.Failures() {
		_, _ = fmt.Fprintln(r.opts.stderr, r.opts.styles.Fail(msg))
	}
	after := h.Text()
	if after != before {
		r.changed = true
	}
	r.record("<stdin>", res, err)
	if err != nil || r.opts.json {
		return
	}

	switch {
	case !r.opts.explicitMode || r.opts.mode == host.ModeWrite:
		_, _ = io.WriteString(r.opts.stdout, after)
	case r.opts.mode == host.ModeDiff:
		_, _ = io.WriteString(r.opts.stdout, r.opts.styles.RenderDiff(diff.Unified(r.opts.stdinName, before, after)))
	case after != before:
		_, _ = fmt.Fprintln(r.opts.stdout, "<stdin>")
	}
}

// fail records a failure that happened before the pipeline could run.
func (r *runner) fail(name string, err error) {
	r.failed++
	log.ErrorErr(log.CatPipeline, "cannot process", err, "file", name)
	if !r.opts.json {
		_, _ = fmt.Fprintln(r.opts.stderr, r.opts.styles.Fail(err.Error()))
	}
	r.reports = append(r.reports, presentation.ReportDTO{File: name, Edits: []presentation.EditDTO{}, Error: err.Error()})
}

func (r *runner) record(name string, res *pipeline.Result, err error) {
	if err != nil {
		r.failed++
	}
	r.reports = append(r.reports, reportOf(name, res, err))
}

// finish prints the collected reports and returns the overall error.
func (r *runner) finish() error {
	f := presentation.NewFormatter(r.opts.stdout, r.opts.styles)
	if r.opts.json {
		if err := f.FormatJSON(r.reports); err != nil {
			return err
		}
	} else if r.opts.explicitMode && r.opts.mode == host.ModeWrite {
		if err := f.FormatReportsText(r.reports); err != nil {
			return err
		}
	}

	if r.failed > 0 {
		return fmt.Errorf("%d of %d files failed", r.failed, r.total)
	}
	if r.opts.mode == host.ModeCheck && r.changed {
		return errCheckFailed
	}
	return nil
}

func reportOf(name string, res *pipeline.Result, err error) presentation.ReportDTO {
	rep := presentation.ReportDTO{File: name, Edits: []presentation.EditDTO{}}
	if res != nil {
		rep.URI = res.URI
		rep.BatchID = res.Batch.ID
		rep.Candidates = res.Candidates
		rep.Rewritten = res.Rewritten
		rep.Unchanged = res.Unchanged
		rep.NoMedia = res.NoMedia
		rep.Unsupported = res.Unsupported
		rep.Edits = presentation.FromBatch(res.Batch)
	}
	if err != nil {
		rep.Error = err.Error()
	}
	return rep
}

// parsePair parses "a:b" into two non-negative integers with a <= b.
func parsePair(s string) (int, int, error) {
	left, right, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("expected start:end, got %q", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start %q", left)
	}
	b, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end %q", right)
	}
	if a < 0 || b < a {
		return 0, 0, fmt.Errorf("invalid range %d:%d", a, b)
	}
	return a, b, nil
}
