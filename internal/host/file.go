package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio"

	"github.com/zjrosen/bpgroup/internal/diff"
	"github.com/zjrosen/bpgroup/internal/edit"
	"github.com/zjrosen/bpgroup/internal/log"
	"github.com/zjrosen/bpgroup/internal/presentation"
)

// Mode selects what FileHost does with an edit batch.
type Mode int

const (
	// ModeWrite replaces the file on disk.
	ModeWrite Mode = iota
	// ModeDiff prints a unified diff.
	ModeDiff
	// ModeList prints the file name.
	ModeList
	// ModeCheck prints the file name and marks the host as changed.
	ModeCheck
)

// FileHost runs the pipeline against one file on disk.
type FileHost struct {
	Path   string
	Mode   Mode
	Range  *Selection // byte range, takes precedence over Lines
	Lines  *[2]int    // 1-based inclusive line range
	Out    io.Writer
	Err    io.Writer
	Styles presentation.Styles

	// OnWrite is called with the new content after a successful write.
	OnWrite func(path, content string)

	snapshot  *Document
	selection *Selection
	changed   bool
}

// URI returns the file URI for path.
func URI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// ActiveDocument reads the file and records the snapshot.
func (h *FileHost) ActiveDocument(ctx context.Context) (*Document, error) {
	if h.Path == "" {
		return nil, ErrNoActiveTarget
	}
	data, err := os.ReadFile(h.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", h.Path, ErrNoActiveTarget)
		}
		return nil, fmt.Errorf("reading %s: %w", h.Path, err)
	}

	doc := NewDocument(URI(h.Path), h.Path, string(data))
	h.snapshot = doc
	h.selection = nil

	switch {
	case h.Range != nil:
		sel := *h.Range
		h.selection = &sel
	case h.Lines != nil:
		sel, err := doc.LineSelection(h.Lines[0], h.Lines[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h.Path, err)
		}
		h.selection = &sel
	}

	log.Debug(log.CatHost, "read document", "path", h.Path, "bytes", len(data))
	return doc, nil
}

// Selection implements Host.
func (h *FileHost) Selection(ctx context.Context) (Selection, bool) {
	if h.selection == nil {
		return Selection{}, false
	}
	return *h.selection, true
}

// ApplyEdits implements Host. In write mode the file is replaced
// atomically, and only if it still matches the snapshot.
func (h *FileHost) ApplyEdits(ctx context.Context, uri string, batch edit.Batch) error {
	if h.snapshot == nil || h.snapshot.URI != uri {
		return fmt.Errorf("apply to %s: %w", uri, ErrNoActiveTarget)
	}
	before := h.snapshot.Text
	after, err := edit.Apply(before, batch)
	if err != nil {
		return err
	}
	if after == before {
		return nil
	}
	h.changed = true

	switch h.Mode {
	case ModeDiff:
		_, err = io.WriteString(h.out(), h.Styles.RenderDiff(diff.Unified(h.Path, before, after)))
		return err
	case ModeList, ModeCheck:
		_, err = fmt.Fprintln(h.out(), h.Path)
		return err
	}

	info, err := os.Stat(h.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", h.Path, err)
	}
	current, err := os.ReadFile(h.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", h.Path, err)
	}
	if string(current) != before {
		return fmt.Errorf("%s: %w", h.Path, ErrStale)
	}
	if err := renameio.WriteFile(h.Path, []byte(after), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", h.Path, err)
	}

	log.Info(log.CatHost, "wrote document", "path", h.Path, "batch", batch.ID, "edits", batch.Len())
	if h.OnWrite != nil {
		h.OnWrite(h.Path, after)
	}
	return nil
}

// ReportFailure implements Host.
func (h *FileHost) ReportFailure(msg string) {
	w := h.Err
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintln(w, h.Styles.Fail(msg))
}

// Changed reports whether any batch would have changed the file.
func (h *FileHost) Changed() bool { return h.changed }

func (h *FileHost) out() io.Writer {
	if h.Out == nil {
		return os.Stdout
	}
	return h.Out
}
