package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/zjrosen/bpgroup/internal/edit"
)

// MemoryHost keeps a document in memory. It backs stdin/stdout mode and
// tests.
type MemoryHost struct {
	mu        sync.Mutex
	doc       *Document
	selection *Selection
	applyErr  error
	batches   []edit.Batch
	failures  []string
}

// NewMemoryHost returns a host holding text under uri. name is used for
// grammar detection.
func NewMemoryHost(uri, name, text string) *MemoryHost {
	return &MemoryHost{doc: NewDocument(uri, name, text)}
}

// NewEmptyHost returns a host with no active document.
func NewEmptyHost() *MemoryHost {
	return &MemoryHost{}
}

// Select sets the active selection.
func (h *MemoryHost) Select(start, end int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selection = &Selection{Start: start, End: end}
}

// FailApply makes every subsequent ApplyEdits call fail with err.
func (h *MemoryHost) FailApply(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.applyErr = err
}

// ActiveDocument implements Host.
func (h *MemoryHost) ActiveDocument(ctx context.Context) (*Document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.doc == nil {
		return nil, ErrNoActiveTarget
	}
	return NewDocument(h.doc.URI, h.doc.Name, h.doc.Text), nil
}

// Selection implements Host.
func (h *MemoryHost) Selection(ctx context.Context) (Selection, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selection == nil {
		return Selection{}, false
	}
	return *h.selection, true
}

// ApplyEdits implements Host.
func (h *MemoryHost) ApplyEdits(ctx context.Context, uri string, batch edit.Batch) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.applyErr != nil {
		return h.applyErr
	}
	if h.doc == nil || h.doc.URI != uri {
		return fmt.Errorf("apply to %s: %w", uri, ErrNoActiveTarget)
	}
	out, err := edit.Apply(h.doc.Text, batch)
	if err != nil {
		return err
	}
	h.doc = NewDocument(h.doc.URI, h.doc.Name, out)
	h.batches = append(h.batches, batch)
	return nil
}

// ReportFailure implements Host.
func (h *MemoryHost) ReportFailure(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = append(h.failures, msg)
}

// Text returns the current document text.
func (h *MemoryHost) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.doc == nil {
		return ""
	}
	return h.doc.Text
}

// Batches returns every batch applied so far.
func (h *MemoryHost) Batches() []edit.Batch {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]edit.Batch(nil), h.batches...)
}

// Failures returns every reported failure message.
func (h *MemoryHost) Failures() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.failures...)
}
