package presentation

import (
	"github.com/zjrosen/bpgroup/internal/breakpoint"
	"github.com/zjrosen/bpgroup/internal/edit"
)

// EditDTO is one text edit with editor-style range and byte offsets.
type EditDTO struct {
	Range   edit.Range `json:"range"`
	Start   int        `json:"start"`
	End     int        `json:"end"`
	NewText string     `json:"new_text"`
	Import  bool       `json:"import,omitempty"`
}

// ReportDTO summarizes one processed document.
type ReportDTO struct {
	File        string    `json:"file"`
	URI         string    `json:"uri,omitempty"`
	BatchID     string    `json:"batch_id,omitempty"`
	Candidates  int       `json:"candidates"`
	Rewritten   int       `json:"rewritten"`
	Unchanged   int       `json:"unchanged"`
	NoMedia     int       `json:"no_media"`
	Unsupported int       `json:"unsupported"`
	Edits       []EditDTO `json:"edits"` // always present, may be empty
	Error       string    `json:"error,omitempty"`
}

// GroupDTO is one breakpoint group.
type GroupDTO struct {
	Prefix string   `json:"prefix"`
	Tokens []string `json:"tokens"`
}

// PartitionDTO is the classification of a class string.
type PartitionDTO struct {
	Input  string     `json:"input"`
	Base   []string   `json:"base"`
	Groups []GroupDTO `json:"groups"`
	Call   string     `json:"call,omitempty"`
	Merged string     `json:"merged"`
}

// FromBatch converts a batch into edit DTOs, import last.
func FromBatch(b edit.Batch) []EditDTO {
	out := make([]EditDTO, 0, b.Len())
	for _, e := range b.Edits {
		out = append(out, fromEdit(e, false))
	}
	if b.Import != nil {
		out = append(out, fromEdit(*b.Import, true))
	}
	return out
}

func fromEdit(e edit.Edit, imp bool) EditDTO {
	return EditDTO{
		Range:   e.Range,
		Start:   e.Span.Start,
		End:     e.Span.End,
		NewText: e.NewText,
		Import:  imp,
	}
}

// FromPartition converts a partition. call and merged may be empty.
func FromPartition(input string, p breakpoint.Partition, call, merged string) PartitionDTO {
	base := p.Base
	if base == nil {
		base = []string{}
	}
	groups := make([]GroupDTO, 0, len(p.Groups))
	for _, g := range p.Groups {
		groups = append(groups, GroupDTO{Prefix: g.Prefix, Tokens: g.Tokens})
	}
	return PartitionDTO{
		Input:  input,
		Base:   base,
		Groups: groups,
		Call:   call,
		Merged: merged,
	}
}
