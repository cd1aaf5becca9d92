// Package diff renders unified diffs of rewritten documents.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ContextLines is the number of unchanged lines shown around a change.
const ContextLines = 3

type opKind byte

const (
	opEqual  opKind = ' '
	opDelete opKind = '-'
	opInsert opKind = '+'
)

type lineOp struct {
	kind opKind
	text string // includes the trailing newline when present
}

// Unified returns a unified diff between before and after labelled with
// name, or "" when they are equal.
func Unified(name, before, after string) string {
	if before == after {
		return ""
	}
	ops := lineOps(before, after)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range hunks(ops, ContextLines) {
		writeHunk(&sb, ops, h)
	}
	return sb.String()
}

// Stats counts inserted and deleted lines between before and after.
func Stats(before, after string) (added, removed int) {
	for _, op := range lineOps(before, after) {
		switch op.kind {
		case opInsert:
			added++
		case opDelete:
			removed++
		}
	}
	return added, removed
}

// lineOps runs a line-mode diff and flattens it into one op per line.
func lineOps(before, after string) []lineOp {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []lineOp
	for _, d := range diffs {
		kind := opEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = opDelete
		case diffmatchpatch.DiffInsert:
			kind = opInsert
		}
		for _, line := range splitLines(d.Text) {
			ops = append(ops, lineOp{kind: kind, text: line})
		}
	}
	return ops
}

// splitLines splits s after each newline, keeping the terminators.
func splitLines(s string) []string {
	var out []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
	return out
}

type hunk struct {
	start, end         int // op indexes, end exclusive
	oldStart, newStart int // 1-based line numbers
	oldLines, newLines int
}

func hunks(ops []lineOp, context int) []hunk {
	// line numbers before each op
	oldNo := make([]int, len(ops)+1)
	newNo := make([]int, len(ops)+1)
	for i, op := range ops {
		oldNo[i+1], newNo[i+1] = oldNo[i], newNo[i]
		if op.kind != opInsert {
			oldNo[i+1]++
		}
		if op.kind != opDelete {
			newNo[i+1]++
		}
	}

	var out []hunk
	for i := 0; i < len(ops); {
		if ops[i].kind == opEqual {
			i++
			continue
		}
		start := max(0, i-context)
		end := i
		// extend while the next change is within 2*context equal lines
		for end < len(ops) {
			if ops[end].kind != opEqual {
				end++
				continue
			}
			j := end
			for j < len(ops) && ops[j].kind == opEqual {
				j++
			}
			if j == len(ops) || j-end > 2*context {
				break
			}
			end = j
		}
		stop := min(len(ops), end+context)

		h := hunk{
			start:    start,
			end:      stop,
			oldStart: oldNo[start] + 1,
			newStart: newNo[start] + 1,
			oldLines: oldNo[stop] - oldNo[start],
			newLines: newNo[stop] - newNo[start],
		}
		if h.oldLines == 0 {
			h.oldStart--
		}
		if h.newLines == 0 {
			h.newStart--
		}
		out = append(out, h)
		i = stop
	}
	return out
}

func writeHunk(sb *strings.Builder, ops []lineOp, h hunk) {
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldLines, h.newStart, h.newLines)
	for _, op := range ops[h.start:h.end] {
		sb.WriteByte(byte(op.kind))
		sb.WriteString(op.text)
		if !strings.HasSuffix(op.text, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
