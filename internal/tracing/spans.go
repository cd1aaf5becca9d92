package tracing

// Span names.
const (
	SpanRun     = "bpgroup.run"
	SpanParse   = "bpgroup.parse"
	SpanScan    = "bpgroup.scan"
	SpanRewrite = "bpgroup.rewrite"
	SpanApply   = "bpgroup.apply"
)

// Span attribute keys.
const (
	AttrDocumentURI  = "document.uri"
	AttrDocumentSize = "document.bytes"
	AttrLanguage     = "document.language"
	AttrSelection    = "selection.range"

	AttrCandidates  = "rewrite.candidates"
	AttrRewritten   = "rewrite.rewritten"
	AttrUnchanged   = "rewrite.unchanged"
	AttrNoMedia     = "rewrite.no_media"
	AttrUnsupported = "rewrite.unsupported"

	AttrBatchID    = "batch.id"
	AttrBatchEdits = "batch.edits"
	AttrImport     = "batch.import"
)
