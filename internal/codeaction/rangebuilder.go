package codeaction

import (
	"remedy/internal/diagnostics"
	"remedy/internal/protocol"
)

// diagnosticRange derives the protocol range a point-fix query is scoped to.
// The provider-native range embedded in the diagnostic wins outright:
// editor and provider coordinate spaces diverge under multi-byte text, so a
// range recomputed from editor coordinates can point at the wrong columns.
// An already-protocol-shaped range comes next. Failing both, the range is
// rebuilt from editor coordinates through the
// provider's declared encoding, defaulting a missing end to the same line
// and one column past the start.
func (e *Engine) diagnosticRange(d diagnostics.Diagnostic, enc protocol.PositionEncoding) protocol.Range {
	if d.Original != nil {
		return d.Original.Range
	}
	if d.Range != nil {
		return *d.Range
	}
	endLine := d.EndLine
	if endLine < 0 {
		endLine = d.Line
	}
	endCol := d.EndCol
	if endCol < 0 {
		endCol = d.Col + 1
	}
	return protocol.Range{
		Start: e.Doc.PositionFor(d.Line, d.Col, enc),
		End:   e.Doc.PositionFor(endLine, endCol, enc),
	}
}

// contextDiagnostic is the diagnostic placed in a point-fix query context,
// preferring the embedded provider-native form when present.
func (e *Engine) contextDiagnostic(d diagnostics.Diagnostic, enc protocol.PositionEncoding) protocol.Diagnostic {
	if d.Original != nil {
		return *d.Original
	}
	return protocol.Diagnostic{
		Range:    e.diagnosticRange(d, enc),
		Severity: int(d.Severity),
		Source:   d.Source,
		Message:  d.Message,
	}
}
