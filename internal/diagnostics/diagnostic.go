// Package diagnostics models issues reported against a document and keeps a
// per-document snapshot store fed by textDocument/publishDiagnostics.
package diagnostics

import "remedy/internal/protocol"

// Severity mirrors the protocol severity levels.
type Severity int

const (
	SevError   Severity = 1
	SevWarning Severity = 2
	SevInfo    Severity = 3
	SevHint    Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarning:
		return "WARNING"
	case SevInfo:
		return "INFO"
	case SevHint:
		return "HINT"
	}
	return "UNKNOWN"
}

// Diagnostic is one issue in editor coordinates (zero-based line and byte
// column). EndLine/EndCol are -1 when the source never reported an end.
// Original carries the provider-native diagnostic when the issue came off
// the wire; its range is authoritative because the editor and provider
// coordinate spaces diverge under multi-byte text.
type Diagnostic struct {
	Line     int
	Col      int
	EndLine  int
	EndCol   int
	Severity Severity
	Source   string
	Message  string
	// Range is a protocol-shaped range kept alongside editor coordinates,
	// preferred over recomputing one when Original is absent.
	Range    *protocol.Range
	Original *protocol.Diagnostic
}

// FromProtocol converts a wire diagnostic, retaining it verbatim in Original.
func FromProtocol(pd protocol.Diagnostic) Diagnostic {
	orig := pd
	rng := pd.Range
	return Diagnostic{
		Range:    &rng,
		Line:     pd.Range.Start.Line,
		Col:      pd.Range.Start.Character,
		EndLine:  pd.Range.End.Line,
		EndCol:   pd.Range.End.Character,
		Severity: Severity(pd.Severity),
		Source:   pd.Source,
		Message:  pd.Message,
		Original: &orig,
	}
}
