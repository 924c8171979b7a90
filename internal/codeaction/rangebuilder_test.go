package codeaction

import (
	"encoding/json"
	"testing"

	"remedy/internal/diagnostics"
	"remedy/internal/protocol"
)

func rangeAt(sl, sc, el, ec int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestDiagnosticRangePrefersEmbeddedOriginal(t *testing.T) {
	e, _, _, _ := newTestEngine()
	orig := protocol.Diagnostic{
		Range:   rangeAt(2, 5, 2, 10),
		Message: "unreachable code",
	}
	d := diagnostics.Diagnostic{
		// Editor coordinates that disagree with the provider's range;
		// the embedded range must still win verbatim.
		Line: 2, Col: 7, EndLine: 2, EndCol: 12,
		Range:    &protocol.Range{Start: protocol.Position{Line: 9, Character: 9}},
		Original: &orig,
	}

	got := e.diagnosticRange(d, protocol.EncodingUTF16)
	if got != orig.Range {
		t.Fatalf("expected embedded range %+v, got %+v", orig.Range, got)
	}
}

func TestDiagnosticRangeUsesProtocolRangeWhenNoOriginal(t *testing.T) {
	e, _, _, _ := newTestEngine()
	r := rangeAt(3, 1, 3, 4)
	d := diagnostics.Diagnostic{Line: 3, Col: 2, EndLine: -1, EndCol: -1, Range: &r}

	if got := e.diagnosticRange(d, protocol.EncodingUTF16); got != r {
		t.Fatalf("expected stored range %+v, got %+v", r, got)
	}
}

func TestDiagnosticRangeSynthesizesMissingEnd(t *testing.T) {
	e, _, _, _ := newTestEngine()
	d := diagnostics.Diagnostic{Line: 5, Col: 8, EndLine: -1, EndCol: -1}

	got := e.diagnosticRange(d, protocol.EncodingUTF8)
	want := rangeAt(5, 8, 5, 9)
	if got != want {
		t.Fatalf("expected synthesized range %+v, got %+v", want, got)
	}
}

func TestDiagnosticRangeKeepsExplicitEnd(t *testing.T) {
	e, _, _, _ := newTestEngine()
	d := diagnostics.Diagnostic{Line: 5, Col: 8, EndLine: 6, EndCol: 0}

	got := e.diagnosticRange(d, protocol.EncodingUTF8)
	want := rangeAt(5, 8, 6, 0)
	if got != want {
		t.Fatalf("expected range %+v, got %+v", want, got)
	}
}

func TestContextDiagnosticForwardsOriginalVerbatim(t *testing.T) {
	e, _, _, _ := newTestEngine()
	orig := protocol.Diagnostic{
		Range:    rangeAt(2, 5, 2, 10),
		Severity: 2,
		Code:     json.RawMessage(`"E501"`),
		Source:   "pylint",
		Message:  "line too long",
	}
	d := diagnostics.Diagnostic{Line: 2, Col: 5, Original: &orig}

	got := e.contextDiagnostic(d, protocol.EncodingUTF16)
	if string(got.Code) != `"E501"` || got.Source != "pylint" || got.Range != orig.Range {
		t.Fatalf("expected original diagnostic forwarded verbatim, got %+v", got)
	}
}

func TestContextDiagnosticRebuiltFromEditorFields(t *testing.T) {
	e, _, _, _ := newTestEngine()
	d := diagnostics.Diagnostic{
		Line: 1, Col: 0, EndLine: -1, EndCol: -1,
		Severity: diagnostics.SevWarning,
		Source:   "vet",
		Message:  "shadowed variable",
	}

	got := e.contextDiagnostic(d, protocol.EncodingUTF8)
	if got.Source != "vet" || got.Message != "shadowed variable" {
		t.Fatalf("rebuilt diagnostic lost fields: %+v", got)
	}
	if got.Range != rangeAt(1, 0, 1, 1) {
		t.Fatalf("rebuilt diagnostic has wrong range: %+v", got.Range)
	}
}
