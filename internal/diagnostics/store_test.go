package diagnostics

import (
	"testing"

	"remedy/internal/protocol"
)

func wireDiag(line, col int, severity int, msg string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: severity,
		Message:  msg,
	}
}

func TestStorePublishAndSnapshotSorted(t *testing.T) {
	s := NewStore()
	uri := "file:///tmp/main.go"
	s.Publish(uri, "gopls", []protocol.Diagnostic{
		wireDiag(5, 0, 2, "shadowed variable"),
		wireDiag(1, 4, 1, "undefined: foo"),
	})
	s.Publish(uri, "staticcheck", []protocol.Diagnostic{
		wireDiag(1, 4, 2, "unused value"),
		wireDiag(1, 2, 3, "naming"),
	})

	got := s.Snapshot(uri)
	if len(got) != 4 {
		t.Fatalf("expected 4 diagnostics, got %d", len(got))
	}
	wantOrder := []string{"naming", "undefined: foo", "unused value", "shadowed variable"}
	for i, msg := range wantOrder {
		if got[i].Message != msg {
			t.Fatalf("position %d: expected %q, got %q", i, msg, got[i].Message)
		}
	}
}

func TestStorePublishReplacesPerProvider(t *testing.T) {
	s := NewStore()
	uri := "file:///tmp/main.go"
	s.Publish(uri, "gopls", []protocol.Diagnostic{wireDiag(1, 0, 1, "first")})
	s.Publish(uri, "staticcheck", []protocol.Diagnostic{wireDiag(2, 0, 2, "kept")})
	s.Publish(uri, "gopls", []protocol.Diagnostic{wireDiag(3, 0, 1, "second")})

	got := s.Snapshot(uri)
	if len(got) != 2 {
		t.Fatalf("expected 2 diagnostics after replacement, got %d", len(got))
	}
	for _, d := range got {
		if d.Message == "first" {
			t.Fatalf("stale diagnostic survived a re-publish")
		}
	}
}

func TestStorePublishEmptyClearsProvider(t *testing.T) {
	s := NewStore()
	uri := "file:///tmp/main.go"
	s.Publish(uri, "gopls", []protocol.Diagnostic{wireDiag(1, 0, 1, "issue")})
	s.Publish(uri, "gopls", nil)

	if got := s.Snapshot(uri); len(got) != 0 {
		t.Fatalf("expected empty snapshot after empty publish, got %d", len(got))
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	uri := "file:///tmp/main.go"
	s.Publish(uri, "gopls", []protocol.Diagnostic{wireDiag(1, 0, 1, "issue")})

	snap := s.Snapshot(uri)
	snap[0].Message = "mutated"
	if got := s.Snapshot(uri); got[0].Message != "issue" {
		t.Fatalf("snapshot aliased the store")
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	uri := "file:///tmp/main.go"
	other := "file:///tmp/other.go"
	s.Publish(uri, "gopls", []protocol.Diagnostic{wireDiag(1, 0, 1, "a")})
	s.Publish(other, "gopls", []protocol.Diagnostic{wireDiag(1, 0, 1, "b")})

	s.Clear(uri)
	if got := s.Snapshot(uri); len(got) != 0 {
		t.Fatalf("expected cleared document to be empty, got %d", len(got))
	}
	if got := s.Snapshot(other); len(got) != 1 {
		t.Fatalf("clear leaked into another document")
	}
}

func TestPublishFillsMissingSource(t *testing.T) {
	s := NewStore()
	uri := "file:///tmp/main.go"
	named := wireDiag(1, 0, 1, "named")
	named.Source = "vet"
	s.Publish(uri, "gopls-1", []protocol.Diagnostic{named, wireDiag(2, 0, 1, "anon")})

	got := s.Snapshot(uri)
	if got[0].Source != "vet" {
		t.Fatalf("explicit source overwritten: %q", got[0].Source)
	}
	if got[1].Source != "gopls-1" {
		t.Fatalf("missing source not filled with provider id: %q", got[1].Source)
	}
}

func TestFromProtocolKeepsOriginalVerbatim(t *testing.T) {
	pd := wireDiag(2, 5, 2, "line too long")
	pd.Range.End = protocol.Position{Line: 2, Character: 10}
	d := FromProtocol(pd)

	if d.Line != 2 || d.Col != 5 || d.EndLine != 2 || d.EndCol != 10 {
		t.Fatalf("editor coordinates wrong: %+v", d)
	}
	if d.Original == nil || d.Original.Range != pd.Range {
		t.Fatalf("original diagnostic not retained verbatim")
	}
	if d.Range == nil || *d.Range != pd.Range {
		t.Fatalf("protocol range not retained")
	}
	if d.Severity != SevWarning {
		t.Fatalf("severity not mapped: %v", d.Severity)
	}
}
