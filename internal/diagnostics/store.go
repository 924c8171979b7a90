package diagnostics

import (
	"sort"
	"sync"

	"remedy/internal/protocol"
)

// Store keeps the latest published diagnostics per document URI. Servers
// replace a document's whole set on every publish, so Publish overwrites the
// previous slice for that (uri, source) pair.
type Store struct {
	mu    sync.Mutex
	byURI map[string]map[string][]Diagnostic
}

func NewStore() *Store {
	return &Store{byURI: make(map[string]map[string][]Diagnostic)}
}

// Publish records the diagnostics a provider reported for uri, replacing
// whatever that provider reported before.
func (s *Store) Publish(uri, providerID string, diags []protocol.Diagnostic) {
	converted := make([]Diagnostic, 0, len(diags))
	for _, pd := range diags {
		d := FromProtocol(pd)
		if d.Source == "" {
			d.Source = providerID
		}
		converted = append(converted, d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	perSource := s.byURI[uri]
	if perSource == nil {
		perSource = make(map[string][]Diagnostic)
		s.byURI[uri] = perSource
	}
	perSource[providerID] = converted
}

// Snapshot returns a sorted copy of every diagnostic currently known for
// uri. Callers own the returned slice.
func (s *Store) Snapshot(uri string) []Diagnostic {
	s.mu.Lock()
	var out []Diagnostic
	for _, diags := range s.byURI[uri] {
		out = append(out, diags...)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i], out[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Col != dj.Col {
			return di.Col < dj.Col
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Message < dj.Message
	})
	return out
}

// Clear drops everything known for uri.
func (s *Store) Clear(uri string) {
	s.mu.Lock()
	delete(s.byURI, uri)
	s.mu.Unlock()
}
