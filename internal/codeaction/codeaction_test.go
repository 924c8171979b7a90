package codeaction

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"remedy/internal/diagnostics"
	"remedy/internal/protocol"
)

// recordedCall is one request a fake provider saw, with params re-encoded
// to JSON so tests can assert on wire shape.
type recordedCall struct {
	Method string
	Params json.RawMessage
}

type fakeProvider struct {
	id       string
	name     string
	encoding protocol.PositionEncoding
	supports map[string]bool

	// actionsFor answers codeAction requests; falls back to actions.
	actionsFor func(params protocol.CodeActionParams) []protocol.CodeAction
	actions    []protocol.CodeAction
	resolveTo  *protocol.CodeAction
	callErr    error
	delay      time.Duration

	mu    sync.Mutex
	calls []recordedCall
}

func newFakeProvider(id string) *fakeProvider {
	return &fakeProvider{
		id:       id,
		name:     id,
		encoding: protocol.EncodingUTF16,
		supports: map[string]bool{
			protocol.MethodCodeAction:     true,
			protocol.MethodExecuteCommand: true,
		},
	}
}

func (p *fakeProvider) ID() string                                { return p.id }
func (p *fakeProvider) Name() string                              { return p.name }
func (p *fakeProvider) OffsetEncoding() protocol.PositionEncoding { return p.encoding }

func (p *fakeProvider) Supports(method string) bool {
	return p.supports[method]
}

func (p *fakeProvider) recorded(method string) []recordedCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedCall
	for _, c := range p.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (p *fakeProvider) Call(ctx context.Context, method string, params, result any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.calls = append(p.calls, recordedCall{Method: method, Params: raw})
	p.mu.Unlock()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.callErr != nil {
		return p.callErr
	}

	switch method {
	case protocol.MethodCodeAction:
		var decoded protocol.CodeActionParams
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		reply := p.actions
		if p.actionsFor != nil {
			reply = p.actionsFor(decoded)
		}
		return reencode(reply, result)
	case protocol.MethodCodeActionResolve:
		if p.resolveTo != nil {
			return reencode(*p.resolveTo, result)
		}
		return reencode(params, result)
	case protocol.MethodExecuteCommand:
		return nil
	}
	return nil
}

func reencode(from, to any) error {
	if to == nil {
		return nil
	}
	raw, err := json.Marshal(from)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, to)
}

type fakeRegistry struct {
	providers []Provider
	gone      map[string]bool
}

func (r *fakeRegistry) Providers() []Provider {
	return r.providers
}

func (r *fakeRegistry) Lookup(id string) (Provider, bool) {
	if r.gone[id] {
		return nil, false
	}
	for _, p := range r.providers {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

type fakeDiags struct {
	diags []diagnostics.Diagnostic
}

func (d *fakeDiags) Snapshot(uri string) []diagnostics.Diagnostic {
	return append([]diagnostics.Diagnostic(nil), d.diags...)
}

// fakeDoc reports editor byte columns unchanged as protocol characters.
type fakeDoc struct {
	uri  string
	full protocol.Range
}

func (d *fakeDoc) URI() string { return d.uri }

func (d *fakeDoc) FullRange() protocol.Range { return d.full }

func (d *fakeDoc) PositionFor(line, col int, enc protocol.PositionEncoding) protocol.Position {
	return protocol.Position{Line: line, Character: col}
}

type appliedEdit struct {
	edit *protocol.WorkspaceEdit
	enc  protocol.PositionEncoding
}

type fakeApplier struct {
	mu      sync.Mutex
	applied []appliedEdit
	delay   time.Duration
	onApply func()
	err     error
}

func (a *fakeApplier) ApplyEdit(edit *protocol.WorkspaceEdit, enc protocol.PositionEncoding) error {
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.onApply != nil {
		a.onApply()
	}
	if a.err != nil {
		return a.err
	}
	a.mu.Lock()
	a.applied = append(a.applied, appliedEdit{edit: edit, enc: enc})
	a.mu.Unlock()
	return nil
}

func (a *fakeApplier) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.applied)
}

type fakeNotifier struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

func (n *fakeNotifier) Infof(format string, args ...any) {
	n.mu.Lock()
	n.infos = append(n.infos, fmt.Sprintf(format, args...))
	n.mu.Unlock()
}

func (n *fakeNotifier) Warnf(format string, args ...any) {
	n.mu.Lock()
	n.warns = append(n.warns, fmt.Sprintf(format, args...))
	n.mu.Unlock()
}

func (n *fakeNotifier) Errorf(format string, args ...any) {
	n.mu.Lock()
	n.errors = append(n.errors, fmt.Sprintf(format, args...))
	n.mu.Unlock()
}

type fakeSelector struct {
	picks  []int
	err    error
	called bool
	lines  []string
}

func (s *fakeSelector) Pick(title string, lines []string) ([]int, error) {
	s.called = true
	s.lines = lines
	return s.picks, s.err
}

func newTestEngine(providers ...Provider) (*Engine, *fakeRegistry, *fakeApplier, *fakeNotifier) {
	reg := &fakeRegistry{providers: providers, gone: map[string]bool{}}
	applier := &fakeApplier{}
	notify := &fakeNotifier{}
	e := &Engine{
		Registry:    reg,
		Diags:       &fakeDiags{},
		Doc:         &fakeDoc{uri: "file:///tmp/main.go", full: fullRange()},
		Edits:       applier,
		Notify:      notify,
		FanoutGrace: 50 * time.Millisecond,
	}
	return e, reg, applier, notify
}

func fullRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 9, Character: 17},
	}
}

func editAction(title, kind string) protocol.CodeAction {
	return protocol.CodeAction{
		Title: title,
		Kind:  kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				"file:///tmp/main.go": {{NewText: title}},
			},
		},
	}
}
