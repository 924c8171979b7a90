// Package codeaction batches and applies the remediation actions language
// servers offer for a document: whole-document source.fixAll actions,
// point-diagnostic quickfixes, and an interactive picker over the latter.
package codeaction

import (
	"context"
	"time"

	"remedy/internal/diagnostics"
	"remedy/internal/observ"
	"remedy/internal/protocol"
)

// Provider is one attached language server, seen through the narrow surface
// the engine needs: identity, capability probe, declared position encoding,
// and the request primitive.
type Provider interface {
	ID() string
	Name() string
	Supports(method string) bool
	OffsetEncoding() protocol.PositionEncoding
	Call(ctx context.Context, method string, params, result any) error
}

// Registry hands out the providers attached to the current document.
// Lookup re-checks a provider by id; a provider can detach between the
// query that produced an action and the executor reaching it.
type Registry interface {
	Providers() []Provider
	Lookup(id string) (Provider, bool)
}

// DiagnosticSource returns the current diagnostic snapshot for a document.
// The engine samples it once per query phase, never incrementally.
type DiagnosticSource interface {
	Snapshot(uri string) []diagnostics.Diagnostic
}

// Document is the buffer surface the engine addresses ranges against.
type Document interface {
	URI() string
	FullRange() protocol.Range
	PositionFor(line, col int, enc protocol.PositionEncoding) protocol.Position
}

// EditApplier mutates document state with a workspace edit, interpreting
// positions in the originating provider's encoding.
type EditApplier interface {
	ApplyEdit(edit *protocol.WorkspaceEdit, enc protocol.PositionEncoding) error
}

// Selector presents labeled lines and returns the indices the user chose
// (zero to many).
type Selector interface {
	Pick(title string, lines []string) ([]int, error)
}

// Notifier is the user-facing message sink. Nothing in this package is a
// fatal error; every failure degrades to fewer actions applied plus one of
// these.
type Notifier interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ActionItem pairs a provider identity with one action it offered, plus the
// range the query was scoped to (kept for picker display).
type ActionItem struct {
	ProviderID   string
	ProviderName string
	Action       protocol.CodeAction
	Range        protocol.Range
}

const (
	// DefaultFanoutGrace caps how long a document-wide fix query waits for
	// straggling providers.
	DefaultFanoutGrace = 100 * time.Millisecond
	// DefaultSettleDelay gives providers time to re-publish diagnostics
	// after the fixAll pass before quickfixes are sampled.
	DefaultSettleDelay = 200 * time.Millisecond
)

// Engine orchestrates code-action queries and application for one document.
type Engine struct {
	Registry Registry
	Diags    DiagnosticSource
	Doc      Document
	Edits    EditApplier
	Notify   Notifier
	Select   Selector

	// Timer is optional; when set, query and apply phases are recorded.
	Timer *observ.Timer

	FanoutGrace time.Duration
	SettleDelay time.Duration
}

func (e *Engine) fanoutGrace() time.Duration {
	if e.FanoutGrace > 0 {
		return e.FanoutGrace
	}
	return DefaultFanoutGrace
}

func (e *Engine) settle() {
	if e.SettleDelay > 0 {
		time.Sleep(e.SettleDelay)
	}
}

func (e *Engine) phase(name string) func() {
	if e.Timer == nil {
		return func() {}
	}
	idx := e.Timer.Begin(name)
	return func() { e.Timer.End(idx, "") }
}
