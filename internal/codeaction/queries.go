package codeaction

import (
	"context"

	"remedy/internal/diagnostics"
	"remedy/internal/protocol"
)

// actionProviders filters the registry to providers that can answer
// codeAction requests at all.
func (e *Engine) actionProviders() []Provider {
	var out []Provider
	for _, p := range e.Registry.Providers() {
		if p.Supports(protocol.MethodCodeAction) {
			out = append(out, p)
		}
	}
	return out
}

// documentFixes runs the whole-document fix query: one request per provider
// over the full document range, asking for and keeping only enabled
// source.fixAll actions. The grace timeout applies here because a single
// unresponsive provider must not hang the whole pass.
func (e *Engine) documentFixes(ctx context.Context) []ActionItem {
	providers := e.actionProviders()
	if len(providers) == 0 {
		return nil
	}
	fullRange := e.Doc.FullRange()
	reqs := make([]request, 0, len(providers))
	for _, p := range providers {
		reqs = append(reqs, request{
			provider: p,
			params: protocol.CodeActionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: e.Doc.URI()},
				Range:        fullRange,
				Context: protocol.CodeActionContext{
					Diagnostics: []protocol.Diagnostic{},
					Only:        []string{protocol.KindSourceFixAll},
				},
			},
		})
	}
	return e.collect(ctx, reqs, e.fanoutGrace(), func(a protocol.CodeAction) bool {
		return protocol.KindMatches(a.Kind, protocol.KindSourceFixAll)
	})
}

// pointFixes runs the per-diagnostic quickfix query, one request per
// provider×diagnostic pair, strict first and best-effort only when strict
// finds nothing. Some providers only honor an explicit `only` filter while
// others only mark relevance via isPreferred, hence the two tiers. Point
// queries complete on their own (the provider×diagnostic product is finite)
// and get no grace timeout.
func (e *Engine) pointFixes(ctx context.Context, diags []diagnostics.Diagnostic) []ActionItem {
	providers := e.actionProviders()
	if len(providers) == 0 || len(diags) == 0 {
		return nil
	}
	strict := e.collect(ctx, e.pointRequests(providers, diags, true), 0, func(a protocol.CodeAction) bool {
		return protocol.KindMatches(a.Kind, protocol.KindQuickFix)
	})
	if len(strict) > 0 {
		return strict
	}
	return e.collect(ctx, e.pointRequests(providers, diags, false), 0, func(a protocol.CodeAction) bool {
		return protocol.KindMatches(a.Kind, protocol.KindQuickFix) || a.IsPreferred
	})
}

func (e *Engine) pointRequests(providers []Provider, diags []diagnostics.Diagnostic, strict bool) []request {
	reqs := make([]request, 0, len(providers)*len(diags))
	for _, p := range providers {
		enc := p.OffsetEncoding()
		for _, d := range diags {
			params := protocol.CodeActionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: e.Doc.URI()},
				Range:        e.diagnosticRange(d, enc),
				Context: protocol.CodeActionContext{
					Diagnostics: []protocol.Diagnostic{e.contextDiagnostic(d, enc)},
				},
			}
			if strict {
				params.Context.Only = []string{protocol.KindQuickFix}
			}
			reqs = append(reqs, request{provider: p, params: params})
		}
	}
	return reqs
}
