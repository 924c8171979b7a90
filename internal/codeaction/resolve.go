package codeaction

import (
	"context"

	"remedy/internal/protocol"
)

// resolve fills in a lazily-specified action. Actions that already carry an
// inline edit or a structured command skip the round trip entirely. A
// resolve failure is not surfaced: the action stays unresolved and its apply
// degrades to a no-op.
func (e *Engine) resolve(ctx context.Context, p Provider, action protocol.CodeAction) protocol.CodeAction {
	if action.Resolved() {
		return action
	}
	if !p.Supports(protocol.MethodCodeActionResolve) {
		return action
	}
	var resolved protocol.CodeAction
	if err := p.Call(ctx, protocol.MethodCodeActionResolve, action, &resolved); err != nil {
		e.Notify.Warnf("resolve failed for %q via %s: %v", action.Title, p.Name(), err)
		return action
	}
	return resolved
}
