package codeaction

import (
	"context"
	"encoding/json"
	"fmt"

	"remedy/internal/protocol"
)

// apply performs a fully-specified action: the inline edit first, then the
// command, each optional but always in that order. It returns whether the
// action had any effect. The method returns exactly once regardless of
// which branches ran; the sequential executor chains on that.
func (e *Engine) apply(ctx context.Context, p Provider, action protocol.CodeAction) (bool, error) {
	applied := false
	if action.Edit != nil {
		if err := e.Edits.ApplyEdit(action.Edit, p.OffsetEncoding()); err != nil {
			return false, fmt.Errorf("apply edit for %q: %w", action.Title, err)
		}
		applied = true
	}
	if cmd, ok := action.Command.Resolve(); ok {
		params := protocol.ExecuteCommandParams{
			Command:   cmd.Command,
			Arguments: cmd.Arguments,
		}
		if params.Arguments == nil {
			params.Arguments = []json.RawMessage{}
		}
		if err := p.Call(ctx, protocol.MethodExecuteCommand, params, nil); err != nil {
			return applied, fmt.Errorf("execute %q: %w", cmd.Command, err)
		}
		applied = true
	}
	return applied, nil
}
