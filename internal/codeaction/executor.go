package codeaction

import "context"

// applySequential resolves and applies items strictly one at a time and
// returns how many actually took effect. Item i+1 never starts before item
// i's full resolve+apply chain has returned: edits are positional, and an
// earlier edit can invalidate the coordinates a later action was computed
// against. Items whose provider has detached are skipped without counting.
func (e *Engine) applySequential(ctx context.Context, items []ActionItem) int {
	count := 0
	for _, item := range items {
		p, ok := e.Registry.Lookup(item.ProviderID)
		if !ok {
			continue
		}
		action := e.resolve(ctx, p, item.Action)
		applied, err := e.apply(ctx, p, action)
		if err != nil {
			e.Notify.Errorf("%v", err)
			continue
		}
		if applied {
			count++
		}
	}
	return count
}
