package codeaction

import (
	"context"
	"fmt"
)

// Browse runs the point-fix query without applying anything, hands the
// formatted results to the selector, and applies exactly the chosen subset.
// Each empty stage reports and stops before any selection UI opens.
func (e *Engine) Browse(ctx context.Context) {
	if len(e.Registry.Providers()) == 0 {
		e.Notify.Warnf("no language servers attached to %s", e.Doc.URI())
		return
	}
	diags := e.Diags.Snapshot(e.Doc.URI())
	if len(diags) == 0 {
		e.Notify.Infof("no diagnostics for %s", e.Doc.URI())
		return
	}

	stop := e.phase("quickfix query")
	items := e.pointFixes(ctx, diags)
	stop()

	if len(items) == 0 {
		e.Notify.Infof("no quickfix actions available")
		return
	}
	sortPreferredFirst(items)

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = FormatItem(item)
	}
	chosen, err := e.Select.Pick("Quickfix actions", lines)
	if err != nil {
		e.Notify.Errorf("selection failed: %v", err)
		return
	}
	if len(chosen) == 0 {
		e.Notify.Infof("no action selected")
		return
	}

	subset := make([]ActionItem, 0, len(chosen))
	for _, idx := range chosen {
		if idx < 0 || idx >= len(items) {
			continue
		}
		subset = append(subset, items[idx])
	}

	stop = e.phase("apply selection")
	applied := e.applySequential(ctx, subset)
	stop()
	e.Notify.Infof("%d action(s) applied.", applied)
}

// FormatItem renders one picker line: provider, title, and the 1-based
// start of the range the action was queried at.
func FormatItem(item ActionItem) string {
	return fmt.Sprintf("[%s] %s @%d:%d",
		item.ProviderName,
		item.Action.Title,
		item.Range.Start.Line+1,
		item.Range.Start.Character+1,
	)
}
