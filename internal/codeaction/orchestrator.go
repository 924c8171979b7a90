package codeaction

import "context"

// FixAll is the two-phase apply-all driver: run the whole-document fix
// query and apply everything it yields, give providers a moment to
// re-publish diagnostics, then sweep the remaining issues with the
// quickfix query and apply those too.
func (e *Engine) FixAll(ctx context.Context) {
	if len(e.Registry.Providers()) == 0 {
		e.Notify.Warnf("no language servers attached to %s", e.Doc.URI())
		return
	}

	stop := e.phase("fixall query")
	fixes := e.documentFixes(ctx)
	stop()

	if len(fixes) == 0 {
		quick := e.quickfixSweep(ctx)
		if quick < 0 {
			e.Notify.Infof("no fixes available")
			return
		}
		e.Notify.Infof("%d quickfix(es) applied.", quick)
		return
	}

	fixes = dedupeByProviderTitle(fixes)
	sortPreferredFirst(fixes)

	stop = e.phase("fixall apply")
	applied := e.applySequential(ctx, fixes)
	stop()

	e.settle()

	quick := e.quickfixSweep(ctx)
	if quick < 0 {
		e.Notify.Infof("%d fixAll action(s); no quickfixes left.", applied)
		return
	}
	e.Notify.Infof("%d fixAll action(s); %d quickfix(es) applied.", applied, quick)
}

// quickfixSweep samples diagnostics, runs the point-fix query, and applies
// every result in deterministic order. It returns -1 when nothing was found
// so callers can phrase the outcome. The list is intentionally not
// deduplicated (see dedupeByProviderTitle).
func (e *Engine) quickfixSweep(ctx context.Context) int {
	diags := e.Diags.Snapshot(e.Doc.URI())
	if len(diags) == 0 {
		return -1
	}

	stop := e.phase("quickfix query")
	items := e.pointFixes(ctx, diags)
	stop()

	if len(items) == 0 {
		return -1
	}
	sortPreferredFirst(items)

	stop = e.phase("quickfix apply")
	applied := e.applySequential(ctx, items)
	stop()
	return applied
}
