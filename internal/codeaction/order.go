package codeaction

import "sort"

// dedupeByProviderTitle drops later duplicates of the same (provider id,
// title) pair. Document-wide fix lists use this; quickfix lists do not,
// because distinct diagnostics legitimately produce identically-titled but
// differently-scoped fixes.
func dedupeByProviderTitle(items []ActionItem) []ActionItem {
	type key struct {
		provider string
		title    string
	}
	seen := make(map[key]bool, len(items))
	out := make([]ActionItem, 0, len(items))
	for _, item := range items {
		k := key{provider: item.ProviderID, title: item.Action.Title}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}

// sortPreferredFirst orders items deterministically: preferred actions
// before all others, then ascending by title.
func sortPreferredFirst(items []ActionItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := items[i].Action, items[j].Action
		if ai.IsPreferred != aj.IsPreferred {
			return ai.IsPreferred
		}
		return ai.Title < aj.Title
	})
}
