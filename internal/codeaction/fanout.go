package codeaction

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"remedy/internal/protocol"
)

// request is one outstanding codeAction call: a provider plus the params it
// gets. Point-fix queries produce one per provider×diagnostic pair.
type request struct {
	provider Provider
	params   protocol.CodeActionParams
}

// batch accumulates fan-out results. Replies land on separate goroutines,
// so the list is locked; once closed, straggler replies are dropped instead
// of mutating a list the caller already owns.
type batch struct {
	mu     sync.Mutex
	items  []ActionItem
	closed bool
}

func (b *batch) add(items []ActionItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.items = append(b.items, items...)
}

func (b *batch) take() []ActionItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return b.items
}

// collect issues every request concurrently and gathers the replies that
// pass keep. A provider request error means that provider contributes
// nothing; it never fails the batch. When grace is positive the batch stops
// waiting after that long and returns whatever has arrived — in-flight
// requests are not cancelled, their late replies are simply discarded.
func (e *Engine) collect(ctx context.Context, reqs []request, grace time.Duration, keep func(protocol.CodeAction) bool) []ActionItem {
	if len(reqs) == 0 {
		return nil
	}
	b := &batch{}
	var g errgroup.Group
	for _, req := range reqs {
		g.Go(func() error {
			var actions []protocol.CodeAction
			if err := req.provider.Call(ctx, protocol.MethodCodeAction, req.params, &actions); err != nil {
				return nil
			}
			matched := make([]ActionItem, 0, len(actions))
			for _, act := range actions {
				if act.Disabled != nil || !keep(act) {
					continue
				}
				matched = append(matched, ActionItem{
					ProviderID:   req.provider.ID(),
					ProviderName: req.provider.Name(),
					Action:       act,
					Range:        req.params.Range,
				})
			}
			b.add(matched)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	if grace > 0 {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-done:
		case <-timer.C:
		}
	} else {
		<-done
	}
	return b.take()
}
