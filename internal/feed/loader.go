package feed

import (
	"context"
	"errors"
)

// ErrNoMorePages is returned by LoadOlder when the feed has no continuation
// cursor.
var ErrNoMorePages = errors.New("no more pages")

// LoadInitial fetches a scope's first page (channel) or full view (thread)
// and resets the store. A failed fetch leaves the store unchanged.
func (co *Coordinator) LoadInitial(ctx context.Context, scope Scope) error {
	fetchCtx, done := co.cache.BeginFetch(ctx, scope)
	defer done()

	store := co.cache.Store(scope)

	if scope.IsThread() {
		parent, replies, err := co.api.ListThread(fetchCtx, scope.ThreadID)
		if err != nil {
			return err
		}
		store.ApplyThread(parent, replies)
		return nil
	}

	page, err := co.api.ListMessages(fetchCtx, scope.ChannelID, "", 0)
	if err != nil {
		return err
	}
	store.ApplyFirstPage(page)
	return nil
}

// LoadOlder fetches the next older page for a channel scope and prepends it.
// The page-size heuristic means the final fetch can come back empty; that
// simply clears the cursor. A failed fetch leaves the store unchanged and
// the cursor retryable.
func (co *Coordinator) LoadOlder(ctx context.Context, scope Scope) error {
	if scope.IsThread() {
		return ErrNoMorePages
	}

	store := co.cache.Store(scope)
	cursor, ok := store.NextCursor()
	if !ok {
		return ErrNoMorePages
	}

	fetchCtx, done := co.cache.BeginFetch(ctx, scope)
	defer done()

	page, err := co.api.ListMessages(fetchCtx, scope.ChannelID, cursor, 0)
	if err != nil {
		return err
	}
	store.ApplyOlderPage(page)
	return nil
}
