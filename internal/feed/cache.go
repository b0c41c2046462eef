package feed

import (
	"context"
	"sync"
)

type fetchToken struct {
	cancel context.CancelFunc
}

// Cache owns one Store per scope plus the in-flight fetch bookkeeping used
// to cancel a scope's fetch before an optimistic write stages into it.
type Cache struct {
	mu       sync.Mutex
	stores   map[string]*Store
	inflight map[string]*fetchToken
}

func NewCache() *Cache {
	return &Cache{
		stores:   make(map[string]*Store),
		inflight: make(map[string]*fetchToken),
	}
}

// Store returns the scope's store, creating it on first use.
func (c *Cache) Store(scope Scope) *Store {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := scope.Key()
	store, ok := c.stores[key]
	if !ok {
		store = NewStore()
		c.stores[key] = store
	}
	return store
}

// BeginFetch registers a fetch for the scope, cancelling any fetch already
// in flight there. The returned context is cancelled if another fetch or an
// optimistic write supersedes this one; done must be called when the fetch
// finishes.
func (c *Cache) BeginFetch(ctx context.Context, scope Scope) (context.Context, func()) {
	fetchCtx, cancel := context.WithCancel(ctx)
	token := &fetchToken{cancel: cancel}

	c.mu.Lock()
	key := scope.Key()
	if prev, ok := c.inflight[key]; ok {
		prev.cancel()
	}
	c.inflight[key] = token
	c.mu.Unlock()

	done := func() {
		c.mu.Lock()
		// Only clear the slot if this fetch is still the registered one.
		if c.inflight[key] == token {
			delete(c.inflight, key)
		}
		c.mu.Unlock()
		cancel()
	}
	return fetchCtx, done
}

// CancelFetch cancels any in-flight fetch for the scope. Called before an
// optimistic write so a racing refetch cannot land on top of the staged
// entry.
func (c *Cache) CancelFetch(scope Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := scope.Key()
	if token, ok := c.inflight[key]; ok {
		token.cancel()
		delete(c.inflight, key)
	}
}

// FetchInFlight reports whether a fetch is currently registered for the
// scope. The scroll tracker uses it to avoid stacking pagination requests.
func (c *Cache) FetchInFlight(scope Scope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[scope.Key()]
	return ok
}

// Drop discards a scope's store and cancels its fetch. Called when the view
// owning the scope goes away.
func (c *Cache) Drop(scope Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := scope.Key()
	if token, ok := c.inflight[key]; ok {
		token.cancel()
		delete(c.inflight, key)
	}
	delete(c.stores, key)
}
