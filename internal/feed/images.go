package feed

import "sync"

// ImageCoordinator tracks which messages still have images loading in one
// mounted feed view. The pending set is a superset of loading: it also holds
// images queued but not yet started. State dies with the view; nothing is
// persisted.
type ImageCoordinator struct {
	mu      sync.Mutex
	loading map[string]struct{}
	pending map[string]struct{}

	// onSettled fires when the loading set becomes empty.
	onSettled func()
}

func NewImageCoordinator() *ImageCoordinator {
	return &ImageCoordinator{
		loading: make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}
}

// SetOnSettled registers a callback invoked whenever the last loading image
// finishes. The auto-scroller uses it to release a deferred scroll.
func (ic *ImageCoordinator) SetOnSettled(fn func()) {
	ic.mu.Lock()
	ic.onSettled = fn
	ic.mu.Unlock()
}

// RegisterQueued marks a message's image as queued but not yet started.
func (ic *ImageCoordinator) RegisterQueued(id string) {
	ic.mu.Lock()
	ic.pending[id] = struct{}{}
	ic.mu.Unlock()
}

// RegisterStart marks a message's image as actively loading.
func (ic *ImageCoordinator) RegisterStart(id string) {
	ic.mu.Lock()
	ic.loading[id] = struct{}{}
	ic.pending[id] = struct{}{}
	ic.mu.Unlock()
}

// RegisterComplete marks a message's image as done loading.
func (ic *ImageCoordinator) RegisterComplete(id string) {
	ic.finish(id)
}

// RegisterError marks a failed image load. Treated exactly like completion:
// a broken image must not stall auto-scroll.
func (ic *ImageCoordinator) RegisterError(id string) {
	ic.finish(id)
}

func (ic *ImageCoordinator) finish(id string) {
	ic.mu.Lock()
	delete(ic.loading, id)
	delete(ic.pending, id)
	settled := len(ic.loading) == 0
	fn := ic.onSettled
	ic.mu.Unlock()

	if settled && fn != nil {
		fn()
	}
}

// IsAnyLoading reports whether any image is still loading.
func (ic *ImageCoordinator) IsAnyLoading() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return len(ic.loading) > 0
}

// HasLoadingImages reports whether any of the given message ids has an image
// still loading.
func (ic *ImageCoordinator) HasLoadingImages(ids []string) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for _, id := range ids {
		if _, ok := ic.loading[id]; ok {
			return true
		}
	}
	return false
}

// Reset clears all tracked state, for when the view it serves remounts.
func (ic *ImageCoordinator) Reset() {
	ic.mu.Lock()
	ic.loading = make(map[string]struct{})
	ic.pending = make(map[string]struct{})
	ic.mu.Unlock()
}
