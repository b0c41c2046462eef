package feed

import (
	"sync"
	"time"
)

const (
	// RecentWindowChannel / RecentWindowThread: how many of the newest
	// messages are inspected for still-loading images before scrolling.
	RecentWindowChannel = 5
	RecentWindowThread  = 3

	// SettleDelay lets layout finish before the scroll fires.
	SettleDelay = 100 * time.Millisecond
	// FallbackDelay bounds how long a stuck image can defer auto-scroll.
	FallbackDelay = 5000 * time.Millisecond
)

// AutoScroller defers scroll-to-bottom until recently arrived images finish
// loading, with a hard fallback so a slow image can never hold the scroll
// hostage. One instance serves one feed view.
type AutoScroller struct {
	mu sync.Mutex

	images       *ImageCoordinator
	recentWindow int
	settleDelay  time.Duration
	fallback     time.Duration
	scrollFn     func()

	pending       bool
	fallbackTimer *time.Timer
	settleTimer   *time.Timer
	closed        bool
}

// NewAutoScroller wires the scroller to an image coordinator. scrollFn
// performs the actual scroll-to-bottom; recentWindow is RecentWindowChannel
// or RecentWindowThread depending on the view.
func NewAutoScroller(images *ImageCoordinator, recentWindow int, scrollFn func()) *AutoScroller {
	as := &AutoScroller{
		images:       images,
		recentWindow: recentWindow,
		settleDelay:  SettleDelay,
		fallback:     FallbackDelay,
		scrollFn:     scrollFn,
	}
	images.SetOnSettled(as.onImagesSettled)
	return as
}

// RequestScroll is called when new content arrives while the user is at the
// bottom. recentIDs is the feed tail, oldest-first; only the newest
// recentWindow entries are checked for loading images. With nothing loading
// the scroll fires synchronously; otherwise it is deferred until images
// settle or the fallback elapses.
func (as *AutoScroller) RequestScroll(recentIDs []string) {
	window := recentIDs
	if len(window) > as.recentWindow {
		window = window[len(window)-as.recentWindow:]
	}

	as.mu.Lock()
	if as.closed {
		as.mu.Unlock()
		return
	}

	if !as.images.HasLoadingImages(window) {
		as.stopTimersLocked()
		as.pending = false
		as.mu.Unlock()
		as.scrollFn()
		return
	}

	if as.pending {
		as.mu.Unlock()
		return
	}
	as.pending = true
	as.fallbackTimer = time.AfterFunc(as.fallback, as.onFallback)
	as.mu.Unlock()
}

// Pending reports whether a deferred scroll is armed.
func (as *AutoScroller) Pending() bool {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.pending
}

// JumpToBottom is the user clicking the "new messages" indicator: any armed
// timers are cancelled and the scroll happens immediately.
func (as *AutoScroller) JumpToBottom() {
	as.mu.Lock()
	if as.closed {
		as.mu.Unlock()
		return
	}
	as.stopTimersLocked()
	as.pending = false
	as.mu.Unlock()
	as.scrollFn()
}

// Close cancels all timers. Called on view unmount so no callback mutates a
// dead view.
func (as *AutoScroller) Close() {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.stopTimersLocked()
	as.pending = false
	as.closed = true
}

func (as *AutoScroller) onImagesSettled() {
	as.mu.Lock()
	if as.closed || !as.pending || as.settleTimer != nil {
		as.mu.Unlock()
		return
	}
	as.settleTimer = time.AfterFunc(as.settleDelay, as.fire)
	as.mu.Unlock()
}

func (as *AutoScroller) onFallback() {
	as.fire()
}

func (as *AutoScroller) fire() {
	as.mu.Lock()
	if as.closed || !as.pending {
		as.mu.Unlock()
		return
	}
	as.stopTimersLocked()
	as.pending = false
	as.mu.Unlock()
	as.scrollFn()
}

func (as *AutoScroller) stopTimersLocked() {
	if as.fallbackTimer != nil {
		as.fallbackTimer.Stop()
		as.fallbackTimer = nil
	}
	if as.settleTimer != nil {
		as.settleTimer.Stop()
		as.settleTimer = nil
	}
}
