package feed

import "sync"

// Position is the tracker's view of where the user is in the feed.
type Position int

const (
	// PositionUnknown holds until the first layout produces measurements.
	PositionUnknown Position = iota
	PositionAtBottom
	PositionNotAtBottom
)

const (
	// BottomThresholdPx: within this distance of the bottom still counts as
	// "at bottom".
	BottomThresholdPx = 50.0
	// TopThresholdPx: within this distance of the top triggers backward
	// pagination.
	TopThresholdPx = 80.0
)

// ContentChange classifies what a last-id change means.
type ContentChange int

const (
	ContentUnchanged ContentChange = iota
	// ContentInitial is the first content this tracker has seen.
	ContentInitial
	// ContentNewMessage means the feed tail changed after initial load.
	ContentNewMessage
)

// Tracker watches viewport measurements for one feed view and decides
// between auto-scroll and the "new messages" indicator, plus when to pull
// the next older page.
type Tracker struct {
	mu sync.Mutex

	state            Position
	didInitialScroll bool
	lastSeenID       string
	showIndicator    bool
}

func NewTracker() *Tracker {
	return &Tracker{state: PositionUnknown}
}

// Observe feeds a scroll event's measurements into the tracker and returns
// the resulting position.
func (t *Tracker) Observe(scrollOffset, viewportHeight, contentHeight float64) Position {
	t.mu.Lock()
	defer t.mu.Unlock()

	if scrollOffset+viewportHeight >= contentHeight-BottomThresholdPx {
		t.state = PositionAtBottom
		t.showIndicator = false
	} else {
		t.state = PositionNotAtBottom
	}
	return t.state
}

// Position returns the current state.
func (t *Tracker) Position() Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// AtBottom reports whether the user is at (or within threshold of) the
// bottom.
func (t *Tracker) AtBottom() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == PositionAtBottom
}

// TakeInitialScroll returns true exactly once, on the first call after
// content exists. The caller force-scrolls to the bottom and the state
// becomes atBottom.
func (t *Tracker) TakeInitialScroll() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.didInitialScroll {
		return false
	}
	t.didInitialScroll = true
	t.state = PositionAtBottom
	return true
}

// ShouldLoadOlder decides whether a scroll position warrants fetching the
// next older page: near the top, more data available, and nothing already in
// flight.
func (t *Tracker) ShouldLoadOlder(scrollOffset float64, hasMore, fetchInFlight bool) bool {
	return scrollOffset <= TopThresholdPx && hasMore && !fetchInFlight
}

// PreserveOffset returns the scroll offset that keeps the visual position
// unchanged after older content of height delta was prepended.
func (t *Tracker) PreserveOffset(currentOffset, oldContentHeight, newContentHeight float64) float64 {
	return currentOffset + (newContentHeight - oldContentHeight)
}

// ObserveLastID compares the feed's current last id against the previously
// seen one and classifies the change. A change while at bottom should
// auto-scroll; a change while scrolled up raises the indicator.
func (t *Tracker) ObserveLastID(lastID string) ContentChange {
	t.mu.Lock()
	defer t.mu.Unlock()

	if lastID == "" || lastID == t.lastSeenID {
		return ContentUnchanged
	}

	// The first id ever observed counts as initial load even when it is a
	// message arriving into an empty feed: that view starts pinned to the
	// bottom, so neither auto-scroll nor the indicator is needed.
	first := t.lastSeenID == ""
	t.lastSeenID = lastID
	if first {
		return ContentInitial
	}

	if t.state != PositionAtBottom {
		t.showIndicator = true
	}
	return ContentNewMessage
}

// IndicatorVisible reports whether the "new messages" indicator should show.
func (t *Tracker) IndicatorVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.showIndicator
}

// ClearIndicator hides the indicator, e.g. after the user clicks it.
func (t *Tracker) ClearIndicator() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.showIndicator = false
}
