package feed

import (
	"sync"

	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/reactions"
)

// Store holds the pages of one feed scope. Pages are kept oldest-first, each
// page's items ascending by (created_at, id), so flattening the pages in
// order yields strict display order. The server returns pages newest-first;
// the store reverses them on the way in.
//
// A Store is owned by the view showing it. Methods are safe for concurrent
// use anyway because mutations and timer callbacks may touch it from
// different goroutines.
type Store struct {
	mu         sync.Mutex
	parent     *models.MessageListItem
	pages      [][]models.MessageListItem
	nextCursor string
	loaded     bool
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot is a deep copy of the store's content, held for rollback.
type Snapshot struct {
	parent     *models.MessageListItem
	pages      [][]models.MessageListItem
	nextCursor string
	loaded     bool
}

func reverseItems(items []models.MessageListItem) []models.MessageListItem {
	out := make([]models.MessageListItem, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

// ApplyFirstPage resets the store to the newest page. Items arrive
// newest-first and are reversed to ascending order.
func (s *Store) ApplyFirstPage(page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = [][]models.MessageListItem{reverseItems(page.Items)}
	s.nextCursor = page.NextCursor
	s.loaded = true
}

// ApplyOlderPage prepends an older page. Items already present by id are
// replaced in place instead of inserted again, so a page overlapping a
// concurrent refetch cannot introduce duplicates.
func (s *Store) ApplyOlderPage(page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ascending := reverseItems(page.Items)
	fresh := ascending[:0]
	for _, item := range ascending {
		if s.replaceLocked(item.ID, item) {
			continue
		}
		fresh = append(fresh, item)
	}

	pages := make([][]models.MessageListItem, 0, len(s.pages)+1)
	pages = append(pages, fresh)
	pages = append(pages, s.pages...)
	s.pages = pages
	s.nextCursor = page.NextCursor
}

// ApplyThread resets a thread store: the parent plus replies already in
// ascending order. Thread feeds are small and unpaginated.
func (s *Store) ApplyThread(parent models.MessageListItem, replies []models.MessageListItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := parent
	s.parent = &p
	items := make([]models.MessageListItem, len(replies))
	copy(items, replies)
	s.pages = [][]models.MessageListItem{items}
	s.nextCursor = ""
	s.loaded = true
}

// Append adds a message at the feed tail (the newest position). If the id is
// already present the existing entry is replaced in place.
func (s *Store) Append(item models.MessageListItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replaceLocked(item.ID, item) {
		return
	}
	if len(s.pages) == 0 {
		s.pages = [][]models.MessageListItem{{item}}
		s.loaded = true
		return
	}
	last := len(s.pages) - 1
	s.pages[last] = append(s.pages[last], item)
}

// ReplaceByID swaps the entry with the given id for the replacement,
// preserving its position. Returns false if the id is not in the feed.
func (s *Store) ReplaceByID(id string, replacement models.MessageListItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(id, replacement)
}

func (s *Store) replaceLocked(id string, replacement models.MessageListItem) bool {
	found := false
	if s.parent != nil && s.parent.ID == id {
		p := replacement
		s.parent = &p
		found = true
	}
	for pi := range s.pages {
		for i := range s.pages[pi] {
			if s.pages[pi][i].ID == id {
				s.pages[pi][i] = replacement
				found = true
			}
		}
	}
	return found
}

// RemoveByID deletes the entry with the given id. Returns false if absent.
func (s *Store) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pi := range s.pages {
		for i := range s.pages[pi] {
			if s.pages[pi][i].ID == id {
				s.pages[pi] = append(s.pages[pi][:i], s.pages[pi][i+1:]...)
				return true
			}
		}
	}
	return false
}

// SetReactions replaces the grouped reactions of every occurrence of the
// message in this store (list entry and thread parent alike).
func (s *Store) SetReactions(id string, groups []reactions.Grouped) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	if s.parent != nil && s.parent.ID == id {
		s.parent.Reactions = groups
		found = true
	}
	for pi := range s.pages {
		for i := range s.pages[pi] {
			if s.pages[pi][i].ID == id {
				s.pages[pi][i].Reactions = groups
				found = true
			}
		}
	}
	return found
}

// Get returns a copy of the entry with the given id.
func (s *Store) Get(id string) (models.MessageListItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.parent != nil && s.parent.ID == id {
		return *s.parent, true
	}
	for pi := range s.pages {
		for i := range s.pages[pi] {
			if s.pages[pi][i].ID == id {
				return s.pages[pi][i], true
			}
		}
	}
	return models.MessageListItem{}, false
}

// Messages returns the flattened feed in display order (ascending).
func (s *Store) Messages() []models.MessageListItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, page := range s.pages {
		total += len(page)
	}
	out := make([]models.MessageListItem, 0, total)
	for _, page := range s.pages {
		out = append(out, page...)
	}
	return out
}

// Parent returns the thread parent, if this is a thread store.
func (s *Store) Parent() (models.MessageListItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parent == nil {
		return models.MessageListItem{}, false
	}
	return *s.parent, true
}

// LastID returns the id of the newest entry, or empty for an empty feed.
func (s *Store) LastID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pi := len(s.pages) - 1; pi >= 0; pi-- {
		if n := len(s.pages[pi]); n > 0 {
			return s.pages[pi][n-1].ID
		}
	}
	return ""
}

// Len returns the number of entries across all pages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, page := range s.pages {
		total += len(page)
	}
	return total
}

// NextCursor returns the continuation cursor for the next older page and
// whether more data is believed to exist.
func (s *Store) NextCursor() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCursor, s.nextCursor != ""
}

// Loaded reports whether the first page has arrived.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Snapshot deep-copies the store state for rollback.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{nextCursor: s.nextCursor, loaded: s.loaded}
	if s.parent != nil {
		p := *s.parent
		snap.parent = &p
	}
	snap.pages = make([][]models.MessageListItem, len(s.pages))
	for i, page := range s.pages {
		snap.pages[i] = make([]models.MessageListItem, len(page))
		copy(snap.pages[i], page)
	}
	return snap
}

// Restore puts the store back to a previously taken snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCursor = snap.nextCursor
	s.loaded = snap.loaded
	s.parent = nil
	if snap.parent != nil {
		p := *snap.parent
		s.parent = &p
	}
	s.pages = make([][]models.MessageListItem, len(snap.pages))
	for i, page := range snap.pages {
		s.pages[i] = make([]models.MessageListItem, len(page))
		copy(s.pages[i], page)
	}
}
