package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

func TestLoadInitialChannel(t *testing.T) {
	api := &fakeAPI{
		listMessagesFn: func(ctx context.Context, channelID, cursor string, limit int) (Page, error) {
			if cursor != "" {
				t.Errorf("Expected empty cursor for initial load, got %q", cursor)
			}
			return Page{Items: newestFirst(msg("a", 1), msg("b", 2)), NextCursor: "a"}, nil
		},
	}
	co, cache := newTestCoordinator(api)
	scope := ChannelScope("chan-1")

	if err := co.LoadInitial(context.Background(), scope); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	store := cache.Store(scope)
	assertOrder(t, store, "a", "b")
	if !store.Loaded() {
		t.Error("Expected store marked loaded")
	}
}

func TestLoadInitialThread(t *testing.T) {
	api := &fakeAPI{
		listThreadFn: func(ctx context.Context, threadID string) (models.MessageListItem, []models.MessageListItem, error) {
			return msg("root", 0), []models.MessageListItem{msg("r1", 1)}, nil
		},
	}
	co, cache := newTestCoordinator(api)
	scope := ThreadScope("chan-1", "root")

	if err := co.LoadInitial(context.Background(), scope); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	store := cache.Store(scope)
	parent, ok := store.Parent()
	if !ok || parent.ID != "root" {
		t.Errorf("Expected parent root, got %v", parent.ID)
	}
	assertOrder(t, store, "r1")
}

func TestLoadInitialFailureLeavesStoreUnchanged(t *testing.T) {
	api := &fakeAPI{
		listMessagesFn: func(ctx context.Context, channelID, cursor string, limit int) (Page, error) {
			return Page{}, errors.New("boom")
		},
	}
	co, cache := newTestCoordinator(api)
	scope := ChannelScope("chan-1")

	store := cache.Store(scope)
	store.ApplyFirstPage(Page{Items: newestFirst(msg("old", 1))})

	if err := co.LoadInitial(context.Background(), scope); err == nil {
		t.Fatal("Expected error")
	}
	assertOrder(t, store, "old")
}

func TestLoadOlderPrependsAndUpdatesCursor(t *testing.T) {
	api := &fakeAPI{
		listMessagesFn: func(ctx context.Context, channelID, cursor string, limit int) (Page, error) {
			if cursor != "c" {
				t.Errorf("Expected cursor c, got %q", cursor)
			}
			return Page{Items: newestFirst(msg("a", 1), msg("b", 2))}, nil
		},
	}
	co, cache := newTestCoordinator(api)
	scope := ChannelScope("chan-1")
	store := cache.Store(scope)
	store.ApplyFirstPage(Page{Items: newestFirst(msg("c", 3), msg("d", 4)), NextCursor: "c"})

	if err := co.LoadOlder(context.Background(), scope); err != nil {
		t.Fatalf("LoadOlder failed: %v", err)
	}
	assertOrder(t, store, "a", "b", "c", "d")
	if _, more := store.NextCursor(); more {
		t.Error("Expected cursor cleared after short page")
	}
}

func TestLoadOlderWithoutCursor(t *testing.T) {
	api := &fakeAPI{}
	co, cache := newTestCoordinator(api)
	scope := ChannelScope("chan-1")
	cache.Store(scope).ApplyFirstPage(Page{Items: newestFirst(msg("a", 1))})

	if err := co.LoadOlder(context.Background(), scope); !errors.Is(err, ErrNoMorePages) {
		t.Errorf("Expected ErrNoMorePages, got %v", err)
	}
}

// Exact page-size boundary: a full page sets the cursor, the follow-up fetch
// comes back empty and clears it. The extra round trip is the accepted cost
// of the "full page means more data" heuristic.
func TestLoadOlderExactMultipleBoundary(t *testing.T) {
	api := &fakeAPI{
		listMessagesFn: func(ctx context.Context, channelID, cursor string, limit int) (Page, error) {
			return Page{}, nil
		},
	}
	co, cache := newTestCoordinator(api)
	scope := ChannelScope("chan-1")
	store := cache.Store(scope)
	store.ApplyFirstPage(Page{Items: newestFirst(msg("a", 1), msg("b", 2)), NextCursor: "a"})

	if err := co.LoadOlder(context.Background(), scope); err != nil {
		t.Fatalf("LoadOlder failed: %v", err)
	}
	assertOrder(t, store, "a", "b")
	if _, more := store.NextCursor(); more {
		t.Error("Expected no more pages after empty fetch")
	}
}

func TestLoadOlderFailureKeepsCursorRetryable(t *testing.T) {
	api := &fakeAPI{
		listMessagesFn: func(ctx context.Context, channelID, cursor string, limit int) (Page, error) {
			return Page{}, errors.New("boom")
		},
	}
	co, cache := newTestCoordinator(api)
	scope := ChannelScope("chan-1")
	store := cache.Store(scope)
	store.ApplyFirstPage(Page{Items: newestFirst(msg("c", 3)), NextCursor: "c"})

	if err := co.LoadOlder(context.Background(), scope); err == nil {
		t.Fatal("Expected error")
	}
	assertOrder(t, store, "c")
	cursor, more := store.NextCursor()
	if !more || cursor != "c" {
		t.Errorf("Expected cursor c retained, got %q (more=%v)", cursor, more)
	}
}
