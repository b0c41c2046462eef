package cache

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

// TTL constants for different cache types
const (
	// FirstPageTTL mirrors the web client's staleTime for the feed query.
	FirstPageTTL = 30 * time.Second
	ThreadTTL    = 30 * time.Second
)

// MessageCache caches shaped feed pages. Only the cursorless first page of a
// channel is cached; cursor pages are cheap keyset reads and are always hit
// fresh. Grouped reactions depend on the viewer, so keys include the viewer
// id.
type MessageCache struct {
	redis *RedisCache
}

// NewMessageCache creates a new message cache
func NewMessageCache(redis *RedisCache) *MessageCache {
	return &MessageCache{redis: redis}
}

func firstPageKey(channelID, viewerID string) string {
	return fmt.Sprintf("chanpage:%s:%s", channelID, viewerID)
}

func threadKey(threadID, viewerID string) string {
	return fmt.Sprintf("thread:%s:%s", threadID, viewerID)
}

type cachedPage struct {
	Items      []models.MessageListItem `msgpack:"items"`
	NextCursor string                   `msgpack:"next_cursor"`
}

type cachedThread struct {
	Parent   models.MessageListItem   `msgpack:"parent"`
	Messages []models.MessageListItem `msgpack:"messages"`
}

// GetFirstPage retrieves the cached first page of a channel feed
func (mc *MessageCache) GetFirstPage(channelID, viewerID string) ([]models.MessageListItem, string, bool) {
	if mc == nil || mc.redis == nil {
		return nil, "", false
	}
	data, err := mc.redis.Get(firstPageKey(channelID, viewerID))
	if err != nil || data == nil {
		return nil, "", false
	}

	var page cachedPage
	if err := msgpack.Unmarshal(data, &page); err != nil {
		return nil, "", false
	}
	return page.Items, page.NextCursor, true
}

// SetFirstPage caches the first page of a channel feed
func (mc *MessageCache) SetFirstPage(channelID, viewerID string, items []models.MessageListItem, nextCursor string) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(cachedPage{Items: items, NextCursor: nextCursor})
	if err != nil {
		return err
	}
	return mc.redis.Set(firstPageKey(channelID, viewerID), data, FirstPageTTL)
}

// InvalidateChannel drops every viewer's cached first page for a channel
func (mc *MessageCache) InvalidateChannel(channelID string) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.DeletePattern(fmt.Sprintf("chanpage:%s:*", channelID))
}

// GetThread retrieves a cached thread view
func (mc *MessageCache) GetThread(threadID, viewerID string) (models.MessageListItem, []models.MessageListItem, bool) {
	if mc == nil || mc.redis == nil {
		return models.MessageListItem{}, nil, false
	}
	data, err := mc.redis.Get(threadKey(threadID, viewerID))
	if err != nil || data == nil {
		return models.MessageListItem{}, nil, false
	}

	var thread cachedThread
	if err := msgpack.Unmarshal(data, &thread); err != nil {
		return models.MessageListItem{}, nil, false
	}
	return thread.Parent, thread.Messages, true
}

// SetThread caches a thread view
func (mc *MessageCache) SetThread(threadID, viewerID string, parent models.MessageListItem, messages []models.MessageListItem) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(cachedThread{Parent: parent, Messages: messages})
	if err != nil {
		return err
	}
	return mc.redis.Set(threadKey(threadID, viewerID), data, ThreadTTL)
}

// InvalidateThread drops every viewer's cached view of a thread
func (mc *MessageCache) InvalidateThread(threadID string) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.DeletePattern(fmt.Sprintf("thread:%s:*", threadID))
}
