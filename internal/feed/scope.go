package feed

import (
	"context"

	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/reactions"
)

// Scope addresses one feed: a channel's main message list, or a single
// thread. A channel feed and a thread feed evolve independently even when
// they show the same message.
type Scope struct {
	ChannelID string
	ThreadID  string
}

func ChannelScope(channelID string) Scope {
	return Scope{ChannelID: channelID}
}

func ThreadScope(channelID, threadID string) Scope {
	return Scope{ChannelID: channelID, ThreadID: threadID}
}

func (s Scope) IsThread() bool {
	return s.ThreadID != ""
}

// Key returns the cache key for this scope.
func (s Scope) Key() string {
	if s.IsThread() {
		return "thread:" + s.ThreadID
	}
	return "channel:" + s.ChannelID
}

// Page is one server page of messages in the order the server returned them
// (newest first) plus the continuation cursor, present iff the page was full.
type Page struct {
	Items      []models.MessageListItem
	NextCursor string
}

// API is the server contract the feed layer talks to. Implementations wrap
// the HTTP endpoints; tests substitute fakes.
type API interface {
	// ListMessages fetches one newest-first page of a channel's top-level
	// messages. An empty cursor means the most recent page.
	ListMessages(ctx context.Context, channelID, cursor string, limit int) (Page, error)

	// ListThread fetches a thread's parent and replies in ascending order.
	ListThread(ctx context.Context, threadID string) (parent models.MessageListItem, replies []models.MessageListItem, err error)

	// SendMessage persists a new message and returns the confirmed entity.
	SendMessage(ctx context.Context, channelID, content string, imageURL *string, threadID *string) (models.MessageListItem, error)

	// UpdateMessage edits a message's content and returns the updated entity.
	UpdateMessage(ctx context.Context, messageID, content string) (models.MessageListItem, error)

	// ToggleReaction flips the caller's reaction and returns the recomputed
	// groups for the message.
	ToggleReaction(ctx context.Context, messageID, emoji string) ([]reactions.Grouped, error)
}
