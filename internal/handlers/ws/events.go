package ws

import (
	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/reactions"
)

// Server-to-client event types. Clients reconcile these into their feed
// stores; a missed event is recovered by refetching the feed, so events carry
// full payloads rather than deltas.
const (
	EventMessageCreated  = "message.created"
	EventMessageUpdated  = "message.updated"
	EventReactionUpdated = "reaction.updated"
)

// MessageEvent announces a created or updated message to channel
// subscribers. Reactions inside the payload are grouped for a neutral viewer
// (reacted_by_user=false); receiving clients reshape against their own id.
type MessageEvent struct {
	Type      string                 `json:"type"`
	ChannelID string                 `json:"channel_id"`
	ThreadID  *string                `json:"thread_id,omitempty"`
	Message   models.MessageListItem `json:"message"`
}

// ReactionEvent announces the new grouped reactions of a message.
type ReactionEvent struct {
	Type      string              `json:"type"`
	ChannelID string              `json:"channel_id"`
	MessageID string              `json:"message_id"`
	ThreadID  *string             `json:"thread_id,omitempty"`
	Reactions []reactions.Grouped `json:"reactions"`
}

func NewMessageCreatedEvent(item models.MessageListItem) MessageEvent {
	return MessageEvent{
		Type:      EventMessageCreated,
		ChannelID: item.ChannelID,
		ThreadID:  item.ThreadID,
		Message:   item,
	}
}

func NewMessageUpdatedEvent(item models.MessageListItem) MessageEvent {
	return MessageEvent{
		Type:      EventMessageUpdated,
		ChannelID: item.ChannelID,
		ThreadID:  item.ThreadID,
		Message:   item,
	}
}

func NewReactionUpdatedEvent(channelID, messageID string, threadID *string, groups []reactions.Grouped) ReactionEvent {
	return ReactionEvent{
		Type:      EventReactionUpdated,
		ChannelID: channelID,
		MessageID: messageID,
		ThreadID:  threadID,
		Reactions: groups,
	}
}
