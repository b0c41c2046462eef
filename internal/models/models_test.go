package models

import (
	"testing"
	"time"
)

func TestMessageToListItem(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	threadID := "parent-1"
	imageURL := "https://cdn.example.com/a.jpg"

	message := &Message{
		ID:           "msg-1",
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
		Content:      "Hello, world!",
		ImageURL:     &imageURL,
		AuthorID:     "user-1",
		AuthorName:   "Ada",
		AuthorEmail:  "ada@example.com",
		AuthorAvatar: "https://example.com/ada.png",
		ChannelID:    "chan-1",
		ThreadID:     &threadID,
		Reactions: []MessageReaction{
			{MessageID: "msg-1", UserID: "user-1", Emoji: "👍"},
			{MessageID: "msg-1", UserID: "user-2", Emoji: "👍"},
			{MessageID: "msg-1", UserID: "user-2", Emoji: "🎉"},
		},
	}

	item := message.ToListItem("user-1", 4)

	if item.ID != message.ID {
		t.Errorf("ToListItem ID = %q, want %q", item.ID, message.ID)
	}
	if item.Content != message.Content {
		t.Errorf("ToListItem Content = %q, want %q", item.Content, message.Content)
	}
	if item.ImageURL == nil || *item.ImageURL != imageURL {
		t.Error("ToListItem dropped image URL")
	}
	if item.AuthorID != message.AuthorID || item.AuthorName != message.AuthorName {
		t.Error("ToListItem dropped author identity")
	}
	if item.ChannelID != message.ChannelID {
		t.Errorf("ToListItem ChannelID = %q, want %q", item.ChannelID, message.ChannelID)
	}
	if item.ThreadID == nil || *item.ThreadID != threadID {
		t.Error("ToListItem dropped thread id")
	}
	if item.RepliesCount != 4 {
		t.Errorf("ToListItem RepliesCount = %d, want 4", item.RepliesCount)
	}

	if len(item.Reactions) != 2 {
		t.Fatalf("ToListItem grouped %d reactions, want 2", len(item.Reactions))
	}
	if item.Reactions[0].Emoji != "👍" || item.Reactions[0].Count != 2 || !item.Reactions[0].ReactedByUser {
		t.Errorf("ToListItem 👍 group = %+v", item.Reactions[0])
	}
	if item.Reactions[1].Emoji != "🎉" || item.Reactions[1].Count != 1 || item.Reactions[1].ReactedByUser {
		t.Errorf("ToListItem 🎉 group = %+v", item.Reactions[1])
	}
}

func TestMessageToListItemViewerPerspective(t *testing.T) {
	message := &Message{
		ID: "msg-1",
		Reactions: []MessageReaction{
			{MessageID: "msg-1", UserID: "user-1", Emoji: "👍"},
		},
	}

	// The same rows group differently per viewer.
	if !message.ToListItem("user-1", 0).Reactions[0].ReactedByUser {
		t.Error("Expected reactor's own view to set reacted_by_user")
	}
	if message.ToListItem("user-2", 0).Reactions[0].ReactedByUser {
		t.Error("Expected other viewer's flag unset")
	}
	if message.ToListItem("", 0).Reactions[0].ReactedByUser {
		t.Error("Expected neutral viewer's flag unset")
	}
}

func TestWorkspaceToResponse(t *testing.T) {
	tests := []struct {
		name       string
		workspace  string
		wantAvatar string
	}{
		{"lowercase name", "acme", "A"},
		{"uppercase name", "Beta", "B"},
		{"non-letter name", "42crew", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Workspace{ID: "ws-1", Name: tt.workspace}
			response := w.ToResponse()
			if response.ID != w.ID || response.Name != w.Name {
				t.Errorf("ToResponse = %+v", response)
			}
			if response.Avatar != tt.wantAvatar {
				t.Errorf("ToResponse Avatar = %q, want %q", response.Avatar, tt.wantAvatar)
			}
		})
	}
}
