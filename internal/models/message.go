package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/reactions"
)

// Message is one channel message. Author identity is denormalized at write
// time because users live in the external identity provider, not in our
// database. ThreadID is nil for top-level messages; replies always point at a
// top-level message in the same channel (enforced on write, trusted on read).
type Message struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index:idx_channel_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Content  string  `gorm:"type:text;not null" json:"content"`
	ImageURL *string `json:"image_url"`

	AuthorID     string `gorm:"index;not null" json:"author_id"`
	AuthorName   string `json:"author_name"`
	AuthorEmail  string `gorm:"not null" json:"author_email"`
	AuthorAvatar string `json:"author_avatar"`

	ChannelID string  `gorm:"type:uuid;index:idx_channel_created,priority:1;not null" json:"channel_id"`
	ThreadID  *string `gorm:"type:uuid;index" json:"thread_id"`

	Replies   []Message         `gorm:"foreignKey:ThreadID" json:"-"`
	Reactions []MessageReaction `gorm:"foreignKey:MessageID" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MessageReaction is one raw (message, user, emoji) row. The unique index is
// what makes the toggle endpoint's insert-or-delete race-free.
type MessageReaction struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MessageID  string `gorm:"type:uuid;uniqueIndex:idx_message_user_emoji;index;not null" json:"message_id"`
	UserID     string `gorm:"uniqueIndex:idx_message_user_emoji;not null" json:"user_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserAvatar string `json:"user_avatar"`
	Emoji      string `gorm:"uniqueIndex:idx_message_user_emoji;not null" json:"emoji"`
}

func (r *MessageReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// MessageListItem is the wire shape for feed endpoints: the message plus its
// reply count and reactions grouped for the requesting viewer. The client
// feed store holds these directly.
type MessageListItem struct {
	ID           string              `json:"id"`
	Content      string              `json:"content"`
	ImageURL     *string             `json:"image_url"`
	AuthorID     string              `json:"author_id"`
	AuthorName   string              `json:"author_name"`
	AuthorEmail  string              `json:"author_email"`
	AuthorAvatar string              `json:"author_avatar"`
	ChannelID    string              `json:"channel_id"`
	ThreadID     *string             `json:"thread_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	RepliesCount int                 `json:"replies_count"`
	Reactions    []reactions.Grouped `json:"reactions"`
}

// ToListItem shapes a message for the given viewer. Reactions must be
// preloaded; RepliesCount is passed in because it comes from a counting
// query, not a preload.
func (m *Message) ToListItem(viewerID string, repliesCount int) MessageListItem {
	rows := make([]reactions.Row, len(m.Reactions))
	for i, r := range m.Reactions {
		rows[i] = reactions.Row{Emoji: r.Emoji, UserID: r.UserID}
	}

	return MessageListItem{
		ID:           m.ID,
		Content:      m.Content,
		ImageURL:     m.ImageURL,
		AuthorID:     m.AuthorID,
		AuthorName:   m.AuthorName,
		AuthorEmail:  m.AuthorEmail,
		AuthorAvatar: m.AuthorAvatar,
		ChannelID:    m.ChannelID,
		ThreadID:     m.ThreadID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		RepliesCount: repliesCount,
		Reactions:    reactions.Group(viewerID, rows),
	}
}
