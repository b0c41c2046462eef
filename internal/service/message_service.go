package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/reactions"
	"github.com/Sakilalakmal/nexus-app/internal/repository"
	"github.com/Sakilalakmal/nexus-app/internal/validation"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 100
)

type MessageService struct {
	messageRepo  repository.MessageRepositoryInterface
	channelRepo  repository.ChannelRepositoryInterface
	reactionRepo repository.ReactionRepositoryInterface
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	channelRepo repository.ChannelRepositoryInterface,
	reactionRepo repository.ReactionRepositoryInterface,
) *MessageService {
	return &MessageService{
		messageRepo:  messageRepo,
		channelRepo:  channelRepo,
		reactionRepo: reactionRepo,
	}
}

type SendMessageInput struct {
	ChannelID string  `json:"channel_id"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"image_url"`
	ThreadID  *string `json:"thread_id"`
}

// SendMessage persists a new message. The channel must belong to the
// caller's workspace; a thread id must reference a top-level message in the
// same channel. This is the only place the one-level threading invariant is
// enforced — read paths trust it.
func (s *MessageService) SendMessage(workspaceID string, author models.Author, input SendMessageInput) (*models.MessageListItem, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" && input.ImageURL == nil {
		return nil, ErrEmptyMessage
	}
	if len(input.Content) > validation.MaxMessageLength() {
		return nil, ErrTooLong
	}

	if _, err := s.channelRepo.FindInWorkspace(input.ChannelID, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	if input.ThreadID != nil {
		parent, err := s.messageRepo.FindInWorkspace(*input.ThreadID, workspaceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidThread
			}
			return nil, err
		}
		if parent.ChannelID != input.ChannelID || parent.ThreadID != nil {
			return nil, ErrInvalidThread
		}
	}

	message := &models.Message{
		Content:      input.Content,
		ImageURL:     input.ImageURL,
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorEmail:  author.Email,
		AuthorAvatar: author.Avatar,
		ChannelID:    input.ChannelID,
		ThreadID:     input.ThreadID,
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	item := message.ToListItem(author.ID, 0)
	return &item, nil
}

// ListMessages returns one newest-first page of a channel's top-level
// messages. The limit defaults to 30 and is clamped to [1,100]. The next
// cursor is present iff the page came back full; an exact-multiple remainder
// therefore costs one extra empty fetch, which callers tolerate.
func (s *MessageService) ListMessages(workspaceID, viewerID, channelID, cursor string, limit int) ([]models.MessageListItem, string, error) {
	if _, err := s.channelRepo.FindInWorkspace(channelID, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrForbidden
		}
		return nil, "", err
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	page, err := s.messageRepo.ListChannelPage(channelID, cursor, limit)
	if err != nil {
		if cursor != "" && errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCursor
		}
		return nil, "", err
	}

	ids := make([]string, len(page))
	for i, m := range page {
		ids[i] = m.ID
	}
	counts, err := s.messageRepo.CountReplies(ids)
	if err != nil {
		return nil, "", err
	}

	items := make([]models.MessageListItem, len(page))
	for i := range page {
		items[i] = page[i].ToListItem(viewerID, counts[page[i].ID])
	}

	nextCursor := ""
	if len(page) == limit {
		nextCursor = page[len(page)-1].ID
	}
	return items, nextCursor, nil
}

type UpdateMessageInput struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

// UpdateMessage edits a message's content. Only the author may edit.
func (s *MessageService) UpdateMessage(workspaceID, editorID string, input UpdateMessageInput) (*models.MessageListItem, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, ErrEmptyMessage
	}
	if len(input.Content) > validation.MaxMessageLength() {
		return nil, ErrTooLong
	}

	message, err := s.messageRepo.FindInWorkspace(input.MessageID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if message.AuthorID != editorID {
		return nil, ErrForbidden
	}

	updated, err := s.messageRepo.UpdateContent(input.MessageID, input.Content)
	if err != nil {
		return nil, err
	}

	counts, err := s.messageRepo.CountReplies([]string{updated.ID})
	if err != nil {
		return nil, err
	}

	item := updated.ToListItem(editorID, counts[updated.ID])
	return &item, nil
}

// ToggleReaction flips the actor's (message, emoji) reaction row and returns
// the grouped reactions recomputed from the surviving raw rows.
func (s *MessageService) ToggleReaction(workspaceID string, actor models.Author, messageID, emoji string) ([]reactions.Grouped, error) {
	emoji = strings.TrimSpace(emoji)
	if !validation.ValidateEmoji(emoji) {
		return nil, ErrInvalidEmoji
	}

	if _, err := s.messageRepo.FindInWorkspace(messageID, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := s.reactionRepo.Toggle(&models.MessageReaction{
		MessageID:  messageID,
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserEmail:  actor.Email,
		UserAvatar: actor.Avatar,
		Emoji:      emoji,
	})
	if err != nil {
		return nil, err
	}

	raw := make([]reactions.Row, len(rows))
	for i, r := range rows {
		raw[i] = reactions.Row{Emoji: r.Emoji, UserID: r.UserID}
	}
	return reactions.Group(actor.ID, raw), nil
}

// GetMessage fetches a single message shaped for the viewer. An empty viewer
// id yields neutral reaction groups (reacted_by_user always false), which is
// what broadcast payloads use.
func (s *MessageService) GetMessage(workspaceID, viewerID, messageID string) (*models.MessageListItem, error) {
	message, err := s.messageRepo.FindInWorkspace(messageID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	counts, err := s.messageRepo.CountReplies([]string{message.ID})
	if err != nil {
		return nil, err
	}

	item := message.ToListItem(viewerID, counts[message.ID])
	return &item, nil
}

// ListThread returns a thread's parent and its replies in ascending
// (created_at, id) order, both shaped for the viewer.
func (s *MessageService) ListThread(workspaceID, viewerID, messageID string) (*models.MessageListItem, []models.MessageListItem, error) {
	parentRow, err := s.messageRepo.FindInWorkspace(messageID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	replyRows, err := s.messageRepo.ListThread(messageID)
	if err != nil {
		return nil, nil, err
	}

	parent := parentRow.ToListItem(viewerID, len(replyRows))

	replies := make([]models.MessageListItem, len(replyRows))
	for i := range replyRows {
		// Replies are one level deep, so their own reply count is zero.
		replies[i] = replyRows[i].ToListItem(viewerID, 0)
	}
	return &parent, replies, nil
}
