package repository

import (
	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id string) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Reactions").First(&message, "id = ?", id).Error
	return &message, err
}

// FindInWorkspace resolves a message only if its channel belongs to the given
// workspace. Cross-workspace ids come back as record-not-found.
func (r *MessageRepository) FindInWorkspace(id, workspaceID string) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Reactions").
		Joins("JOIN channels ON channels.id = messages.channel_id").
		Where("messages.id = ? AND channels.workspace_id = ?", id, workspaceID).
		First(&message).Error
	return &message, err
}

// ListChannelPage returns one page of top-level channel messages,
// newest-first ordered by (created_at, id) descending. A non-empty cursor
// names the last message of the previous page; the keyset comparison
// excludes the cursor row itself.
func (r *MessageRepository) ListChannelPage(channelID, cursor string, limit int) ([]models.Message, error) {
	q := r.db.Preload("Reactions").
		Where("channel_id = ? AND thread_id IS NULL", channelID)

	if cursor != "" {
		var pivot models.Message
		if err := r.db.Select("id", "created_at").First(&pivot, "id = ?", cursor).Error; err != nil {
			return nil, err
		}
		q = q.Where("(created_at, id) < (?, ?)", pivot.CreatedAt, pivot.ID)
	}

	var messages []models.Message
	err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// ListThread returns all replies of a thread in ascending (created_at, id)
// order. Threads are one level deep, so no recursion is needed.
func (r *MessageRepository) ListThread(threadID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Reactions").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// CountReplies returns reply counts for a batch of message ids in one query.
// Ids with no replies are absent from the map.
func (r *MessageRepository) CountReplies(messageIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(messageIDs))
	if len(messageIDs) == 0 {
		return counts, nil
	}

	type replyCount struct {
		ThreadID string
		Total    int
	}

	var rows []replyCount
	err := r.db.Model(&models.Message{}).
		Select("thread_id, COUNT(*) AS total").
		Where("thread_id IN ?", messageIDs).
		Group("thread_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ThreadID] = row.Total
	}
	return counts, nil
}

func (r *MessageRepository) UpdateContent(id, content string) (*models.Message, error) {
	err := r.db.Model(&models.Message{}).
		Where("id = ?", id).
		Update("content", content).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}
