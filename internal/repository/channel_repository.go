package repository

import (
	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Create(channel *models.Channel) error {
	return r.db.Create(channel).Error
}

func (r *ChannelRepository) FindByID(id string) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.First(&channel, "id = ?", id).Error
	return &channel, err
}

// FindInWorkspace looks the channel up scoped to a workspace, so a channel id
// from another workspace behaves exactly like a missing one.
func (r *ChannelRepository) FindInWorkspace(id, workspaceID string) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&channel).Error
	return &channel, err
}

func (r *ChannelRepository) FindByName(workspaceID, name string) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.
		Where("workspace_id = ? AND name = ?", workspaceID, name).
		First(&channel).Error
	return &channel, err
}

func (r *ChannelRepository) ListByWorkspace(workspaceID string) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&channels).Error
	return channels, err
}
