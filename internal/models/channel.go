package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Channel struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	WorkspaceID string `gorm:"type:uuid;uniqueIndex:idx_workspace_channel_name;index;not null" json:"workspace_id"`
	Name        string `gorm:"uniqueIndex:idx_workspace_channel_name;not null" json:"name"`
	CreatorID   string `gorm:"not null" json:"creator_id"`

	Messages []Message `gorm:"foreignKey:ChannelID" json:"-"`
}

func (c *Channel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
