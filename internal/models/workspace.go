package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceRole string

const (
	RoleAdmin  WorkspaceRole = "admin"
	RoleMember WorkspaceRole = "member"
)

type Workspace struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `gorm:"not null" json:"name"`
	CreatorID string `gorm:"index;not null" json:"creator_id"`

	Members  []WorkspaceMember `gorm:"foreignKey:WorkspaceID" json:"-"`
	Channels []Channel         `gorm:"foreignKey:WorkspaceID" json:"-"`
}

func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// WorkspaceMember is a denormalized membership row. Identity comes from the
// external provider, so name/email/avatar are copied in at invite time.
type WorkspaceMember struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WorkspaceID string        `gorm:"type:uuid;uniqueIndex:idx_workspace_user;not null" json:"workspace_id"`
	UserID      string        `gorm:"uniqueIndex:idx_workspace_user;index;not null" json:"user_id"`
	Name        string        `json:"name"`
	Email       string        `gorm:"not null" json:"email"`
	Avatar      string        `json:"avatar"`
	Role        WorkspaceRole `gorm:"type:varchar(20);default:'member'" json:"role"`

	// Online is derived from the presence layer at read time, never stored.
	Online bool `gorm:"-" json:"online"`
}

func (m *WorkspaceMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type WorkspaceResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ToResponse shapes a workspace for listings. The avatar is the uppercased
// first letter of the name, matching what the web client renders.
func (w *Workspace) ToResponse() WorkspaceResponse {
	avatar := "W"
	for _, r := range w.Name {
		avatar = string(toUpperRune(r))
		break
	}
	return WorkspaceResponse{
		ID:     w.ID,
		Name:   w.Name,
		Avatar: avatar,
	}
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
