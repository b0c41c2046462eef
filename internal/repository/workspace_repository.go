package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) Create(workspace *models.Workspace) error {
	return r.db.Create(workspace).Error
}

func (r *WorkspaceRepository) FindByID(id string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.First(&workspace, "id = ?", id).Error
	return &workspace, err
}

func (r *WorkspaceRepository) ListForUser(userID string) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	return workspaces, err
}

func (r *WorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

func (r *WorkspaceRepository) RemoveMember(workspaceID, userID string) error {
	return r.db.
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&models.WorkspaceMember{}).Error
}

func (r *WorkspaceRepository) IsMember(workspaceID, userID string) (bool, error) {
	var member models.WorkspaceMember
	err := r.db.
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *WorkspaceRepository) FindMember(workspaceID, userID string) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	err := r.db.
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	return &member, err
}

func (r *WorkspaceRepository) ListMembers(workspaceID string) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	err := r.db.
		Where("workspace_id = ?", workspaceID).
		Order("name ASC").
		Find(&members).Error
	return members, err
}
