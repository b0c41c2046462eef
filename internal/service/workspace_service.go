package service

import (
	"crypto/md5"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/repository"
	"github.com/Sakilalakmal/nexus-app/internal/validation"
)

type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepositoryInterface
}

func NewWorkspaceService(workspaceRepo repository.WorkspaceRepositoryInterface) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// CreateWorkspace creates a workspace and enrolls the creator as its admin.
func (s *WorkspaceService) CreateWorkspace(creator models.Author, name string) (*models.Workspace, error) {
	name = validation.TrimAndLimit(name, 0)
	if !validation.ValidateWorkspaceName(name) {
		return nil, ErrInvalidName
	}

	workspace := &models.Workspace{
		Name:      name,
		CreatorID: creator.ID,
	}
	if err := s.workspaceRepo.Create(workspace); err != nil {
		return nil, err
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      creator.ID,
		Name:        creator.Name,
		Email:       creator.Email,
		Avatar:      creator.Avatar,
		Role:        models.RoleAdmin,
	}
	if err := s.workspaceRepo.AddMember(member); err != nil {
		// The workspace row exists but has no admin; surface the error so
		// the caller retries rather than leaving it half-created silently.
		log.Printf("Failed to add creator %s to workspace %s: %v", creator.ID, workspace.ID, err)
		return nil, err
	}

	return workspace, nil
}

// ListWorkspaces returns the workspaces the user belongs to, shaped for the
// sidebar switcher.
func (s *WorkspaceService) ListWorkspaces(userID string) ([]models.WorkspaceResponse, error) {
	workspaces, err := s.workspaceRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		responses[i] = workspaces[i].ToResponse()
	}
	return responses, nil
}

// GetWorkspace fetches a single workspace the user is a member of.
func (s *WorkspaceService) GetWorkspace(workspaceID, userID string) (*models.Workspace, error) {
	isMember, err := s.workspaceRepo.IsMember(workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return workspace, nil
}

type InviteMemberInput struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// InviteMember adds a user to the workspace as a regular member. Only admins
// may invite. Missing avatars get a gravatar fallback so the member list
// always renders something.
func (s *WorkspaceService) InviteMember(workspaceID, inviterID string, input InviteMemberInput) (*models.WorkspaceMember, error) {
	inviter, err := s.workspaceRepo.FindMember(workspaceID, inviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if inviter.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	email := validation.NormalizeEmail(input.Email)
	if !validation.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	name := validation.TrimAndLimit(input.Name, 0)
	if !validation.ValidateMemberName(name) {
		return nil, ErrInvalidName
	}

	already, err := s.workspaceRepo.IsMember(workspaceID, input.UserID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyMember
	}

	avatar := input.Avatar
	if avatar == "" {
		avatar = gravatarURL(email)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      input.UserID,
		Name:        name,
		Email:       email,
		Avatar:      avatar,
		Role:        models.RoleMember,
	}
	if err := s.workspaceRepo.AddMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers returns a workspace's members ordered by name, each flagged
// with whether they currently hold a live connection.
func (s *WorkspaceService) ListMembers(workspaceID, userID string, online map[string]struct{}) ([]models.WorkspaceMember, error) {
	isMember, err := s.workspaceRepo.IsMember(workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		_, members[i].Online = online[members[i].UserID]
	}
	return members, nil
}

// RemoveMember removes a user from a workspace. Admins can remove anyone but
// themselves; members can only leave.
func (s *WorkspaceService) RemoveMember(workspaceID, actorID, targetID string) error {
	actor, err := s.workspaceRepo.FindMember(workspaceID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}

	if actorID != targetID {
		if actor.Role != models.RoleAdmin {
			return ErrForbidden
		}
	} else if actor.Role == models.RoleAdmin {
		// The last admin leaving would orphan the workspace.
		return ErrForbidden
	}

	if _, err := s.workspaceRepo.FindMember(workspaceID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.workspaceRepo.RemoveMember(workspaceID, targetID)
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}
