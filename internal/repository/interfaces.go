package repository

import (
	"github.com/Sakilalakmal/nexus-app/internal/models"
)

// WorkspaceRepositoryInterface defines the contract for workspace repository operations
type WorkspaceRepositoryInterface interface {
	Create(workspace *models.Workspace) error
	FindByID(id string) (*models.Workspace, error)
	ListForUser(userID string) ([]models.Workspace, error)
	AddMember(member *models.WorkspaceMember) error
	RemoveMember(workspaceID, userID string) error
	IsMember(workspaceID, userID string) (bool, error)
	FindMember(workspaceID, userID string) (*models.WorkspaceMember, error)
	ListMembers(workspaceID string) ([]models.WorkspaceMember, error)
}

// ChannelRepositoryInterface defines the contract for channel repository operations
type ChannelRepositoryInterface interface {
	Create(channel *models.Channel) error
	FindByID(id string) (*models.Channel, error)
	FindInWorkspace(id, workspaceID string) (*models.Channel, error)
	FindByName(workspaceID, name string) (*models.Channel, error)
	ListByWorkspace(workspaceID string) ([]models.Channel, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id string) (*models.Message, error)
	FindInWorkspace(id, workspaceID string) (*models.Message, error)
	ListChannelPage(channelID, cursor string, limit int) ([]models.Message, error)
	ListThread(threadID string) ([]models.Message, error)
	CountReplies(messageIDs []string) (map[string]int, error)
	UpdateContent(id, content string) (*models.Message, error)
}

// ReactionRepositoryInterface defines the contract for reaction repository operations
type ReactionRepositoryInterface interface {
	// Toggle inserts the (message, user, emoji) row if absent, deletes it
	// otherwise, and returns the message's raw rows after the change. The
	// whole operation runs in one transaction.
	Toggle(reaction *models.MessageReaction) ([]models.MessageReaction, error)
	ListForMessage(messageID string) ([]models.MessageReaction, error)
}
