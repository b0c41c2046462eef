package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/repository"
	"github.com/Sakilalakmal/nexus-app/internal/validation"
)

type ChannelService struct {
	channelRepo repository.ChannelRepositoryInterface
}

func NewChannelService(channelRepo repository.ChannelRepositoryInterface) *ChannelService {
	return &ChannelService{channelRepo: channelRepo}
}

// CreateChannel slugifies the requested name and creates the channel.
// Names are unique per workspace after normalization, so "My Channel" and
// "my-channel" collide.
func (s *ChannelService) CreateChannel(workspaceID, creatorID, name string) (*models.Channel, error) {
	slug := validation.NormalizeChannelName(name)
	if !validation.ValidateChannelName(slug) {
		return nil, ErrInvalidName
	}

	if _, err := s.channelRepo.FindByName(workspaceID, slug); err == nil {
		return nil, ErrChannelExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	channel := &models.Channel{
		WorkspaceID: workspaceID,
		Name:        slug,
		CreatorID:   creatorID,
	}
	if err := s.channelRepo.Create(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// ListChannels returns a workspace's channels in creation order.
func (s *ChannelService) ListChannels(workspaceID string) ([]models.Channel, error) {
	return s.channelRepo.ListByWorkspace(workspaceID)
}

// GetChannel fetches a channel scoped to the workspace.
func (s *ChannelService) GetChannel(channelID, workspaceID string) (*models.Channel, error) {
	channel, err := s.channelRepo.FindInWorkspace(channelID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return channel, nil
}
