package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

// MockMessageRepository is an in-memory implementation of
// MessageRepositoryInterface for testing
type MockMessageRepository struct {
	messages map[string]*models.Message
	// channelWorkspace maps channel id -> workspace id so FindInWorkspace can
	// enforce the workspace scope the way the SQL join does.
	channelWorkspace map[string]string
	nextID           int
	clock            time.Time
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages:         make(map[string]*models.Message),
		channelWorkspace: make(map[string]string),
		nextID:           1,
		clock:            time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *MockMessageRepository) SetChannelWorkspace(channelID, workspaceID string) {
	m.channelWorkspace[channelID] = workspaceID
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", m.nextID)
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		m.clock = m.clock.Add(time.Second)
		message.CreatedAt = m.clock
		message.UpdatedAt = m.clock
	}
	stored := *message
	m.messages[message.ID] = &stored
	return nil
}

func (m *MockMessageRepository) FindByID(id string) (*models.Message, error) {
	if msg, ok := m.messages[id]; ok {
		found := *msg
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindInWorkspace(id, workspaceID string) (*models.Message, error) {
	msg, ok := m.messages[id]
	if !ok || m.channelWorkspace[msg.ChannelID] != workspaceID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *msg
	return &found, nil
}

func (m *MockMessageRepository) ListChannelPage(channelID, cursor string, limit int) ([]models.Message, error) {
	var pivot *models.Message
	if cursor != "" {
		p, ok := m.messages[cursor]
		if !ok {
			return nil, gorm.ErrRecordNotFound
		}
		pivot = p
	}

	var page []models.Message
	for _, msg := range m.messages {
		if msg.ChannelID != channelID || msg.ThreadID != nil {
			continue
		}
		if pivot != nil && !keysetBefore(msg, pivot) {
			continue
		}
		page = append(page, *msg)
	}

	sort.Slice(page, func(i, j int) bool {
		return keysetBefore(&page[j], &page[i])
	})
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

// keysetBefore reports whether a sorts strictly before b in (created_at, id)
// ascending order.
func keysetBefore(a, b *models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (m *MockMessageRepository) ListThread(threadID string) ([]models.Message, error) {
	var replies []models.Message
	for _, msg := range m.messages {
		if msg.ThreadID != nil && *msg.ThreadID == threadID {
			replies = append(replies, *msg)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return keysetBefore(&replies[i], &replies[j])
	})
	return replies, nil
}

func (m *MockMessageRepository) CountReplies(messageIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(messageIDs))
	for _, id := range messageIDs {
		for _, msg := range m.messages {
			if msg.ThreadID != nil && *msg.ThreadID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *MockMessageRepository) UpdateContent(id, content string) (*models.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	msg.Content = content
	msg.UpdatedAt = msg.UpdatedAt.Add(time.Second)
	updated := *msg
	return &updated, nil
}

// MockChannelRepository is an in-memory implementation of
// ChannelRepositoryInterface for testing
type MockChannelRepository struct {
	channels map[string]*models.Channel
	nextID   int
}

func NewMockChannelRepository() *MockChannelRepository {
	return &MockChannelRepository{
		channels: make(map[string]*models.Channel),
		nextID:   1,
	}
}

func (m *MockChannelRepository) Create(channel *models.Channel) error {
	if channel.ID == "" {
		channel.ID = fmt.Sprintf("chan-%d", m.nextID)
		m.nextID++
	}
	stored := *channel
	m.channels[channel.ID] = &stored
	return nil
}

func (m *MockChannelRepository) FindByID(id string) (*models.Channel, error) {
	if ch, ok := m.channels[id]; ok {
		found := *ch
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChannelRepository) FindInWorkspace(id, workspaceID string) (*models.Channel, error) {
	ch, ok := m.channels[id]
	if !ok || ch.WorkspaceID != workspaceID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *ch
	return &found, nil
}

func (m *MockChannelRepository) FindByName(workspaceID, name string) (*models.Channel, error) {
	for _, ch := range m.channels {
		if ch.WorkspaceID == workspaceID && ch.Name == name {
			found := *ch
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChannelRepository) ListByWorkspace(workspaceID string) ([]models.Channel, error) {
	var list []models.Channel
	for _, ch := range m.channels {
		if ch.WorkspaceID == workspaceID {
			list = append(list, *ch)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// MockReactionRepository is an in-memory implementation of
// ReactionRepositoryInterface for testing
type MockReactionRepository struct {
	rows   []models.MessageReaction
	nextID int
}

func NewMockReactionRepository() *MockReactionRepository {
	return &MockReactionRepository{nextID: 1}
}

func (m *MockReactionRepository) Toggle(reaction *models.MessageReaction) ([]models.MessageReaction, error) {
	for i, row := range m.rows {
		if row.MessageID == reaction.MessageID && row.UserID == reaction.UserID && row.Emoji == reaction.Emoji {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return m.ListForMessage(reaction.MessageID)
		}
	}
	stored := *reaction
	stored.ID = fmt.Sprintf("react-%d", m.nextID)
	m.nextID++
	m.rows = append(m.rows, stored)
	return m.ListForMessage(reaction.MessageID)
}

func (m *MockReactionRepository) ListForMessage(messageID string) ([]models.MessageReaction, error) {
	var rows []models.MessageReaction
	for _, row := range m.rows {
		if row.MessageID == messageID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// MockWorkspaceRepository is an in-memory implementation of
// WorkspaceRepositoryInterface for testing
type MockWorkspaceRepository struct {
	workspaces map[string]*models.Workspace
	members    []*models.WorkspaceMember
	nextID     int

	// failAddMember forces AddMember to error, for the half-created path.
	failAddMember bool
}

func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		workspaces: make(map[string]*models.Workspace),
		nextID:     1,
	}
}

func (m *MockWorkspaceRepository) Create(workspace *models.Workspace) error {
	if workspace.ID == "" {
		workspace.ID = fmt.Sprintf("ws-%d", m.nextID)
		m.nextID++
	}
	stored := *workspace
	m.workspaces[workspace.ID] = &stored
	return nil
}

func (m *MockWorkspaceRepository) FindByID(id string) (*models.Workspace, error) {
	if ws, ok := m.workspaces[id]; ok {
		found := *ws
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockWorkspaceRepository) ListForUser(userID string) ([]models.Workspace, error) {
	var list []models.Workspace
	for _, member := range m.members {
		if member.UserID != userID {
			continue
		}
		if ws, ok := m.workspaces[member.WorkspaceID]; ok {
			list = append(list, *ws)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MockWorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	if m.failAddMember {
		return errors.New("insert failed")
	}
	for _, existing := range m.members {
		if existing.WorkspaceID == member.WorkspaceID && existing.UserID == member.UserID {
			return errors.New("duplicate member")
		}
	}
	if member.ID == "" {
		member.ID = fmt.Sprintf("member-%d", m.nextID)
		m.nextID++
	}
	stored := *member
	m.members = append(m.members, &stored)
	return nil
}

func (m *MockWorkspaceRepository) RemoveMember(workspaceID, userID string) error {
	for i, member := range m.members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *MockWorkspaceRepository) IsMember(workspaceID, userID string) (bool, error) {
	for _, member := range m.members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockWorkspaceRepository) FindMember(workspaceID, userID string) (*models.WorkspaceMember, error) {
	for _, member := range m.members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			found := *member
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockWorkspaceRepository) ListMembers(workspaceID string) ([]models.WorkspaceMember, error) {
	var list []models.WorkspaceMember
	for _, member := range m.members {
		if member.WorkspaceID == workspaceID {
			list = append(list, *member)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
