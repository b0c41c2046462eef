package service

import (
	"errors"
	"testing"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

func seedWorkspace(t *testing.T, svc *WorkspaceService, creator models.Author, name string) *models.Workspace {
	t.Helper()
	workspace, err := svc.CreateWorkspace(creator, name)
	if err != nil {
		t.Fatalf("Seeding workspace failed: %v", err)
	}
	return workspace
}

func inviteTestMember(t *testing.T, svc *WorkspaceService, workspaceID, inviterID string, user models.Author) {
	t.Helper()
	_, err := svc.InviteMember(workspaceID, inviterID, InviteMemberInput{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	})
	if err != nil {
		t.Fatalf("Seeding member failed: %v", err)
	}
}

func TestCreateWorkspace(t *testing.T) {
	tests := []struct {
		name          string
		workspaceName string
		wantErr       error
	}{
		{"valid name", "Acme Inc", nil},
		{"trims whitespace", "  Acme Inc  ", nil},
		{"too short", "A", ErrInvalidName},
		{"blank", "   ", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockWorkspaceRepository()
			svc := NewWorkspaceService(repo)

			workspace, err := svc.CreateWorkspace(testAuthor, tt.workspaceName)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateWorkspace error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if workspace.Name != "Acme Inc" {
				t.Errorf("Workspace name = %q, want %q", workspace.Name, "Acme Inc")
			}

			member, err := repo.FindMember(workspace.ID, testAuthor.ID)
			if err != nil {
				t.Fatalf("Creator was not enrolled: %v", err)
			}
			if member.Role != models.RoleAdmin {
				t.Errorf("Creator role = %v, want admin", member.Role)
			}
		})
	}
}

func TestCreateWorkspaceEnrollFailure(t *testing.T) {
	repo := NewMockWorkspaceRepository()
	repo.failAddMember = true
	svc := NewWorkspaceService(repo)

	if _, err := svc.CreateWorkspace(testAuthor, "Acme Inc"); err == nil {
		t.Error("Expected error when creator enrollment fails")
	}
}

func TestGetWorkspace(t *testing.T) {
	repo := NewMockWorkspaceRepository()
	svc := NewWorkspaceService(repo)
	workspace := seedWorkspace(t, svc, testAuthor, "Acme Inc")

	got, err := svc.GetWorkspace(workspace.ID, testAuthor.ID)
	if err != nil {
		t.Fatalf("GetWorkspace failed: %v", err)
	}
	if got.ID != workspace.ID {
		t.Errorf("GetWorkspace id = %s, want %s", got.ID, workspace.ID)
	}

	if _, err := svc.GetWorkspace(workspace.ID, "stranger"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Non-member access: error = %v, want ErrForbidden", err)
	}
}

func TestListWorkspaces(t *testing.T) {
	repo := NewMockWorkspaceRepository()
	svc := NewWorkspaceService(repo)
	seedWorkspace(t, svc, testAuthor, "Acme Inc")
	seedWorkspace(t, svc, testAuthor, "Beta LLC")
	seedWorkspace(t, svc, models.Author{ID: "user-2", Name: "Brin", Email: "brin@example.com"}, "Gamma Co")

	list, err := svc.ListWorkspaces(testAuthor.ID)
	if err != nil {
		t.Fatalf("ListWorkspaces failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 workspaces, got %d", len(list))
	}
	if list[0].Avatar != "A" || list[1].Avatar != "B" {
		t.Errorf("Expected first-letter avatars, got %q %q", list[0].Avatar, list[1].Avatar)
	}
}

func TestInviteMember(t *testing.T) {
	invitee := models.Author{ID: "user-2", Name: "Brin", Email: "Brin@Example.com"}

	tests := []struct {
		name    string
		input   InviteMemberInput
		wantErr error
	}{
		{
			name:  "valid invite",
			input: InviteMemberInput{UserID: invitee.ID, Name: invitee.Name, Email: invitee.Email},
		},
		{
			name:    "bad email",
			input:   InviteMemberInput{UserID: invitee.ID, Name: invitee.Name, Email: "not-an-email"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "bad name",
			input:   InviteMemberInput{UserID: invitee.ID, Name: "B", Email: invitee.Email},
			wantErr: ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockWorkspaceRepository()
			svc := NewWorkspaceService(repo)
			workspace := seedWorkspace(t, svc, testAuthor, "Acme Inc")

			member, err := svc.InviteMember(workspace.ID, testAuthor.ID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("InviteMember error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if member.Role != models.RoleMember {
				t.Errorf("Invitee role = %v, want member", member.Role)
			}
			if member.Email != "brin@example.com" {
				t.Errorf("Email not normalized: %q", member.Email)
			}
			if member.Avatar == "" {
				t.Error("Expected gravatar fallback for missing avatar")
			}
		})
	}
}

func TestInviteMemberAuthorization(t *testing.T) {
	repo := NewMockWorkspaceRepository()
	svc := NewWorkspaceService(repo)
	workspace := seedWorkspace(t, svc, testAuthor, "Acme Inc")
	invitee := models.Author{ID: "user-2", Name: "Brin", Email: "brin@example.com"}
	inviteTestMember(t, svc, workspace.ID, testAuthor.ID, invitee)

	// A regular member cannot invite.
	_, err := svc.InviteMember(workspace.ID, invitee.ID, InviteMemberInput{
		UserID: "user-3", Name: "Casey", Email: "casey@example.com",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Member invite: error = %v, want ErrForbidden", err)
	}

	// Neither can an outsider.
	_, err = svc.InviteMember(workspace.ID, "stranger", InviteMemberInput{
		UserID: "user-3", Name: "Casey", Email: "casey@example.com",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Outsider invite: error = %v, want ErrForbidden", err)
	}

	// Re-inviting an existing member conflicts.
	_, err = svc.InviteMember(workspace.ID, testAuthor.ID, InviteMemberInput{
		UserID: invitee.ID, Name: invitee.Name, Email: invitee.Email,
	})
	if !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("Duplicate invite: error = %v, want ErrAlreadyMember", err)
	}
}

func TestRemoveMember(t *testing.T) {
	member := models.Author{ID: "user-2", Name: "Brin", Email: "brin@example.com"}

	tests := []struct {
		name     string
		actorID  string
		targetID string
		wantErr  error
	}{
		{"admin removes member", testAuthor.ID, member.ID, nil},
		{"member leaves", member.ID, member.ID, nil},
		{"member removes other", member.ID, testAuthor.ID, ErrForbidden},
		{"last admin leaves", testAuthor.ID, testAuthor.ID, ErrForbidden},
		{"admin removes missing target", testAuthor.ID, "user-gone", ErrNotFound},
		{"outsider removes", "stranger", member.ID, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockWorkspaceRepository()
			svc := NewWorkspaceService(repo)
			workspace := seedWorkspace(t, svc, testAuthor, "Acme Inc")
			inviteTestMember(t, svc, workspace.ID, testAuthor.ID, member)

			err := svc.RemoveMember(workspace.ID, tt.actorID, tt.targetID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RemoveMember error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if ok, _ := repo.IsMember(workspace.ID, tt.targetID); ok {
					t.Error("Target still a member after removal")
				}
			}
		})
	}
}

func TestListMembers(t *testing.T) {
	repo := NewMockWorkspaceRepository()
	svc := NewWorkspaceService(repo)
	workspace := seedWorkspace(t, svc, testAuthor, "Acme Inc")
	inviteTestMember(t, svc, workspace.ID, testAuthor.ID, models.Author{ID: "user-2", Name: "Brin", Email: "brin@example.com"})

	members, err := svc.ListMembers(workspace.ID, testAuthor.ID, nil)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(members))
	}

	if _, err := svc.ListMembers(workspace.ID, "stranger", nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("Non-member list: error = %v, want ErrForbidden", err)
	}
}

func TestListMembersPresence(t *testing.T) {
	repo := NewMockWorkspaceRepository()
	svc := NewWorkspaceService(repo)
	workspace := seedWorkspace(t, svc, testAuthor, "Acme Inc")
	inviteTestMember(t, svc, workspace.ID, testAuthor.ID, models.Author{ID: "user-2", Name: "Brin", Email: "brin@example.com"})

	online := map[string]struct{}{"user-2": {}}
	members, err := svc.ListMembers(workspace.ID, testAuthor.ID, online)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}

	for _, member := range members {
		switch member.UserID {
		case "user-2":
			if !member.Online {
				t.Error("Expected connected member flagged online")
			}
		case testAuthor.ID:
			if member.Online {
				t.Error("Expected disconnected member flagged offline")
			}
		}
	}
}
