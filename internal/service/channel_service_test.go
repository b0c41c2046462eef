package service

import (
	"errors"
	"testing"
)

func TestCreateChannel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSlug string
		wantErr  error
	}{
		{"simple name", "general", "general", nil},
		{"spaces become dashes", "Product Launch", "product-launch", nil},
		{"symbols stripped", "Q&A / Support!!", "qa-support", nil},
		{"too short after normalize", "#", "", ErrInvalidName},
		{"blank", "   ", "", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChannelService(NewMockChannelRepository())

			channel, err := svc.CreateChannel("ws-1", testAuthor.ID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateChannel error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if channel.Name != tt.wantSlug {
				t.Errorf("Channel slug = %q, want %q", channel.Name, tt.wantSlug)
			}
			if channel.WorkspaceID != "ws-1" || channel.CreatorID != testAuthor.ID {
				t.Errorf("Channel scoping wrong: %+v", channel)
			}
		})
	}
}

func TestCreateChannelDuplicateSlug(t *testing.T) {
	svc := NewChannelService(NewMockChannelRepository())

	if _, err := svc.CreateChannel("ws-1", testAuthor.ID, "My Channel"); err != nil {
		t.Fatalf("Seeding failed: %v", err)
	}

	// "my-channel" normalizes to the same slug as "My Channel".
	if _, err := svc.CreateChannel("ws-1", testAuthor.ID, "my-channel"); !errors.Is(err, ErrChannelExists) {
		t.Errorf("Duplicate slug: error = %v, want ErrChannelExists", err)
	}

	// The same slug is fine in another workspace.
	if _, err := svc.CreateChannel("ws-2", testAuthor.ID, "My Channel"); err != nil {
		t.Errorf("Cross-workspace duplicate: error = %v, want nil", err)
	}
}

func TestGetChannel(t *testing.T) {
	repo := NewMockChannelRepository()
	svc := NewChannelService(repo)
	created, err := svc.CreateChannel("ws-1", testAuthor.ID, "general")
	if err != nil {
		t.Fatalf("Seeding failed: %v", err)
	}

	got, err := svc.GetChannel(created.ID, "ws-1")
	if err != nil {
		t.Fatalf("GetChannel failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetChannel id = %s, want %s", got.ID, created.ID)
	}

	if _, err := svc.GetChannel(created.ID, "ws-other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cross-workspace get: error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetChannel("chan-gone", "ws-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Missing channel: error = %v, want ErrNotFound", err)
	}
}

func TestListChannels(t *testing.T) {
	svc := NewChannelService(NewMockChannelRepository())
	if _, err := svc.CreateChannel("ws-1", testAuthor.ID, "general"); err != nil {
		t.Fatalf("Seeding failed: %v", err)
	}
	if _, err := svc.CreateChannel("ws-1", testAuthor.ID, "random"); err != nil {
		t.Fatalf("Seeding failed: %v", err)
	}
	if _, err := svc.CreateChannel("ws-2", testAuthor.ID, "other"); err != nil {
		t.Fatalf("Seeding failed: %v", err)
	}

	channels, err := svc.ListChannels("ws-1")
	if err != nil {
		t.Fatalf("ListChannels failed: %v", err)
	}
	if len(channels) != 2 {
		t.Errorf("Expected 2 channels, got %d", len(channels))
	}
}
