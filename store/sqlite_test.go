package store

import (
	"context"
	"testing"
	"time"

	"aichat/domain"
)

func newTestSnapshotter(t *testing.T) *SQLiteSnapshotter {
	t.Helper()
	s, err := NewSQLiteSnapshotter(":memory:", "test-store")
	if err != nil {
		t.Fatalf("failed to create snapshotter: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestSnapshotterLoadMissing(t *testing.T) {
	s := newTestSnapshotter(t)

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot for missing blob, got %+v", snap)
	}
}

func TestSnapshotterRoundTrip(t *testing.T) {
	s := newTestSnapshotter(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	in := &domain.Snapshot{
		Conversations: []*domain.Conversation{{
			ID:    "conv_1",
			Title: "Round trip",
			Messages: []domain.Message{
				{ID: "msg_1", Content: "hello", Role: domain.RoleUser, CreatedAt: now},
			},
			ModelID:      domain.DefaultModelID,
			SystemPrompt: "be brief",
			CreatedAt:    now,
			UpdatedAt:    now,
		}},
		ActiveConversationID: "conv_1",
		Settings:             domain.DefaultSettings(),
	}

	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out == nil {
		t.Fatal("expected a snapshot")
	}
	if out.ActiveConversationID != "conv_1" {
		t.Errorf("active pointer lost: %q", out.ActiveConversationID)
	}
	if len(out.Conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(out.Conversations))
	}
	conv := out.Conversations[0]
	if conv.Title != "Round trip" || conv.SystemPrompt != "be brief" {
		t.Errorf("conversation fields lost: %+v", conv)
	}
	if len(conv.Messages) != 1 || conv.Messages[0].Content != "hello" {
		t.Errorf("messages lost: %+v", conv.Messages)
	}
	if out.Settings != domain.DefaultSettings() {
		t.Errorf("settings lost: %+v", out.Settings)
	}
}

func TestSnapshotterOverwrites(t *testing.T) {
	s := newTestSnapshotter(t)
	ctx := context.Background()

	if err := s.Save(ctx, &domain.Snapshot{ActiveConversationID: "conv_a"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(ctx, &domain.Snapshot{ActiveConversationID: "conv_b"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out.ActiveConversationID != "conv_b" {
		t.Errorf("expected latest blob, got %q", out.ActiveConversationID)
	}
}
