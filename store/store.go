// Package store holds the conversation snapshot and applies mutations to it.
//
// The store is the single owner of all conversation, message and
// settings data. Every operation is an atomic transition over the
// in-memory snapshot: mutations run under one mutex, so no reader ever
// observes a partially-applied update. After each transition the full
// snapshot is handed to the injected Snapshotter and a change event is
// published to registered listeners. Persistence failures are logged
// and never roll back the in-memory state.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"aichat/domain"
	"aichat/logger"
)

// Snapshotter persists the full snapshot as one named blob.
type Snapshotter interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
	Close() error
}

// Listener receives change events after a mutation has been applied.
type Listener func(event domain.ChangeEvent)

// Store is the state container for conversations and settings.
type Store struct {
	mu        sync.Mutex
	snap      domain.Snapshot
	persist   Snapshotter
	listeners []Listener
}

// New creates a store seeded from the snapshotter's persisted blob.
// A missing blob yields an empty store with default settings.
func New(ctx context.Context, persist Snapshotter) (*Store, error) {
	s := &Store{persist: persist}
	s.snap.Settings = domain.DefaultSettings()

	snap, err := persist.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		s.snap = *snap
	}
	return s, nil
}

// Subscribe registers a listener for change events. Not safe to call
// concurrently with mutations; wire listeners up before serving.
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// apply runs one mutation under the lock, re-persists the whole
// snapshot and notifies listeners. A zero-typed event marks a no-op
// mutation (unknown id): the snapshot is still rewritten on every
// write, but nothing is published.
func (s *Store) apply(mutate func(snap *domain.Snapshot) domain.ChangeEvent) {
	s.mu.Lock()
	ev := mutate(&s.snap)
	snapCopy := s.snap.Clone()
	s.mu.Unlock()

	if err := s.persist.Save(context.Background(), snapCopy); err != nil {
		logger.L.Error("snapshot save failed", "error", err)
	}
	if ev.Type == "" {
		return
	}
	for _, l := range s.listeners {
		l(ev)
	}
}

// touch advances the conversation's UpdatedAt, strictly.
func touch(c *domain.Conversation) {
	now := time.Now()
	if !now.After(c.UpdatedAt) {
		now = c.UpdatedAt.Add(time.Nanosecond)
	}
	c.UpdatedAt = now
}

func newID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

func findConversation(snap *domain.Snapshot, id string) *domain.Conversation {
	for _, c := range snap.Conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CreateConversation inserts a new conversation at the front of the
// list, makes it active and returns its id.
func (s *Store) CreateConversation() string {
	id := newID("conv")
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		now := time.Now()
		conv := &domain.Conversation{
			ID:           id,
			Title:        "New Conversation",
			Messages:     []domain.Message{},
			ModelID:      domain.DefaultModelID,
			SystemPrompt: domain.DefaultSystemPrompt,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		snap.Conversations = append([]*domain.Conversation{conv}, snap.Conversations...)
		snap.ActiveConversationID = id
		return domain.ChangeEvent{Type: domain.ChangeConversationCreated, ConversationID: id}
	})
	return id
}

// DeleteConversation removes the conversation. If it was active, the
// first remaining conversation becomes active, or none when the list is
// now empty.
func (s *Store) DeleteConversation(id string) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		idx := -1
		for i, c := range snap.Conversations {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return domain.ChangeEvent{}
		}
		snap.Conversations = append(snap.Conversations[:idx], snap.Conversations[idx+1:]...)
		if snap.ActiveConversationID == id {
			if len(snap.Conversations) > 0 {
				snap.ActiveConversationID = snap.Conversations[0].ID
			} else {
				snap.ActiveConversationID = ""
			}
		}
		return domain.ChangeEvent{Type: domain.ChangeConversationDeleted, ConversationID: id}
	})
}

// SetActiveConversation repoints the active pointer. Existence is not
// validated; callers must pass ids obtained from the current list.
func (s *Store) SetActiveConversation(id string) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		snap.ActiveConversationID = id
		return domain.ChangeEvent{Type: domain.ChangeActiveConversation, ConversationID: id}
	})
}

// UpdateConversationTitle replaces the title. No-op on unknown id.
func (s *Store) UpdateConversationTitle(id, title string) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		conv := findConversation(snap, id)
		if conv == nil {
			return domain.ChangeEvent{}
		}
		conv.Title = title
		touch(conv)
		return domain.ChangeEvent{Type: domain.ChangeConversationUpdated, ConversationID: id}
	})
}

// UpdateConversationSystemPrompt replaces the system prompt. No-op on
// unknown id.
func (s *Store) UpdateConversationSystemPrompt(id, systemPrompt string) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		conv := findConversation(snap, id)
		if conv == nil {
			return domain.ChangeEvent{}
		}
		conv.SystemPrompt = systemPrompt
		touch(conv)
		return domain.ChangeEvent{Type: domain.ChangeConversationUpdated, ConversationID: id}
	})
}

// UpdateConversationModel replaces the model reference. No-op on
// unknown id.
func (s *Store) UpdateConversationModel(id, modelID string) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		conv := findConversation(snap, id)
		if conv == nil {
			return domain.ChangeEvent{}
		}
		conv.ModelID = modelID
		touch(conv)
		return domain.ChangeEvent{Type: domain.ChangeConversationUpdated, ConversationID: id}
	})
}

// AddMessage appends a message with a fresh id and timestamp and
// returns the new message id. Fails silently (empty id) if the
// conversation is unknown.
func (s *Store) AddMessage(conversationID string, msg domain.ChatMessage) string {
	id := newID("msg")
	added := false
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		conv := findConversation(snap, conversationID)
		if conv == nil {
			return domain.ChangeEvent{}
		}
		now := time.Now()
		conv.Messages = append(conv.Messages, domain.Message{
			ID:        id,
			Content:   msg.Content,
			Role:      msg.Role,
			CreatedAt: now,
		})
		touch(conv)
		added = true
		return domain.ChangeEvent{Type: domain.ChangeMessageAdded, ConversationID: conversationID, MessageID: id}
	})
	if !added {
		return ""
	}
	return id
}

// UpdateMessage replaces the content of one message in place, keeping
// its id and timestamp. Used to apply streamed deltas and corrections.
func (s *Store) UpdateMessage(conversationID, messageID, content string) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		conv := findConversation(snap, conversationID)
		if conv == nil {
			return domain.ChangeEvent{}
		}
		for i := range conv.Messages {
			if conv.Messages[i].ID == messageID {
				conv.Messages[i].Content = content
				touch(conv)
				return domain.ChangeEvent{Type: domain.ChangeMessageUpdated, ConversationID: conversationID, MessageID: messageID}
			}
		}
		return domain.ChangeEvent{}
	})
}

// DeleteMessage removes one message by id.
func (s *Store) DeleteMessage(conversationID, messageID string) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		conv := findConversation(snap, conversationID)
		if conv == nil {
			return domain.ChangeEvent{}
		}
		for i := range conv.Messages {
			if conv.Messages[i].ID == messageID {
				conv.Messages = append(conv.Messages[:i], conv.Messages[i+1:]...)
				touch(conv)
				return domain.ChangeEvent{Type: domain.ChangeMessageDeleted, ConversationID: conversationID, MessageID: messageID}
			}
		}
		return domain.ChangeEvent{}
	})
}

// UpdateSettings shallow-merges the patch into the settings. An empty
// patch leaves them untouched.
func (s *Store) UpdateSettings(patch domain.SettingsPatch) {
	s.apply(func(snap *domain.Snapshot) domain.ChangeEvent {
		st := &snap.Settings
		if patch.Theme != nil {
			st.Theme = *patch.Theme
		}
		if patch.FontSize != nil {
			st.FontSize = *patch.FontSize
		}
		if patch.MessageDisplayFormat != nil {
			st.MessageDisplayFormat = *patch.MessageDisplayFormat
		}
		if patch.CodeBlockTheme != nil {
			st.CodeBlockTheme = *patch.CodeBlockTheme
		}
		if patch.ShowTimestamps != nil {
			st.ShowTimestamps = *patch.ShowTimestamps
		}
		if patch.EnableKeyboardShortcuts != nil {
			st.EnableKeyboardShortcuts = *patch.EnableKeyboardShortcuts
		}
		if patch.EnableVoiceInput != nil {
			st.EnableVoiceInput = *patch.EnableVoiceInput
		}
		return domain.ChangeEvent{Type: domain.ChangeSettingsUpdated}
	})
}

// GetConversation returns a deep copy of one conversation, or nil.
func (s *Store) GetConversation(id string) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv := findConversation(&s.snap, id); conv != nil {
		return conv.Clone()
	}
	return nil
}

// GetActiveConversation returns a deep copy of the active conversation,
// or nil when no conversation is active.
func (s *Store) GetActiveConversation() *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.ActiveConversationID == "" {
		return nil
	}
	if conv := findConversation(&s.snap, s.snap.ActiveConversationID); conv != nil {
		return conv.Clone()
	}
	return nil
}

// ActiveConversationID returns the current active pointer ("" if unset).
func (s *Store) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ActiveConversationID
}

// ListConversations returns deep copies of all conversations in their
// current order (most recently created first).
func (s *Store) ListConversations() []*domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Conversation, len(s.snap.Conversations))
	for i, c := range s.snap.Conversations {
		out[i] = c.Clone()
	}
	return out
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Settings
}
