// Package domain defines the core domain models for the chat backend.
package domain

import (
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single message inside a conversation. Content may be
// patched in place (same id) while the assistant's reply is streaming;
// everything else is immutable once the message is created.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is an ordered, append-only sequence of messages plus the
// per-conversation model selection and system prompt. UpdatedAt advances
// on every mutation and is never behind CreatedAt.
type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Messages     []Message `json:"messages"`
	ModelID      string    `json:"model_id"`
	SystemPrompt string    `json:"system_prompt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

// Settings holds the user-facing behavior toggles. Fields carry no
// cross-field invariants and are defaulted independently.
type Settings struct {
	Theme                   string `json:"theme"`
	FontSize                string `json:"font_size"`
	MessageDisplayFormat    string `json:"message_display_format"`
	CodeBlockTheme          string `json:"code_block_theme"`
	ShowTimestamps          bool   `json:"show_timestamps"`
	EnableKeyboardShortcuts bool   `json:"enable_keyboard_shortcuts"`
	EnableVoiceInput        bool   `json:"enable_voice_input"`
}

// SettingsPatch is a partial Settings update; nil fields are left as-is.
type SettingsPatch struct {
	Theme                   *string `json:"theme,omitempty"`
	FontSize                *string `json:"font_size,omitempty"`
	MessageDisplayFormat    *string `json:"message_display_format,omitempty"`
	CodeBlockTheme          *string `json:"code_block_theme,omitempty"`
	ShowTimestamps          *bool   `json:"show_timestamps,omitempty"`
	EnableKeyboardShortcuts *bool   `json:"enable_keyboard_shortcuts,omitempty"`
	EnableVoiceInput        *bool   `json:"enable_voice_input,omitempty"`
}

// DefaultSettings returns the settings a fresh snapshot starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:                   "system",
		FontSize:                "md",
		MessageDisplayFormat:    "bubble",
		CodeBlockTheme:          "github",
		ShowTimestamps:          true,
		EnableKeyboardShortcuts: true,
		EnableVoiceInput:        true,
	}
}

// Snapshot is the full serialized state of the store: every
// conversation, the active-conversation pointer and the settings. It is
// rewritten as a whole on each mutation and read once at startup.
type Snapshot struct {
	Conversations        []*Conversation `json:"conversations"`
	ActiveConversationID string          `json:"active_conversation_id,omitempty"`
	Settings             Settings        `json:"settings"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		ActiveConversationID: s.ActiveConversationID,
		Settings:             s.Settings,
		Conversations:        make([]*Conversation, len(s.Conversations)),
	}
	for i, c := range s.Conversations {
		out.Conversations[i] = c.Clone()
	}
	return out
}

// ChatMessage is a normalized wire message: exactly role and content,
// nothing else survives from the caller.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChangeType classifies a store mutation for the change feed.
type ChangeType string

const (
	ChangeConversationCreated ChangeType = "conversation_created"
	ChangeConversationUpdated ChangeType = "conversation_updated"
	ChangeConversationDeleted ChangeType = "conversation_deleted"
	ChangeMessageAdded        ChangeType = "message_added"
	ChangeMessageUpdated      ChangeType = "message_updated"
	ChangeMessageDeleted      ChangeType = "message_deleted"
	ChangeActiveConversation  ChangeType = "active_conversation_changed"
	ChangeSettingsUpdated     ChangeType = "settings_updated"
)

// ChangeEvent is published to listeners after a store mutation has been
// applied and persisted.
type ChangeEvent struct {
	Type           ChangeType `json:"type"`
	ConversationID string     `json:"conversation_id,omitempty"`
	MessageID      string     `json:"message_id,omitempty"`
}
