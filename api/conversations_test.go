package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"aichat/domain"
)

func createConversation(t *testing.T, h *Handler) string {
	t.Helper()
	rec := do(t, http.MethodPost, "/v1/conversations", "", h.CreateConversation, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var conv domain.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	return conv.ID
}

func TestConversationLifecycle(t *testing.T) {
	h := newTestHandler(t, "http://example.com")

	first := createConversation(t, h)
	second := createConversation(t, h)

	rec := do(t, http.MethodGet, "/v1/conversations", "", h.ListConversations, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Conversations        []domain.Conversation `json:"conversations"`
		ActiveConversationID string                `json:"active_conversation_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(list.Conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(list.Conversations))
	}
	if list.Conversations[0].ID != second {
		t.Errorf("expected newest first, got %s", list.Conversations[0].ID)
	}
	if list.ActiveConversationID != second {
		t.Errorf("expected %s active, got %s", second, list.ActiveConversationID)
	}

	// Re-activate the first and verify the active endpoint follows.
	rec = do(t, http.MethodPost, "/v1/conversations/"+first+"/activate", "", h.ActivateConversation,
		map[string]string{"conversation_id": first})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = do(t, http.MethodGet, "/v1/conversations/active", "", h.GetActiveConversation, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var active domain.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &active); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if active.ID != first {
		t.Errorf("expected %s active, got %s", first, active.ID)
	}

	// Delete both; the active endpoint goes quiet.
	for _, id := range []string{first, second} {
		rec = do(t, http.MethodDelete, "/v1/conversations/"+id, "", h.DeleteConversation,
			map[string]string{"conversation_id": id})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	}
	rec = do(t, http.MethodGet, "/v1/conversations/active", "", h.GetActiveConversation, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with no active conversation, got %d", rec.Code)
	}
}

func TestGetConversationNotFound(t *testing.T) {
	h := newTestHandler(t, "http://example.com")
	rec := do(t, http.MethodGet, "/v1/conversations/conv_missing", "", h.GetConversation,
		map[string]string{"conversation_id": "conv_missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestActivateConversationNotFound(t *testing.T) {
	h := newTestHandler(t, "http://example.com")
	rec := do(t, http.MethodPost, "/v1/conversations/conv_missing/activate", "", h.ActivateConversation,
		map[string]string{"conversation_id": "conv_missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateConversation(t *testing.T) {
	h := newTestHandler(t, "http://example.com")
	id := createConversation(t, h)

	body := `{"title":"Renamed","system_prompt":"Be terse.","model_id":"openai/gpt-4o"}`
	rec := do(t, http.MethodPatch, "/v1/conversations/"+id, body, h.UpdateConversation,
		map[string]string{"conversation_id": id})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var conv domain.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if conv.Title != "Renamed" || conv.SystemPrompt != "Be terse." || conv.ModelID != "openai/gpt-4o" {
		t.Errorf("patch not applied: %+v", conv)
	}
}

func TestUpdateConversationPartial(t *testing.T) {
	h := newTestHandler(t, "http://example.com")
	id := createConversation(t, h)

	rec := do(t, http.MethodPatch, "/v1/conversations/"+id, `{"title":"Only title"}`, h.UpdateConversation,
		map[string]string{"conversation_id": id})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var conv domain.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if conv.Title != "Only title" {
		t.Errorf("title not applied: %q", conv.Title)
	}
	if conv.ModelID != domain.DefaultModelID || conv.SystemPrompt != domain.DefaultSystemPrompt {
		t.Errorf("untouched fields changed: %+v", conv)
	}
}

func TestUpdateConversationRejectsUnknownModel(t *testing.T) {
	h := newTestHandler(t, "http://example.com")
	id := createConversation(t, h)

	rec := do(t, http.MethodPatch, "/v1/conversations/"+id, `{"model_id":"made/up"}`, h.UpdateConversation,
		map[string]string{"conversation_id": id})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	// The conversation keeps its previous model.
	if conv := h.store.GetConversation(id); conv.ModelID != domain.DefaultModelID {
		t.Errorf("model changed despite rejection: %q", conv.ModelID)
	}
}

func TestAddAndDeleteMessageEndpoints(t *testing.T) {
	h := newTestHandler(t, "http://example.com")
	id := createConversation(t, h)

	rec := do(t, http.MethodPost, "/v1/conversations/"+id+"/messages",
		`{"role":"user","content":"hello"}`, h.AddMessage,
		map[string]string{"conversation_id": id})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	msgID := resp["message_id"]
	if msgID == "" {
		t.Fatal("expected a message id")
	}

	conv := h.store.GetConversation(id)
	if len(conv.Messages) != 1 || conv.Messages[0].Content != "hello" {
		t.Fatalf("message not stored: %+v", conv.Messages)
	}

	rec = do(t, http.MethodDelete, "/v1/conversations/"+id+"/messages/"+msgID, "", h.DeleteMessage,
		map[string]string{"conversation_id": id, "message_id": msgID})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if conv := h.store.GetConversation(id); len(conv.Messages) != 0 {
		t.Errorf("message not deleted: %+v", conv.Messages)
	}
}

func TestAddMessageValidation(t *testing.T) {
	h := newTestHandler(t, "http://example.com")
	id := createConversation(t, h)

	rec := do(t, http.MethodPost, "/v1/conversations/"+id+"/messages", `{"role":"user"}`, h.AddMessage,
		map[string]string{"conversation_id": id})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", rec.Code)
	}

	rec = do(t, http.MethodPost, "/v1/conversations/"+id+"/messages",
		`{"role":"moderator","content":"x"}`, h.AddMessage,
		map[string]string{"conversation_id": id})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
	if conv := h.store.GetConversation(id); len(conv.Messages) != 0 {
		t.Errorf("rejected message was stored: %+v", conv.Messages)
	}

	rec = do(t, http.MethodPost, "/v1/conversations/conv_missing/messages",
		`{"role":"user","content":"x"}`, h.AddMessage,
		map[string]string{"conversation_id": "conv_missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown conversation, got %d", rec.Code)
	}
}
