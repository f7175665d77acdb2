package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aichat/domain"
)

// ListConversations returns all conversations, most recently created
// first, plus the active pointer.
// GET /v1/conversations
func (h *Handler) ListConversations(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversations":          h.store.ListConversations(),
		"active_conversation_id": h.store.ActiveConversationID(),
	})
}

// CreateConversation creates a conversation and makes it active.
// POST /v1/conversations
func (h *Handler) CreateConversation(c echo.Context) error {
	id := h.store.CreateConversation()
	return c.JSON(http.StatusCreated, h.store.GetConversation(id))
}

// GetConversation returns one conversation.
// GET /v1/conversations/:conversation_id
func (h *Handler) GetConversation(c echo.Context) error {
	conv := h.store.GetConversation(c.Param("conversation_id"))
	if conv == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}
	return c.JSON(http.StatusOK, conv)
}

// GetActiveConversation returns the active conversation, or 204 when
// none is active.
// GET /v1/conversations/active
func (h *Handler) GetActiveConversation(c echo.Context) error {
	conv := h.store.GetActiveConversation()
	if conv == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, conv)
}

// UpdateConversationRequest is a partial conversation update.
type UpdateConversationRequest struct {
	Title        *string `json:"title,omitempty"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
	ModelID      *string `json:"model_id,omitempty"`
}

// UpdateConversation patches title, system prompt and/or model.
// PATCH /v1/conversations/:conversation_id
func (h *Handler) UpdateConversation(c echo.Context) error {
	id := c.Param("conversation_id")
	var req UpdateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if req.ModelID != nil {
		if _, err := domain.LookupModel(*req.ModelID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}

	if req.Title != nil {
		h.store.UpdateConversationTitle(id, *req.Title)
	}
	if req.SystemPrompt != nil {
		h.store.UpdateConversationSystemPrompt(id, *req.SystemPrompt)
	}
	if req.ModelID != nil {
		h.store.UpdateConversationModel(id, *req.ModelID)
	}

	conv := h.store.GetConversation(id)
	if conv == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}
	return c.JSON(http.StatusOK, conv)
}

// DeleteConversation removes a conversation; the active pointer moves
// to the first remaining conversation, or clears.
// DELETE /v1/conversations/:conversation_id
func (h *Handler) DeleteConversation(c echo.Context) error {
	h.store.DeleteConversation(c.Param("conversation_id"))
	return c.NoContent(http.StatusNoContent)
}

// ActivateConversation repoints the active pointer.
// POST /v1/conversations/:conversation_id/activate
func (h *Handler) ActivateConversation(c echo.Context) error {
	id := c.Param("conversation_id")
	if h.store.GetConversation(id) == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}
	h.store.SetActiveConversation(id)
	return c.NoContent(http.StatusNoContent)
}
