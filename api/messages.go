package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aichat/domain"
)

// AddMessageRequest carries a message to append to a conversation.
type AddMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AddMessage appends a message to a conversation.
// POST /v1/conversations/:conversation_id/messages
func (h *Handler) AddMessage(c echo.Context) error {
	id := c.Param("conversation_id")
	var req AddMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}
	role := domain.Role(req.Role)
	switch role {
	case "":
		role = domain.RoleUser
	case domain.RoleUser, domain.RoleAssistant, domain.RoleSystem:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid role"})
	}

	msgID := h.store.AddMessage(id, domain.ChatMessage{Role: role, Content: req.Content})
	if msgID == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message_id": msgID})
}

// DeleteMessage removes a message from a conversation.
// DELETE /v1/conversations/:conversation_id/messages/:message_id
func (h *Handler) DeleteMessage(c echo.Context) error {
	h.store.DeleteMessage(c.Param("conversation_id"), c.Param("message_id"))
	return c.NoContent(http.StatusNoContent)
}
