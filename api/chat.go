package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"aichat/domain"
	"aichat/relay"
)

// ChatConversationRequest carries the user turn for an orchestrated
// chat round.
type ChatConversationRequest struct {
	Content string `json:"content"`
}

// ChatConversation runs one chat round against a stored conversation:
// the user turn is appended, the full history goes to the model, and
// the assistant reply streams back while being persisted fragment by
// fragment. A round aborted mid-stream leaves the partial reply in the
// store.
// POST /v1/conversations/:conversation_id/chat
func (h *Handler) ChatConversation(c echo.Context) error {
	id := c.Param("conversation_id")
	var req ChatConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}
	if h.store.GetConversation(id) == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}

	h.store.AddMessage(id, domain.ChatMessage{Role: domain.RoleUser, Content: req.Content})

	conv := h.store.GetConversation(id)
	chatReq := relay.ChatRequest{
		Messages: relay.Messages(conv),
		ModelID:  conv.ModelID,
	}

	// The assistant message is only created once the first fragment
	// arrives; a request that fails before streaming leaves no empty
	// reply behind.
	var assistantID string
	var reply strings.Builder
	observe := func(fragment string) {
		reply.WriteString(fragment)
		if assistantID == "" {
			assistantID = h.store.AddMessage(id, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply.String()})
			return
		}
		h.store.UpdateMessage(id, assistantID, reply.String())
	}
	return h.relay.StreamHTTP(c, &chatReq, observe)
}
