// Package api provides the HTTP handlers for the chat backend.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aichat/domain"
	"aichat/relay"
	"aichat/store"
)

// Handler handles HTTP requests.
type Handler struct {
	store    *store.Store
	relay    *relay.Relay
	renderer domain.ImageRenderer // nil when the host offers none
	voice    domain.VoiceCapture  // nil when the host offers none
}

// NewHandler creates a new handler. renderer and voice are host
// capabilities and may be nil.
func NewHandler(st *store.Store, rl *relay.Relay, renderer domain.ImageRenderer, voice domain.VoiceCapture) *Handler {
	return &Handler{store: st, relay: rl, renderer: renderer, voice: voice}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Model catalog
	e.GET("/v1/models", h.ListModels)

	// Conversations
	e.GET("/v1/conversations", h.ListConversations)
	e.POST("/v1/conversations", h.CreateConversation)
	e.GET("/v1/conversations/active", h.GetActiveConversation)
	e.GET("/v1/conversations/:conversation_id", h.GetConversation)
	e.PATCH("/v1/conversations/:conversation_id", h.UpdateConversation)
	e.DELETE("/v1/conversations/:conversation_id", h.DeleteConversation)
	e.POST("/v1/conversations/:conversation_id/activate", h.ActivateConversation)

	// Messages
	e.POST("/v1/conversations/:conversation_id/messages", h.AddMessage)
	e.DELETE("/v1/conversations/:conversation_id/messages/:message_id", h.DeleteMessage)

	// Orchestrated chat
	e.POST("/v1/conversations/:conversation_id/chat", h.ChatConversation)

	// Export
	e.GET("/v1/conversations/:conversation_id/export", h.ExportConversation)

	// Settings
	e.GET("/v1/settings", h.GetSettings)
	e.PATCH("/v1/settings", h.UpdateSettings)

	// Voice capture (host capability)
	e.POST("/v1/voice/transcribe", h.TranscribeVoice)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// ListModels returns the static model catalog.
// GET /v1/models
func (h *Handler) ListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"models":           domain.Models,
		"default_model_id": domain.DefaultModelID,
	})
}
