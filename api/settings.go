package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aichat/domain"
)

// GetSettings returns the current settings.
// GET /v1/settings
func (h *Handler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Settings())
}

// UpdateSettings merges a partial settings update; fields absent from
// the request keep their current values.
// PATCH /v1/settings
func (h *Handler) UpdateSettings(c echo.Context) error {
	var patch domain.SettingsPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	h.store.UpdateSettings(patch)
	return c.JSON(http.StatusOK, h.store.Settings())
}

// TranscribeVoice captures one voice input session and returns the
// transcript. Returns 501 when the host offers no capture capability.
// POST /v1/voice/transcribe
func (h *Handler) TranscribeVoice(c echo.Context) error {
	if h.voice == nil {
		return c.JSON(http.StatusNotImplemented, map[string]string{"error": "voice capture is not available"})
	}
	transcript, err := h.voice.Capture(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "voice capture failed"})
	}
	return c.JSON(http.StatusOK, map[string]string{"transcript": transcript})
}
