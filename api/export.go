package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"aichat/export"
)

// ExportConversation serializes a conversation in the requested
// format. The format query parameter defaults to markdown.
// GET /v1/conversations/:conversation_id/export?format=markdown
func (h *Handler) ExportConversation(c echo.Context) error {
	conv := h.store.GetConversation(c.Param("conversation_id"))
	if conv == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}

	format := export.Format(c.QueryParam("format"))
	if format == "" {
		format = export.FormatMarkdown
	}
	exporter, err := export.For(format, h.renderer)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	payload, err := exporter.Export(conv)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}

	filename := fmt.Sprintf("%s%s", conv.ID, exporter.FileExtension())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, exporter.MimeType(), payload)
}
