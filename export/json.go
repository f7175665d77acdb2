package export

import (
	"encoding/json"
	"fmt"

	"aichat/domain"
)

// JSONExporter exports the full conversation structure as indented JSON.
type JSONExporter struct{}

// Export converts a conversation to JSON.
func (e *JSONExporter) Export(conv *domain.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	return json.MarshalIndent(conv, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string { return "application/json" }
