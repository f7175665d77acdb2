package export

import (
	"fmt"
	"strings"
	"time"

	"aichat/domain"
)

// MarkdownExporter exports conversations to Markdown: a title heading,
// metadata lines, then one section per message.
type MarkdownExporter struct{}

// Export converts a conversation to Markdown.
func (e *MarkdownExporter) Export(conv *domain.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", conv.Title))
	sb.WriteString(fmt.Sprintf("- Created: %s\n", formatTimestamp(conv.CreatedAt)))
	sb.WriteString(fmt.Sprintf("- Model: %s\n", modelName(conv.ModelID)))
	sb.WriteString(fmt.Sprintf("- System Prompt: %s\n\n", conv.SystemPrompt))

	for _, msg := range conv.Messages {
		sb.WriteString(messageToMarkdown(&msg))
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// messageToMarkdown renders one message section.
func messageToMarkdown(msg *domain.Message) string {
	role := "You"
	if msg.Role == domain.RoleAssistant {
		role = "AI"
	}
	return fmt.Sprintf("## %s (%s)\n\n%s\n\n", role, formatTimestamp(msg.CreatedAt), msg.Content)
}

func formatTimestamp(t time.Time) string {
	return t.Format("1/2/2006, 3:04:05 PM")
}

func modelName(modelID string) string {
	if d, err := domain.LookupModel(modelID); err == nil {
		return d.Name
	}
	return modelID
}
