// Package export converts conversations to portable formats.
//
// Markdown and JSON are produced locally. PNG and PDF need a rendering
// surface the backend does not have, so those exporters delegate to a
// host-supplied domain.ImageRenderer.
package export

import (
	"fmt"

	"aichat/domain"
)

// Format is a supported export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatPNG      Format = "png"
	FormatPDF      Format = "pdf"
)

// Exporter converts one conversation to a byte payload.
type Exporter interface {
	Export(conv *domain.Conversation) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// For returns the exporter for a format. PNG and PDF require a
// renderer; pass nil when the host offers none and those formats will
// be rejected.
func For(format Format, renderer domain.ImageRenderer) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownExporter{}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	case FormatPNG:
		if renderer == nil {
			return nil, fmt.Errorf("png export requires an image renderer")
		}
		return &pngExporter{renderer: renderer}, nil
	case FormatPDF:
		if renderer == nil {
			return nil, fmt.Errorf("pdf export requires an image renderer")
		}
		return &pdfExporter{renderer: renderer}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}
