package export

import (
	"context"

	"aichat/domain"
)

// pngExporter delegates rendering to the host's image renderer.
type pngExporter struct {
	renderer domain.ImageRenderer
}

func (e *pngExporter) Export(conv *domain.Conversation) ([]byte, error) {
	return e.renderer.RenderPNG(context.Background(), conv)
}

func (e *pngExporter) FileExtension() string { return ".png" }
func (e *pngExporter) MimeType() string      { return "image/png" }

// pdfExporter delegates to the host renderer's image-embedded PDF.
type pdfExporter struct {
	renderer domain.ImageRenderer
}

func (e *pdfExporter) Export(conv *domain.Conversation) ([]byte, error) {
	return e.renderer.RenderPDF(context.Background(), conv)
}

func (e *pdfExporter) FileExtension() string { return ".pdf" }
func (e *pdfExporter) MimeType() string      { return "application/pdf" }
