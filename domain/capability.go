package domain

import "context"

// Host capabilities. Rendering a conversation to an image and capturing
// voice input both need facilities only the embedding environment has
// (a DOM, a microphone); the backend depends on these contracts and
// never on a concrete implementation.

// ImageRenderer renders a conversation to an image, either bare PNG or
// embedded in a single-page PDF.
type ImageRenderer interface {
	RenderPNG(ctx context.Context, conv *Conversation) ([]byte, error)
	RenderPDF(ctx context.Context, conv *Conversation) ([]byte, error)
}

// VoiceCapture transcribes a single voice input session to text.
type VoiceCapture interface {
	Capture(ctx context.Context) (string, error)
}
