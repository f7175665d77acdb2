package domain

import "fmt"

// ModelDescriptor is an immutable catalog entry for a selectable model.
// The ID is provider-qualified ("<provider>/<name>").
type ModelDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxTokens   int    `json:"max_tokens"`
	TokenLimit  int    `json:"token_limit"`
}

const (
	// DefaultModelID is assigned to newly created conversations.
	DefaultModelID = "anthropic/claude-3-sonnet"

	// DefaultSystemPrompt is assigned to newly created conversations.
	DefaultSystemPrompt = "You are a helpful, intelligent, and versatile AI assistant. Respond concisely unless asked for details."
)

// Models is the static model catalog, in display order.
var Models = []ModelDescriptor{
	{
		ID:          "anthropic/claude-3-opus",
		Name:        "Claude 3 Opus",
		Description: "Most powerful model for highly complex tasks",
		MaxTokens:   4096,
		TokenLimit:  200000,
	},
	{
		ID:          "anthropic/claude-3-sonnet",
		Name:        "Claude 3 Sonnet",
		Description: "Excellent balance of intelligence and speed",
		MaxTokens:   4096,
		TokenLimit:  150000,
	},
	{
		ID:          "anthropic/claude-3-haiku",
		Name:        "Claude 3 Haiku",
		Description: "Fastest model, great for simpler tasks",
		MaxTokens:   4096,
		TokenLimit:  100000,
	},
	{
		ID:          "openai/gpt-4o",
		Name:        "GPT-4o",
		Description: "OpenAI's most advanced multi-modal model",
		MaxTokens:   4096,
		TokenLimit:  128000,
	},
	{
		ID:          "openai/gpt-4-turbo",
		Name:        "GPT-4 Turbo",
		Description: "Powerful model with strong reasoning capabilities",
		MaxTokens:   4096,
		TokenLimit:  128000,
	},
	{
		ID:          "openai/gpt-3.5-turbo",
		Name:        "GPT-3.5 Turbo",
		Description: "Fast and cost-effective for simpler tasks",
		MaxTokens:   4096,
		TokenLimit:  16000,
	},
	{
		ID:          "github/gpt-4.1",
		Name:        "GPT-4.1 (GitHub Models)",
		Description: "GPT-4.1 served through the GitHub Models inference endpoint",
		MaxTokens:   4096,
		TokenLimit:  128000,
	},
}

var modelsByID = func() map[string]ModelDescriptor {
	m := make(map[string]ModelDescriptor, len(Models))
	for _, d := range Models {
		m[d.ID] = d
	}
	return m
}()

// LookupModel returns the catalog entry for id. Unknown ids are an
// error; the catalog never guesses.
func LookupModel(id string) (ModelDescriptor, error) {
	d, ok := modelsByID[id]
	if !ok {
		return ModelDescriptor{}, fmt.Errorf("model %s not found", id)
	}
	return d, nil
}
