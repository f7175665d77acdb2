// Package policy decides whether a chat request may be dispatched.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input is the document a chat request is evaluated against.
type Input struct {
	ModelID      string   `json:"model_id"`
	MessageCount int      `json:"message_count"`
	Roles        []string `json:"roles"`
}

// Evaluate checks the chat admission policy.
// Returns: decision ("allow" or "block"), error.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	// The input document goes in as a plain map so numeric fields stay
	// numbers under rego's comparison rules.
	doc := map[string]interface{}{
		"model_id":      input.ModelID,
		"message_count": input.MessageCount,
		"roles":         input.Roles,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(doc))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy is expected to define a default.
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "allow", nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package chat_policy

default decision := "allow"

# Block degenerate contexts that could never fit a completion window.
decision := "block" if {
	input.message_count > 1024
}
`
