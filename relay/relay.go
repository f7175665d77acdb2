// Package relay forwards chat requests to a completion backend and
// republishes the token stream to the caller as it arrives.
package relay

import (
	"context"
	"net/http"

	"github.com/qmuntal/stateless"

	"aichat/domain"
	"aichat/policy"
	"aichat/provider"
)

// Request states. Each relayed request walks
// Validating -> Dispatched -> Streaming -> Closed, with an error
// transition to Failed from any state. Whether a failure surfaces as a
// status code or as an inline notice depends on the state it happened
// in: headers are only committed once Streaming is entered.
type fsmState stateless.State

var (
	stateValidating fsmState = "Validating"
	stateDispatched fsmState = "Dispatched"
	stateStreaming  fsmState = "Streaming"
	stateClosed     fsmState = "Closed"
	stateFailed     fsmState = "Failed"
)

type fsmTrigger stateless.Trigger

var (
	triggerValidated     fsmTrigger = "Validated"
	triggerFirstFragment fsmTrigger = "FirstFragment"
	triggerCompleted     fsmTrigger = "Completed"
	triggerFailed        fsmTrigger = "Failed"
)

func newRequestFSM() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(stateValidating)
	fsm.Configure(stateValidating).
		Permit(triggerValidated, stateDispatched).
		Permit(triggerFailed, stateFailed)
	fsm.Configure(stateDispatched).
		Permit(triggerFirstFragment, stateStreaming).
		Permit(triggerCompleted, stateClosed).
		Permit(triggerFailed, stateFailed)
	fsm.Configure(stateStreaming).
		Permit(triggerCompleted, stateClosed).
		Permit(triggerFailed, stateFailed)
	return fsm
}

// ChatRequest is the inbound relay request.
type ChatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
	ModelID  string               `json:"modelId"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError carries the error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
}

// RequestError is a pre-stream rejection with an HTTP status.
type RequestError struct {
	Status  int
	Message string
	Type    string
	Param   string
}

func (e *RequestError) Error() string { return e.Message }

// Relay validates chat requests, dispatches them to the resolved
// backend and forwards the fragment stream. It holds no per-request
// state; one Relay serves any number of concurrent requests.
type Relay struct {
	router *provider.Router
	policy *policy.Engine
}

// New creates a relay over the given router and admission policy.
func New(router *provider.Router, policyEngine *policy.Engine) *Relay {
	return &Relay{router: router, policy: policyEngine}
}

// Admit validates and normalizes the request. The returned messages
// carry exactly role and content; anything else the caller supplied is
// discarded. A nil error means the request may be dispatched.
func (rl *Relay) Admit(ctx context.Context, req *ChatRequest) ([]domain.ChatMessage, *RequestError) {
	if len(req.Messages) == 0 {
		return nil, &RequestError{
			Status:  http.StatusBadRequest,
			Message: "messages is required",
			Type:    "invalid_request_error",
			Param:   "messages",
		}
	}
	if req.ModelID == "" {
		return nil, &RequestError{
			Status:  http.StatusBadRequest,
			Message: "modelId is required",
			Type:    "invalid_request_error",
			Param:   "modelId",
		}
	}

	messages := make([]domain.ChatMessage, len(req.Messages))
	roles := make([]string, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = domain.ChatMessage{Role: m.Role, Content: m.Content}
		roles[i] = string(m.Role)
	}

	decision, err := rl.policy.Evaluate(ctx, policy.Input{
		ModelID:      req.ModelID,
		MessageCount: len(messages),
		Roles:        roles,
	})
	if err != nil {
		return nil, &RequestError{
			Status:  http.StatusInternalServerError,
			Message: "policy evaluation failed",
			Type:    "internal_error",
		}
	}
	if decision == "block" {
		return nil, &RequestError{
			Status:  http.StatusForbidden,
			Message: "request blocked by policy",
			Type:    "policy_error",
		}
	}
	return messages, nil
}
