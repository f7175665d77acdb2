package relay

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qmuntal/stateless"

	"aichat/domain"
	"aichat/logger"
	"aichat/provider"
)

// MidStreamNotice is appended to the committed stream when the backend
// fails after fragments were already forwarded. The status line is long
// gone at that point, so the notice is the only failure signal the
// caller gets.
const MidStreamNotice = "\n\n[Error: the response was interrupted before completion]"

// FragmentObserver is invoked once per forwarded fragment, after the
// fragment has been written to the client.
type FragmentObserver func(fragment string)

// RegisterRoutes registers the relay route.
func (rl *Relay) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", rl.HandleChat)
}

// HandleChat handles a stateless chat request.
// POST /api/chat
func (rl *Relay) HandleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: &APIError{Message: "invalid request body", Type: "invalid_request_error"},
		})
	}
	return rl.StreamHTTP(c, &req, nil)
}

// StreamHTTP runs the full request lifecycle against c's response:
// validation, dispatch, fragment forwarding, close. Failures before the
// first forwarded byte surface as a JSON error with a real status code;
// failures after it append MidStreamNotice to the committed stream.
func (rl *Relay) StreamHTTP(c echo.Context, req *ChatRequest, observe FragmentObserver) error {
	ctx := c.Request().Context()
	fsm := newRequestFSM()

	messages, reqErr := rl.Admit(ctx, req)
	if reqErr != nil {
		mustFire(fsm, triggerFailed)
		return c.JSON(reqErr.Status, ErrorResponse{
			Error: &APIError{Message: reqErr.Message, Type: reqErr.Type, Param: reqErr.Param},
		})
	}
	mustFire(fsm, triggerValidated)

	backend, nativeModel := rl.router.Resolve(req.ModelID)
	logger.L.Debug("dispatching chat request",
		"model", req.ModelID, "backend", backend.Name(), "native_model", nativeModel)

	w := c.Response()
	flusher, _ := w.Writer.(http.Flusher)

	err := backend.StreamChat(ctx, nativeModel, messages, func(fragment string) error {
		if st, _ := fsm.State(ctx); st == stateDispatched {
			commitStream(w)
			mustFire(fsm, triggerFirstFragment)
		}
		if _, werr := fmt.Fprint(w.Writer, fragment); werr != nil {
			return werr
		}
		if flusher != nil {
			flusher.Flush()
		}
		if observe != nil {
			observe(fragment)
		}
		return nil
	})

	if err != nil {
		st, _ := fsm.State(ctx)
		mustFire(fsm, triggerFailed)
		if st == stateStreaming {
			// Headers are committed; the best we can do is say so inline.
			logger.L.Error("backend stream interrupted", "model", req.ModelID, "error", err)
			fmt.Fprint(w.Writer, MidStreamNotice)
			if flusher != nil {
				flusher.Flush()
			}
			return nil
		}
		logger.L.Error("backend dispatch failed", "model", req.ModelID, "error", err)
		status := http.StatusBadGateway
		var dispatchErr *provider.DispatchError
		if !errors.As(err, &dispatchErr) {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, ErrorResponse{
			Error: &APIError{Message: "an error occurred during the request", Type: "upstream_error"},
		})
	}

	// A backend may legally end the stream without a single fragment;
	// the response is then an empty 200 body.
	if st, _ := fsm.State(ctx); st == stateDispatched {
		commitStream(w)
	}
	mustFire(fsm, triggerCompleted)
	return nil
}

// Messages builds the flattened message list the relay expects for a
// stored conversation: the system prompt (when set) followed by the
// conversation history, normalized to role and content.
func Messages(conv *domain.Conversation) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(conv.Messages)+1)
	if conv.SystemPrompt != "" {
		out = append(out, domain.ChatMessage{Role: domain.RoleSystem, Content: conv.SystemPrompt})
	}
	for _, m := range conv.Messages {
		out = append(out, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

func commitStream(w *echo.Response) {
	w.Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
}

func mustFire(fsm *stateless.StateMachine, trigger fsmTrigger) {
	if err := fsm.Fire(trigger); err != nil {
		logger.L.Warn("request fsm fire error", "trigger", trigger, "error", err)
	}
}
