package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudhakarkatam/foliochat/internal/ai"
	"github.com/sudhakarkatam/foliochat/internal/model"
	"github.com/sudhakarkatam/foliochat/internal/pkg/response"
	"github.com/sudhakarkatam/foliochat/internal/pkg/streamframe"
	"github.com/sudhakarkatam/foliochat/internal/service"
)

type ChatHandler struct {
	chat     *service.ChatService
	defaults map[ai.ProviderID]string
}

func NewChatHandler(chat *service.ChatService, defaults map[ai.ProviderID]string) *ChatHandler {
	return &ChatHandler{chat: chat, defaults: defaults}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	Model    string        `json:"model"`
}

// Gemini serves the endpoint pinned to the native Google provider. The
// model field may still pick a different Gemini model; it never reroutes
// the request to another provider.
func (h *ChatHandler) Gemini(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	desc := ai.ResolveFor(ai.ProviderGoogle, req.Model, h.defaults)
	h.stream(c, desc, req)
}

// OpenRouter serves the endpoint pinned to the OpenRouter relay.
func (h *ChatHandler) OpenRouter(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	desc := ai.ResolveFor(ai.ProviderOpenRouter, req.Model, h.defaults)
	h.stream(c, desc, req)
}

// Chat serves the unified endpoint: the provider is chosen from the model
// name, gemini-family models natively and everything else via OpenRouter.
func (h *ChatHandler) Chat(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	desc := ai.Resolve(req.Model, h.defaults)
	h.stream(c, desc, req)
}

func (h *ChatHandler) bind(c *gin.Context) (*chatRequest, bool) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request: messages are required")
		return nil, false
	}
	if len(req.Messages) == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid request: messages are required")
		return nil, false
	}
	return &req, true
}

func (h *ChatHandler) stream(c *gin.Context, desc ai.ProviderDescriptor, req *chatRequest) {
	messages := make([]model.ConversationMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, model.ConversationMessage{Role: m.Role, Content: m.Content})
	}

	w := &frameWriter{c: c}
	err := h.chat.Chat(c.Request.Context(), desc, messages, w.writeText)
	if err != nil {
		if !w.started {
			writeError(c, err)
			return
		}
		// the status line is gone; the failure travels in-band as the
		// terminal error frame
		w.writeErrorFrame(clientMessage(err))
		return
	}
	// a successful stream with zero deltas still commits the protocol
	// headers and a 200
	w.begin()
}

// frameWriter serializes deltas into the line-frame protocol on the live
// response. Headers are committed when the first byte goes out.
type frameWriter struct {
	c       *gin.Context
	started bool
}

func (w *frameWriter) begin() {
	if w.started {
		return
	}
	w.started = true
	header := w.c.Writer.Header()
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set(streamframe.ProtocolHeader, streamframe.ProtocolVersion)
	header.Set("Cache-Control", "no-cache")
	w.c.Writer.WriteHeader(http.StatusOK)
}

func (w *frameWriter) writeText(delta string) error {
	w.begin()
	if _, err := w.c.Writer.Write(streamframe.Text(delta)); err != nil {
		return err
	}
	w.c.Writer.Flush()
	return nil
}

func (w *frameWriter) writeErrorFrame(message string) {
	if _, err := w.c.Writer.Write(streamframe.Error(message)); err != nil {
		return
	}
	w.c.Writer.Flush()
}
