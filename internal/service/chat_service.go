package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/sudhakarkatam/foliochat/internal/ai"
	"github.com/sudhakarkatam/foliochat/internal/logsink"
	"github.com/sudhakarkatam/foliochat/internal/model"
	appErr "github.com/sudhakarkatam/foliochat/internal/pkg/errors"
)

// ChatService relays one chat request through the selected provider. Each
// call is an independent, stateless execution; the only shared state is the
// vector store (read-only here) and the log sink.
type ChatService struct {
	providers map[ai.ProviderID]ai.IChatProvider
	retrieval *RetrievalService
	prompts   *PromptService
	sink      logsink.Sink
}

func NewChatService(providers map[ai.ProviderID]ai.IChatProvider, retrieval *RetrievalService, prompts *PromptService, sink logsink.Sink) *ChatService {
	return &ChatService{
		providers: providers,
		retrieval: retrieval,
		prompts:   prompts,
		sink:      sink,
	}
}

// Chat runs the full pipeline: retrieve context, assemble the prompt, and
// stream the provider's deltas through onDelta in order. On success the
// buffered full response is handed to the log sink from a detached task.
func (s *ChatService) Chat(ctx context.Context, desc ai.ProviderDescriptor, messages []model.ConversationMessage, onDelta func(delta string) error) error {
	provider := s.providers[desc.Provider]
	if provider == nil {
		return ai.ErrUnavailable
	}
	history := sanitizeMessages(messages)
	if len(history) == 0 {
		return appErr.ErrInvalid
	}
	query := lastUserMessage(history)

	contextText, ranked := s.retrieval.Retrieve(ctx, query)
	system := s.prompts.Assemble(ctx, contextText, desc.Provider)
	logutil.GetLogger(ctx).Info("dispatching chat",
		zap.String("provider", string(desc.Provider)),
		zap.String("model", desc.Model),
		zap.Bool("ranked_context", ranked),
		zap.Int("history", len(history)),
	)

	var full strings.Builder
	err := provider.ChatStream(ctx, desc.Model, system, history, func(delta string) error {
		full.WriteString(delta)
		return onDelta(delta)
	})
	if err != nil {
		return err
	}
	s.logCompleted(ctx, desc, query, full.String())
	return nil
}

// sanitizeMessages drops empty messages and remaps non-standard roles to
// system. The input slice is not mutated.
func sanitizeMessages(messages []model.ConversationMessage) []model.ConversationMessage {
	out := make([]model.ConversationMessage, 0, len(messages))
	for _, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		role := msg.Role
		switch role {
		case model.RoleUser, model.RoleAssistant, model.RoleSystem:
		default:
			role = model.RoleSystem
		}
		out = append(out, model.ConversationMessage{Role: role, Content: content})
	}
	return out
}

func lastUserMessage(messages []model.ConversationMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleUser {
			return messages[i].Content
		}
	}
	return messages[len(messages)-1].Content
}

// logCompleted hands the finished turn to the sink as a detached task with
// at-most-once, best-effort semantics. A sink failure never reaches the
// client: the response was already delivered.
func (s *ChatService) logCompleted(ctx context.Context, desc ai.ProviderDescriptor, query, response string) {
	if s.sink == nil {
		return
	}
	entry := &model.ChatLog{
		Provider: string(desc.Provider),
		Model:    desc.Model,
		Query:    query,
		Response: response,
		Ctime:    time.Now().UnixMilli(),
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := s.sink.Write(detached, entry); err != nil {
			logutil.GetLogger(detached).Warn("chat log write failed", zap.Error(err))
		}
	}()
}
