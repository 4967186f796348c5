package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

type ProviderID string

const (
	ProviderGoogle     ProviderID = "google"
	ProviderOpenRouter ProviderID = "openrouter"
)

// ProviderDescriptor names the upstream a request is bound to. It is
// resolved exactly once at the request boundary and never re-derived
// downstream.
type ProviderDescriptor struct {
	Provider ProviderID
	Model    string
}

// Resolve picks the provider for a client-supplied model identifier. Model
// names containing "gemini" go to the native Google provider; everything
// else is relayed through OpenRouter. An empty model falls back to the
// Google default.
func Resolve(modelName string, defaults map[ProviderID]string) ProviderDescriptor {
	name := strings.TrimSpace(modelName)
	if name == "" {
		return ResolveFor(ProviderGoogle, "", defaults)
	}
	if strings.Contains(strings.ToLower(name), "gemini") {
		return ResolveFor(ProviderGoogle, name, defaults)
	}
	return ResolveFor(ProviderOpenRouter, name, defaults)
}

// ResolveFor pins the provider (endpoint-bound routes) and fills in the
// provider's default model when the client did not name one.
func ResolveFor(id ProviderID, modelName string, defaults map[ProviderID]string) ProviderDescriptor {
	name := strings.TrimSpace(modelName)
	if name == "" {
		name = defaults[id]
	}
	return ProviderDescriptor{Provider: id, Model: name}
}

// IChatProvider streams one chat completion. Implementations call onDelta
// once per upstream text delta, in order, and return only after the
// upstream stream ended. An onDelta error aborts the upstream read.
type IChatProvider interface {
	Name() string
	ChatStream(ctx context.Context, modelName string, system string, history []model.ConversationMessage, onDelta func(delta string) error) error
}

type IEmbedProvider interface {
	Name() string
	Embed(ctx context.Context, modelName string, text string, taskType string) ([]float32, error)
}

// IEmbedder is an embed provider bound to one model, so every stored vector
// shares the same dimensionality.
type IEmbedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	ModelName() string
}

type embedder struct {
	provider IEmbedProvider
	model    string
}

func NewEmbedder(p IEmbedProvider, modelName string) IEmbedder {
	return &embedder{provider: p, model: modelName}
}

func (e *embedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return e.provider.Embed(ctx, e.model, text, taskType)
}

func (e *embedder) ModelName() string {
	return e.model
}

type ChatFactory func(args interface{}) (IChatProvider, error)
type EmbedFactory func(args interface{}) (IEmbedProvider, error)

var (
	chatRegistry  = map[string]ChatFactory{}
	embedRegistry = map[string]EmbedFactory{}
)

func Register(name string, factory ChatFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	chatRegistry[key] = factory
}

func RegisterEmbed(name string, factory EmbedFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	embedRegistry[key] = factory
}

func NewChatProvider(name string, args interface{}) (IChatProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	factory := chatRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported chat provider: %s", name)
	}
	return factory(args)
}

func NewEmbedProvider(name string, args interface{}) (IEmbedProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	factory := embedRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embed provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
