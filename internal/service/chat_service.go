package service

import (
	"context"
	"io"
	"log/slog"

	"studio/backend/internal/llm"
	"studio/backend/internal/model"
)

// SettingsSource is where the chat service reads the current model and
// prompts from. *SettingsService satisfies it.
type SettingsSource interface {
	Get(ctx context.Context) (*model.Settings, error)
}

// ChatService turns a demo chat request into a streaming gateway call.
type ChatService struct {
	llm          llm.LLMProvider
	settings     SettingsSource
	defaultModel string
	defaultTier  model.Tier
}

func NewChatService(llmProvider llm.LLMProvider, settings SettingsSource, defaultModel string, defaultTier model.Tier) *ChatService {
	if !defaultTier.Valid() {
		defaultTier = model.TierBasic
	}
	return &ChatService{
		llm:          llmProvider,
		settings:     settings,
		defaultModel: defaultModel,
		defaultTier:  defaultTier,
	}
}

// ResolveTier maps a requested tier to a known one. Unknown or empty tiers
// use the configured default.
func (s *ChatService) ResolveTier(requested string) model.Tier {
	if tier := model.Tier(requested); tier.Valid() {
		return tier
	}
	return s.defaultTier
}

// OpenStream starts a streaming completion for req and returns the gateway's
// event-stream body. Gateway failures come back wrapped in the shared
// sentinels (rate limited, quota exceeded, upstream).
func (s *ChatService) OpenStream(ctx context.Context, req *model.DemoChatRequest) (io.ReadCloser, error) {
	tier := s.ResolveTier(req.Tier)
	modelID, prompt := s.selection(ctx, tier)

	messages := make([]llm.Message, 0, len(req.Messages)+1)
	messages = append(messages, llm.Message{Role: "system", Content: prompt})
	for _, m := range req.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	slog.Debug("Opening demo chat stream", "tier", tier, "model", modelID, "messages", len(req.Messages))
	return s.llm.StreamChat(ctx, &llm.ChatRequest{Model: modelID, Messages: messages})
}

// selection picks the model and system prompt for tier. A settings failure
// falls back to the built-in defaults rather than failing the chat.
func (s *ChatService) selection(ctx context.Context, tier model.Tier) (string, string) {
	modelID, prompt := s.defaultModel, DefaultPrompts[tier]

	settings, err := s.settings.Get(ctx)
	if err != nil {
		slog.Warn("Could not load settings, using defaults", "error", err)
		return modelID, prompt
	}
	if settings.Model != "" {
		modelID = settings.Model
	}
	if p := settings.Prompt(tier); p != "" {
		prompt = p
	}
	return modelID, prompt
}
