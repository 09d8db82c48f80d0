package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/llm"
	"studio/backend/internal/llm/mocks"
	"studio/backend/internal/model"
	"studio/backend/internal/service"
)

type stubSettings struct {
	settings *model.Settings
	err      error
}

func (s stubSettings) Get(context.Context) (*model.Settings, error) { return s.settings, s.err }

func TestChatService_ResolveTier(t *testing.T) {
	svc := service.NewChatService(nil, stubSettings{}, "m", model.TierBusiness)

	assert.Equal(t, model.TierPremium, svc.ResolveTier("premium"))
	assert.Equal(t, model.TierBasic, svc.ResolveTier("basic"))
	assert.Equal(t, model.TierBusiness, svc.ResolveTier("enterprise"), "unknown tiers fall back to the default")
	assert.Equal(t, model.TierBusiness, svc.ResolveTier(""))

	fallback := service.NewChatService(nil, stubSettings{}, "m", "bogus")
	assert.Equal(t, model.TierBasic, fallback.ResolveTier("nope"), "an invalid default becomes basic")
}

func TestChatService_OpenStream(t *testing.T) {
	ctx := context.Background()
	req := &model.DemoChatRequest{
		Tier: "premium",
		Messages: []model.ChatMessage{
			{Role: "user", Content: "A hero for a bakery"},
			{Role: "assistant", Content: "Here you go"},
			{Role: "user", Content: "Make it pink"},
		},
	}

	t.Run("Success - Uses stored model and tier prompt", func(t *testing.T) {
		mockLLM := mocks.NewMockLLMProvider(t)
		settings := stubSettings{settings: &model.Settings{
			Model:   "openai/gpt-5-mini",
			Prompts: map[model.Tier]string{model.TierPremium: "premium prompt"},
		}}
		svc := service.NewChatService(mockLLM, settings, "google/gemini-2.5-flash", model.TierBasic)

		body := io.NopCloser(strings.NewReader("data: [DONE]\n"))
		mockLLM.On("StreamChat", ctx, mock.MatchedBy(func(r *llm.ChatRequest) bool {
			return r.Model == "openai/gpt-5-mini" &&
				len(r.Messages) == 4 &&
				r.Messages[0] == llm.Message{Role: "system", Content: "premium prompt"} &&
				r.Messages[3].Content == "Make it pink"
		})).Return(body, nil).Once()

		got, err := svc.OpenStream(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, body, got)
	})

	t.Run("Success - Settings failure falls back to defaults", func(t *testing.T) {
		mockLLM := mocks.NewMockLLMProvider(t)
		svc := service.NewChatService(mockLLM, stubSettings{err: errors.New("db down")}, "google/gemini-2.5-flash", model.TierBasic)

		mockLLM.On("StreamChat", ctx, mock.MatchedBy(func(r *llm.ChatRequest) bool {
			return r.Model == "google/gemini-2.5-flash" &&
				r.Messages[0].Content == service.DefaultPrompts[model.TierBasic]
		})).Return(io.NopCloser(strings.NewReader("")), nil).Once()

		_, err := svc.OpenStream(ctx, &model.DemoChatRequest{
			Tier:     "unknown",
			Messages: []model.ChatMessage{{Role: "user", Content: "hi"}},
		})
		require.NoError(t, err)
	})

	t.Run("Failure - Gateway errors pass through", func(t *testing.T) {
		mockLLM := mocks.NewMockLLMProvider(t)
		svc := service.NewChatService(mockLLM, stubSettings{settings: &model.Settings{Model: "m"}}, "m", model.TierBasic)

		mockLLM.On("StreamChat", ctx, mock.Anything).Return(nil, app_errors.ErrQuotaExceeded).Once()

		body, err := svc.OpenStream(ctx, req)
		assert.Nil(t, body)
		assert.ErrorIs(t, err, app_errors.ErrQuotaExceeded)
	})
}
