package service

import (
	"context"

	"studio/backend/internal/llm"
)

// ModelService exposes the gateway's model catalog.
type ModelService struct {
	llm llm.LLMProvider
}

func NewModelService(llmProvider llm.LLMProvider) *ModelService {
	return &ModelService{llm: llmProvider}
}

// List returns every model the gateway offers.
func (s *ModelService) List(ctx context.Context) (*llm.ListModelsResponse, error) {
	return s.llm.ListModels(ctx)
}
