package interfaces

import (
	"context"
	"io"

	"studio/backend/internal/llm"
	"studio/backend/internal/model"
	"studio/backend/internal/motion"
)

// The API layer depends on these contracts rather than on the concrete
// services so handlers can be tested against mocks.

// ChatService proxies demo chat requests to the AI gateway.
type ChatService interface {
	OpenStream(ctx context.Context, req *model.DemoChatRequest) (io.ReadCloser, error)
}

// ContactService manages contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, req *model.ContactRequest) (*model.Contact, error)
	List(ctx context.Context, limit int) ([]*model.Contact, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

// SettingsService reads and writes the runtime settings.
type SettingsService interface {
	Get(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, settings *model.Settings) error
}

// ModelService lists the gateway's models.
type ModelService interface {
	List(ctx context.Context) (*llm.ListModelsResponse, error)
}

// EffectService streams particle effect frames.
type EffectService interface {
	Names() []string
	Run(ctx context.Context, name string, seed uint64, maxFrames int, sink func(motion.Frame) error) error
}
