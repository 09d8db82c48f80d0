package repository

import (
	"context"

	"studio/backend/internal/model"
)

// Repository stores contact form submissions.
type Repository interface {
	CreateContact(ctx context.Context, contact *model.Contact) error
	GetContact(ctx context.Context, id string) (*model.Contact, error)
	ListContacts(ctx context.Context, limit int) ([]*model.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}
