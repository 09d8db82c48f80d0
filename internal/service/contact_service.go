package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/model"
	"studio/backend/internal/repository"
)

const maxContactsPage = 200

type ContactService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewContactService(repo repository.Repository) *ContactService {
	return &ContactService{repo: repo, now: time.Now}
}

// Submit stores a contact form submission.
func (s *ContactService) Submit(ctx context.Context, req *model.ContactRequest) (*model.Contact, error) {
	contact := &model.Contact{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: s.now().UTC(),
	}
	if contact.Name == "" || contact.Message == "" {
		return nil, fmt.Errorf("%w: name and message must not be blank", app_errors.ErrValidation)
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("could not save contact: %w", err)
	}
	slog.Info("Contact form submitted", "contact_id", contact.ID)
	return contact, nil
}

// List returns the newest submissions first, at most limit of them.
func (s *ContactService) List(ctx context.Context, limit int) ([]*model.Contact, error) {
	if limit <= 0 || limit > maxContactsPage {
		limit = maxContactsPage
	}
	return s.repo.ListContacts(ctx, limit)
}

func (s *ContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	contact, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteContact(ctx, id); err != nil {
		return translate(err)
	}
	return nil
}

// translate maps repository errors onto the shared sentinels.
func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", app_errors.ErrNotFound, err)
	}
	return err
}
