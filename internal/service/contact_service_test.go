package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/model"
	"studio/backend/internal/repository"
	mock_repo "studio/backend/internal/repository/mocks"
	"studio/backend/internal/service"
)

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewContactService(repo)

		repo.On("CreateContact", ctx, mock.MatchedBy(func(c *model.Contact) bool {
			return c.ID != "" && c.Name == "Ada" && c.Email == "ada@example.com" && !c.CreatedAt.IsZero()
		})).Return(nil).Once()

		contact, err := svc.Submit(ctx, &model.ContactRequest{Name: "  Ada ", Email: "ada@example.com", Message: "Hello"})
		require.NoError(t, err)
		assert.Equal(t, "Ada", contact.Name)
		assert.Len(t, contact.ID, 36)
	})

	t.Run("Failure - Blank after trimming", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewContactService(repo)

		_, err := svc.Submit(ctx, &model.ContactRequest{Name: "   ", Email: "a@b.co", Message: "x"})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - Repository error", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewContactService(repo)
		repo.On("CreateContact", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := svc.Submit(ctx, &model.ContactRequest{Name: "Ada", Email: "a@b.co", Message: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestContactService_List(t *testing.T) {
	ctx := context.Background()
	repo := mock_repo.NewMockRepository(t)
	svc := service.NewContactService(repo)

	want := []*model.Contact{{ID: "c1"}}
	repo.On("ListContacts", ctx, 200).Return(want, nil).Twice()
	repo.On("ListContacts", ctx, 5).Return(want, nil).Once()

	for _, limit := range []int{0, 10000, 5} {
		got, err := svc.List(ctx, limit)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestContactService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := mock_repo.NewMockRepository(t)
	svc := service.NewContactService(repo)

	repo.On("GetContact", ctx, "missing").Return(nil, repository.ErrNotFound).Once()
	repo.On("DeleteContact", ctx, "missing").Return(repository.ErrNotFound).Once()
	repo.On("GetContact", ctx, "c1").Return(&model.Contact{ID: "c1"}, nil).Once()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), app_errors.ErrNotFound)

	c, err := svc.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
}
