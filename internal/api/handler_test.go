package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studio/backend/internal/api"
	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/interfaces/mocks"
	"studio/backend/internal/llm"
	"studio/backend/internal/model"
)

// addChiURLParams injects route parameters the way the chi router does, so
// handlers can be called directly.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestSettingsHandler_GetSettings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(svc)
		expected := &model.Settings{
			Model:   "google/gemini-2.5-flash",
			Prompts: map[model.Tier]string{model.TierBasic: "Keep it simple."},
		}
		svc.On("Get", mock.Anything).Return(expected, nil).Once()

		rr := httptest.NewRecorder()
		handler.GetSettings(rr, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got model.Settings
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, *expected, got)
	})

	t.Run("Failure", func(t *testing.T) {
		svc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(svc)
		svc.On("Get", mock.Anything).Return(nil, app_errors.ErrInternal).Once()

		rr := httptest.NewRecorder()
		handler.GetSettings(rr, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, decodeError(t, rr), "internal server error")
	})
}

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(svc)
		svc.On("Save", mock.Anything, mock.MatchedBy(func(s *model.Settings) bool {
			return s.Model == "openai/gpt-5-mini" && s.Prompts[model.TierPremium] == "Go big."
		})).Return(nil).Once()

		body := `{"model":"openai/gpt-5-mini","prompts":{"premium":"Go big."}}`
		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, httptest.NewRequest(http.MethodPost, "/api/v1/settings", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("Failure - Missing model", func(t *testing.T) {
		svc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(svc)

		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, httptest.NewRequest(http.MethodPost, "/api/v1/settings", strings.NewReader(`{"prompts":{}}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "Settings.Model")
	})

	t.Run("Failure - Malformed JSON", func(t *testing.T) {
		svc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(svc)

		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, httptest.NewRequest(http.MethodPost, "/api/v1/settings", strings.NewReader(`{"model":`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "invalid request payload")
	})

	t.Run("Failure - Unknown model", func(t *testing.T) {
		svc := mocks.NewMockSettingsService(t)
		handler := api.NewSettingsHandler(svc)
		svc.On("Save", mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: model %q is not offered by the gateway", app_errors.ErrValidation, "nope")).Once()

		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, httptest.NewRequest(http.MethodPost, "/api/v1/settings", strings.NewReader(`{"model":"nope"}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "not offered")
	})
}

func TestModelHandler_HandleListModels(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewMockModelService(t)
		handler := api.NewModelHandler(svc)
		expected := &llm.ListModelsResponse{Object: "list", Data: []llm.Model{{ID: "google/gemini-2.5-flash"}}}
		svc.On("List", mock.Anything).Return(expected, nil).Once()

		rr := httptest.NewRecorder()
		handler.HandleListModels(rr, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got llm.ListModelsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, *expected, got)
	})

	t.Run("Failure - Gateway error", func(t *testing.T) {
		svc := mocks.NewMockModelService(t)
		handler := api.NewModelHandler(svc)
		svc.On("List", mock.Anything).Return(nil, fmt.Errorf("%w: status 503", app_errors.ErrUpstream)).Once()

		rr := httptest.NewRecorder()
		handler.HandleListModels(rr, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, api.MessageGateway, decodeError(t, rr))
	})
}

func TestContactHandler_SubmitContact(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)
		created := &model.Contact{ID: "c1", Name: "Ada", Email: "ada@example.com", Message: "Hi"}
		svc.On("Submit", mock.Anything, &model.ContactRequest{Name: "Ada", Email: "ada@example.com", Message: "Hi"}).
			Return(created, nil).Once()

		body := `{"name":"Ada","email":"ada@example.com","message":"Hi"}`
		rr := httptest.NewRecorder()
		handler.SubmitContact(rr, httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got model.Contact
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "c1", got.ID)
	})

	t.Run("Failure - Invalid email", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)

		body := `{"name":"Ada","email":"not-an-email","message":"Hi"}`
		rr := httptest.NewRecorder()
		handler.SubmitContact(rr, httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "'email' tag")
	})
}

func TestContactHandler_ListContacts(t *testing.T) {
	t.Run("Success with limit", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)
		svc.On("List", mock.Anything, 5).Return([]*model.Contact{{ID: "c2"}, {ID: "c1"}}, nil).Once()

		rr := httptest.NewRecorder()
		handler.ListContacts(rr, httptest.NewRequest(http.MethodGet, "/api/v1/contact?limit=5", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []*model.Contact
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "c2", got[0].ID)
	})

	t.Run("Success without limit", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)
		svc.On("List", mock.Anything, 0).Return([]*model.Contact{}, nil).Once()

		rr := httptest.NewRecorder()
		handler.ListContacts(rr, httptest.NewRequest(http.MethodGet, "/api/v1/contact", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Failure - Bad limit", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)

		for _, q := range []string{"abc", "0", "-3"} {
			rr := httptest.NewRecorder()
			handler.ListContacts(rr, httptest.NewRequest(http.MethodGet, "/api/v1/contact?limit="+q, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code, "limit=%s", q)
		}
	})
}

func TestContactHandler_GetAndDelete(t *testing.T) {
	t.Run("Get - Success", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)
		svc.On("Get", mock.Anything, "c1").Return(&model.Contact{ID: "c1"}, nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/contact/c1", nil), map[string]string{"contactID": "c1"})
		rr := httptest.NewRecorder()
		handler.GetContact(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Get - Not found", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)
		svc.On("Get", mock.Anything, "missing").Return(nil, app_errors.ErrNotFound).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/contact/missing", nil), map[string]string{"contactID": "missing"})
		rr := httptest.NewRecorder()
		handler.GetContact(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Delete - Success", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)
		svc.On("Delete", mock.Anything, "c1").Return(nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/contact/c1", nil), map[string]string{"contactID": "c1"})
		rr := httptest.NewRecorder()
		handler.DeleteContact(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"deleted"}`, rr.Body.String())
	})

	t.Run("Delete - Storage failure", func(t *testing.T) {
		svc := mocks.NewMockContactService(t)
		handler := api.NewContactHandler(svc)
		svc.On("Delete", mock.Anything, "c1").Return(errors.New("database is locked")).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/contact/c1", nil), map[string]string{"contactID": "c1"})
		rr := httptest.NewRecorder()
		handler.DeleteContact(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "locked", "internal details stay in the log")
	})
}
