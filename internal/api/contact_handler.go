package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/interfaces"
	"studio/backend/internal/model"
)

// ContactHandler handles the site's contact form and its inbox.
type ContactHandler struct {
	service interfaces.ContactService
}

func NewContactHandler(svc interfaces.ContactService) *ContactHandler {
	return &ContactHandler{service: svc}
}

// SubmitContact godoc
// @Summary      Submit the contact form
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        request  body      model.ContactRequest  true  "Name, email and message"
// @Success      201      {object}  model.Contact
// @Failure      400      {object}  ErrorResponse
// @Failure      429      {object}  ErrorResponse
// @Router       /v1/contact [post]
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	contact, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, contact)
}

// ListContacts godoc
// @Summary      List contact submissions
// @Description  Newest first.
// @Tags         Contact
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of submissions (1-200)"
// @Success      200    {array}   model.Contact
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/contact [get]
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, fmt.Errorf("%w: limit must be a positive integer", app_errors.ErrValidation))
			return
		}
		limit = n
	}
	contacts, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, contacts)
}

// GetContact godoc
// @Summary      Get a contact submission
// @Tags         Contact
// @Produce      json
// @Param        contactID  path      string  true  "Submission ID"
// @Success      200        {object}  model.Contact
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/contact/{contactID} [get]
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := h.service.Get(r.Context(), chi.URLParam(r, "contactID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, contact)
}

// DeleteContact godoc
// @Summary      Delete a contact submission
// @Tags         Contact
// @Produce      json
// @Param        contactID  path      string  true  "Submission ID"
// @Success      200        {object}  StatusResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/contact/{contactID} [delete]
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "contactID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
