package api

import (
	"log/slog"
	"net/http"

	"studio/backend/internal/interfaces"
	"studio/backend/internal/model"
)

// SettingsHandler exposes the runtime settings.
type SettingsHandler struct {
	service interfaces.SettingsService
}

func NewSettingsHandler(svc interfaces.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// GetSettings godoc
// @Summary      Get settings
// @Description  Returns the gateway model and the system prompt of every tier.
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  model.Settings
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/settings [get]
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary      Update settings
// @Description  The model must be offered by the gateway when its model list is reachable.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      model.Settings  true  "New settings"
// @Success      200       {object}  StatusResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/settings [post]
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := decodeJSON(w, r, &settings); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.service.Save(r.Context(), &settings); err != nil {
		respondWithError(w, err)
		return
	}
	slog.Info("Settings updated", "model", settings.Model)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
