package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ndewijer/finance-dashboard/internal/api/response"
	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/repository"
	"github.com/ndewijer/finance-dashboard/internal/service"
	"github.com/ndewijer/finance-dashboard/internal/validation"
)

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// SettingsResponse is returned after a settings update.
type SettingsResponse struct {
	Saved    bool           `json:"saved"`
	Settings model.Settings `json:"settings"`
}

// Settings handles GET requests for the current settings.
//
// Endpoint: GET /api/settings
// Response: 200 OK with model.Settings
func (h *SettingsHandler) Settings(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.settingsService.Current())
}

// UpdateSettings handles PUT requests replacing the settings.
// The body uses the stored settings format: missing keys take their default values and
// the legacy twd/usd keys are accepted. Nothing is written when the value is unchanged.
//
// Endpoint: PUT /api/settings
// Response: 200 OK with SettingsResponse
// Error: 400 Bad Request for malformed or invalid settings
// Error: 500 Internal Server Error if the settings could not be saved
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	settings, err := repository.DecodeSettings(body)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	saved, err := h.settingsService.Sync(r.Context(), settings)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			response.RespondValidationError(w, apperrors.ErrInvalidSettings.Error(), verr.Fields)
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSaveSettings.Error(), err)
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, SettingsResponse{
		Saved:    saved,
		Settings: h.settingsService.Current(),
	})
}
