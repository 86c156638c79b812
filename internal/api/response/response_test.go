package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/finance-dashboard/internal/api/response"
	"github.com/ndewijer/finance-dashboard/internal/testutil"
)

func TestRespondJSON(t *testing.T) {
	t.Run("sets content-type and status code correctly", func(t *testing.T) {
		w := httptest.NewRecorder()

		response.RespondJSON(w, http.StatusOK, map[string]string{"message": "success"})

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", w.Header().Get("Content-Type"))
		}
	})

	t.Run("handles nil data without error", func(t *testing.T) {
		w := httptest.NewRecorder()

		response.RespondJSON(w, http.StatusNoContent, nil)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("Expected empty body, got %q", w.Body.String())
		}
	})

	t.Run("handles un-encodable data gracefully", func(t *testing.T) {
		w := httptest.NewRecorder()

		// Channels cannot be JSON encoded
		response.RespondJSON(w, http.StatusOK, map[string]any{"channel": make(chan int)})

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})
}

func TestRespondError(t *testing.T) {
	t.Run("includes the error detail", func(t *testing.T) {
		w := httptest.NewRecorder()

		response.RespondError(w, http.StatusInternalServerError, "failed to refresh dashboard", errors.New("disk full"))

		resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		if resp.Error != "failed to refresh dashboard" || resp.Detail != "disk full" {
			t.Errorf("Unexpected error response: %+v", resp)
		}
	})

	t.Run("omits detail for nil errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		response.RespondError(w, http.StatusBadRequest, "bad request", nil)

		if body := w.Body.String(); body != "{\"error\":\"bad request\"}\n" {
			t.Errorf("Unexpected body %q", body)
		}
	})

	t.Run("validation errors list fields", func(t *testing.T) {
		w := httptest.NewRecorder()

		response.RespondValidationError(w, "invalid settings", map[string]string{"bank_twd": "must be a finite number"})

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
		resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		if resp.Fields["bank_twd"] == "" {
			t.Errorf("Expected bank_twd field, got %+v", resp)
		}
	})
}
