package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/shop/internal/core/domain"
)

const (
	kindInvalidReference  = "invalid_reference"
	kindNotFound          = "not_found"
	kindInsufficientStock = "insufficient_stock"
	kindValidation        = "validation_error"
	kindUnavailable       = "unavailable"
	kindInternal          = "internal_error"
)

type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, kind, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: kind, Details: details})
}

// writeError maps err to a status code. Only [domain.Error] messages
// reach the client, anything else is logged and reported as internal.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Error("request failed", "err", err)
		WriteJSONError(
			w, http.StatusInternalServerError, kindInternal,
			"internal server error",
		)
		return
	}

	status, kind := errorStatus(derr.Kind)
	log.Warn("request rejected", "kind", kind, "err", err)
	WriteJSONError(w, status, kind, derr.Msg)
}

func errorStatus(kind error) (int, string) {
	switch kind {
	case domain.ErrInvalidReference:
		return http.StatusBadRequest, kindInvalidReference
	case domain.ErrValidation:
		return http.StatusBadRequest, kindValidation
	case domain.ErrNotFound:
		return http.StatusNotFound, kindNotFound
	case domain.ErrInsufficientStock:
		return http.StatusConflict, kindInsufficientStock
	case domain.ErrUnavailable:
		return http.StatusServiceUnavailable, kindUnavailable
	}
	return http.StatusInternalServerError, kindInternal
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
