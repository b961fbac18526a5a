package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// respondError maps a service error to an HTTP response.
//
//	ErrValidation → 422 with the rule that was violated
//	ErrNotFound   → 404
//	ErrInFlight   → 409
//	anything else → 502, the upstream call failed; the body carries the
//	                fixed localized message for the operation kind
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", domain.UserMessage(err))
	case errors.Is(err, domain.ErrInFlight):
		writeError(w, http.StatusConflict, "in_flight", domain.UserMessage(err))
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", domain.UserMessage(err))
	}
}

// respondBadRequest rejects a request before it reaches the service layer
// (e.g. malformed body or path parameter).
func respondBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "bad_request", message)
}

// unwrapMessage extracts the human-readable part from a wrapped validation
// error, e.g. "service.TripService.Create: validation error: title is
// required" → "title is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
