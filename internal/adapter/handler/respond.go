// Package handler exposes the booking core over HTTP with chi. Handlers
// translate requests into service calls and sentinel errors into status
// codes; identity arrives pre-verified from the upstream auth layer as
// X-User-* headers and is trusted verbatim.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/seatsync/ticketd/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSeatLocked),
		errors.Is(err, domain.ErrSoldOut),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrEventHasTickets):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// requesterFrom reads the trusted identity headers. The gateway in front
// of this service has already authenticated the caller.
func requesterFrom(r *http.Request) (domain.Requester, bool) {
	id, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		return domain.Requester{}, false
	}
	return domain.Requester{
		ID:      id,
		Email:   r.Header.Get("X-User-Email"),
		IsAdmin: r.Header.Get("X-User-Role") == "admin",
	}, true
}
