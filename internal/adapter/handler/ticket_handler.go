package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/seatsync/ticketd/internal/core/services"
)

type TicketHandler struct {
	svc *services.BookingService
}

func NewTicketHandler(svc *services.BookingService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// Book handles POST /events/{id}/tickets. A denied per-event lock or a
// sold-out ledger both come back as 409; the former is retryable by the
// caller, the latter is not.
func (h *TicketHandler) Book(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing identity"})
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	confirmation, err := h.svc.BookSeat(r.Context(), eventID, requester)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmation)
}

// Cancel handles DELETE /tickets/{id}.
func (h *TicketHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing identity"})
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ticket id"})
		return
	}

	if err := h.svc.CancelTicket(r.Context(), ticketID, requester); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ticket cancelled"})
}

// MyTickets handles GET /my-tickets.
func (h *TicketHandler) MyTickets(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing identity"})
		return
	}

	tickets, err := h.svc.ListUserTickets(r.Context(), requester.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}
