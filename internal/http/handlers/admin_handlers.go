package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/renoflade/renoflade-api/internal/domain"
	"github.com/renoflade/renoflade-api/internal/http/response"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

// Login validates the shared staff password and sets the session cookie.
// Wrong passwords get one generic answer.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	tok, err := h.sessions.Login(in.Password)
	if err != nil {
		logger.WarnContext(r.Context(), "admin login failed", "outcome", "rejected")
		response.Unauthorized(w, "Invalid credentials")
		return
	}

	h.sessions.SetCookie(w, tok)
	response.JSON(w, http.StatusOK, map[string]string{"message": "logged in"})
}

// Logout clears the session cookie. Idempotent; it answers the same with or
// without a live session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	response.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var statusPtr *domain.BookingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := domain.ParseBookingStatus(raw)
		if !ok {
			response.BadRequest(w, "Invalid status parameter")
			return
		}
		statusPtr = &st
	}

	bookings, err := h.bookings.List(r.Context(), statusPtr, limit, offset)
	if err != nil {
		response.InternalError(w, "Failed to retrieve bookings")
		return
	}
	response.JSON(w, http.StatusOK, bookings)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		response.InternalError(w, "Failed to retrieve booking")
		return
	}
	if b == nil {
		response.NotFound(w, "Booking not found")
		return
	}
	response.JSON(w, http.StatusOK, b)
}

func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	status, ok := domain.ParseBookingStatus(in.Status)
	if !ok {
		response.BadRequest(w, "Invalid status")
		return
	}

	changed, err := h.bookings.SetStatus(r.Context(), id, status)
	if err != nil {
		response.InternalError(w, "Failed to update booking")
		return
	}
	if !changed {
		response.NotFound(w, "Booking not found or already in that status")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

func (h *Handlers) ApproveReschedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	ok, err := h.bookings.ApproveReschedule(r.Context(), id)
	if err != nil {
		response.InternalError(w, "Failed to approve reschedule")
		return
	}
	if !ok {
		response.Conflict(w, "No pending reschedule request for this booking")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "rescheduled"})
}

func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	leads, err := h.leads.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "Failed to retrieve leads")
		return
	}
	response.JSON(w, http.StatusOK, leads)
}
