package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/renoflade/renoflade-api/internal/domain"
	"github.com/renoflade/renoflade-api/internal/http/response"
)

type bookingCreatedResponse struct {
	Booking   *domain.Booking `json:"booking"`
	ManageURL string          `json:"manage_url"`
}

// CreateBooking handles the public booking form. The response carries the
// manage link once; it is otherwise only delivered by email.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	b, tok, err := h.bookings.Create(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, bookingCreatedResponse{
		Booking:   b,
		ManageURL: h.bookings.ManageURL(tok),
	})
}

// GetManagedBooking renders booking status for a manage link.
func (h *Handlers) GetManagedBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		serviceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, b)
}

// CancelManagedBooking cancels the booking a manage link addresses. The
// token is re-resolved here regardless of any earlier GET.
func (h *Handlers) CancelManagedBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Cancel(r.Context(), chi.URLParam(r, "token")); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RescheduleManagedBooking records a reschedule wish for staff to confirm.
func (h *Handlers) RescheduleManagedBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if err := h.bookings.RequestReschedule(r.Context(), chi.URLParam(r, "token"), &req); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// SubmitEstimate handles the instant-estimate form and stores the lead.
func (h *Handlers) SubmitEstimate(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	lead, err := h.leads.SubmitEstimate(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"estimate_low":  lead.EstimateLow,
		"estimate_high": lead.EstimateHigh,
		"currency":      "DKK",
	})
}
