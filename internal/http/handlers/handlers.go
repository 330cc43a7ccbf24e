package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/renoflade/renoflade-api/internal/http/response"
	"github.com/renoflade/renoflade-api/internal/platform/session"
	"github.com/renoflade/renoflade-api/internal/service"
)

type Handlers struct {
	bookings *service.BookingService
	leads    *service.LeadService
	sessions *session.Manager
}

func New(bookings *service.BookingService, leads *service.LeadService, sessions *session.Manager) *Handlers {
	return &Handlers{
		bookings: bookings,
		leads:    leads,
		sessions: sessions,
	}
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// serviceError maps service failures onto the public error vocabulary.
func serviceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(w, ve.Error())
	case errors.Is(err, service.ErrInvalidLink):
		response.InvalidLink(w)
	case errors.Is(err, service.ErrNotModifiable):
		response.Conflict(w, "This booking can no longer be changed.")
	default:
		response.InternalError(w, "Something went wrong. Please try again.")
	}
}
