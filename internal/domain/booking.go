package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusRescheduleRequested BookingStatus = "reschedule_requested"
	StatusCanceled            BookingStatus = "canceled"
	StatusCompleted           BookingStatus = "completed"
)

func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusRescheduleRequested:
		return StatusRescheduleRequested, true
	case StatusCanceled:
		return StatusCanceled, true
	case StatusCompleted:
		return StatusCompleted, true
	}
	return "", false
}

// Booking is a refinishing appointment. The ID doubles as the public
// reference; a UUID so it cannot be guessed from a sequence.
type Booking struct {
	ID             uuid.UUID     `json:"id"`
	Status         BookingStatus `json:"status"`
	CustomerName   string        `json:"customer_name"`
	CustomerEmail  string        `json:"customer_email"`
	CustomerPhone  string        `json:"customer_phone"`
	Address        string        `json:"address"`
	Material       Material      `json:"material"`
	AreaM2         float64       `json:"area_m2"`
	ScheduledAt    time.Time     `json:"scheduled_at"`
	RequestedAt    *time.Time    `json:"requested_at,omitempty"`
	RescheduleNote string        `json:"reschedule_note,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Active reports whether the appointment is still in play; only active
// bookings can be canceled or rescheduled through the manage link.
func (b *Booking) Active() bool {
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusRescheduleRequested:
		return true
	}
	return false
}

// BookingRequest is the public booking form payload.
type BookingRequest struct {
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	Address       string    `json:"address"`
	Material      string    `json:"material"`
	AreaM2        float64   `json:"area_m2"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Notes         string    `json:"notes"`
}

func (r *BookingRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.Address = strings.TrimSpace(r.Address)
	r.Material = strings.ToLower(strings.TrimSpace(r.Material))
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *BookingRequest) Validate(now time.Time) error {
	if r.CustomerName == "" {
		return errors.New("customer name is required")
	}
	if r.CustomerEmail == "" || !strings.Contains(r.CustomerEmail, "@") {
		return errors.New("a valid email is required")
	}
	if r.CustomerPhone == "" {
		return errors.New("customer phone is required")
	}
	if r.Address == "" {
		return errors.New("address is required")
	}
	if _, ok := ParseMaterial(r.Material); !ok {
		return errors.New("unknown countertop material")
	}
	if r.AreaM2 <= 0 || r.AreaM2 > 200 {
		return errors.New("area must be between 0 and 200 m2")
	}
	if !r.ScheduledAt.After(now) {
		return errors.New("scheduled time must be in the future")
	}
	return nil
}

// RescheduleRequest carries a customer's wish for a new appointment slot.
// Staff confirm or decline it; the booking itself is not moved yet.
type RescheduleRequest struct {
	RequestedAt time.Time `json:"requested_at"`
	Note        string    `json:"note"`
}

func (r *RescheduleRequest) Validate(now time.Time) error {
	if !r.RequestedAt.After(now) {
		return errors.New("requested time must be in the future")
	}
	return nil
}
