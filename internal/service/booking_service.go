package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/renoflade/renoflade-api/internal/domain"
	"github.com/renoflade/renoflade-api/internal/platform/capability"
	"github.com/renoflade/renoflade-api/internal/platform/mailer"
	"github.com/renoflade/renoflade-api/internal/repo/postgres"
	"github.com/renoflade/renoflade-api/pkg/events"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

var (
	// ErrInvalidLink covers every manage-token failure, including tokens
	// that resolve to a booking that no longer exists.
	ErrInvalidLink = errors.New("invalid or expired manage link")

	// ErrNotModifiable means the booking was found but is already
	// canceled or completed.
	ErrNotModifiable = errors.New("booking can no longer be changed")
)

// ValidationError marks bad user input so handlers can answer 400.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

type BookingService struct {
	repo    postgres.BookingsRepo
	caps    *capability.Issuer
	mailer  mailer.Service
	bus     events.Publisher
	siteURL string
	now     func() time.Time
}

func NewBookingService(
	repo postgres.BookingsRepo,
	caps *capability.Issuer,
	mail mailer.Service,
	bus events.Publisher,
	siteURL string,
	now func() time.Time,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		repo:    repo,
		caps:    caps,
		mailer:  mail,
		bus:     bus,
		siteURL: siteURL,
		now:     now,
	}
}

// ManageURL builds the shareable self-service link for a manage token.
func (s *BookingService) ManageURL(tok string) string {
	return fmt.Sprintf("%s/booking/manage/%s", s.siteURL, tok)
}

// Create stores a booking, mints its manage token, and emails the customer
// the manage link. The token is minted exactly once and never rotated.
func (s *BookingService) Create(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, string, error) {
	req.Normalize()
	if err := req.Validate(s.now()); err != nil {
		return nil, "", &ValidationError{msg: err.Error()}
	}

	b, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("create booking: %w", err)
	}

	tok, err := s.caps.Mint(b.ID)
	if err != nil {
		return nil, "", fmt.Errorf("mint manage token: %w", err)
	}
	manageURL := s.ManageURL(tok)

	if err := s.mailer.SendBookingConfirmation(b, manageURL); err != nil {
		// The booking exists; a failed confirmation email is not fatal.
		logger.ErrorContext(ctx, "failed to send booking confirmation",
			"booking_id", b.ID, "error", err)
	}

	s.publish(ctx, events.BookingCreated, b)

	return b, tok, nil
}

// Resolve maps a manage token to its booking. Every failure, forged token,
// expired token, or vanished booking, is ErrInvalidLink.
func (s *BookingService) Resolve(ctx context.Context, rawToken string) (*domain.Booking, error) {
	id, err := s.caps.Resolve(rawToken)
	if err != nil {
		return nil, ErrInvalidLink
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// Store trouble must not read as "booking exists"; fail closed.
		logger.ErrorContext(ctx, "booking lookup failed", "error", err)
		return nil, ErrInvalidLink
	}
	if b == nil {
		return nil, ErrInvalidLink
	}
	return b, nil
}

// Cancel cancels the booking a manage token addresses. The token is resolved
// fresh on every call; nothing is cached between requests.
func (s *BookingService) Cancel(ctx context.Context, rawToken string) error {
	b, err := s.Resolve(ctx, rawToken)
	if err != nil {
		return err
	}
	if !b.Active() {
		return ErrNotModifiable
	}

	ok, err := s.repo.Cancel(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if !ok {
		return ErrNotModifiable
	}

	b.Status = domain.StatusCanceled
	s.publish(ctx, events.BookingCanceled, b)
	return nil
}

// RequestReschedule records the customer's wish for a new slot. Staff still
// confirm the move; the appointment itself is not changed here.
func (s *BookingService) RequestReschedule(ctx context.Context, rawToken string, req *domain.RescheduleRequest) error {
	b, err := s.Resolve(ctx, rawToken)
	if err != nil {
		return err
	}
	if !b.Active() {
		return ErrNotModifiable
	}
	if err := req.Validate(s.now()); err != nil {
		return &ValidationError{msg: err.Error()}
	}

	ok, err := s.repo.RequestReschedule(ctx, b.ID, req.RequestedAt, req.Note)
	if err != nil {
		return fmt.Errorf("request reschedule: %w", err)
	}
	if !ok {
		return ErrNotModifiable
	}

	b.Status = domain.StatusRescheduleRequested
	b.RequestedAt = &req.RequestedAt
	s.publish(ctx, events.BookingRescheduleRequested, b)
	return nil
}

// Admin operations. Authorization happened at the route gate; these only
// apply state transitions.

func (s *BookingService) List(ctx context.Context, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookingService) SetStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (bool, error) {
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil || !ok {
		return ok, err
	}
	if status == domain.StatusCanceled {
		if b, err := s.repo.GetByID(ctx, id); err == nil && b != nil {
			s.publish(ctx, events.BookingCanceled, b)
		}
	}
	return true, nil
}

func (s *BookingService) ApproveReschedule(ctx context.Context, id uuid.UUID) (bool, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if b == nil || b.Status != domain.StatusRescheduleRequested || b.RequestedAt == nil {
		return false, nil
	}
	return s.repo.ApplyReschedule(ctx, id, *b.RequestedAt)
}

func (s *BookingService) publish(ctx context.Context, subject string, b *domain.Booking) {
	evt := events.BookingEvent{
		BookingID:     b.ID.String(),
		Status:        string(b.Status),
		CustomerEmail: b.CustomerEmail,
		ScheduledAt:   b.ScheduledAt,
		RequestedAt:   b.RequestedAt,
		At:            s.now(),
	}
	if err := s.bus.Publish(ctx, subject, evt); err != nil {
		logger.ErrorContext(ctx, "failed to publish event", "subject", subject, "error", err)
	}
}
