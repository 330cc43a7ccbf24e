package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// Booking lifecycle subjects consumed by the notify side of the business.
const (
	BookingCreated             = "booking.created"
	BookingCanceled            = "booking.canceled"
	BookingRescheduleRequested = "booking.reschedule_requested"
	LeadCreated                = "lead.created"
)

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "publishing event", "subject", subject)

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher stands in when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	logger.DebugContext(ctx, "event bus disabled, dropping event", "subject", subject)
	return nil
}

func (NoopPublisher) Close() error { return nil }

type BookingEvent struct {
	BookingID     string     `json:"booking_id"`
	Status        string     `json:"status"`
	CustomerEmail string     `json:"customer_email"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	RequestedAt   *time.Time `json:"requested_at,omitempty"`
	At            time.Time  `json:"at"`
}
