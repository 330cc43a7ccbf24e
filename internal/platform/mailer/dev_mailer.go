package mailer

import (
	"github.com/renoflade/renoflade-api/internal/domain"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

// DevMailer logs instead of sending; used when EMAIL_DEV_MODE is on.
// The manage URL is deliberately not logged in full.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("dev mailer: would send email",
		"to", toEmail,
		"subject", subject,
	)
	return "dev", nil
}

func (d *DevMailer) SendBookingConfirmation(b *domain.Booking, manageURL string) error {
	logger.Info("dev mailer: would send booking confirmation",
		"to", b.CustomerEmail,
		"booking_id", b.ID,
		"manage_url_len", len(manageURL),
	)
	return nil
}
