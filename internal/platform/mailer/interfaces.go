package mailer

import "github.com/renoflade/renoflade-api/internal/domain"

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendBookingConfirmation(b *domain.Booking, manageURL string) error
}
