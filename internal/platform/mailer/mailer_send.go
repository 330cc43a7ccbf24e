package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/renoflade/renoflade-api/internal/domain"
)

type Mailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	m := &Mailer{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *Mailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY or EMAIL_FROM)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return res.Header.Get("X-Message-Id"), nil
}

func (m *Mailer) SendBookingConfirmation(b *domain.Booking, manageURL string) error {
	subject, text, html := bookingConfirmationBody(b, manageURL)
	_, err := m.Send(b.CustomerEmail, b.CustomerName, subject, text, html)
	return err
}

func bookingConfirmationBody(b *domain.Booking, manageURL string) (subject, text, html string) {
	when := b.ScheduledAt.Format("Monday 2 January 2006, 15:04")
	subject = "Your countertop refinishing booking"
	text = fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s is scheduled for %s.\n\nView, cancel, or reschedule it here:\n%s\n\nKeep this link private; anyone with it can manage the booking.",
		b.CustomerName, b.Material, when, manageURL,
	)
	html = fmt.Sprintf(
		`<p>Hi %s,</p><p>Your booking for <b>%s</b> is scheduled for <b>%s</b>.</p><p><a href="%s">View, cancel, or reschedule your booking</a></p><p>Keep this link private; anyone with it can manage the booking.</p>`,
		b.CustomerName, b.Material, when, manageURL,
	)
	return subject, text, html
}
