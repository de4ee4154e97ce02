// email.go - Booking confirmation message and SMTP delivery

package tasks

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var confirmationTmpl = template.Must(template.ParseFS(templateFS, "templates/booking_confirmation.html"))

// Message is a rendered email ready to hand to a Sender.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(msg Message) error
}

// BookingConfirmation renders the confirmation email for a booking attribute mapping.
func BookingConfirmation(booking map[string]any, to string) (Message, error) {
	data := map[string]any{
		"Hotel":     valueOr(booking, "hotel_name", valueOr(booking, "hotel_id", "Your Hotel")),
		"DateFrom":  booking["date_from"],
		"DateTo":    booking["date_to"],
		"TotalCost": booking["total_cost"],
		"Link":      valueOr(booking, "booking_link", "#"),
	}
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}
	return Message{To: to, Subject: "Booking Confirmation", HTML: buf.String()}, nil
}

func valueOr(m map[string]any, key string, fallback any) any {
	if v, ok := m[key]; ok && v != nil && v != "" {
		return v
	}
	return fallback
}

// SMTPSender sends through an authenticated SMTP server, upgrading the
// connection with STARTTLS.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, pass string) *SMTPSender {
	d := gomail.NewDialer(host, port, user, pass)
	d.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	return &SMTPSender{dialer: d, from: user}
}

func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return s.dialer.DialAndSend(m)
}
