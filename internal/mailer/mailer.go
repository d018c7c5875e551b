// Package mailer sends invitation notification emails. Delivery is strictly
// best-effort: the invitation workflow logs failures and never propagates them.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer is the notification side-channel consumed by the invitation workflow.
type Mailer interface {
	SendInvitation(recipientEmail, boardTitle, senderEmail string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendInvitation(recipientEmail, boardTitle, senderEmail string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipientEmail)
	msg.SetHeader("Subject", fmt.Sprintf("You've been invited to the board %q", boardTitle))
	msg.SetBody("text/plain", fmt.Sprintf(
		"%s invited you to collaborate on the board %q.\n\n"+
			"Sign in to TaskFlow with this email address to accept or decline the invitation.\n",
		senderEmail, boardTitle,
	))

	return m.dialer.DialAndSend(msg)
}

// NoopMailer is used when no SMTP relay is configured.
type NoopMailer struct{}

var _ Mailer = (*NoopMailer)(nil)

func (NoopMailer) SendInvitation(recipientEmail, boardTitle, senderEmail string) error {
	return nil
}
