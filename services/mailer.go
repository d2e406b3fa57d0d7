package services

import (
	"errors"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// ErrMailTimeout means the SMTP dispatch did not complete within the bound.
var ErrMailTimeout = errors.New("mail dispatch timed out")

// Mailer sends a plain-text mail. The OTP flow depends on this abstraction
// so tests can capture codes instead of hitting SMTP.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers through an SMTP relay (Gmail with an app password in
// the reference deployment). Dispatch is bounded: the relay offers no
// deadline of its own, and a wedged connection must not hang the reset flow.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		timeout: 10 * time.Second,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		return err
	case <-time.After(m.timeout):
		return ErrMailTimeout
	}
}
