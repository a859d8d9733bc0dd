package config

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// Mailer sends notification mail through the configured SMTP relay.
type Mailer struct {
	cfg *Config
}

// NewMailer builds a mailer from the loaded configuration.
func NewMailer(cfg *Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one HTML message. It returns an error when SMTP is not
// configured or the relay refuses the message.
func (m *Mailer) Send(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if m.cfg.SMTPHost == "" || m.cfg.SMTPFrom == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := mail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)

	// Force STARTTLS on port 587 (Gmail/Office365 compatible)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.cfg.SMTPHost,
		InsecureSkipVerify: m.cfg.SMTPSkipTLSVerify,
	}

	return d.DialAndSend(msg)
}
