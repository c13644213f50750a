package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers password reset codes.
type Mailer interface {
	SendResetCode(to, code string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port > 0 && c.User != ""
}

// SMTPMailer sends mail through gomail.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer returns nil when SMTP is not configured.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if !cfg.Configured() {
		return nil
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (m *SMTPMailer) SendResetCode(to, code string) error {
	msg := BuildResetCodeMessage(m.cfg.User, to, code)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset code email: %w", err)
	}
	return nil
}

// BuildResetCodeMessage composes the reset email with text and HTML bodies.
func BuildResetCodeMessage(from, to, code string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset Code")
	m.SetBody("text/plain", "Your password reset code is: "+code)
	m.AddAlternative("text/html", `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Password Reset Code</h2>
	<p>Your password reset code is:</p>
	<p style="font-weight: bold; font-size: 20px;">`+code+`</p>
	<p>If you did not request a password reset, please ignore this email.</p>
</body>
</html>`)
	return m
}
