// Package mail sends transactional email for account verification and
// password resets.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
)

// Mailer delivers transactional messages. Callers fire and forget; delivery
// failures are logged, never surfaced to the request.
type Mailer interface {
	SendVerification(to, token string) error
	SendPasswordReset(to, token string) error
}

// smtpMailer sends through a plain SMTP relay.
type smtpMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	baseURL  string
}

// logMailer logs the message instead of sending it. Used whenever SMTP is
// not configured, which keeps development and tests offline.
type logMailer struct {
	baseURL string
}

// New picks the SMTP mailer when a host is configured and the log-only
// mailer otherwise.
func New(cfg *config.Config) Mailer {
	if cfg == nil || cfg.SMTPHost == "" {
		base := ""
		if cfg != nil {
			base = cfg.BaseURL
		}
		return &logMailer{baseURL: base}
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		baseURL:  cfg.BaseURL,
	}
}

func (m *smtpMailer) SendVerification(to, token string) error {
	link := verificationLink(m.baseURL, token)
	body := fmt.Sprintf("Welcome to Inkwell!\r\n\r\nConfirm your email address by visiting:\r\n%s\r\n\r\nThe link expires in 24 hours.\r\n", link)
	return m.send(to, "Verify your Inkwell account", body)
}

func (m *smtpMailer) SendPasswordReset(to, token string) error {
	link := resetLink(m.baseURL, token)
	body := fmt.Sprintf("A password reset was requested for your Inkwell account.\r\n\r\nSet a new password by visiting:\r\n%s\r\n\r\nIf you did not request this, ignore this message.\r\n", link)
	return m.send(to, "Reset your Inkwell password", body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	addr := m.host + ":" + m.port
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (m *logMailer) SendVerification(to, token string) error {
	middleware.Logger.Info("mail delivery skipped (no SMTP host)",
		"kind", "verification", "to", to, "link", verificationLink(m.baseURL, token))
	return nil
}

func (m *logMailer) SendPasswordReset(to, token string) error {
	middleware.Logger.Info("mail delivery skipped (no SMTP host)",
		"kind", "password_reset", "to", to, "link", resetLink(m.baseURL, token))
	return nil
}

func verificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/api/auth/verify?token=%s", strings.TrimRight(baseURL, "/"), token)
}

func resetLink(baseURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(baseURL, "/"), token)
}
