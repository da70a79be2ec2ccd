package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDisabled is returned by Send when no SMTP host is configured.
var ErrMailerDisabled = errors.New("mailer: SMTP not configured")

// Mailer sends plain-text operational mail (stock alerts) over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

// NewMailer returns nil when SMTP_HOST is empty.
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Send delivers one message.
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil {
		return ErrMailerDisabled
	}
	e := email.NewEmail()
	from := m.user
	if from == "" {
		from = "alerts@rumahrasa.local"
	}
	e.From = fmt.Sprintf("Rumah Rasa <%s>", from)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}
