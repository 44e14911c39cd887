package notify

import (
	"log/slog"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the settings for the gomail sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends events as plain-text emails over SMTP.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(e Event) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", e.To)
	msg.SetHeader("Subject", renderSubject(e))
	msg.SetBody("text/plain", renderBody(e))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}

// LogSender is the fallback when SMTP is not configured: events are only
// logged. Useful in development and tests.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(e Event) error {
	s.Logger.Info("notification (email disabled)",
		slog.String("type", string(e.Type)),
		slog.String("to", e.To),
		slog.String("subject", renderSubject(e)))
	return nil
}
