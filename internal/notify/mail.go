package notify

import (
	"context"
	"fmt"
	"html"
	"net/smtp"

	"github.com/dimitrije/wicket-api/internal/config"
	"github.com/dimitrije/wicket-api/internal/models"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type MailSink struct {
	cfg      config.SMTPConfig
	sendMail sendMailFunc
}

func NewMailSink(cfg config.SMTPConfig) *MailSink {
	return &MailSink{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *MailSink) Name() string { return "mail" }

func (s *MailSink) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *MailSink) Send(_ context.Context, to models.TeamContact, n Notice) error {
	if !s.IsConfigured() || to.Email == "" {
		return ErrNoAddress
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	body := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>%s</p>
			<p>Team: <strong>%s</strong></p>
		</body>
		</html>
	`, html.EscapeString(to.Name), html.EscapeString(n.Body), html.EscapeString(to.TeamName))

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to.Email, n.Title, body)

	return s.sendMail(addr, auth, s.cfg.From, []string{to.Email}, []byte(msg))
}
