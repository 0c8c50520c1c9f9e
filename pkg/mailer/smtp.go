package mailer

import (
	"fmt"
	"net/smtp"

	"daycare-api/pkg/config"

	"go.uber.org/zap"
)

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	cfg *config.SMTPConfig
	log *zap.Logger
}

// NewSMTPSender creates a sender for the configured relay
func NewSMTPSender(cfg *config.SMTPConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

func (s *SMTPSender) SendStaffInvitation(to, firstName, acceptURL string) error {
	return s.send(to, "You're invited to join the team", invitationBody(firstName, acceptURL))
}

func (s *SMTPSender) SendParentWelcome(to, firstName, tempPassword, verifyURL string) error {
	return s.send(to, "Welcome - your parent account", welcomeBody(firstName, tempPassword, verifyURL))
}

func (s *SMTPSender) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.cfg.From, to, subject, body))

	addr := s.cfg.Host + ":" + s.cfg.Port

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.log.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
