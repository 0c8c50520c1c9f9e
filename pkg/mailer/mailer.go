package mailer

import (
	"fmt"

	"daycare-api/pkg/config"

	"go.uber.org/zap"
)

// Sender delivers the transactional emails the API produces. Delivery is best
// effort: callers log failures and never roll back the state transition that
// preceded the send.
type Sender interface {
	SendStaffInvitation(to, firstName, acceptURL string) error
	SendParentWelcome(to, firstName, tempPassword, verifyURL string) error
}

// NewFromConfig returns the SMTP sender when an SMTP host is configured and a
// logging sender otherwise.
func NewFromConfig(cfg *config.Config, log *zap.Logger) Sender {
	if cfg.SMTP.Host != "" {
		return NewSMTPSender(&cfg.SMTP, log)
	}
	log.Warn("SMTP host not configured, emails will only be logged")
	return &LogSender{log: log}
}

// LogSender writes emails to the log instead of delivering them. Used in
// development and in environments without an SMTP relay.
type LogSender struct {
	log *zap.Logger
}

func (s *LogSender) SendStaffInvitation(to, firstName, acceptURL string) error {
	s.log.Info("staff invitation email (not delivered)",
		zap.String("to", to),
		zap.String("accept_url", acceptURL))
	return nil
}

func (s *LogSender) SendParentWelcome(to, firstName, tempPassword, verifyURL string) error {
	s.log.Info("parent welcome email (not delivered)",
		zap.String("to", to),
		zap.String("verify_url", verifyURL))
	return nil
}

func invitationBody(firstName, acceptURL string) string {
	return fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"You have been invited to join your daycare's team. "+
			"Set your password and activate your account here:\r\n\r\n%s\r\n\r\n"+
			"This link expires in 72 hours.\r\n",
		firstName, acceptURL)
}

func welcomeBody(firstName, tempPassword, verifyURL string) string {
	return fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"An account has been created for you so you can follow your child's day. "+
			"Your temporary password is: %s\r\n\r\n"+
			"Please verify your email and choose a new password here:\r\n\r\n%s\r\n",
		firstName, tempPassword, verifyURL)
}
