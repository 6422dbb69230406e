package notifier

import (
	"net/smtp"
	"time"
)

// SetSendMail replaces the SMTP transport of s.
func (s *SMTPSender) SetSendMail(fn func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error) {
	s.sendMail = fn
}

// SetNow fixes the Date header clock of s.
func (s *SMTPSender) SetNow(now func() time.Time) {
	s.now = now
}
