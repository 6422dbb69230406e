package notifier

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
)

type sendMailFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers alerts by mail. smtp.SendMail upgrades to TLS with STARTTLS
// whenever the server offers it.
type SMTPSender struct {
	cfg       models.SMTP
	recipient string
	sendMail  sendMailFunc
	now       func() time.Time
}

// NewSMTPSender creates a sender that authenticates as cfg.Username.
func NewSMTPSender(cfg models.SMTP, recipient string) *SMTPSender {
	return &SMTPSender{cfg: cfg, recipient: recipient, sendMail: smtp.SendMail, now: time.Now}
}

func (s *SMTPSender) Name() string {
	return "smtp"
}

// Send delivers msg. net/smtp has no context support, so ctx is only checked up front.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	var auth smtp.Auth
	if s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.sendMail(addr, auth, s.cfg.Username, []string{s.recipient}, s.build(msg)); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}

	return nil
}

func (s *SMTPSender) build(msg Message) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.Username)
	fmt.Fprintf(&b, "To: %s\r\n", s.recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))

	return []byte(b.String())
}
