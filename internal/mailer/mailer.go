// Package mailer delivers certificate mails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"io"

	"github.com/luneblaze/certgen/internal/cert"
	gomail "gopkg.in/gomail.v2"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPSender implements cert.MailSender over an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one HTML mail with the certificate attached. gomail dials
// per message; connection reuse is not worth it at the paced row rate.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string, attachment cert.Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	m.Attach(attachment.Filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment.Content)
			return err
		}),
		gomail.SetHeader(map[string][]string{
			"Content-Type": {attachment.MIMEType},
		}),
	)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
