package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers through an authenticated SMTP account (Gmail by default).
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	sendMail sendMailFunc
}

// NewSMTPSender creates an SMTP sender. Credentials are required.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: EMAIL_USER and EMAIL_PASS are required", ErrInvalidConfig)
	}
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" {
		return nil, fmt.Errorf("%w: SMTP host and port are required", ErrInvalidConfig)
	}
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.Username,
		password: cfg.Password,
		sendMail: smtp.SendMail,
	}, nil
}

// Send writes the message over SMTP. net/smtp has no context support, so the
// call runs in its own goroutine and Send returns early when ctx ends.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSend, err)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := net.JoinHostPort(s.host, s.port)
	raw := buildMIME(msg, time.Now())

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, msg.From, []string{msg.To}, raw)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToSend, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrFailedToSend, ctx.Err())
	}
}

func buildMIME(msg Message, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerValue(msg.From) + "\r\n")
	b.WriteString("To: " + headerValue(msg.To) + "\r\n")
	if msg.ReplyTo != "" {
		b.WriteString("Reply-To: " + headerValue(msg.ReplyTo) + "\r\n")
	}
	b.WriteString("Subject: " + headerValue(msg.Subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	body := strings.ReplaceAll(msg.TextBody, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
