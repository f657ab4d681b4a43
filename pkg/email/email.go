package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrFailedToSend   = errors.New("email: failed to send")
	ErrInvalidConfig  = errors.New("email: invalid config")
	ErrInvalidMessage = errors.New("email: invalid message")
)

// Providers accepted by Config.Provider.
const (
	ProviderSMTP     = "smtp"
	ProviderPostmark = "postmark"
	ProviderDev      = "dev"
)

// Config selects and configures the outbound transport. Username doubles as
// the operator mailbox for SMTP accounts such as Gmail.
type Config struct {
	Provider             string `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	Username             string `env:"EMAIL_USER"`
	Password             string `env:"EMAIL_PASS"`
	SMTPHost             string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort             string `env:"SMTP_PORT" envDefault:"587"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	DevDir               string `env:"DEV_EMAIL_DIR" envDefault:"./tmp/emails"`
}

// Message is a plain-text email handed to a Sender. It is never stored.
type Message struct {
	From     string `json:"from"`
	To       string `json:"to"`
	ReplyTo  string `json:"reply_to,omitempty"`
	Subject  string `json:"subject"`
	TextBody string `json:"-"`
	Tag      string `json:"tag,omitempty"`
}

// Sender hands a message to a delivery provider. A nil error means the
// provider accepted the message, not that it reached the mailbox.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Validate checks the addresses and required parts of the message.
func (m Message) Validate() error {
	if m.From == "" || m.To == "" {
		return fmt.Errorf("%w: sender and recipient are required", ErrInvalidMessage)
	}
	for _, addr := range []string{m.From, m.To, m.ReplyTo} {
		if addr == "" {
			continue
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("%w: bad address %q", ErrInvalidMessage, addr)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.TextBody) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}
	return nil
}

// NewSender builds the Sender named by cfg.Provider.
func NewSender(cfg Config) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderSMTP:
		s, err := NewSMTPSender(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderPostmark:
		s, err := NewPostmarkSender(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderDev:
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

// headerValue strips CR and LF so user-controlled text cannot inject headers.
func headerValue(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
}
