package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validMessage() Message {
	return Message{
		From:     "me@example.com",
		To:       "me@example.com",
		Subject:  "New Contact Form Submission - General Inquiry",
		TextBody: "Name: Jane\nEmail: jane@example.com\n",
	}
}

func TestMessageValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validMessage().Validate())
	})

	t.Run("missing recipient", func(t *testing.T) {
		m := validMessage()
		m.To = ""
		assert.ErrorIs(t, m.Validate(), ErrInvalidMessage)
	})

	t.Run("bad reply-to", func(t *testing.T) {
		m := validMessage()
		m.ReplyTo = "not an address"
		assert.ErrorIs(t, m.Validate(), ErrInvalidMessage)
	})

	t.Run("empty body", func(t *testing.T) {
		m := validMessage()
		m.TextBody = "  "
		assert.ErrorIs(t, m.Validate(), ErrInvalidMessage)
	})
}

func TestNewSender(t *testing.T) {
	t.Run("smtp without credentials", func(t *testing.T) {
		s, err := NewSender(Config{Provider: ProviderSMTP, SMTPHost: "smtp.gmail.com", SMTPPort: "587"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Nil(t, s)
	})

	t.Run("smtp", func(t *testing.T) {
		s, err := NewSender(Config{Username: "me@example.com", Password: "secret", SMTPHost: "smtp.gmail.com", SMTPPort: "587"})
		require.NoError(t, err)
		assert.IsType(t, &SMTPSender{}, s)
	})

	t.Run("postmark without token", func(t *testing.T) {
		_, err := NewSender(Config{Provider: ProviderPostmark})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("dev", func(t *testing.T) {
		s, err := NewSender(Config{Provider: ProviderDev, DevDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &DevSender{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewSender(Config{Provider: "pigeon"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestSMTPSender_Send(t *testing.T) {
	s, err := NewSMTPSender(Config{Username: "me@example.com", Password: "secret", SMTPHost: "smtp.example.com", SMTPPort: "587"})
	require.NoError(t, err)

	t.Run("writes a plain text message to the mailbox", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte
		s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		}

		msg := validMessage()
		msg.Subject = "New Contact Form Submission - web\r\nBcc: victim@example.com"
		require.NoError(t, s.Send(context.Background(), msg))

		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "me@example.com", gotFrom)
		assert.Equal(t, []string{"me@example.com"}, gotTo)

		raw := string(gotMsg)
		assert.Contains(t, raw, "Subject: New Contact Form Submission - web Bcc: victim@example.com\r\n")
		assert.NotContains(t, raw, "\r\nBcc:")
		assert.NotContains(t, raw, "Reply-To:")
		assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
		assert.Contains(t, raw, "Name: Jane\r\nEmail: jane@example.com\r\n")
	})

	t.Run("wraps transport failures", func(t *testing.T) {
		s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("535 authentication failed")
		}
		err := s.Send(context.Background(), validMessage())
		assert.ErrorIs(t, err, ErrFailedToSend)
		assert.Contains(t, err.Error(), "535")
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
			<-release
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		err := s.Send(ctx, validMessage())
		assert.ErrorIs(t, err, ErrFailedToSend)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

type mockPostmark struct {
	mock.Mock
}

func (m *mockPostmark) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

func TestPostmarkSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the message", func(t *testing.T) {
		api := new(mockPostmark)
		p := &PostmarkSender{client: api}
		msg := validMessage()
		msg.Tag = "contact"

		api.On("SendEmail", ctx, postmark.Email{
			From:     msg.From,
			To:       msg.To,
			Subject:  msg.Subject,
			Tag:      "contact",
			TextBody: msg.TextBody,
		}).Return(postmark.EmailResponse{MessageID: "abc"}, nil)

		require.NoError(t, p.Send(ctx, msg))
		api.AssertExpectations(t)
	})

	t.Run("api error code", func(t *testing.T) {
		api := new(mockPostmark)
		p := &PostmarkSender{client: api}
		api.On("SendEmail", ctx, mock.Anything).Return(postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}, nil)

		err := p.Send(ctx, validMessage())
		assert.ErrorIs(t, err, ErrFailedToSend)
		assert.Contains(t, err.Error(), "300")
	})

	t.Run("request error", func(t *testing.T) {
		api := new(mockPostmark)
		p := &PostmarkSender{client: api}
		api.On("SendEmail", ctx, mock.Anything).Return(postmark.EmailResponse{}, errors.New("dial tcp: timeout"))

		assert.ErrorIs(t, p.Send(ctx, validMessage()), ErrFailedToSend)
	})
}

func TestDevSender_Send(t *testing.T) {
	dir := t.TempDir()
	d := NewDevSender(dir)
	d.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

	msg := validMessage()
	msg.Tag = "contact web-development"
	require.NoError(t, d.Send(context.Background(), msg))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var txt, js string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".txt":
			txt = e.Name()
		case ".json":
			js = e.Name()
		}
	}
	require.NotEmpty(t, txt)
	require.NotEmpty(t, js)
	assert.True(t, strings.HasSuffix(txt, "_contact_web-development.txt"), txt)

	body, err := os.ReadFile(filepath.Join(dir, txt))
	require.NoError(t, err)
	assert.Equal(t, msg.TextBody, string(body))

	raw, err := os.ReadFile(filepath.Join(dir, js))
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "2026-10-18T09:30:00Z", meta["timestamp"])
	assert.Equal(t, msg.Subject, meta["subject"])
	assert.Equal(t, "me@example.com", meta["to"])
}
