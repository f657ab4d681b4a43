package usecase

import (
	"context"
	"fmt"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/email"
	"go-portfolio-backend/pkg/security"
	"strings"
	"text/template"
	"time"
)

const contactSubjectPrefix = "New Contact Form Submission - "

var contactBodyTemplate = template.Must(template.New("contact").Parse(`Name: {{.Name}}
Email: {{.Email}}
Project Type: {{.ProjectType}}
Urgency: {{.Urgency}}
Message: {{.Message}}

Received: {{.ReceivedAt}}
`))

// ContactConfig controls where relayed messages go.
type ContactConfig struct {
	// Mailbox is both the sender and the recipient of every relayed message
	Mailbox string
	// ReplyToVisitor adds the visitor address as Reply-To
	ReplyToVisitor bool
}

type contactUsecase struct {
	sender email.Sender
	cfg    ContactConfig
	audit  *security.SecurityLogger
	now    func() time.Time
}

// NewContactUsecase creates a new contact usecase. A nil sender leaves the
// usecase reporting domain.ErrContactNotConfigured.
func NewContactUsecase(sender email.Sender, cfg ContactConfig, audit *security.SecurityLogger) domain.ContactUsecase {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &contactUsecase{
		sender: sender,
		cfg:    cfg,
		audit:  audit,
		now:    time.Now,
	}
}

// SendContactMessage builds the outbound message and hands it to the mail
// provider. Success means the provider accepted it.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	if uc.sender == nil || uc.cfg.Mailbox == "" {
		return domain.ErrContactNotConfigured
	}

	msg, err := BuildOutboundMessage(req, uc.cfg, uc.now())
	if err != nil {
		uc.audit.LogContactRelayFailed(ctx, req.Email, err)
		return fmt.Errorf("failed to build contact email: %w", err)
	}

	if err := uc.sender.Send(ctx, msg); err != nil {
		uc.audit.LogContactRelayFailed(ctx, req.Email, err)
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	uc.audit.LogContactRelayed(ctx, req.Email, req.ProjectType, req.Urgency)
	return nil
}

// BuildOutboundMessage renders a submission into the relay-to-self message.
func BuildOutboundMessage(req *domain.ContactRequest, cfg ContactConfig, receivedAt time.Time) (email.Message, error) {
	projectType := strings.TrimSpace(req.ProjectType)
	if projectType == "" {
		projectType = domain.DefaultProjectType
	}
	urgency := strings.TrimSpace(req.Urgency)
	if urgency == "" {
		urgency = domain.UrgencyNormal
	}

	var body strings.Builder
	err := contactBodyTemplate.Execute(&body, struct {
		Name, Email, ProjectType, Urgency, Message, ReceivedAt string
	}{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		ProjectType: projectType,
		Urgency:     urgency,
		Message:     strings.TrimSpace(req.Message),
		ReceivedAt:  receivedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return email.Message{}, fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := email.Message{
		From:     cfg.Mailbox,
		To:       cfg.Mailbox,
		Subject:  contactSubjectPrefix + projectType,
		TextBody: body.String(),
		Tag:      "contact",
	}
	if cfg.ReplyToVisitor {
		msg.ReplyTo = strings.TrimSpace(req.Email)
	}
	return msg, nil
}
