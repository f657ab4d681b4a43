package domain

import (
	"context"
	"errors"
)

// ErrContactNotConfigured is returned when no mail transport or operator mailbox is set up.
var ErrContactNotConfigured = errors.New("contact: email service is not configured")

// Urgency levels offered by the contact form. Normal is the default.
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
)

// DefaultProjectType is used in the subject when the visitor picked no project type.
const DefaultProjectType = "General Inquiry"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Email       string `json:"email" binding:"required,contact_email,max=320"`
	Message     string `json:"message" binding:"required,min=10,max=5000"`
	ProjectType string `json:"projectType" binding:"max=100"`
	Urgency     string `json:"urgency" binding:"omitempty,oneof=low normal high"`
	// Timestamp is informational only; the relay stamps its own receive time.
	Timestamp string `json:"timestamp,omitempty"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage relays a submission to the operator mailbox
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}

// HealthUsecase reports component status for the health endpoint
type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}
