// Package contactform holds the visitor-side contact form: field state,
// inline validation, and a single-flight submission to the mail relay.
package contactform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownField       = errors.New("contactform: unknown field")
	ErrInvalidUrgency     = errors.New("contactform: urgency must be low, normal or high")
	ErrInvalidForm        = errors.New("contactform: form has invalid fields")
	ErrSubmissionInFlight = errors.New("contactform: a submission is already pending")
	ErrSubmissionFailed   = errors.New("contactform: submission failed")
)

const (
	DefaultTimeout = 15 * time.Second

	SuccessMessage = "Message sent successfully! I will reply as soon as possible."
	ErrorMessage   = "Sorry, there was an error sending your message. Please try again."

	// JavaScript's Date.toISOString layout, which the relay already sees from browsers.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldMessage     Field = "message"
	FieldProjectType Field = "projectType"
	FieldUrgency     Field = "urgency"
)

// RequiredFields are validated on every submit, in this order.
var RequiredFields = []Field{FieldName, FieldEmail, FieldMessage}

// ProjectTypes are the options the form offers. The relay accepts any value.
var ProjectTypes = []string{
	"web-development",
	"mobile-app",
	"ui-ux",
	"consulting",
	"other",
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh:
		return true
	}
	return false
}

// State is the visitor's in-progress input.
type State struct {
	Name        string
	Email       string
	Message     string
	ProjectType string
	Urgency     Urgency
}

// DefaultState is what a fresh or successfully submitted form holds.
func DefaultState() State {
	return State{Urgency: UrgencyNormal}
}

func (s State) get(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldMessage:
		return s.Message
	case FieldProjectType:
		return s.ProjectType
	case FieldUrgency:
		return string(s.Urgency)
	}
	return ""
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Payload is the JSON body posted to the relay.
type Payload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	ProjectType string `json:"projectType"`
	Urgency     string `json:"urgency"`
	Timestamp   string `json:"timestamp"`
}

// Transport delivers one payload to the relay.
type Transport interface {
	Send(ctx context.Context, p Payload) error
}

type Option func(*Form)

func WithNotifier(n Notifier) Option {
	return func(f *Form) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithTimeout bounds every submission. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(f *Form) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}

// Form is safe for concurrent use. At most one submission is pending at a time.
type Form struct {
	transport Transport
	notifier  Notifier
	validate  *validator.Validate
	timeout   time.Duration
	now       func() time.Time

	mu     sync.Mutex
	state  State
	errs   map[Field]string
	status Status
}

func New(transport Transport, opts ...Option) *Form {
	f := &Form{
		transport: transport,
		notifier:  NopNotifier{},
		validate:  validation.New(),
		timeout:   DefaultTimeout,
		now:       time.Now,
		state:     DefaultState(),
		errs:      make(map[Field]string),
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// UpdateField stores value. A field already showing an error is re-validated
// so the message clears as soon as the input becomes valid.
func (f *Form) UpdateField(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.state.Name = value
	case FieldEmail:
		f.state.Email = value
	case FieldMessage:
		f.state.Message = value
	case FieldProjectType:
		f.state.ProjectType = value
	case FieldUrgency:
		u := Urgency(value)
		if !u.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidUrgency, value)
		}
		f.state.Urgency = u
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	if _, shown := f.errs[field]; shown {
		f.validateLocked(field, value)
	}
	if f.status == StatusSuccess || f.status == StatusError {
		f.status = StatusIdle
	}
	return nil
}

// ValidateField checks value against the rule for field and records or
// clears its error. projectType and urgency are always valid.
func (f *Form) ValidateField(field Field, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked(field, value)
}

// Blur validates the field's current value, as when the input loses focus.
func (f *Form) Blur(field Field) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked(field, f.state.get(field))
}

func (f *Form) validateLocked(field Field, value string) bool {
	rule, ok := validation.ContactRules[string(field)]
	if !ok {
		return true
	}
	if err := f.validate.Var(value, rule); err != nil {
		f.errs[field] = validation.FieldMessages[string(field)]
		return false
	}
	delete(f.errs, field)
	return true
}

// Submit validates every required field and, if all pass, sends the form.
// An invalid form returns ErrInvalidForm without touching the network, the
// status, or the notifier. On success the form is reset; on failure the
// visitor's input is kept and the error wraps ErrSubmissionFailed.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.status == StatusPending {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}

	valid := true
	for _, field := range RequiredFields {
		valid = f.validateLocked(field, f.state.get(field)) && valid
	}
	if !valid {
		f.mu.Unlock()
		return ErrInvalidForm
	}

	payload := Payload{
		Name:        f.state.Name,
		Email:       f.state.Email,
		Message:     f.state.Message,
		ProjectType: f.state.ProjectType,
		Urgency:     string(f.state.Urgency),
		Timestamp:   f.now().UTC().Format(timestampLayout),
	}
	f.status = StatusPending
	f.mu.Unlock()

	err := f.send(ctx, payload)

	f.mu.Lock()
	if err != nil {
		f.status = StatusError
	} else {
		f.state = DefaultState()
		f.errs = make(map[Field]string)
		f.status = StatusSuccess
	}
	f.mu.Unlock()

	if err != nil {
		f.notifier.Notify(ctx, Notice{Status: StatusError, Message: ErrorMessage, Err: err})
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	f.notifier.Notify(ctx, Notice{Status: StatusSuccess, Message: SuccessMessage})
	return nil
}

// send runs the transport under the form timeout. A transport that ignores
// its context is abandoned once the deadline passes.
func (f *Form) send(ctx context.Context, p Payload) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- f.transport.Send(ctx, p)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Errors returns a copy of the visible field errors.
func (f *Form) Errors() map[Field]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[Field]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Pending reports whether the submit control should be disabled.
func (f *Form) Pending() bool {
	return f.Status() == StatusPending
}
