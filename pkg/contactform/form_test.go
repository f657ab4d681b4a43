package contactform_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-portfolio-backend/pkg/contactform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, p contactform.Payload) error {
	return m.Called(ctx, p).Error(0)
}

type transportFunc func(ctx context.Context, p contactform.Payload) error

func (fn transportFunc) Send(ctx context.Context, p contactform.Payload) error { return fn(ctx, p) }

type recorder struct {
	mu      sync.Mutex
	notices []contactform.Notice
}

func (r *recorder) Notify(_ context.Context, n contactform.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) all() []contactform.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contactform.Notice(nil), r.notices...)
}

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.FixedZone("WIB", 7*3600))

func fillValid(t *testing.T, f *contactform.Form) {
	t.Helper()
	require.NoError(t, f.UpdateField(contactform.FieldName, "Jane Doe"))
	require.NoError(t, f.UpdateField(contactform.FieldEmail, "jane@example.com"))
	require.NoError(t, f.UpdateField(contactform.FieldMessage, "Hello, I would like to build a website."))
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		field   contactform.Field
		value   string
		valid   bool
		message string
	}{
		{contactform.FieldEmail, "a@b.c", true, ""},
		{contactform.FieldEmail, "a@b", false, "Please enter a valid email"},
		{contactform.FieldEmail, "a b@c.d", false, "Please enter a valid email"},
		{contactform.FieldEmail, "", false, "Please enter a valid email"},
		{contactform.FieldName, "J", false, "Name must be at least 2 characters"},
		{contactform.FieldName, "Jo", true, ""},
		{contactform.FieldName, "李雷", true, ""},
		{contactform.FieldMessage, "123456789", false, "Message must be at least 10 characters"},
		{contactform.FieldMessage, "1234567890", true, ""},
		{contactform.FieldProjectType, "", true, ""},
		{contactform.FieldUrgency, "", true, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.field)+"="+tt.value, func(t *testing.T) {
			f := contactform.New(new(MockTransport))
			assert.Equal(t, tt.valid, f.ValidateField(tt.field, tt.value))
			assert.Equal(t, tt.message, f.Errors()[tt.field])
		})
	}
}

func TestValidateField_ClearsPreviousError(t *testing.T) {
	f := contactform.New(new(MockTransport))

	assert.False(t, f.ValidateField(contactform.FieldName, "J"))
	assert.True(t, f.ValidateField(contactform.FieldName, "Jane"))
	assert.Empty(t, f.Errors())
}

func TestUpdateField(t *testing.T) {
	t.Run("does not validate a clean field", func(t *testing.T) {
		f := contactform.New(new(MockTransport))
		require.NoError(t, f.UpdateField(contactform.FieldEmail, "j"))

		assert.Equal(t, "j", f.State().Email)
		assert.Empty(t, f.Errors())
	})

	t.Run("re-validates a field showing an error", func(t *testing.T) {
		f := contactform.New(new(MockTransport))
		require.NoError(t, f.UpdateField(contactform.FieldEmail, "j"))
		assert.False(t, f.Blur(contactform.FieldEmail))

		require.NoError(t, f.UpdateField(contactform.FieldEmail, "jane@"))
		assert.Equal(t, "Please enter a valid email", f.Errors()[contactform.FieldEmail])

		require.NoError(t, f.UpdateField(contactform.FieldEmail, "jane@example.com"))
		assert.NotContains(t, f.Errors(), contactform.FieldEmail)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		f := contactform.New(new(MockTransport))
		assert.ErrorIs(t, f.UpdateField("phone", "555"), contactform.ErrUnknownField)
	})

	t.Run("rejects urgency outside the fixed set", func(t *testing.T) {
		f := contactform.New(new(MockTransport))
		assert.ErrorIs(t, f.UpdateField(contactform.FieldUrgency, "asap"), contactform.ErrInvalidUrgency)
		assert.Equal(t, contactform.UrgencyNormal, f.State().Urgency)

		require.NoError(t, f.UpdateField(contactform.FieldUrgency, "high"))
		assert.Equal(t, contactform.UrgencyHigh, f.State().Urgency)
	})
}

func TestNew_DefaultState(t *testing.T) {
	f := contactform.New(new(MockTransport))

	assert.Equal(t, contactform.State{Urgency: contactform.UrgencyNormal}, f.State())
	assert.Equal(t, contactform.StatusIdle, f.Status())
	assert.False(t, f.Pending())
}

func TestSubmit_InvalidFormMakesNoCall(t *testing.T) {
	transport := new(MockTransport)
	notes := new(recorder)
	f := contactform.New(transport, contactform.WithNotifier(notes))
	require.NoError(t, f.UpdateField(contactform.FieldName, "J"))
	require.NoError(t, f.UpdateField(contactform.FieldEmail, "not-an-email"))
	require.NoError(t, f.UpdateField(contactform.FieldMessage, "short"))

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, contactform.ErrInvalidForm)
	assert.Equal(t, map[contactform.Field]string{
		contactform.FieldName:    "Name must be at least 2 characters",
		contactform.FieldEmail:   "Please enter a valid email",
		contactform.FieldMessage: "Message must be at least 10 characters",
	}, f.Errors(), "every required field is checked, not just the first")
	assert.Equal(t, contactform.StatusIdle, f.Status())
	assert.Empty(t, notes.all())
	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_Success(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Send", mock.Anything, contactform.Payload{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Message:     "Hello, I would like to build a website.",
		ProjectType: "web-development",
		Urgency:     "high",
		Timestamp:   "2026-10-18T02:30:00.000Z",
	}).Return(nil).Once()

	notes := new(recorder)
	f := contactform.New(transport,
		contactform.WithNotifier(notes),
		contactform.WithClock(func() time.Time { return fixedNow }),
	)
	fillValid(t, f)
	require.NoError(t, f.UpdateField(contactform.FieldProjectType, "web-development"))
	require.NoError(t, f.UpdateField(contactform.FieldUrgency, "high"))

	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, contactform.DefaultState(), f.State())
	assert.Empty(t, f.Errors())
	assert.Equal(t, contactform.StatusSuccess, f.Status())
	assert.Equal(t, []contactform.Notice{{Status: contactform.StatusSuccess, Message: contactform.SuccessMessage}}, notes.all())
	transport.AssertExpectations(t)

	require.NoError(t, f.UpdateField(contactform.FieldName, "J"))
	assert.Equal(t, contactform.StatusIdle, f.Status(), "editing after success returns to idle")
}

func TestSubmit_TransportFailureKeepsInput(t *testing.T) {
	relayErr := errors.New("connection refused")
	transport := new(MockTransport)
	transport.On("Send", mock.Anything, mock.Anything).Return(relayErr).Once()

	notes := new(recorder)
	f := contactform.New(transport, contactform.WithNotifier(notes))
	fillValid(t, f)
	before := f.State()

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, contactform.ErrSubmissionFailed)
	assert.ErrorIs(t, err, relayErr)
	assert.Equal(t, before, f.State())
	assert.Equal(t, contactform.StatusError, f.Status())

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, contactform.StatusError, got[0].Status)
	assert.Equal(t, contactform.ErrorMessage, got[0].Message)
	transport.AssertNumberOfCalls(t, "Send", 1)
}

func TestSubmit_SingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	transport := transportFunc(func(ctx context.Context, p contactform.Payload) error {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return nil
	})

	f := contactform.New(transport)
	fillValid(t, f)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()

	<-started
	assert.True(t, f.Pending())
	assert.ErrorIs(t, f.Submit(context.Background()), contactform.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
	assert.Equal(t, contactform.StatusSuccess, f.Status())
}

func TestSubmit_TimeoutResolvesToError(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	// Ignores ctx on purpose: the form must still give up.
	transport := transportFunc(func(context.Context, contactform.Payload) error {
		<-release
		return nil
	})

	notes := new(recorder)
	f := contactform.New(transport,
		contactform.WithTimeout(20*time.Millisecond),
		contactform.WithNotifier(notes),
	)
	fillValid(t, f)

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, contactform.StatusError, f.Status())
	assert.False(t, f.Pending())
	assert.Equal(t, "Jane Doe", f.State().Name)
	require.Len(t, notes.all(), 1)
}

func TestSubmit_RetryAfterError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Send", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()
	transport.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	f := contactform.New(transport)
	fillValid(t, f)

	require.Error(t, f.Submit(context.Background()))
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, contactform.StatusSuccess, f.Status())
	transport.AssertExpectations(t)
}

func TestErrors_ReturnsCopy(t *testing.T) {
	f := contactform.New(new(MockTransport))
	f.ValidateField(contactform.FieldName, "")

	errs := f.Errors()
	delete(errs, contactform.FieldName)

	assert.Contains(t, f.Errors(), contactform.FieldName)
}
