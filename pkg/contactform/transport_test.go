package contactform_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-portfolio-backend/pkg/contactform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Send(t *testing.T) {
	payload := contactform.Payload{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Message:   "Hello, I would like to build a website.",
		Urgency:   "normal",
		Timestamp: "2026-10-18T02:30:00.000Z",
	}

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"ok", http.StatusOK, `{"success":true}`, 0},
		{"ok without json body", http.StatusOK, `sent`, 0},
		{"server error", http.StatusInternalServerError, `{"success":false,"error":"Failed to send message"}`, http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests, `{"success":false}`, http.StatusTooManyRequests},
		{"success false on 200", http.StatusOK, `{"success":false,"error":"nope"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got contactform.Payload
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/contact", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := contactform.NewHTTPTransport(srv.URL+"/", srv.Client()).Send(context.Background(), payload)

			assert.Equal(t, payload, got)
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}
			var respErr *contactform.ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, tt.wantStatus, respErr.StatusCode)
		})
	}
}

func TestHTTPTransport_WithForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to send message"}`))
	}))
	defer srv.Close()

	f := contactform.New(contactform.NewHTTPTransport(srv.URL, nil))
	fillValid(t, f)

	err := f.Submit(context.Background())

	var respErr *contactform.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "Failed to send message", respErr.Message)
	assert.Equal(t, contactform.StatusError, f.Status())
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := contactform.NewHTTPTransport(url, nil).Send(context.Background(), contactform.Payload{})
	assert.Error(t, err)
}
