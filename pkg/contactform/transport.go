package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const contactPath = "/api/contact"

// ResponseError is returned when the relay answers with a non-2xx status or
// an explicit success:false body.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contact relay returned %d", e.StatusCode)
	}
	return fmt.Sprintf("contact relay returned %d: %s", e.StatusCode, e.Message)
}

// HTTPTransport posts payloads to a relay's /api/contact endpoint.
type HTTPTransport struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPTransport targets baseURL, e.g. "https://example.com".
// A nil httpClient uses http.DefaultClient; the form's timeout bounds each call.
func NewHTTPTransport(baseURL string, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{
		endpoint:   strings.TrimRight(baseURL, "/") + contactPath,
		httpClient: httpClient,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contact relay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	// Bodies that are not JSON are judged by status alone.
	_ = json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{StatusCode: resp.StatusCode, Message: result.Error}
	}
	if result.Success != nil && !*result.Success {
		return &ResponseError{StatusCode: resp.StatusCode, Message: result.Error}
	}
	return nil
}
