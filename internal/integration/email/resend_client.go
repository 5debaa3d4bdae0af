// Package email delivers check reminders by email via Resend.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/resend/resend-go/v2"

	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// Message is a rendered email ready to send.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends rendered emails and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendClient implements Mailer using Resend.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendClient creates a new Resend client.
// An empty baseURL keeps the Resend default endpoint.
func NewResendClient(apiKey, fromName, fromEmail, baseURL string) (*ResendClient, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}

	return &ResendClient{
		client:    client,
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		if isPermanentError(err) {
			return "", domainerror.NewReminderError(
				domainerror.ErrCodePermanentSendFailure,
				"permanent email failure",
				err,
			)
		}
		return "", domainerror.NewReminderError(
			domainerror.ErrCodeTemporarySendFailure,
			"temporary email failure",
			err,
		)
	}

	return resp.Id, nil
}

// isPermanentError checks if the error is a permanent error that should not be retried.
// Permanent errors include: 401 (Unauthorized), 403 (Forbidden), 422 (Validation Error)
// Temporary errors include: 429 (Rate Limit), 5xx (Server Errors)
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"401", "403", "422", "unauthorized", "forbidden", "validation", "invalid", "bad request"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// LogMailer writes emails to the log instead of sending them.
// It is used when no Resend API key is configured.
type LogMailer struct{}

// Send logs the email and reports success.
func (LogMailer) Send(_ context.Context, msg Message) (string, error) {
	slog.Info("Email delivery disabled, logging reminder",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return "log", nil
}

// MockMailer records sent emails for tests.
type MockMailer struct {
	mu          sync.Mutex
	sent        []Message
	failErr     error
	isPermanent bool
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// Send records the message or fails as configured.
func (m *MockMailer) Send(_ context.Context, msg Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		code := domainerror.ErrCodeTemporarySendFailure
		if m.isPermanent {
			code = domainerror.ErrCodePermanentSendFailure
		}
		return "", domainerror.NewReminderError(code, "mock failure", m.failErr)
	}

	m.sent = append(m.sent, msg)
	return fmt.Sprintf("mock-%d", len(m.sent)), nil
}

// Sent returns a copy of the recorded messages.
func (m *MockMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// SetFailure configures the mock to fail with the given error.
func (m *MockMailer) SetFailure(err error, permanent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
	m.isPermanent = permanent
}

// Reset clears recorded messages and failure configuration.
func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.failErr = nil
	m.isPermanent = false
}

// Ensure implementations satisfy Mailer.
var (
	_ Mailer = (*ResendClient)(nil)
	_ Mailer = LogMailer{}
	_ Mailer = (*MockMailer)(nil)
)
