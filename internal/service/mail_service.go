package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Email is a single outbound message
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// DispatchReceipt is the provider's answer to a successful send. Raw holds
// the response body exactly as the provider returned it.
type DispatchReceipt struct {
	ID  string
	Raw json.RawMessage
}

// Mailer delivers an email through an external provider
type Mailer interface {
	Send(ctx context.Context, msg *Email) (*DispatchReceipt, error)
}

// ResendMailer sends email through the Resend REST API
type ResendMailer struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type ResendOption func(*ResendMailer)

// WithResendEndpoint points the mailer at another base URL (tests, proxies)
func WithResendEndpoint(endpoint string) ResendOption {
	return func(m *ResendMailer) { m.endpoint = endpoint }
}

func WithResendHTTPClient(client *http.Client) ResendOption {
	return func(m *ResendMailer) { m.client = client }
}

// NewResendMailer creates a new Resend mailer
func NewResendMailer(apiKey string, opts ...ResendOption) *ResendMailer {
	m := &ResendMailer{
		apiKey:   apiKey,
		endpoint: resendEndpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type resendError struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// Send implements Mailer
func (m *ResendMailer) Send(ctx context.Context, msg *Email) (*DispatchReceipt, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("resend API key: %w", ErrNotConfigured)
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read resend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr resendError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("resend API returned status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("resend API returned status %d", resp.StatusCode)
	}

	receipt := &DispatchReceipt{Raw: json.RawMessage(body)}
	var sent struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &sent); err != nil {
		return nil, fmt.Errorf("failed to parse resend response: %w", err)
	}
	receipt.ID = sent.ID

	return receipt, nil
}
