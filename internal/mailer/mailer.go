package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends transactional email. Dispatch is best-effort; callers decide
// whether a failure is fatal.
type Mailer interface {
	SendVerification(ctx context.Context, toEmail, verifyURL string) error
}

// Service delivers mail through an HTTP JSON mail API (Mailtrap-compatible).
type Service struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewService builds a mailer for the given API endpoint and sender address.
func NewService(apiURL, apiKey, from string) *Service {
	return &Service{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type emailRequest struct {
	From     recipient   `json:"from"`
	To       []recipient `json:"to"`
	Subject  string      `json:"subject"`
	HTML     string      `json:"html,omitempty"`
	Text     string      `json:"text,omitempty"`
	Category string      `json:"category,omitempty"`
}

// SendVerification sends the account-verification email containing verifyURL.
func (s *Service) SendVerification(ctx context.Context, toEmail, verifyURL string) error {
	if s.apiURL == "" {
		return fmt.Errorf("mail API URL is not configured")
	}

	req := emailRequest{
		From:    recipient{Email: s.from, Name: "Contacts API"},
		To:      []recipient{{Email: toEmail}},
		Subject: "Email Verification",
		HTML: fmt.Sprintf(`<p>Welcome! Click the link to verify your email:</p>
			<p><a href="%s">%s</a></p>
			<p>If you did not create this account, you can ignore this message.</p>`,
			verifyURL, verifyURL),
		Text:     fmt.Sprintf("Click on the link to verify your email: %s", verifyURL),
		Category: "email_verification",
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Token", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}
