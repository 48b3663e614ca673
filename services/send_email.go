package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/errs"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendNotifier sends notifications through the Resend API
type ResendNotifier struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	client     *http.Client
	logger     zerolog.Logger
}

func NewResendNotifier(apiKey, from string, recipients []string) *ResendNotifier {
	return &ResendNotifier{
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     log.With().Str("service", "ResendNotifier").Logger(),
	}
}

// Notify sends subject and body as a plain-text email to the configured recipients.
func (n *ResendNotifier) Notify(ctx context.Context, subject, body string) error {
	if len(n.recipients) == 0 {
		return errs.NewNotificationError("resend", fmt.Errorf("at least one recipient is required"))
	}
	if n.apiKey == "" {
		return errs.NewNotificationError("resend", fmt.Errorf("RESEND_API_KEY is required"))
	}
	if n.from == "" {
		return errs.NewNotificationError("resend", fmt.Errorf("RESEND_FROM_EMAIL is required"))
	}

	payload := ResendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: subject,
		Text:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return errs.NewNotificationError("resend", fmt.Errorf("failed to marshal email payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return errs.NewNotificationError("resend", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errs.NewNotificationError("resend", fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewNotificationError("resend", fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewNotificationError("resend", fmt.Errorf("status %d: %s", resp.StatusCode, errorResp.Message))
		}
		return errs.NewNotificationError("resend", fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
