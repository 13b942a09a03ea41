// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// # Passcode Delivery

// WebhookCodeSender delivers passcodes through the transactional mail
// relay's inbound webhook. The relay owns templating and the actual SMTP
// hop; this side only posts the payload.
type WebhookCodeSender struct {
	client *resty.Client
}

// NewWebhookCodeSender constructs a sender posting to the given relay URL.
func NewWebhookCodeSender(webhookURL string) *WebhookCodeSender {
	client := resty.New().
		SetBaseURL(webhookURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &WebhookCodeSender{client: client}
}

// SendPasscode posts the passcode payload to the relay.
func (sender *WebhookCodeSender) SendPasscode(context context.Context, email, code string) error {
	response, err := sender.client.R().
		SetContext(context).
		SetBody(map[string]string{
			"template": "portal-passcode",
			"to":       email,
			"code":     code,
		}).
		Post("")

	if err != nil {
		return fmt.Errorf("passcode_webhook_request_failed: %w", err)
	}

	if response.IsError() {
		return fmt.Errorf("passcode_webhook_status_%d", response.StatusCode())
	}

	return nil
}

// LogCodeSender writes passcodes to the structured log instead of sending
// them. Development and test environments only — it must never be wired in
// production.
type LogCodeSender struct {
	logger *slog.Logger
}

// NewLogCodeSender constructs the development sender.
func NewLogCodeSender(logger *slog.Logger) *LogCodeSender {
	return &LogCodeSender{logger: logger}
}

// SendPasscode logs the passcode at INFO.
func (sender *LogCodeSender) SendPasscode(context context.Context, email, code string) error {
	sender.logger.InfoContext(context, "passcode_issued",
		slog.String("email", email),
		slog.String("code", code),
	)
	return nil
}
