package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/roam-platform/roam-server/internal/common/config"
)

// sendPayload is the request body of the provider's send endpoint.
type sendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

// sendResponse is the provider's response envelope.
type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Client sends email through an HTTP transactional email provider.
type Client struct {
	httpClient *resty.Client
	from       string
	logger     *zap.Logger
}

// NewClient creates a Client for the configured provider.
func NewClient(cfg *config.MailerConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		from:       cfg.From,
		logger:     logger,
	}
}

// Send posts the message to the provider's send endpoint.
func (c *Client) Send(ctx context.Context, msg *Message) error {
	payload := sendPayload{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}

	var result sendResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/v1/send")
	if err != nil {
		c.logger.Error("email provider call failed",
			zap.String("to", msg.To),
			zap.Error(err))
		return fmt.Errorf("failed to call email provider: %w", err)
	}

	if resp.IsError() {
		c.logger.Error("email provider returned error",
			zap.String("to", msg.To),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", result.Message))
		return fmt.Errorf("email provider error: status %d", resp.StatusCode())
	}

	c.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", result.ID))
	return nil
}
