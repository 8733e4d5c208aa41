package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/collection-desk/internal/config"
)

// Client delivers short text summaries to an operator channel.
type Client interface {
	SendText(ctx context.Context, text string) error
}

// WebhookClient posts {"text": ...} payloads to an incoming webhook.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client. Returns nil when no webhook is configured.
func NewClient(cfg config.NotifyConfig) *WebhookClient {
	if cfg.WebhookURL == "" {
		return nil
	}

	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WebhookClient{httpClient: restyClient, url: cfg.WebhookURL}
}

type webhookError struct {
	Error string `json:"error"`
}

// SendText posts text to the webhook.
func (c *WebhookClient) SendText(ctx context.Context, text string) error {
	if c == nil {
		return errors.New("notify client is not configured")
	}

	apiErr := new(webhookError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("notify webhook error: code=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}
	return nil
}
