package client

import (
	"context"
	"fmt"
	"net/http"

	"productdash/internal/pkg/validator"
	"productdash/internal/platform/models"
)

func (c *Client) ListWebhooks(ctx context.Context) ([]models.Webhook, error) {
	var hooks []models.Webhook
	if err := c.do(ctx, request{op: "list webhooks", method: http.MethodGet, path: "/webhooks"}, &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// GetWebhook finds a webhook by id. The service has no single-webhook
// endpoint, so this lists and filters.
func (c *Client) GetWebhook(ctx context.Context, id int64) (*models.Webhook, error) {
	hooks, err := c.ListWebhooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range hooks {
		if hooks[i].ID == id {
			return &hooks[i], nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Op: "get webhook", Message: fmt.Sprintf("webhook %d not found", id)}
}

func (c *Client) CreateWebhook(ctx context.Context, in models.WebhookInput) (*models.Webhook, error) {
	return c.writeWebhook(ctx, "create webhook", http.MethodPost, "/webhooks", in)
}

func (c *Client) UpdateWebhook(ctx context.Context, id int64, in models.WebhookInput) (*models.Webhook, error) {
	return c.writeWebhook(ctx, "update webhook", http.MethodPut, idPath("/webhooks", id), in)
}

func (c *Client) writeWebhook(ctx context.Context, op, method, path string, in models.WebhookInput) (*models.Webhook, error) {
	if fields := validator.Struct(in); fields != nil {
		return nil, validationError(op, fields)
	}

	req, err := jsonRequest(op, method, path, in)
	if err != nil {
		return nil, err
	}
	var w models.Webhook
	if err := c.do(ctx, req, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "delete webhook", method: http.MethodDelete, path: idPath("/webhooks", id)}, nil)
}

// TestWebhook asks the service to send a one-off delivery to the webhook URL.
// Webhook state is not changed.
func (c *Client) TestWebhook(ctx context.Context, id int64) (*models.WebhookTestResult, error) {
	var res models.WebhookTestResult
	if err := c.do(ctx, request{op: "test webhook", method: http.MethodPost, path: idPath("/webhooks", id, "test")}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
