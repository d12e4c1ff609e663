// Package webhooks is the view model behind the webhooks tab.
package webhooks

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"productdash/internal/platform/models"
)

var ErrNotConfirmed = errors.New("delete not confirmed")

type API interface {
	ListWebhooks(ctx context.Context) ([]models.Webhook, error)
	GetWebhook(ctx context.Context, id int64) (*models.Webhook, error)
	CreateWebhook(ctx context.Context, in models.WebhookInput) (*models.Webhook, error)
	UpdateWebhook(ctx context.Context, id int64, in models.WebhookInput) (*models.Webhook, error)
	DeleteWebhook(ctx context.Context, id int64) error
	TestWebhook(ctx context.Context, id int64) (*models.WebhookTestResult, error)
}

// List is not safe for concurrent use; the dashboard serializes access.
type List struct {
	Items   []models.Webhook
	LoadErr error

	// LastTest holds the displayed result of the latest test delivery per webhook.
	LastTest map[int64]string

	api API
}

func NewList(api API) *List {
	return &List{api: api, LastTest: make(map[int64]string)}
}

// Load replaces Items with the service's current list. On failure Items is left as is.
func (l *List) Load(ctx context.Context) error {
	hooks, err := l.api.ListWebhooks(ctx)
	l.LoadErr = err
	if err != nil {
		log.Warn().Err(err).Msg("webhook list load failed")
		return err
	}
	l.Items = hooks
	return nil
}

func (l *List) Get(ctx context.Context, id int64) (*models.Webhook, error) {
	return l.api.GetWebhook(ctx, id)
}

func (l *List) Create(ctx context.Context, in models.WebhookInput) (*models.Webhook, error) {
	w, err := l.api.CreateWebhook(ctx, in)
	if err != nil {
		return nil, err
	}
	l.Load(ctx)
	return w, nil
}

func (l *List) Update(ctx context.Context, id int64, in models.WebhookInput) (*models.Webhook, error) {
	w, err := l.api.UpdateWebhook(ctx, id, in)
	if err != nil {
		return nil, err
	}
	l.Load(ctx)
	return w, nil
}

func (l *List) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := l.api.DeleteWebhook(ctx, id); err != nil {
		return err
	}
	delete(l.LastTest, id)
	l.Load(ctx)
	return nil
}

// TestDelivery triggers a one-off delivery and returns what the row shows:
// the remote status code, or ERR when the call failed or carried no code.
func (l *List) TestDelivery(ctx context.Context, id int64) (string, error) {
	res, err := l.api.TestWebhook(ctx, id)
	display := res.Display()
	l.LastTest[id] = display
	if err != nil {
		return display, err
	}

	ev := log.Info()
	if display == "ERR" {
		ev = log.Warn().Str("delivery_error", res.Error)
	}
	ev.Int64("webhook_id", id).Str("result", display).Float64("response_ms", res.ResponseMS).Msg("webhook test delivery")
	return display, nil
}
