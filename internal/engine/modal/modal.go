// Package modal implements the single add/edit form shared by products and webhooks.
package modal

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"productdash/internal/client"
	"productdash/internal/pkg/validator"
	"productdash/internal/platform/models"
)

var ErrModalClosed = errors.New("modal is not open")

type Mode string

const (
	ModeClosed        Mode = ""
	ModeProductCreate Mode = "product-create"
	ModeProductEdit   Mode = "product-edit"
	ModeWebhookCreate Mode = "webhook-create"
	ModeWebhookEdit   Mode = "webhook-edit"
)

// FormValues are the raw submitted strings keyed by field name
// (sku, name, description, active, url, event, enabled).
type FormValues map[string]string

type ProductSaver interface {
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, upd models.ProductUpdate) (*models.Product, error)
}

type WebhookSaver interface {
	Create(ctx context.Context, in models.WebhookInput) (*models.Webhook, error)
	Update(ctx context.Context, id int64, in models.WebhookInput) (*models.Webhook, error)
}

// Modal holds at most one open form. Opening replaces whatever was there.
type Modal struct {
	Mode     Mode
	EntityID int64
	Values   FormValues
	Fields   validator.FieldErrors
	Err      error

	products ProductSaver
	webhooks WebhookSaver
}

func New(products ProductSaver, webhooks WebhookSaver) *Modal {
	return &Modal{products: products, webhooks: webhooks}
}

func (m *Modal) IsOpen() bool { return m.Mode != ModeClosed }

func (m *Modal) Title() string {
	switch m.Mode {
	case ModeProductCreate:
		return "New product"
	case ModeProductEdit:
		return "Edit product"
	case ModeWebhookCreate:
		return "New webhook"
	case ModeWebhookEdit:
		return "Edit webhook"
	}
	return ""
}

func (m *Modal) IsProduct() bool {
	return m.Mode == ModeProductCreate || m.Mode == ModeProductEdit
}

// SKUReadOnly is true when editing: a product's SKU never changes.
func (m *Modal) SKUReadOnly() bool { return m.Mode == ModeProductEdit }

// OpenProduct opens the product form, pre-filled from p when editing. A nil p opens an empty create form.
func (m *Modal) OpenProduct(p *models.Product) {
	m.reset()
	if p == nil {
		m.Mode = ModeProductCreate
		m.Values = FormValues{"sku": "", "name": "", "description": "", "active": "true"}
		return
	}
	m.Mode = ModeProductEdit
	m.EntityID = p.ID
	m.Values = FormValues{
		"sku":         p.SKU,
		"name":        p.Name,
		"description": p.Description,
		"active":      strconv.FormatBool(p.Active),
	}
}

// OpenWebhook opens the webhook form, pre-filled from w when editing.
func (m *Modal) OpenWebhook(w *models.Webhook) {
	m.reset()
	if w == nil {
		m.Mode = ModeWebhookCreate
		m.Values = FormValues{"url": "", "event": models.DefaultWebhookEvent, "enabled": "true"}
		return
	}
	m.Mode = ModeWebhookEdit
	m.EntityID = w.ID
	m.Values = FormValues{
		"url":     w.URL,
		"event":   w.Event,
		"enabled": strconv.FormatBool(w.Enabled),
	}
}

// Close discards the form and any unsaved edits.
func (m *Modal) Close() {
	m.reset()
}

func (m *Modal) reset() {
	m.Mode = ModeClosed
	m.EntityID = 0
	m.Values = nil
	m.Fields = nil
	m.Err = nil
}

// Save submits the form. On success the modal closes; on failure it stays
// open holding the submitted values and the error's field detail.
func (m *Modal) Save(ctx context.Context, form FormValues) error {
	if !m.IsOpen() {
		return ErrModalClosed
	}

	values := FormValues{}
	for k, v := range form {
		values[k] = strings.TrimSpace(v)
	}
	if m.SKUReadOnly() {
		values["sku"] = m.Values["sku"]
	}

	var err error
	switch m.Mode {
	case ModeProductCreate:
		_, err = m.products.Create(ctx, models.ProductInput{
			SKU:         values["sku"],
			Name:        values["name"],
			Description: values["description"],
			Active:      values["active"] == "true",
		})
	case ModeProductEdit:
		_, err = m.products.Update(ctx, m.EntityID, models.ProductUpdate{
			Name:        values["name"],
			Description: values["description"],
			Active:      values["active"] == "true",
		})
	case ModeWebhookCreate:
		_, err = m.webhooks.Create(ctx, webhookInput(values))
	case ModeWebhookEdit:
		_, err = m.webhooks.Update(ctx, m.EntityID, webhookInput(values))
	}

	if err != nil {
		m.Values = values
		m.Err = err
		m.Fields = nil
		var apiErr *client.Error
		if errors.As(err, &apiErr) {
			m.Fields = apiErr.Fields
		}
		return err
	}

	m.Close()
	return nil
}

func webhookInput(v FormValues) models.WebhookInput {
	return models.WebhookInput{
		URL:     v["url"],
		Event:   v["event"],
		Enabled: v["enabled"] == "true",
	}
}
