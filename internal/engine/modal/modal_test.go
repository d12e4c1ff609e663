package modal

import (
	"context"
	"errors"
	"testing"
	"time"

	"productdash/internal/apitest"
	"productdash/internal/client"
	"productdash/internal/engine/products"
	"productdash/internal/engine/webhooks"
	"productdash/internal/platform/config"
	"productdash/internal/platform/models"
)

type fixture struct {
	modal    *Modal
	products *products.List
	webhooks *webhooks.List
	api      *client.Client
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	srv := apitest.NewServer(t)
	c := client.New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	p := products.NewList(c, 20)
	w := webhooks.NewList(c)
	return fixture{modal: New(p, w), products: p, webhooks: w, api: c}
}

func TestModal_CreateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.modal.OpenProduct(nil)
	if f.modal.Mode != ModeProductCreate || f.modal.Title() != "New product" || f.modal.SKUReadOnly() {
		t.Fatalf("unexpected modal state: %+v", f.modal)
	}

	err := f.modal.Save(ctx, FormValues{"sku": "  ABC123 ", "name": " Blue Widget ", "description": "", "active": "false"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if f.modal.IsOpen() {
		t.Error("modal should close after a successful save")
	}
	if len(f.products.Items) != 1 {
		t.Fatalf("list not reloaded: %+v", f.products.Items)
	}
	got := f.products.Items[0]
	if got.SKU != "ABC123" || got.Name != "Blue Widget" || got.Active {
		t.Errorf("saved product = %+v", got)
	}
}

func TestModal_EditProductKeepsSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.api.CreateProduct(ctx, models.ProductInput{SKU: "KEEP", Name: "Old", Active: true})

	f.modal.OpenProduct(p)
	if f.modal.Values["name"] != "Old" || f.modal.Values["active"] != "true" || !f.modal.SKUReadOnly() {
		t.Fatalf("form not pre-filled: %+v", f.modal.Values)
	}

	if err := f.modal.Save(ctx, FormValues{"sku": "CHANGED", "name": "New", "active": "true"}); err != nil {
		t.Fatal(err)
	}
	got, _ := f.api.GetProduct(ctx, p.ID)
	if got.SKU != "KEEP" || got.Name != "New" {
		t.Errorf("edited product = %+v", got)
	}
}

func TestModal_FailureKeepsFormOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.modal.OpenProduct(nil)
	err := f.modal.Save(ctx, FormValues{"sku": "   ", "name": "Nameless"})
	if !client.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !f.modal.IsOpen() || f.modal.Mode != ModeProductCreate {
		t.Fatal("modal should stay open on failure")
	}
	if f.modal.Values["name"] != "Nameless" {
		t.Errorf("submitted values lost: %+v", f.modal.Values)
	}
	if f.modal.Fields["sku"] == "" {
		t.Errorf("field detail missing: %+v", f.modal.Fields)
	}
}

func TestModal_CloseDiscardsEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.api.CreateProduct(ctx, models.ProductInput{SKU: "X1", Name: "Original"})

	f.modal.OpenProduct(p)
	f.modal.Values["name"] = "Edited but never saved"
	f.modal.Close()

	if f.modal.IsOpen() || f.modal.Values != nil {
		t.Errorf("close should drop form state: %+v", f.modal)
	}
	got, _ := f.api.GetProduct(ctx, p.ID)
	if got.Name != "Original" {
		t.Errorf("product changed after close: %+v", got)
	}

	if err := f.modal.Save(ctx, FormValues{"name": "late"}); !errors.Is(err, ErrModalClosed) {
		t.Errorf("Save() on closed modal error = %v", err)
	}
}

func TestModal_Webhooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.modal.OpenWebhook(nil)
	if f.modal.Values["event"] != "product.imported" {
		t.Errorf("event default = %q", f.modal.Values["event"])
	}
	if err := f.modal.Save(ctx, FormValues{"url": " https://example.com/hook ", "event": "product.imported", "enabled": "true"}); err != nil {
		t.Fatal(err)
	}
	if len(f.webhooks.Items) != 1 || !f.webhooks.Items[0].Enabled {
		t.Fatalf("webhook list not reloaded: %+v", f.webhooks.Items)
	}

	hook := f.webhooks.Items[0]
	f.modal.OpenWebhook(&hook)
	if f.modal.Mode != ModeWebhookEdit || f.modal.Values["url"] != "https://example.com/hook" {
		t.Fatalf("edit form = %+v", f.modal)
	}
	if err := f.modal.Save(ctx, FormValues{"url": "https://example.com/v2", "event": "product.imported", "enabled": "false"}); err != nil {
		t.Fatal(err)
	}
	if f.webhooks.Items[0].URL != "https://example.com/v2" || f.webhooks.Items[0].Enabled {
		t.Errorf("updated webhook = %+v", f.webhooks.Items[0])
	}

	f.modal.OpenWebhook(nil)
	if err := f.modal.Save(ctx, FormValues{"url": "not a url", "event": "product.imported"}); !client.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestModal_OpenReplacesContent(t *testing.T) {
	m := New(nil, nil)
	m.OpenWebhook(&models.Webhook{ID: 3, URL: "https://a", Event: "e"})
	m.OpenProduct(nil)

	if m.Mode != ModeProductCreate || m.EntityID != 0 || m.Values["url"] != "" {
		t.Errorf("open did not replace content: %+v", m)
	}
}
