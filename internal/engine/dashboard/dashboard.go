// Package dashboard composes the tab view models and serializes every
// mutation of their state behind one lock.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"productdash/internal/client"
	"productdash/internal/engine/importer"
	"productdash/internal/engine/modal"
	"productdash/internal/engine/notify"
	"productdash/internal/engine/products"
	"productdash/internal/engine/webhooks"
	"productdash/internal/platform/config"
)

type Tab string

const (
	TabProducts Tab = "products"
	TabImport   Tab = "import"
	TabWebhooks Tab = "webhooks"
)

var ErrUnknownTab = errors.New("unknown tab")

func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabProducts, TabImport, TabWebhooks:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// API is everything the dashboard calls on the catalog service.
type API interface {
	products.API
	webhooks.API
	importer.API
}

type Dashboard struct {
	mu     sync.Mutex
	tab    Tab
	loaded bool

	products *products.List
	webhooks *webhooks.List
	modal    *modal.Modal
	importer *importer.Importer
	notices  *notify.Center
	apiBase  string
}

func New(api API, cfg *config.Config, apiBase string) *Dashboard {
	notices := notify.NewCenter(cfg.Dashboard.ToastTTL)
	p := products.NewList(api, cfg.Dashboard.PageSize)
	w := webhooks.NewList(api)

	return &Dashboard{
		tab:      TabProducts,
		products: p,
		webhooks: w,
		modal:    modal.New(p, w),
		importer: importer.New(api, cfg.Import, notices),
		notices:  notices,
		apiBase:  apiBase,
	}
}

func (d *Dashboard) Notices() *notify.Center { return d.notices }

func (d *Dashboard) Importer() *importer.Importer { return d.importer }

func (d *Dashboard) Tab() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tab
}

// Activate switches tabs. Products reset to page 0 and reload, webhooks
// reload, and leaving the import tab cancels a running poll.
func (d *Dashboard) Activate(ctx context.Context, tab Tab) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tab == TabImport && tab != TabImport {
		d.importer.Cancel()
	}
	d.tab = tab
	d.loaded = true

	var err error
	switch tab {
	case TabProducts:
		err = d.products.Reset(ctx)
	case TabWebhooks:
		err = d.webhooks.Load(ctx)
	}
	return d.report(err, "")
}

// Show activates tab only when switching to it from another tab, so a
// redirect back to the current tab keeps its page and search.
func (d *Dashboard) Show(ctx context.Context, tab Tab) error {
	d.mu.Lock()
	current, loaded := d.tab, d.loaded
	d.mu.Unlock()

	if current == tab && loaded {
		return nil
	}
	return d.Activate(ctx, tab)
}

// Close stops background work.
func (d *Dashboard) Close() {
	d.importer.Close()
}

// report pushes a toast for err, or success when err is nil and success is set.
// It returns err unchanged.
func (d *Dashboard) report(err error, success string) error {
	if err != nil {
		d.notices.Error(err)
		return err
	}
	if success != "" {
		d.notices.Success(success)
	}
	return nil
}

// reportStale warns when a mutation succeeded but the list refresh after it did not.
func (d *Dashboard) reportStale(loadErr error) {
	if loadErr != nil {
		d.notices.Warning("Saved, but the list could not be refreshed: " + notify.FromError(loadErr))
	}
}

func (d *Dashboard) LoadProducts(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report(d.products.Load(ctx), "")
}

func (d *Dashboard) SearchProducts(ctx context.Context, term string, filter client.Filter) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report(d.products.Search(ctx, term, filter), "")
}

func (d *Dashboard) NextPage(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report(d.products.Next(ctx), "")
}

func (d *Dashboard) PrevPage(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report(d.products.Prev(ctx), "")
}

func (d *Dashboard) DeleteProduct(ctx context.Context, id int64, confirmed bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.products.Delete(ctx, id, confirmed)
	if errors.Is(err, products.ErrNotConfirmed) {
		d.notices.Info("Delete cancelled")
		return err
	}
	if err == nil {
		d.reportStale(d.products.LoadErr)
	}
	return d.report(err, "Product deleted")
}

func (d *Dashboard) DeleteAllProducts(ctx context.Context, confirmed bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.products.DeleteAll(ctx, confirmed)
	if errors.Is(err, products.ErrNotConfirmed) {
		d.notices.Info("Delete all cancelled")
		return err
	}
	if err == nil {
		d.reportStale(d.products.LoadErr)
	}
	return d.report(err, "All products deleted")
}

func (d *Dashboard) LoadWebhooks(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report(d.webhooks.Load(ctx), "")
}

func (d *Dashboard) TestWebhook(ctx context.Context, id int64) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.webhooks.TestDelivery(ctx, id)
	if err != nil {
		return result, d.report(err, "")
	}
	if result == "ERR" {
		d.notices.Warning(fmt.Sprintf("Webhook %d test delivery failed", id))
	} else {
		d.notices.Info(fmt.Sprintf("Webhook %d responded %s", id, result))
	}
	return result, nil
}

func (d *Dashboard) DeleteWebhook(ctx context.Context, id int64, confirmed bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.webhooks.Delete(ctx, id, confirmed)
	if errors.Is(err, webhooks.ErrNotConfirmed) {
		d.notices.Info("Delete cancelled")
		return err
	}
	if err == nil {
		d.reportStale(d.webhooks.LoadErr)
	}
	return d.report(err, "Webhook deleted")
}

// OpenProduct opens the product form; id 0 means a new product.
func (d *Dashboard) OpenProduct(ctx context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == 0 {
		d.modal.OpenProduct(nil)
		return nil
	}
	p, err := d.products.Get(ctx, id)
	if err != nil {
		return d.report(err, "")
	}
	d.modal.OpenProduct(p)
	return nil
}

// OpenWebhook opens the webhook form; id 0 means a new webhook.
func (d *Dashboard) OpenWebhook(ctx context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == 0 {
		d.modal.OpenWebhook(nil)
		return nil
	}
	w, err := d.webhooks.Get(ctx, id)
	if err != nil {
		return d.report(err, "")
	}
	d.modal.OpenWebhook(w)
	return nil
}

func (d *Dashboard) SaveModal(ctx context.Context, form modal.FormValues) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	isProduct := d.modal.IsProduct()
	if err := d.modal.Save(ctx, form); err != nil {
		return d.report(err, "")
	}

	if isProduct {
		d.reportStale(d.products.LoadErr)
		d.notices.Success("Product saved")
	} else {
		d.reportStale(d.webhooks.LoadErr)
		d.notices.Success("Webhook saved")
	}
	return nil
}

func (d *Dashboard) CloseModal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modal.Close()
}

// Upload hands the file to the importer. Rejections become error toasts.
// The transfer runs outside the dashboard lock; the importer guards its own state.
func (d *Dashboard) Upload(ctx context.Context, filename string, r io.Reader) error {
	d.mu.Lock()
	d.tab = TabImport
	d.mu.Unlock()

	err := d.importer.Upload(ctx, filename, r)
	if err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("upload rejected")
	}
	return d.report(err, "")
}

func (d *Dashboard) ImportStatus() importer.Snapshot {
	return d.importer.Snapshot()
}
