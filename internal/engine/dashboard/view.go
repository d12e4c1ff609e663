package dashboard

import (
	"productdash/internal/client"
	"productdash/internal/engine/importer"
	"productdash/internal/engine/modal"
	"productdash/internal/engine/notify"
	"productdash/internal/pkg/validator"
	"productdash/internal/platform/models"
)

// View is a point-in-time copy of everything a page render needs.
type View struct {
	Tab      Tab
	APIBase  string
	Products ProductsView
	Webhooks []WebhookRow
	Modal    ModalView
	Import   importer.Snapshot
	Notices  []notify.Toast
}

type ProductsView struct {
	Items     []models.Product
	Term      string
	Filter    client.Filter
	PageLabel string
	HasPrev   bool
}

type WebhookRow struct {
	models.Webhook
	LastTest string
}

type ModalView struct {
	Open        bool
	Mode        modal.Mode
	Title       string
	IsProduct   bool
	SKUReadOnly bool
	Values      modal.FormValues
	Fields      validator.FieldErrors
}

func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := View{
		Tab:     d.tab,
		APIBase: d.apiBase,
		Products: ProductsView{
			Items:     append([]models.Product(nil), d.products.Items...),
			Term:      d.products.Term,
			Filter:    d.products.Filter,
			PageLabel: d.products.PageLabel(),
			HasPrev:   d.products.HasPrev(),
		},
		Modal: ModalView{
			Open:        d.modal.IsOpen(),
			Mode:        d.modal.Mode,
			Title:       d.modal.Title(),
			IsProduct:   d.modal.IsProduct(),
			SKUReadOnly: d.modal.SKUReadOnly(),
			Values:      copyValues(d.modal.Values),
			Fields:      d.modal.Fields,
		},
		Import:  d.importer.Snapshot(),
		Notices: d.notices.Active(),
	}

	for _, w := range d.webhooks.Items {
		v.Webhooks = append(v.Webhooks, WebhookRow{Webhook: w, LastTest: d.webhooks.LastTest[w.ID]})
	}
	return v
}

func copyValues(in modal.FormValues) modal.FormValues {
	if in == nil {
		return nil
	}
	out := make(modal.FormValues, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
