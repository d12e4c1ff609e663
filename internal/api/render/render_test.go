package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"productdash/internal/engine/dashboard"
	"productdash/internal/engine/importer"
	"productdash/internal/engine/modal"
	"productdash/internal/platform/models"
)

func renderView(t *testing.T, v dashboard.View) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rec := httptest.NewRecorder()
	r.Page(rec, http.StatusOK, v)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestPage_EscapesCatalogData(t *testing.T) {
	body := renderView(t, dashboard.View{
		Tab: dashboard.TabProducts,
		Products: dashboard.ProductsView{
			Items: []models.Product{
				{ID: 1, SKU: `"><img src=x>`, Name: "<script>alert(1)</script>", Active: true},
			},
			PageLabel: "Page 1",
		},
	})

	if strings.Contains(body, "<script>alert(1)</script>") || strings.Contains(body, "<img src=x>") {
		t.Error("catalog data rendered unescaped")
	}
	if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Error("escaped name missing")
	}
	if !strings.Contains(body, "Page 1") {
		t.Error("page label missing")
	}
}

func TestPage_Tabs(t *testing.T) {
	tests := []struct {
		name    string
		view    dashboard.View
		want    []string
		notWant []string
	}{
		{
			name: "webhooks",
			view: dashboard.View{
				Tab:      dashboard.TabWebhooks,
				Webhooks: []dashboard.WebhookRow{{Webhook: models.Webhook{ID: 4, URL: "https://h.example.com", Event: "product.imported", Enabled: true}, LastTest: "ERR"}},
			},
			want:    []string{"https://h.example.com", "ERR", `name="id" value="4"`},
			notWant: []string{`id="products"`},
		},
		{
			name: "import processing refreshes",
			view: dashboard.View{
				Tab:    dashboard.TabImport,
				Import: importer.Snapshot{State: importer.StateProcessing, Progress: 40, Message: "Processed 2/5", Visible: true},
			},
			want: []string{`http-equiv="refresh"`, `value="40"`, "Processed 2/5"},
		},
		{
			name:    "import idle",
			view:    dashboard.View{Tab: dashboard.TabImport, Import: importer.Snapshot{State: importer.StateIdle}},
			notWant: []string{`http-equiv="refresh"`, "<progress"},
		},
		{
			name: "modal edit product",
			view: dashboard.View{
				Tab: dashboard.TabProducts,
				Modal: dashboard.ModalView{
					Open: true, Title: "Edit product", IsProduct: true, SKUReadOnly: true,
					Mode:   modal.ModeProductEdit,
					Values: modal.FormValues{"sku": "ABC", "name": "W", "active": "false"},
					Fields: map[string]string{"name": "must be at most 512 characters"},
				},
			},
			want: []string{"Edit product", `value="ABC" readonly`, "must be at most 512 characters", `<option value="false" selected>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := renderView(t, tt.view)
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(body, s) {
					t.Errorf("body unexpectedly contains %q", s)
				}
			}
		})
	}
}
