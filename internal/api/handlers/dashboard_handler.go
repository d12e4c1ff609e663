package handlers

import (
	"net/http"

	"productdash/internal/api/render"
	"productdash/internal/engine/dashboard"
)

// DashboardHandler serves the tab pages.
type DashboardHandler struct {
	dash     *dashboard.Dashboard
	renderer *render.Renderer
}

func NewDashboardHandler(dash *dashboard.Dashboard, renderer *render.Renderer) *DashboardHandler {
	return &DashboardHandler{dash: dash, renderer: renderer}
}

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	seeOther(w, r, "/"+string(h.dash.Tab()))
}

// Activate switches tab, which reloads its data, and shows it.
func (h *DashboardHandler) Activate(w http.ResponseWriter, r *http.Request) {
	tab, err := dashboard.ParseTab(param(r, "tab"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.dash.Activate(r.Context(), tab)
	seeOther(w, r, "/"+string(tab))
}

func (h *DashboardHandler) Products(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, dashboard.TabProducts)
}

func (h *DashboardHandler) Webhooks(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, dashboard.TabWebhooks)
}

func (h *DashboardHandler) Import(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, dashboard.TabImport)
}

// show renders tab, activating it first when the browser arrives from another tab.
func (h *DashboardHandler) show(w http.ResponseWriter, r *http.Request, tab dashboard.Tab) {
	h.dash.Show(r.Context(), tab)
	h.renderer.Page(w, http.StatusOK, h.dash.View())
}
