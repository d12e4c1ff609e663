package handlers

import (
	"net/http"

	"productdash/internal/engine/dashboard"
)

type WebhookHandler struct {
	dash *dashboard.Dashboard
}

func NewWebhookHandler(dash *dashboard.Dashboard) *WebhookHandler {
	return &WebhookHandler{dash: dash}
}

func (h *WebhookHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.dash.LoadWebhooks(r.Context())
	seeOther(w, r, "/webhooks")
}

func (h *WebhookHandler) Test(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	h.dash.TestWebhook(r.Context(), id)
	seeOther(w, r, "/webhooks")
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	h.dash.DeleteWebhook(r.Context(), id, confirmed(r))
	seeOther(w, r, "/webhooks")
}
