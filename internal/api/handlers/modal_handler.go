package handlers

import (
	"net/http"

	"productdash/internal/engine/dashboard"
	"productdash/internal/engine/modal"
)

var formFields = []string{"sku", "name", "description", "active", "url", "event", "enabled"}

type ModalHandler struct {
	dash *dashboard.Dashboard
}

func NewModalHandler(dash *dashboard.Dashboard) *ModalHandler {
	return &ModalHandler{dash: dash}
}

func (h *ModalHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	h.dash.OpenProduct(r.Context(), 0)
	seeOther(w, r, "/products")
}

func (h *ModalHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	h.dash.OpenProduct(r.Context(), id)
	seeOther(w, r, "/products")
}

func (h *ModalHandler) NewWebhook(w http.ResponseWriter, r *http.Request) {
	h.dash.OpenWebhook(r.Context(), 0)
	seeOther(w, r, "/webhooks")
}

func (h *ModalHandler) EditWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	h.dash.OpenWebhook(r.Context(), id)
	seeOther(w, r, "/webhooks")
}

func (h *ModalHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form")
		return
	}
	form := modal.FormValues{}
	for _, f := range formFields {
		if _, ok := r.PostForm[f]; ok {
			form[f] = r.PostForm.Get(f)
		}
	}
	h.dash.SaveModal(r.Context(), form)
	seeOther(w, r, "/"+string(h.dash.Tab()))
}

func (h *ModalHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.dash.CloseModal()
	seeOther(w, r, "/"+string(h.dash.Tab()))
}
