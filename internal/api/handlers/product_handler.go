package handlers

import (
	"net/http"

	"productdash/internal/client"
	"productdash/internal/engine/dashboard"
)

type ProductHandler struct {
	dash *dashboard.Dashboard
}

func NewProductHandler(dash *dashboard.Dashboard) *ProductHandler {
	return &ProductHandler{dash: dash}
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.dash.SearchProducts(r.Context(), r.PostFormValue("term"), client.ParseFilter(r.PostFormValue("filter")))
	seeOther(w, r, "/products")
}

func (h *ProductHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.dash.NextPage(r.Context())
	seeOther(w, r, "/products")
}

func (h *ProductHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.dash.PrevPage(r.Context())
	seeOther(w, r, "/products")
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	h.dash.DeleteProduct(r.Context(), id, confirmed(r))
	seeOther(w, r, "/products")
}

func (h *ProductHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	h.dash.DeleteAllProducts(r.Context(), confirmed(r))
	seeOther(w, r, "/products")
}
