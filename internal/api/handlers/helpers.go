package handlers

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	apiContext "productdash/internal/api/context"
	apierrors "productdash/internal/pkg/errors"
)

func param(r *http.Request, name string) string {
	ps, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return ps.ByName(name)
}

// formID reads the id field of a row action form.
func formID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// badRequest answers a malformed form post with the JSON error envelope.
func badRequest(w http.ResponseWriter, message string) {
	apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, message, nil)
}

// confirmed reads the hidden confirm field the delete forms post after the browser prompt.
func confirmed(r *http.Request) bool {
	return r.PostFormValue("confirm") == "yes"
}

// seeOther finishes a form post by sending the browser back to a page.
func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
