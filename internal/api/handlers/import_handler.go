package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"productdash/internal/engine/dashboard"
	apierrors "productdash/internal/pkg/errors"
)

type ImportHandler struct {
	dash *dashboard.Dashboard
}

func NewImportHandler(dash *dashboard.Dashboard) *ImportHandler {
	return &ImportHandler{dash: dash}
}

// Upload takes the multipart "file" field and hands it to the importer.
// A missing file is reported the same way as an empty selection.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn().Int64("limit", tooLarge.Limit).Msg("upload too large")
			h.dash.Notices().Warning("File too large")
			seeOther(w, r, "/import")
			return
		}
		h.dash.Upload(r.Context(), "", nil)
		seeOther(w, r, "/import")
		return
	}
	defer file.Close()

	h.dash.Upload(r.Context(), header.Filename, file)
	seeOther(w, r, "/import")
}

func (h *ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteJSON(w, http.StatusOK, h.dash.ImportStatus())
}
