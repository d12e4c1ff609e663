// Package render turns dashboard views into HTML. All output goes through
// html/template, so catalog data is escaped for the context it lands in.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
	"productdash/internal/engine/dashboard"
)

//go:embed templates/*.html
var files embed.FS

type Renderer struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"isTrue": func(s string) bool { return s == "true" },
	"tabClass": func(current, tab dashboard.Tab) string {
		if current == tab {
			return "tab active"
		}
		return "tab"
	},
}

func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the full dashboard. It buffers first so a template error
// never leaves a half-written page.
func (r *Renderer) Page(w http.ResponseWriter, status int, v dashboard.View) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		log.Error().Err(err).Str("tab", string(v.Tab)).Msg("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
