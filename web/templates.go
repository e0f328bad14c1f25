package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/emaillist/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type pageData struct {
	Email    string
	ListName string
}

func (h *Handler) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("render page failed", logger.Error(err))
	}
}

// renderError shows the generic failure page. It answers 200: the link
// target is a human reading an email, not an API client, and the page
// itself explains what went wrong.
func (h *Handler) renderError(w http.ResponseWriter) {
	h.render(w, "error.html", pageData{})
}
