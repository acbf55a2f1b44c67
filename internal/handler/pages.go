package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/BaGreal2/filmes-server/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	GoogleEnabled bool
}

func renderPage(name string, data pageData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
			middleware.LoggerFrom(r.Context()).ErrorContext(r.Context(), "render page", "page", name, "error", err)
			writeErr(w, http.StatusInternalServerError, msgInternal)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

func IndexHandler(googleEnabled bool) http.HandlerFunc {
	return renderPage("index.html", pageData{GoogleEnabled: googleEnabled})
}

func SearchPageHandler() http.HandlerFunc {
	return renderPage("filmes.html", pageData{})
}
