package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/style.css
var styleCSS []byte

// renderer executes the embedded HTML pages.
type renderer struct {
	pages *template.Template
}

func newRenderer() (*renderer, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &renderer{pages: pages}, nil
}

func (r *renderer) render(w io.Writer, page string, data any) error {
	return r.pages.ExecuteTemplate(w, page+".html", data)
}
