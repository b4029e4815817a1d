package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/page.html
var templateFS embed.FS

// HTMLRenderer writes a standalone HTML page of the current view.
type HTMLRenderer struct {
	tmpl *template.Template
}

type page struct {
	Title  string
	Stats  Stats
	Result Result
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render writes the page to w.
func (h *HTMLRenderer) Render(w io.Writer, title string, res Result, stats Stats) error {
	if err := h.tmpl.Execute(w, page{Title: title, Stats: stats, Result: res}); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
