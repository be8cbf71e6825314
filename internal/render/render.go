// Package render is the template collaborator: handlers hand it a view
// name and a context map and get back a rendered page.
package render

import (
	"html/template"
	"log"
	"net/http"

	"github.com/quillnotes/server/web"
)

type Renderer struct {
	tmpl *template.Template
}

func New() *Renderer {
	tmpl, err := template.ParseFS(web.FS, "templates/*.html")
	if err != nil {
		log.Fatal("Failed to parse templates:", err)
	}
	return &Renderer{tmpl: tmpl}
}

// Render writes the named view with the given context. Rendering
// failures surface as a 500; they indicate a broken template, not bad
// user input.
func (r *Renderer) Render(w http.ResponseWriter, view string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.tmpl.ExecuteTemplate(w, view, data); err != nil {
		log.Printf("render %s: %v", view, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
