package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/widget.html"))

// WriteHTML renders v as the full widget page.
func WriteHTML(w io.Writer, v View) error {
	return pageTemplate.Execute(w, v)
}
