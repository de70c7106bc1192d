// Package views holds the server-rendered login pages
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates. Each page is addressed by
// its file name, e.g. "login.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
