package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"weather-console/internal/models"
)

//go:embed templates
var templatesFS embed.FS

var pageNames = []string{"home", "login", "register", "weather", "history"}

var pages map[string]*template.Template

// LoadTemplates parses the embedded page templates against the shared
// layout. Call during startup before serving requests; if it returns
// an error, do not start the server.
func LoadTemplates() error {
	parsed := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		parsed[name] = t
	}
	pages = parsed
	return nil
}

// pageData is the view model shared by all pages. Pages read only the
// fields they render.
type pageData struct {
	Title         string
	Background    string
	Authenticated bool
	Email         string
	Error         string

	// weather page
	Lat    string
	Lon    string
	Report *models.WeatherReport

	// history page
	Entries []models.HistoryEntry
	HasMore bool
}

func renderPage(w io.Writer, name string, data *pageData) error {
	if pages == nil {
		return errors.New("templates not loaded: call web.LoadTemplates during startup")
	}
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
