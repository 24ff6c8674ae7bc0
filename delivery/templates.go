package delivery

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"equipchain-web/delivery/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages lists every page template. Each is parsed together with the shared
// layout and component templates.
var pages = []string{
	"home",
	"login",
	"register",
	"dashboard",
	"equipment_form",
	"notfound",
	"error",
}

var templateFuncs = template.FuncMap{
	"buttonOf": func(label, variant, size string) ui.Button {
		return ui.Button{Label: label, Variant: ui.ButtonVariant(variant), Size: ui.Size(size)}
	},
}

// Templates holds the parsed page templates.
type Templates struct {
	pages map[string]*template.Template
}

// ParseAllTemplates pre-parses all HTML templates at startup.
func ParseAllTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/components.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// render executes page into a buffer first so a template failure never
// leaves a half-written response.
func (t *Templates) render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute %s template: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
