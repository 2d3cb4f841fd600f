package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"casamento/internal/models"
	"casamento/internal/rsvp"
)

//go:embed templates/*.html
var templatesFS embed.FS

// layoutFiles are parsed into every page
var layoutFiles = []string{"templates/base.html", "templates/partials.html"}

// Renderer executes the embedded page templates. Each page is parsed on top of its
// own copy of the layout so every page can define "content".
type Renderer struct {
	pages  map[string]*template.Template
	layout *template.Template
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"brl": func(m models.Money) string {
			return m.BRL()
		},
		"formatDate": func(t time.Time) string {
			return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
		},
		"formatTime": func(t time.Time) string {
			return t.Format("15h04")
		},
		"isoTime": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"plural": func(n int, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
		"fieldSignals": fieldSignals,
	}
}

// fieldSignals seeds the Datastar signals of one contact field form: the draft bound
// to the input and the confirmed value the save control is compared against.
func fieldSignals(fv rsvp.FieldView) (string, error) {
	b, err := json.Marshal(map[string]any{
		"fields": map[string]any{
			string(fv.Field): map[string]string{"draft": fv.Value, "confirmed": fv.Confirmed},
		},
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LoadTemplates parses the embedded templates
func LoadTemplates() (*Renderer, error) {
	layout, err := template.New("base.html").Funcs(templateFuncs()).ParseFS(templatesFS, layoutFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template), layout: layout}
	for _, f := range files {
		if isLayoutFile(f) {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(templatesFS, f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f, err)
		}
		r.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return r, nil
}

func isLayoutFile(f string) bool {
	for _, l := range layoutFiles {
		if f == l {
			return true
		}
	}
	return false
}

// Render writes page name with the given status. Output is buffered so a template
// error never produces half a page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Unknown template", fmt.Errorf("template %q not found", name))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering "+name, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Partial renders a named block from the layout, for streamed fragments
func (r *Renderer) Partial(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.layout.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
