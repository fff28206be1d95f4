// Package handler contains the HTTP handlers for the planner's web
// surface. Each handler struct owns the store queries and services it
// needs; nothing is reached through package globals.
package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/web"
)

var funcMap = template.FuncMap{
	"formatDate": formatDate,
	"nl2br":      nl2br,
	"titleCase":  titleCase,
}

// formatDate renders a stored YYYY-MM-DD date for display.
func formatDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// nl2br replaces newlines with <br> tags in already-escaped text.
func nl2br(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

// titleCase turns a status like "going" into "Going".
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Renderer executes the embedded page templates against a shared layout.
type Renderer struct {
	sm    *scs.SessionManager
	log   *slog.Logger
	pages map[string]*template.Template
}

// NewRenderer parses every page template together with the layout.
func NewRenderer(sm *scs.SessionManager, log *slog.Logger) (*Renderer, error) {
	entries, err := fs.ReadDir(web.Templates, "templates/pages")
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		name := entry.Name()
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(web.Templates,
			"templates/layout.html", "templates/pages/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{sm: sm, log: log, pages: pages}, nil
}

// Render writes the named page with the shared layout data filled in:
// the current user, any pending flash message, and the year.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.log.Error("template not found", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	data["User"] = session.CurrentUser(r.Context())
	data["Flash"] = session.PopFlash(r.Context(), rn.sm)
	data["Year"] = time.Now().Year()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		rn.log.Error("rendering template", "page", page, "error", err)
	}
}

// Error renders the shared error page.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rn.Render(w, r, status, "error.html", map[string]any{
		"Title":      fmt.Sprintf("%d %s", status, http.StatusText(status)),
		"StatusCode": status,
		"StatusText": http.StatusText(status),
		"Message":    message,
	})
}
