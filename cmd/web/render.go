package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finitefield.org/flor-web/internal/format"
	"finitefield.org/flor-web/internal/handlers"
	"finitefield.org/flor-web/internal/i18n"
	"finitefield.org/flor-web/internal/observability"
	"finitefield.org/flor-web/internal/page"
	"finitefield.org/flor-web/templates"
)

// views owns the template set. In dev mode templates are reparsed from dir on every render.
type views struct {
	dev   bool
	dir   string
	funcs template.FuncMap
	tmpl  *template.Template
}

func newViews(bundle *i18n.Bundle, dev bool, dir string) (*views, error) {
	v := &views{
		dev: dev,
		dir: dir,
		funcs: template.FuncMap{
			"t":    bundle.T,
			"peso": func(d decimal.Decimal) string { return format.FmtPeso(d) },
			"date": format.FmtDate,
			"now":  time.Now,
		},
	}
	tmpl, err := v.parse()
	if err != nil {
		return nil, err
	}
	v.tmpl = tmpl
	return v, nil
}

func (v *views) parse() (*template.Template, error) {
	var fsys fs.FS = templates.FS
	if v.dev {
		fsys = os.DirFS(v.dir)
	}
	tmpl, err := template.New("flor").Funcs(v.funcs).ParseFS(fsys, "*.tmpl", "partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// execute renders one named template into memory.
func (v *views) execute(name string, data any) ([]byte, error) {
	tmpl := v.tmpl
	if v.dev {
		var err error
		if tmpl, err = v.parse(); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// mountFunc attaches a component to the parsed document before it is written.
type mountFunc func(doc *page.Document) error

// compose executes name, parses the markup and runs every mount over it. A missing anchor only
// skips that component.
func (a *app) compose(r *http.Request, name string, data any, mounts []mountFunc) (*page.Document, error) {
	raw, err := a.views.execute(name, data)
	if err != nil {
		return nil, err
	}
	doc, err := page.ParseBytes(raw)
	if err != nil {
		return nil, err
	}
	log := observability.FromContext(r.Context())
	for _, mount := range mounts {
		if err := mount(doc); err != nil {
			if !errors.Is(err, page.ErrMissingMount) {
				return nil, err
			}
			log.Debug("mount skipped", zap.String("template", name), zap.Error(err))
		}
	}
	return doc, nil
}

// renderPage writes a full page through the shared layout.
func (a *app) renderPage(w http.ResponseWriter, r *http.Request, data handlers.PageData, mounts ...mountFunc) {
	a.render(w, r, "base", data, false, mounts)
}

// renderFragment writes the body of a partial for htmx swaps.
func (a *app) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any, mounts ...mountFunc) {
	a.render(w, r, name, data, true, mounts)
}

func (a *app) render(w http.ResponseWriter, r *http.Request, name string, data any, fragment bool, mounts []mountFunc) {
	doc, err := a.compose(r, name, data, mounts)
	if err != nil {
		observability.FromContext(r.Context()).Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if fragment {
		err = doc.RenderBody(&buf)
	} else {
		err = doc.Render(&buf)
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
