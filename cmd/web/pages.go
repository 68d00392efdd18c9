package main

import (
	"net/http"
	"net/url"
	"time"

	"finitefield.org/flor-web/internal/handlers"
	mw "finitefield.org/flor-web/internal/middleware"
	"finitefield.org/flor-web/internal/nav"
	"finitefield.org/flor-web/internal/notify"
	"finitefield.org/flor-web/internal/seo"
)

// pageData fills the layout fields shared by every full page. Flash messages queued by a
// previous plain form post become notifications here.
func (a *app) pageData(r *http.Request, name, titleKey, descKey string) handlers.PageData {
	lang := mw.Lang(r)
	path := r.URL.Path
	brand := a.bundle.T(lang, "brand.name")
	title := a.bundle.T(lang, titleKey)
	canonical := absoluteURL(r, path, nil)

	data := handlers.PageData{
		Page:        name,
		Title:       title,
		Lang:        lang,
		SEO:         seo.NewMeta(title, brand, a.bundle.T(lang, descKey), canonical),
		CSRFToken:   mw.CSRFToken(r),
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: nav.Breadcrumbs(path),
	}
	for _, l := range a.bundle.Supported() {
		data.SEO.Alternates = append(data.SEO.Alternates, seo.Alternate{
			Href:     absoluteURL(r, path, url.Values{"hl": {l}}),
			Hreflang: l,
		})
	}
	if len(data.Breadcrumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(data.Breadcrumbs))
		for _, c := range data.Breadcrumbs {
			label := c.Label
			if c.LabelKey != "" {
				label = a.bundle.T(lang, c.LabelKey)
			}
			items = append(items, seo.BreadcrumbItem{Name: label, Item: absoluteURL(r, c.Href, nil)})
		}
		data.SEO.AddJSONLD(seo.BreadcrumbList(items))
	}
	data.Notifications = flashNotifications(mw.GetSession(r).TakeFlash(), time.Now())
	return data
}

// flashNotifications turns queued flash messages into toasts. The toast lifecycle starts when
// the message was raised, so one that would already have been detached is dropped.
func flashNotifications(flashes []mw.Flash, now time.Time) []notify.Notification {
	var out []notify.Notification
	for _, f := range flashes {
		n := notify.New(f.Message, notify.ToneSuccess)
		if n.StageAt(now.Sub(f.At)) == notify.StageDetached {
			continue
		}
		out = append(out, n)
	}
	return out
}

// absoluteURL builds an absolute URL on the request's host, honouring X-Forwarded-Proto.
func absoluteURL(r *http.Request, path string, q url.Values) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "https" || p == "http" {
		scheme = p
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: path}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
