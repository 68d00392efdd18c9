package handlers

import (
	"finitefield.org/flor-web/internal/nav"
	"finitefield.org/flor-web/internal/notify"
	"finitefield.org/flor-web/internal/seo"
)

// PageData is the view model every page hands to the shared layout.
type PageData struct {
	Page      string
	Title     string
	Lang      string
	SEO       seo.Meta
	CSRFToken string
	Alert     string

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	Notifications []notify.Notification

	// Optional per-page view model payloads
	Catalogue any
	Checkout  any
}
