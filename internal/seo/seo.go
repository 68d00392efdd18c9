package seo

import "html/template"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

// Alternate is one hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Alternates  []Alternate
	JSONLD      []template.JS
}

// NewMeta fills the Open Graph block from the page title and description.
func NewMeta(title, brand, description, canonical string) Meta {
	full := title
	if brand != "" && title != brand {
		full = title + " | " + brand
	}
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Type:        "website",
			URL:         canonical,
			SiteName:    brand,
		},
	}
}

// AddJSONLD appends a structured data payload; payloads that fail to marshal are skipped.
func (m *Meta) AddJSONLD(v any) {
	if js := JSON(v); js != "" {
		m.JSONLD = append(m.JSONLD, js)
	}
}
