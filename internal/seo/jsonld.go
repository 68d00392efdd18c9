package seo

import (
	"encoding/json"
	"html/template"

	"github.com/shopspring/decimal"
)

// JSON marshals v for a ld+json script tag. It returns an empty string on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// ProductInfo is the subset of a catalogue product exposed as structured data.
type ProductInfo struct {
	SKU          string
	Name         string
	ImageURL     string
	Price        decimal.Decimal
	Availability string // in-stock, low-stock, out-of-stock or empty
}

var schemaAvailability = map[string]string{
	"in-stock":     "https://schema.org/InStock",
	"low-stock":    "https://schema.org/LimitedAvailability",
	"out-of-stock": "https://schema.org/OutOfStock",
}

// Product returns a product schema with a PHP offer.
func Product(p ProductInfo) map[string]any {
	offer := map[string]any{
		"@type":         "Offer",
		"price":         p.Price.StringFixed(2),
		"priceCurrency": "PHP",
	}
	if a, ok := schemaAvailability[p.Availability]; ok {
		offer["availability"] = a
	}
	m := map[string]any{
		"@type":  "Product",
		"name":   p.Name,
		"sku":    p.SKU,
		"offers": offer,
	}
	if p.ImageURL != "" {
		m["image"] = p.ImageURL
	}
	return m
}

// ItemList wraps products in display order.
func ItemList(products []ProductInfo) map[string]any {
	el := make([]map[string]any, 0, len(products))
	for i, p := range products {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     Product(p),
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"numberOfItems":   len(products),
		"itemListElement": el,
	}
}
