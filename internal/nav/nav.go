package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/cart"
	LabelKey string // i18n key, e.g. "nav.cart"
	// Parent is the section a breadcrumb trail passes through first.
	Parent string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.shop"},
	{Path: "/cart", LabelKey: "nav.cart"},
	{Path: "/checkout", LabelKey: "nav.checkout", Parent: "/cart"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

func lookup(p string) (Item, bool) {
	for _, it := range Main {
		if it.Path == p {
			return it, true
		}
	}
	return Item{}, false
}

// Breadcrumbs builds breadcrumb entries from the current path. The trail starts at the shop,
// passes through the section's parent (checkout sits under the cart) and ends with any deeper
// segments, prettified.
func Breadcrumbs(currentPath string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	clean := path.Clean(currentPath)
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.shop", Active: clean == "/"}}
	if clean == "/" || clean == "." {
		return crumbs
	}

	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	top := "/" + parts[0]
	item, known := lookup(top)
	if known && item.Parent != "" {
		if parent, ok := lookup(item.Parent); ok {
			crumbs = append(crumbs, Crumb{Href: parent.Path, LabelKey: parent.LabelKey})
		}
	}
	crumbs = append(crumbs, Crumb{Href: top, LabelKey: item.LabelKey, Label: titleFromSegment(parts[0]), Active: len(parts) == 1})

	href := top
	for i := 1; i < len(parts); i++ {
		href += "/" + parts[i]
		crumbs = append(crumbs, Crumb{
			Href:   href,
			Label:  titleFromSegment(parts[i]),
			Active: i == len(parts)-1,
		})
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	// casers carry state, so each call gets its own
	return cases.Title(language.English).String(s)
}
