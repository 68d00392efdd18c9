package cart

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// plainText strips markup from card text. Templates escape on output, so entities produced by
// the policy are decoded again.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// safeImage keeps relative paths and http(s) URLs only.
func safeImage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		if strings.ContainsAny(raw, `'"()\`) {
			return ""
		}
		return raw
	default:
		return ""
	}
}

func sanitize(li LineItem) LineItem {
	li.ID = plainText(li.ID)
	li.Name = plainText(li.Name)
	li.Price = plainText(li.Price)
	li.Image = safeImage(li.Image)
	return li
}
