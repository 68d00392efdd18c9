package catalogue

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the comparator of the sort dropdown.
type SortKey string

const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	// SortNewest is accepted but has no ordering of its own; the original order is kept.
	SortNewest SortKey = "newest"
)

// SortKeys lists the sort dropdown in display order.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortNewest}

// ParseSortKey accepts one of SortKeys.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	for _, known := range SortKeys {
		if k == known {
			return k, nil
		}
	}
	return "", &ValueError{Dimension: "sort", Value: s}
}

func newCollator(lang language.Tag) *collate.Collator {
	return collate.New(lang)
}

// sortListings stable-sorts items in place. Items whose price does not parse go last for both
// price orders.
func sortListings[T Listing](items []T, key SortKey, lang language.Tag) {
	switch key {
	case SortNameAsc, SortNameDesc:
		col := newCollator(lang)
		sort.SliceStable(items, func(i, j int) bool {
			c := col.CompareString(items[i].ListingName(), items[j].ListingName())
			if key == SortNameDesc {
				return c > 0
			}
			return c < 0
		})
	case SortPriceAsc, SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			pi, oki := items[i].ListingPrice()
			pj, okj := items[j].ListingPrice()
			if !oki || !okj {
				return oki && !okj
			}
			if key == SortPriceDesc {
				return pi.GreaterThan(pj)
			}
			return pi.LessThan(pj)
		})
	}
}
