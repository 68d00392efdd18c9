package main

import (
	"errors"
	"html"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"finitefield.org/flor-web/internal/cart"
	"finitefield.org/flor-web/internal/page"
)

// Anchors the cart renders into. Any of them may be absent from a given page.
const (
	cartListSelector  = ".cart-items-list"
	cartIconSelector  = ".header-icons .fa-shopping-bag"
	cartTotalSelector = ".estimated-total-price"
	cartBadgeClass    = "cart-badge"
)

type cartItemsData struct {
	Summary   cart.Summary
	Lang      string
	CSRFToken string
}

// mountCart renders the cart into the list, badge and total anchors. Each anchor is
// independent: a missing one is reported and the others are still filled.
func (a *app) mountCart(lang, csrf string, sum cart.Summary) mountFunc {
	return func(doc *page.Document) error {
		var errs []error

		if list, err := doc.Mount(cartListSelector); err != nil {
			errs = append(errs, err)
		} else {
			items, err := a.views.execute("cart_items", cartItemsData{Summary: sum, Lang: lang, CSRFToken: csrf})
			if err != nil {
				return err
			}
			list.SetHtml(string(items))
		}

		if icon, err := doc.Mount(cartIconSelector); err != nil {
			errs = append(errs, err)
		} else {
			icon.Each(func(_ int, s *goquery.Selection) {
				setBadge(s.Parent(), sum.Count)
			})
		}

		if total, err := doc.Mount(cartTotalSelector); err != nil {
			errs = append(errs, err)
		} else {
			total.SetHtml(html.EscapeString(sum.Total) + ` <span class="currency">PHP</span>`)
		}

		return errors.Join(errs...)
	}
}

// setBadge leaves exactly one badge under parent, showing count.
func setBadge(parent *goquery.Selection, count int) {
	badges := parent.ChildrenFiltered("." + cartBadgeClass)
	if badges.Length() == 0 {
		parent.AppendHtml(`<span class="` + cartBadgeClass + `"></span>`)
		badges = parent.ChildrenFiltered("." + cartBadgeClass)
	}
	badges.Slice(1, goquery.ToEnd).Remove()
	badges.First().SetText(strconv.Itoa(count))
}
