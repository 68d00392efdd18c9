package main

import (
	"net/url"

	"finitefield.org/flor-web/internal/catalogue"
	"finitefield.org/flor-web/internal/seo"
)

// panelLink is one click target: Href reloads the full page, Fragment swaps just the panel.
type panelLink struct {
	Href     string
	Fragment string
}

type menuOptionView struct {
	panelLink
	Value    string
	Label    string
	Selected bool
}

type menuView struct {
	Name          catalogue.Menu
	Label         string
	SelectedLabel string
	Open          bool
	Trigger       panelLink
	Options       []menuOptionView
}

type cardView struct {
	Product        catalogue.Product
	CSRFToken      string
	StockLabel     string
	SafetyBoxLabel string
	QuantityLabel  string
	AddLabel       string
	SoldOut        bool
}

type catalogueView struct {
	Menus   []menuView
	AnyOpen bool
	Outside panelLink
	Cards   []cardView
}

// menuLabelKeys maps each dropdown to its label and option key prefix.
var menuLabelKeys = map[catalogue.Menu]string{
	catalogue.MenuPrice:        "filter.price",
	catalogue.MenuAvailability: "filter.availability",
	catalogue.MenuSort:         "filter.sort",
}

// panelQuery is the committed state plus the open menus.
func panelQuery(st catalogue.State, ms catalogue.MenuState) url.Values {
	q := st.Query()
	if open := ms.Encode(); open != "" {
		q.Set("open", open)
	}
	return q
}

// canonicalURL is the shareable address of the committed state.
func canonicalURL(st catalogue.State) string {
	if q := st.Query(); len(q) > 0 {
		return "/?" + q.Encode()
	}
	return "/"
}

func clickLink(st catalogue.State, ms catalogue.MenuState, c catalogue.Click) panelLink {
	q := panelQuery(st, ms)
	q.Set("click", c.String())
	enc := q.Encode()
	return panelLink{Href: "/?" + enc, Fragment: "/catalogue/panel?" + enc}
}

// catalogueView builds the panel's view model. Cards come in catalogue order; the panel
// applies filters and sort to the rendered nodes afterwards.
func (a *app) catalogueView(lang, csrf string, st catalogue.State, ms catalogue.MenuState) catalogueView {
	t := func(key string) string { return a.bundle.T(lang, key) }
	v := catalogueView{Outside: clickLink(st, ms, catalogue.Click{Kind: catalogue.ClickOutside})}

	for _, m := range catalogue.Menus {
		prefix := menuLabelKeys[m]
		selected := st.Selected(m)
		mv := menuView{
			Name:          m,
			Label:         t(prefix),
			SelectedLabel: t(prefix + "." + selected),
			Open:          ms.Open(m),
			Trigger:       clickLink(st, ms, catalogue.Click{Kind: catalogue.ClickTrigger, Menu: m}),
		}
		for _, value := range catalogue.Options(m) {
			mv.Options = append(mv.Options, menuOptionView{
				panelLink: clickLink(st, ms, catalogue.Click{Kind: catalogue.ClickOption, Menu: m, Value: value}),
				Value:     value,
				Label:     t(prefix + "." + value),
				Selected:  value == selected,
			})
		}
		v.AnyOpen = v.AnyOpen || mv.Open
		v.Menus = append(v.Menus, mv)
	}

	for _, p := range a.products {
		cv := cardView{
			Product:        p,
			CSRFToken:      csrf,
			SafetyBoxLabel: t("catalogue.safety_box"),
			QuantityLabel:  t("catalogue.quantity"),
			AddLabel:       t("catalogue.add"),
			SoldOut:        p.Stock == catalogue.StockOut,
		}
		if p.Stock != catalogue.StockUnknown {
			cv.StockLabel = t("stock." + string(p.Stock))
		}
		v.Cards = append(v.Cards, cv)
	}
	return v
}

// itemList is the structured data for the visible products, in display order.
func itemList(products []catalogue.Product) map[string]any {
	infos := make([]seo.ProductInfo, 0, len(products))
	for _, p := range products {
		infos = append(infos, seo.ProductInfo{
			SKU:          p.ID,
			Name:         p.Name,
			ImageURL:     p.Image,
			Price:        p.Price,
			Availability: string(p.Stock),
		})
	}
	return seo.ItemList(infos)
}
