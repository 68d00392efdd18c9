package catalogue

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"finitefield.org/flor-web/internal/format"
	"finitefield.org/flor-web/internal/page"
)

// Selectors the panel mounts on.
const (
	GridSelector  = ".product-grid.catalogue-grid"
	CardSelector  = ".product-card"
	CountSelector = ".product-count"
	nameSelector  = ".product-name"
	priceSelector = ".product-price"
	stockAttr     = "data-stock"
)

// Card is a rendered product card. The panel reads it but never changes its content.
type Card struct {
	sel   *goquery.Selection
	name  string
	price decimal.Decimal
	ok    bool
	stock Stock
}

func newCard(sel *goquery.Selection) *Card {
	c := &Card{
		sel:  sel,
		name: strings.TrimSpace(sel.Find(nameSelector).First().Text()),
	}
	if p, err := format.ParsePeso(sel.Find(priceSelector).First().Text()); err == nil {
		c.price, c.ok = p, true
	}
	if v, exists := sel.Attr(stockAttr); exists {
		c.stock = ParseStock(v)
	}
	return c
}

func (c *Card) ListingName() string                  { return c.name }
func (c *Card) ListingPrice() (decimal.Decimal, bool) { return c.price, c.ok }
func (c *Card) ListingStock() Stock                   { return c.stock }

// PanelOption customises a Panel.
type PanelOption func(*Panel)

// WithPanelLanguage sets the collation language for name sorting.
func WithPanelLanguage(tag language.Tag) PanelOption {
	return func(p *Panel) { p.lang = tag }
}

// WithApplyHook is called with the visible count after every Apply.
func WithApplyHook(fn func(visible int)) PanelOption {
	return func(p *Panel) { p.onApply = fn }
}

// WithCountText replaces the default "N products" wording of the count element.
func WithCountText(fn func(visible int) string) PanelOption {
	return func(p *Panel) {
		if fn != nil {
			p.countText = fn
		}
	}
}

func defaultCountText(n int) string { return fmt.Sprintf("%d products", n) }

// Panel filters and sorts the product cards of a document in place.
type Panel struct {
	grid    *goquery.Selection
	count   *goquery.Selection
	cards   []*Card
	state   State
	lang    language.Tag
	onApply func(int)

	countText func(int) string
}

// NewPanel captures the grid's cards once. Later applies only move these nodes.
func NewPanel(doc *page.Document, opts ...PanelOption) (*Panel, error) {
	grid, err := doc.Mount(GridSelector)
	if err != nil {
		return nil, err
	}
	grid = grid.First()
	p := &Panel{
		grid:  grid,
		count: doc.Find(CountSelector),
		state: DefaultState(),
		lang:  language.English,

		countText: defaultCountText,
	}
	grid.Find(CardSelector).Each(func(_ int, s *goquery.Selection) {
		p.cards = append(p.cards, newCard(s))
	})
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// State returns the current selection.
func (p *Panel) State() State { return p.state }

// SetFilter updates one filter dimension without applying it.
func (p *Panel) SetFilter(dim Dimension, value string) error { return p.state.SetFilter(dim, value) }

// SetSort updates the sort key without applying it.
func (p *Panel) SetSort(key string) error { return p.state.SetSort(key) }

// SetState replaces the whole selection.
func (p *Panel) SetState(st State) { p.state = st }

// Apply empties the grid, appends the surviving cards in order and updates the count text.
// It returns the number of visible cards.
func (p *Panel) Apply() int {
	visible := Apply(p.cards, p.state, WithLanguage(p.lang))
	p.grid.Empty()
	for _, c := range visible {
		p.grid.AppendSelection(c.sel)
	}
	if p.count.Length() > 0 {
		p.count.SetText(p.countText(len(visible)))
	}
	if p.onApply != nil {
		p.onApply(len(visible))
	}
	return len(visible)
}
