package catalogue

import "github.com/PuerkitoBio/goquery"

// Cards returns every captured card in document order.
func (p *Panel) Cards() []*Card { return append([]*Card(nil), p.cards...) }

// Selection exposes the card's node.
func (c *Card) Selection() *goquery.Selection { return c.sel }
