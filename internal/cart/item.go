package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finitefield.org/flor-web/internal/format"
)

// MaxQuantity caps a single line item.
const MaxQuantity = 999

// LineItem is one entry of the cart: a product, its quantity and the optional safety box add-on.
type LineItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          string          `json:"price"`
	Image          string          `json:"image"`
	Quantity       int             `json:"quantity"`
	SafetyBox      bool            `json:"safetyBox"`
	SafetyBoxPrice decimal.Decimal `json:"safetyBoxPrice"`
}

// Key identifies line items that merge on add.
type Key struct {
	ID        string
	SafetyBox bool
}

// Key returns the merge identity of the line item.
func (li LineItem) Key() Key { return Key{ID: li.ID, SafetyBox: li.SafetyBox} }

// UnitPrice parses the display price.
func (li LineItem) UnitPrice() (decimal.Decimal, error) {
	p, err := format.ParsePeso(li.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	return p, nil
}

// LineTotal is (unit price + safety box surcharge) x quantity. Items that passed validation
// always have a parseable price; anything else contributes zero.
func (li LineItem) LineTotal() decimal.Decimal {
	unit, err := li.UnitPrice()
	if err != nil {
		return decimal.Zero
	}
	return unit.Add(li.SafetyBoxPrice).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) validate() error {
	if strings.TrimSpace(li.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if li.Quantity < 1 || li.Quantity > MaxQuantity {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, li.Quantity)
	}
	if li.SafetyBoxPrice.IsNegative() {
		return fmt.Errorf("%w: negative safety box price", ErrInvalidPrice)
	}
	if _, err := li.UnitPrice(); err != nil {
		return err
	}
	return nil
}

// Addition is the add-to-cart payload read from a product card.
type Addition struct {
	ID             string
	Name           string
	Price          string
	Image          string
	Quantity       int
	SafetyBox      bool
	SafetyBoxPrice decimal.Decimal
}

func (a Addition) lineItem() LineItem {
	qty := a.Quantity
	if qty == 0 {
		qty = 1
	}
	return LineItem{
		ID:             strings.TrimSpace(a.ID),
		Name:           a.Name,
		Price:          strings.TrimSpace(a.Price),
		Image:          strings.TrimSpace(a.Image),
		Quantity:       qty,
		SafetyBox:      a.SafetyBox,
		SafetyBoxPrice: a.SafetyBoxPrice,
	}
}
