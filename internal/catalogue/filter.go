package catalogue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownValue is returned for filter or sort values outside the supported sets.
var ErrUnknownValue = errors.New("catalogue: unknown value")

// ValueError names the dimension and the rejected value.
type ValueError struct {
	Dimension string
	Value     string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("catalogue: unknown %s %q", e.Dimension, e.Value)
}

func (e *ValueError) Unwrap() error { return ErrUnknownValue }

// Dimension is a filterable attribute of the panel.
type Dimension string

const (
	DimensionPriceRange   Dimension = "priceRange"
	DimensionAvailability Dimension = "availability"
)

// Stock is the availability indicator a product card exposes.
type Stock string

const (
	StockUnknown Stock = ""
	StockIn      Stock = "in-stock"
	StockLow     Stock = "low-stock"
	StockOut     Stock = "out-of-stock"
)

// ParseStock normalises a stock indicator; unrecognised text is StockUnknown.
func ParseStock(s string) Stock {
	switch Stock(strings.ToLower(strings.TrimSpace(s))) {
	case StockIn:
		return StockIn
	case StockLow:
		return StockLow
	case StockOut:
		return StockOut
	default:
		return StockUnknown
	}
}

// Price range keys offered by the price dropdown.
const (
	PriceAll        = "all"
	PriceUnder1000  = "0-1000"
	Price1000To2000 = "1000-2000"
	Price2000To3000 = "2000-3000"
	Price3000To5000 = "3000-5000"
	PriceOver5000   = "5000+"
)

// PriceRangeKeys lists the price dropdown in display order.
var PriceRangeKeys = []string{PriceAll, PriceUnder1000, Price1000To2000, Price2000To3000, Price3000To5000, PriceOver5000}

// PriceRange is a half-open price interval. A zero lower bound means "no lower bound", so
// "0-1000" is price < 1000.
type PriceRange struct {
	Key    string
	min    decimal.Decimal
	max    decimal.Decimal
	hasMin bool
	hasMax bool
}

// ParsePriceRange accepts one of PriceRangeKeys.
func ParsePriceRange(key string) (PriceRange, error) {
	key = strings.TrimSpace(key)
	if !contains(PriceRangeKeys, key) {
		return PriceRange{}, &ValueError{Dimension: string(DimensionPriceRange), Value: key}
	}
	r := PriceRange{Key: key}
	switch {
	case key == PriceAll:
	case strings.HasSuffix(key, "+"):
		r.min = decimal.RequireFromString(strings.TrimSuffix(key, "+"))
		r.hasMin = true
	default:
		lo, hi, _ := strings.Cut(key, "-")
		r.min = decimal.RequireFromString(lo)
		r.max = decimal.RequireFromString(hi)
		r.hasMin = r.min.IsPositive()
		r.hasMax = true
	}
	return r, nil
}

// Contains reports whether p falls inside the range.
func (r PriceRange) Contains(p decimal.Decimal) bool {
	if r.hasMin && p.LessThan(r.min) {
		return false
	}
	if r.hasMax && !p.LessThan(r.max) {
		return false
	}
	return true
}

// All reports whether the range filters nothing.
func (r PriceRange) All() bool { return !r.hasMin && !r.hasMax }

// Availability filter keys.
const (
	AvailabilityAll      = "all"
	AvailabilityInStock  = "in-stock"
	AvailabilityLowStock = "low-stock"
)

// AvailabilityKeys lists the availability dropdown in display order.
var AvailabilityKeys = []string{AvailabilityAll, AvailabilityInStock, AvailabilityLowStock}

// availabilityMatches applies the availability filter. Cards without a stock indicator are
// never excluded because there is nothing to filter on.
func availabilityMatches(key string, s Stock) bool {
	if s == StockUnknown {
		return true
	}
	switch key {
	case AvailabilityInStock:
		return s == StockIn || s == StockLow
	case AvailabilityLowStock:
		return s == StockLow
	default:
		return true
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
