package catalogue

import (
	"net/url"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Query parameter names carrying the panel state.
const (
	ParamPrice        = "price"
	ParamAvailability = "availability"
	ParamSort         = "sort"
)

// Listing is anything the panel can filter and sort: product records and rendered cards.
type Listing interface {
	ListingName() string
	// ListingPrice reports false when the price text does not parse.
	ListingPrice() (decimal.Decimal, bool)
	ListingStock() Stock
}

// State is the transient filter/sort selection.
type State struct {
	PriceRange   string
	Availability string
	Sort         SortKey
}

// DefaultState is what a fresh page load shows.
func DefaultState() State {
	return State{PriceRange: PriceAll, Availability: AvailabilityAll, Sort: SortNameAsc}
}

// SetFilter updates one filter dimension.
func (s *State) SetFilter(dim Dimension, value string) error {
	switch dim {
	case DimensionPriceRange:
		if _, err := ParsePriceRange(value); err != nil {
			return err
		}
		s.PriceRange = value
	case DimensionAvailability:
		if !contains(AvailabilityKeys, value) {
			return &ValueError{Dimension: string(dim), Value: value}
		}
		s.Availability = value
	default:
		return &ValueError{Dimension: "dimension", Value: string(dim)}
	}
	return nil
}

// SetSort updates the sort key.
func (s *State) SetSort(key string) error {
	k, err := ParseSortKey(key)
	if err != nil {
		return err
	}
	s.Sort = k
	return nil
}

// StateFromQuery reads the state from URL parameters; unknown values keep their defaults.
func StateFromQuery(q url.Values) State {
	st := DefaultState()
	if v := q.Get(ParamPrice); v != "" {
		_ = st.SetFilter(DimensionPriceRange, v)
	}
	if v := q.Get(ParamAvailability); v != "" {
		_ = st.SetFilter(DimensionAvailability, v)
	}
	if v := q.Get(ParamSort); v != "" {
		_ = st.SetSort(v)
	}
	return st
}

// Query encodes the state, omitting defaults.
func (s State) Query() url.Values {
	q := url.Values{}
	def := DefaultState()
	if s.PriceRange != "" && s.PriceRange != def.PriceRange {
		q.Set(ParamPrice, s.PriceRange)
	}
	if s.Availability != "" && s.Availability != def.Availability {
		q.Set(ParamAvailability, s.Availability)
	}
	if s.Sort != "" && s.Sort != def.Sort {
		q.Set(ParamSort, string(s.Sort))
	}
	return q
}

type applyOptions struct {
	lang language.Tag
}

// ApplyOption customises Apply.
type ApplyOption func(*applyOptions)

// WithLanguage sets the collation language used for name sorting.
func WithLanguage(tag language.Tag) ApplyOption {
	return func(o *applyOptions) { o.lang = tag }
}

// Apply filters items by the state's price range and availability, then stable-sorts the
// survivors. The input slice is not modified.
func Apply[T Listing](items []T, st State, opts ...ApplyOption) []T {
	o := applyOptions{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}
	pr, err := ParsePriceRange(st.PriceRange)
	if err != nil {
		pr, _ = ParsePriceRange(PriceAll)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !pr.All() {
			p, ok := it.ListingPrice()
			if !ok || !pr.Contains(p) {
				continue
			}
		}
		if !availabilityMatches(st.Availability, it.ListingStock()) {
			continue
		}
		out = append(out, it)
	}
	sortListings(out, st.Sort, o.lang)
	return out
}
