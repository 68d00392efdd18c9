package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finitefield.org/flor-web/internal/format"
)

// Store is one cart bound to one storage slot. It is not safe for concurrent use; every
// operation runs to completion inside the request that triggered it.
type Store struct {
	svc      *Service
	slot     Slot
	notifier Notifier
	items    []LineItem
}

// Load reads the persisted slot. A missing slot is an empty cart. Corrupt data also yields an
// empty cart; the returned error wraps ErrStorageCorrupt so callers can log and continue.
func (s *Store) Load(ctx context.Context) error {
	s.items = nil
	raw, err := s.slot.Read(ctx)
	if err != nil {
		return corrupt("read slot", err)
	}
	items, err := Decode(raw)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// Add merges the addition into an existing line item with the same (id, safetyBox) pair or
// appends a new one, then persists and emits the confirmation.
func (s *Store) Add(ctx context.Context, a Addition) (LineItem, error) {
	next := sanitize(a.lineItem())
	if err := next.validate(); err != nil {
		return LineItem{}, err
	}
	key := next.Key()
	merged := -1
	for i := range s.items {
		if s.items[i].Key() == key {
			merged = i
			break
		}
	}
	if merged >= 0 && s.items[merged].Quantity > MaxQuantity-next.Quantity {
		return LineItem{}, fmt.Errorf("%w: %d on top of %d", ErrInvalidQuantity, next.Quantity, s.items[merged].Quantity)
	}
	prev := cloneItems(s.items)
	if merged >= 0 {
		s.items[merged].Quantity += next.Quantity
	} else {
		s.items = append(s.items, next)
		merged = len(s.items) - 1
	}
	if err := s.persist(ctx, "add"); err != nil {
		s.items = prev
		return LineItem{}, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, s.svc.messages.Added)
	}
	return s.items[merged], nil
}

// Remove deletes the line item at index.
func (s *Store) Remove(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	prev := cloneItems(s.items)
	s.items = append(s.items[:index], s.items[index+1:]...)
	if err := s.persist(ctx, "remove"); err != nil {
		s.items = prev
		return err
	}
	return nil
}

// SetQuantity overwrites the quantity at index; a quantity of zero or less removes the item.
func (s *Store) SetQuantity(ctx context.Context, index, quantity int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if quantity <= 0 {
		return s.Remove(ctx, index)
	}
	old := s.items[index].Quantity
	s.items[index].Quantity = quantity
	if err := s.persist(ctx, "set_quantity"); err != nil {
		s.items[index].Quantity = old
		return err
	}
	return nil
}

// Step applies the +/- buttons of a line item.
func (s *Store) Step(ctx context.Context, index, delta int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	q := s.items[index].Quantity
	if delta > MaxQuantity-q {
		return fmt.Errorf("%w: %d%+d", ErrInvalidQuantity, q, delta)
	}
	return s.SetQuantity(ctx, index, q+delta)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	prev := s.items
	s.items = nil
	if err := s.persist(ctx, "clear"); err != nil {
		s.items = prev
		return err
	}
	return nil
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem { return cloneItems(s.items) }

// Len is the number of line items.
func (s *Store) Len() int { return len(s.items) }

// Empty reports whether the cart holds no line items.
func (s *Store) Empty() bool { return len(s.items) == 0 }

// Count is the sum of quantities shown on the cart badge.
func (s *Store) Count() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Total is the unrounded sum of (unit price + safety box price) x quantity.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Line is a display row of the cart.
type Line struct {
	Index     int
	Item      LineItem
	AddonText string
	LineTotal string
}

// Summary is everything render needs, with amounts already formatted.
type Summary struct {
	Lines []Line
	Count int
	Total string
	Empty bool
}

// Snapshot builds the render summary from the current state.
func (s *Store) Snapshot() Summary {
	lines := make([]Line, 0, len(s.items))
	for i, it := range s.items {
		line := Line{
			Index:     i,
			Item:      it,
			LineTotal: format.FmtPeso(it.LineTotal()),
		}
		if it.SafetyBox {
			line.AddonText = "(+" + format.FmtPesoShort(it.SafetyBoxPrice) + ")"
		}
		lines = append(lines, line)
	}
	return Summary{
		Lines: lines,
		Count: s.Count(),
		Total: format.FmtPeso(s.Total()),
		Empty: len(s.items) == 0,
	}
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return &InvalidIndexError{Index: index, Len: len(s.items)}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, op string) error {
	raw, err := Encode(s.items)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.slot.Write(ctx, raw); err != nil {
		s.svc.logger.Warn("cart persist failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("cart: persist: %w", err)
	}
	s.svc.recorder.RecordMutation(ctx, op, len(s.items))
	s.svc.logger.Debug("cart persisted", zap.String("op", op), zap.Int("items", len(s.items)), zap.Int("bytes", len(raw)))
	return nil
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	return append([]LineItem(nil), items...)
}
