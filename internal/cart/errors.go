package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageCorrupt marks persisted cart data that could not be decoded or validated.
	ErrStorageCorrupt = errors.New("cart: storage corrupt")
	// ErrInvalidIndex marks an operation addressing a line item that does not exist.
	ErrInvalidIndex = errors.New("cart: invalid index")
	// ErrInvalidQuantity marks a quantity outside 1..MaxQuantity.
	ErrInvalidQuantity = errors.New("cart: quantity out of range")
	// ErrInvalidPrice marks a price string that does not parse as an amount.
	ErrInvalidPrice = errors.New("cart: invalid price")
	// ErrInvalidItem marks an addition missing required fields.
	ErrInvalidItem = errors.New("cart: invalid item")
)

// StorageCorruptError describes why the persisted slot was discarded.
type StorageCorruptError struct {
	Reason string
	Err    error
}

func (e *StorageCorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cart: storage corrupt: %s: %v", e.Reason, e.Err)
	}
	return "cart: storage corrupt: " + e.Reason
}

func (e *StorageCorruptError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorageCorrupt}
	}
	return []error{ErrStorageCorrupt, e.Err}
}

// InvalidIndexError reports an out-of-range line item position.
type InvalidIndexError struct {
	Index int
	Len   int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("cart: invalid index %d (cart has %d items)", e.Index, e.Len)
}

func (e *InvalidIndexError) Unwrap() error { return ErrInvalidIndex }

func corrupt(reason string, err error) error {
	return &StorageCorruptError{Reason: reason, Err: err}
}
