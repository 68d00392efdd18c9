package cart

import (
	"context"
	"sync"
)

// DefaultSlotName is the storage slot the storefront has always used.
const DefaultSlotName = "florCart"

// Slot is one named entry of client-side key-value storage holding the serialised cart.
type Slot interface {
	// Read returns nil, nil when the slot is empty.
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// MemorySlot keeps the serialised cart in memory.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

// NewMemorySlot returns a slot pre-filled with data (which may be nil).
func NewMemorySlot(data []byte) *MemorySlot {
	return &MemorySlot{data: append([]byte(nil), data...)}
}

func (s *MemorySlot) Read(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}
