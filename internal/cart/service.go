package cart

import (
	"context"

	"go.uber.org/zap"
)

// Notifier receives the transient confirmation shown after an item is added.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// Recorder observes persisted mutations.
type Recorder interface {
	RecordMutation(ctx context.Context, op string, items int)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(context.Context, string, int) {}

// Messages holds the user-facing copy emitted by the store.
type Messages struct {
	Added string
}

// Service is created once at start-up and hands out stores bound to per-request slots.
type Service struct {
	logger   *zap.Logger
	recorder Recorder
	messages Messages
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the mutation recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithMessages overrides the default copy.
func WithMessages(m Messages) Option {
	return func(s *Service) {
		if m.Added != "" {
			s.messages.Added = m.Added
		}
	}
}

// NewService builds the cart service.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		messages: Messages{Added: "Item added to cart!"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open binds a store to slot and loads it. The store is always usable: when the slot is corrupt
// it starts empty and the StorageCorrupt error is returned alongside it.
func (s *Service) Open(ctx context.Context, slot Slot, notifier Notifier) (*Store, error) {
	st := &Store{svc: s, slot: slot, notifier: notifier}
	if err := st.Load(ctx); err != nil {
		s.logger.Warn("cart slot discarded", zap.Error(err))
		return st, err
	}
	return st, nil
}
