package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finitefield.org/flor-web/internal/cart"
)

// DefaultSlotMaxBytes keeps the cart cookie under the common 4KB per-cookie browser limit.
const DefaultSlotMaxBytes = 4096

var (
	// ErrSlotTampered means the cart cookie failed signature verification.
	ErrSlotTampered = errors.New("middleware: cart cookie signature mismatch")
	// ErrSlotOverflow means the encoded cart does not fit into one cookie.
	ErrSlotOverflow = errors.New("middleware: cart cookie too large")
)

// SlotConfig configures the cart cookie.
type SlotConfig struct {
	Name     string
	MaxBytes int
	Cookie   CookieConfig
}

func (c SlotConfig) withDefaults() SlotConfig {
	if c.Name == "" {
		c.Name = cart.DefaultSlotName
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultSlotMaxBytes
	}
	if c.Cookie.MaxAge <= 0 {
		c.Cookie.MaxAge = 30 * 24 * time.Hour
	}
	return c
}

// CookieSlot is a cart.Slot stored in one signed cookie. Reads after a write in the same request
// return the written value.
type CookieSlot struct {
	cfg     SlotConfig
	w       http.ResponseWriter
	r       *http.Request
	written []byte
	dirty   bool
}

var _ cart.Slot = (*CookieSlot)(nil)

// CartSlot binds the cart cookie to one request/response pair.
func CartSlot(w http.ResponseWriter, r *http.Request, cfg SlotConfig) *CookieSlot {
	return &CookieSlot{cfg: cfg.withDefaults(), w: w, r: r}
}

func (s *CookieSlot) Read(context.Context) ([]byte, error) {
	if s.dirty {
		return append([]byte(nil), s.written...), nil
	}
	c, err := s.r.Cookie(s.cfg.Name)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	payload, err := s.cfg.Cookie.signer().verify(c.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSlotTampered, err)
	}
	return payload, nil
}

func (s *CookieSlot) Write(_ context.Context, data []byte) error {
	value := s.cfg.Cookie.signer().sign(data)
	if len(s.cfg.Name)+1+len(value) > s.cfg.MaxBytes {
		return fmt.Errorf("%w: %d bytes", ErrSlotOverflow, len(value))
	}
	setCookie(s.w, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.cfg.Cookie.MaxAge),
	})
	s.written = append([]byte(nil), data...)
	s.dirty = true
	return nil
}
