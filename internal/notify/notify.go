// Package notify carries transient toast notifications from handlers to the browser.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Default timings of a toast: shown shortly after insertion, hidden after two seconds, detached
// once the fade-out transition has run.
const (
	DefaultShowAfter   = 10 * time.Millisecond
	DefaultHideAfter   = 2000 * time.Millisecond
	DefaultRemoveAfter = 300 * time.Millisecond
)

// TriggerEvent is the htmx event name the client script listens for.
const TriggerEvent = "cart:notify"

// Tone selects the toast styling.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneAlert   Tone = "alert"
)

// Stage is where a notification is in its lifecycle.
type Stage int

const (
	StagePending Stage = iota
	StageShown
	StageHidden
	StageDetached
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageShown:
		return "shown"
	case StageHidden:
		return "hidden"
	default:
		return "detached"
	}
}

// Notification is one toast.
type Notification struct {
	ID          string        `json:"id"`
	Message     string        `json:"message"`
	Tone        Tone          `json:"tone"`
	ShowAfter   time.Duration `json:"-"`
	HideAfter   time.Duration `json:"-"`
	RemoveAfter time.Duration `json:"-"`
}

// New builds a notification with the default timings.
func New(message string, tone Tone) Notification {
	return Notification{
		ID:          uuid.NewString(),
		Message:     message,
		Tone:        tone,
		ShowAfter:   DefaultShowAfter,
		HideAfter:   DefaultHideAfter,
		RemoveAfter: DefaultRemoveAfter,
	}
}

// StageAt reports the stage elapsed after insertion. HideAfter counts from insertion and
// RemoveAfter from the moment the toast is hidden.
func (n Notification) StageAt(elapsed time.Duration) Stage {
	switch {
	case elapsed < n.ShowAfter:
		return StagePending
	case elapsed < n.HideAfter:
		return StageShown
	case elapsed < n.HideAfter+n.RemoveAfter:
		return StageHidden
	default:
		return StageDetached
	}
}

// MarshalJSON adds the timings in milliseconds for the client script.
func (n Notification) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID       string `json:"id"`
		Message  string `json:"message"`
		Tone     Tone   `json:"tone"`
		ShowMS   int64  `json:"showMs"`
		HideMS   int64  `json:"hideMs"`
		RemoveMS int64  `json:"removeMs"`
	}
	return json.Marshal(wire{
		ID:       n.ID,
		Message:  n.Message,
		Tone:     n.Tone,
		ShowMS:   n.ShowAfter.Milliseconds(),
		HideMS:   n.HideAfter.Milliseconds(),
		RemoveMS: n.RemoveAfter.Milliseconds(),
	})
}

// Queue collects the notifications raised while handling one request.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

// NewQueue returns an empty queue.
func NewQueue() *Queue { return &Queue{} }

// Notify queues a success toast. It makes Queue a cart.Notifier.
func (q *Queue) Notify(_ context.Context, message string) {
	q.Push(New(message, ToneSuccess))
}

// Push queues n.
func (q *Queue) Push(n Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

// Items returns the queued notifications.
func (q *Queue) Items() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notification(nil), q.items...)
}

// Trigger renders the HX-Trigger header value. ok is false when nothing is queued.
func (q *Queue) Trigger() (string, bool) {
	items := q.Items()
	if len(items) == 0 {
		return "", false
	}
	b, err := json.Marshal(map[string][]Notification{TriggerEvent: items})
	if err != nil {
		return "", false
	}
	return string(b), true
}
