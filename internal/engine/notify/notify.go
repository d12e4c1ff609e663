// Package notify keeps the short-lived messages shown on top of the dashboard.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultTTL = 2500 * time.Millisecond

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

type Toast struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Center holds live toasts. It is safe for concurrent use.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	toasts []Toast
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

func (c *Center) Push(kind Kind, msg string) Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	t := Toast{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.toasts = append(c.pruneLocked(now), t)

	ev := log.Debug()
	if kind == KindError {
		ev = log.Warn()
	}
	ev.Str("toast_id", t.ID).Str("kind", string(kind)).Msg(msg)
	return t
}

func (c *Center) Info(msg string) Toast    { return c.Push(KindInfo, msg) }
func (c *Center) Success(msg string) Toast { return c.Push(KindSuccess, msg) }
func (c *Center) Warning(msg string) Toast { return c.Push(KindWarning, msg) }

// Error pushes the actionable text for err. A nil err pushes nothing.
func (c *Center) Error(err error) (Toast, bool) {
	msg := FromError(err)
	if msg == "" {
		return Toast{}, false
	}
	return c.Push(KindError, msg), true
}

// Active returns unexpired toasts, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toasts = c.pruneLocked(c.now())
	return append([]Toast(nil), c.toasts...)
}

func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) pruneLocked(now time.Time) []Toast {
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	return kept
}
