// Package notify is the server-side rendition of the app's toast
// provider: transient per-session messages with an enter phase, an
// auto-dismiss timer, and an exit animation window the client mirrors.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
	VariantWarning Variant = "warning"
	VariantCustom  Variant = "custom"
)

const (
	// EnterDelay keeps a new toast invisible for one beat so the client
	// can mount it and still play the enter transition.
	EnterDelay = 20 * time.Millisecond

	// AnimWindow matches the client's 300ms exit transition; the toast
	// stays in the active list (hidden) for this long before removal.
	AnimWindow = 300 * time.Millisecond

	DefaultDuration = 3500 * time.Millisecond
)

type Options struct {
	Variant  Variant
	Duration time.Duration

	// Optional raw colors, passed through to the client untouched.
	BackgroundColor string
	TextColor       string
}

type Toast struct {
	ID              string        `json:"id"`
	Text            string        `json:"text"`
	Variant         Variant       `json:"variant"`
	Duration        time.Duration `json:"duration"`
	Visible         bool          `json:"visible"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
	TextColor       string        `json:"textColor,omitempty"`
}

type state int

const (
	statePending state = iota
	stateVisible
	stateHiding
	stateRemoved
)

// entry owns one timer handle per transition. Whichever transition is
// armed is the only timer live; stopping it is how a dismiss cancels
// the rest of the lifecycle.
type entry struct {
	toast Toast
	state state

	enter  *time.Timer
	auto   *time.Timer
	remove *time.Timer
}

type Center struct {
	mu       sync.Mutex
	sessions map[string][]*entry
	closed   bool
}

func NewCenter() *Center {
	return &Center{sessions: map[string][]*entry{}}
}

// Push inserts a toast at the head of the session's list (newest
// first), invisible. After EnterDelay it flips visible and the
// auto-dismiss timer starts counting the caller's duration.
func (c *Center) Push(sid, text string, opts Options) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ""
	}

	variant := opts.Variant
	if variant == "" {
		variant = VariantInfo
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	e := &entry{
		toast: Toast{
			ID:              uuid.NewString(),
			Text:            text,
			Variant:         variant,
			Duration:        duration,
			Visible:         false,
			BackgroundColor: opts.BackgroundColor,
			TextColor:       opts.TextColor,
		},
		state: statePending,
	}
	c.sessions[sid] = append([]*entry{e}, c.sessions[sid]...)

	e.enter = time.AfterFunc(EnterDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || e.state != statePending {
			return
		}
		e.state = stateVisible
		e.toast.Visible = true
		e.auto = time.AfterFunc(duration, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.startHiding(sid, e)
		})
	})
	return e.toast.ID
}

// Dismiss cancels the toast's own timers and jumps it to the hiding
// phase. Other toasts are untouched.
func (c *Center) Dismiss(sid, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.sessions[sid] {
		if e.toast.ID == id {
			c.startHiding(sid, e)
			return
		}
	}
}

// Active returns a snapshot of the session's toasts, newest first.
func (c *Center) Active(sid string) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.sessions[sid]
	out := make([]Toast, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.toast)
	}
	return out
}

// Close cancels every outstanding timer for every session. The center
// accepts no pushes afterwards.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, entries := range c.sessions {
		for _, e := range entries {
			stopTimers(e)
		}
	}
	c.sessions = map[string][]*entry{}
}

// startHiding flips the visibility flag and schedules the real removal
// after the exit animation window. Caller holds c.mu.
func (c *Center) startHiding(sid string, e *entry) {
	if c.closed || e.state == stateHiding || e.state == stateRemoved {
		return
	}
	if e.enter != nil {
		e.enter.Stop()
	}
	if e.auto != nil {
		e.auto.Stop()
	}
	e.state = stateHiding
	e.toast.Visible = false
	e.remove = time.AfterFunc(AnimWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		e.state = stateRemoved
		c.drop(sid, e)
	})
}

// drop removes the entry from the session list. Caller holds c.mu.
func (c *Center) drop(sid string, e *entry) {
	entries := c.sessions[sid]
	for i, cur := range entries {
		if cur == e {
			c.sessions[sid] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(c.sessions[sid]) == 0 {
		delete(c.sessions, sid)
	}
}

func stopTimers(e *entry) {
	if e.enter != nil {
		e.enter.Stop()
	}
	if e.auto != nil {
		e.auto.Stop()
	}
	if e.remove != nil {
		e.remove.Stop()
	}
}
