package pick

import (
	"time"

	"github.com/seqsense/pcscatter/cloud"
)

const DefaultHoverClearDelay = 50 * time.Millisecond

// Timer is a one-shot deadline polled by the render loop.
type Timer struct {
	deadline time.Time
	armed    bool
}

// Arm (re)starts the timer to expire d after now.
func (t *Timer) Arm(now time.Time, d time.Duration) {
	t.deadline = now.Add(d)
	t.armed = true
}

// Cancel stops the timer.
func (t *Timer) Cancel() {
	t.armed = false
}

func (t *Timer) Armed() bool {
	return t.armed
}

// Expired reports whether the armed timer reached its deadline.
func (t *Timer) Expired(now time.Time) bool {
	return t.armed && !now.Before(t.deadline)
}

type HoverState int

const (
	Idle HoverState = iota
	Hovered
	PendingClear
)

func (s HoverState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovered:
		return "hovered"
	case PendingClear:
		return "pending-clear"
	}
	return "unknown"
}

// Hover tracks the hovered point.
// A miss does not clear the hover immediately: the point stays hovered
// for Delay, and a hit within that time keeps it without ever reporting
// an empty hover in between.
type Hover struct {
	Delay time.Duration
	// OnChange is called with the new hover whenever the hovered point changes.
	OnChange func(hit Hit, ok bool)

	state HoverState
	hit   Hit
	timer Timer
}

func NewHover(delay time.Duration) *Hover {
	return &Hover{Delay: delay}
}

// Update applies the pick result of a frame.
// It returns true if the hovered point changed.
func (h *Hover) Update(hit Hit, ok bool, now time.Time) bool {
	if ok {
		h.timer.Cancel()
		h.state = Hovered
		changed := h.hit.Point != hit.Point
		h.hit = hit
		if changed {
			h.notify()
		}
		return changed
	}
	switch h.state {
	case Hovered:
		h.state = PendingClear
		h.timer.Arm(now, h.Delay)
		return false
	case PendingClear:
		return h.Poll(now)
	}
	return false
}

// Poll clears the hover if the pending clear timer expired.
// It returns true if the hover was cleared.
func (h *Hover) Poll(now time.Time) bool {
	if h.state != PendingClear || !h.timer.Expired(now) {
		return false
	}
	h.Reset()
	return true
}

// Leave starts clearing the hover as a miss does.
func (h *Hover) Leave(now time.Time) bool {
	return h.Update(Hit{}, false, now)
}

// Reset clears the hover immediately.
func (h *Hover) Reset() {
	h.timer.Cancel()
	wasSet := h.state != Idle
	h.state = Idle
	h.hit = Hit{}
	if wasSet {
		h.notify()
	}
}

func (h *Hover) notify() {
	if h.OnChange != nil {
		h.OnChange(h.Hit())
	}
}

func (h *Hover) State() HoverState {
	return h.state
}

// Hit returns the hovered point. ok is false in Idle state.
func (h *Hover) Hit() (Hit, bool) {
	return h.hit, h.state != Idle
}

// Point returns the hovered point or nil.
func (h *Hover) Point() *cloud.Point {
	return h.hit.Point
}

// Selection is the point selected by click.
type Selection struct {
	hit Hit
	ok  bool
}

// Click selects the clicked point, or clears the selection if nothing was hit.
// The result does not depend on the hover state.
// It returns true if the selected point changed.
func (s *Selection) Click(hit Hit, ok bool) bool {
	if !ok {
		return s.Clear()
	}
	changed := !s.ok || s.hit.Point != hit.Point
	s.hit, s.ok = hit, true
	return changed
}

// Clear deselects. It returns true if a point was selected.
func (s *Selection) Clear() bool {
	changed := s.ok
	s.hit, s.ok = Hit{}, false
	return changed
}

func (s *Selection) Hit() (Hit, bool) {
	return s.hit, s.ok
}

// Point returns the selected point or nil.
func (s *Selection) Point() *cloud.Point {
	return s.hit.Point
}
