package main

import (
	"time"
)

const clickGuardDuration = 100 * time.Millisecond

// clickGuard drops the click event fired at the end of an orbit drag,
// so that rotating the view does not change the selection.
type clickGuard struct {
	deadline time.Time
	moved    bool
}

func (c *clickGuard) Move() {
	c.moved = true
}

func (c *clickGuard) DragStart() {
	c.moved = false
}

func (c *clickGuard) DragEnd(now time.Time) {
	c.deadline = now.Add(clickGuardDuration)
}

// Click reports whether a click at now is a real click.
func (c *clickGuard) Click(now time.Time) bool {
	return c.deadline.IsZero() || !c.moved || c.deadline.Before(now)
}
