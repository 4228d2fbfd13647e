package main

import (
	"testing"
	"time"
)

func TestClickGuard(t *testing.T) {
	cg := &clickGuard{}
	now := time.Unix(100, 0)

	if !cg.Click(now) {
		t.Error("First click event must select")
	}

	cg.DragStart()
	cg.DragEnd(now)
	if !cg.Click(now) {
		t.Error("Click after pressing without move must select")
	}

	cg.DragStart()
	cg.Move()
	if cg.Click(now) {
		t.Error("Click during orbit drag must be ignored")
	}
	cg.DragEnd(now)
	if cg.Click(now.Add(50 * time.Millisecond)) {
		t.Error("Click right after orbit drag must be ignored")
	}
	if !cg.Click(now.Add(clickGuardDuration + time.Millisecond)) {
		t.Error("Click after guard duration must select")
	}
}
