package pick

import (
	"testing"
	"time"

	"github.com/seqsense/pcscatter/cloud"
)

func TestTimer(t *testing.T) {
	t0 := time.Unix(100, 0)
	var tm Timer
	if tm.Expired(t0.Add(time.Hour)) {
		t.Fatal("Timer must not expire before armed")
	}
	tm.Arm(t0, 50*time.Millisecond)
	if tm.Expired(t0.Add(49 * time.Millisecond)) {
		t.Error("Timer must not expire before the deadline")
	}
	if !tm.Expired(t0.Add(50 * time.Millisecond)) {
		t.Error("Timer must expire at the deadline")
	}
	tm.Cancel()
	if tm.Armed() || tm.Expired(t0.Add(time.Second)) {
		t.Error("Canceled timer must not expire")
	}
}

func TestHover(t *testing.T) {
	p0 := &cloud.Point{Label: "A"}
	p1 := &cloud.Point{Label: "B"}
	t0 := time.Unix(100, 0)
	ms := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

	type step struct {
		now     time.Time
		hit     *cloud.Point
		changed bool
		state   HoverState
		hovered *cloud.Point
	}
	testCases := map[string][]step{
		"HitToHit": {
			{now: ms(0), hit: p0, changed: true, state: Hovered, hovered: p0},
			{now: ms(16), hit: p1, changed: true, state: Hovered, hovered: p1},
			{now: ms(32), hit: p1, state: Hovered, hovered: p1},
		},
		"MissThenClear": {
			{now: ms(0), hit: p0, changed: true, state: Hovered, hovered: p0},
			{now: ms(16), state: PendingClear, hovered: p0},
			{now: ms(32), state: PendingClear, hovered: p0},
			{now: ms(66), changed: true, state: Idle},
			{now: ms(82), state: Idle},
			{now: ms(200), state: Idle},
		},
		"MissThenHit": {
			{now: ms(0), hit: p0, changed: true, state: Hovered, hovered: p0},
			{now: ms(16), state: PendingClear, hovered: p0},
			{now: ms(32), hit: p1, changed: true, state: Hovered, hovered: p1},
			{now: ms(100), hit: p1, state: Hovered, hovered: p1},
		},
		"MissThenSamePoint": {
			{now: ms(0), hit: p0, changed: true, state: Hovered, hovered: p0},
			{now: ms(16), state: PendingClear, hovered: p0},
			{now: ms(65), hit: p0, state: Hovered, hovered: p0},
			{now: ms(200), hit: p0, state: Hovered, hovered: p0},
		},
		"IdleMiss": {
			{now: ms(0), state: Idle},
			{now: ms(100), state: Idle},
		},
	}
	for name, steps := range testCases {
		steps := steps
		t.Run(name, func(t *testing.T) {
			h := NewHover(DefaultHoverClearDelay)
			for i, s := range steps {
				changed := h.Update(Hit{Point: s.hit}, s.hit != nil, s.now)
				if changed != s.changed {
					t.Errorf("Step %d: expected changed=%v, got %v", i, s.changed, changed)
				}
				if h.State() != s.state {
					t.Errorf("Step %d: expected state %v, got %v", i, s.state, h.State())
				}
				if h.Point() != s.hovered {
					t.Errorf("Step %d: expected hovered %v, got %v", i, s.hovered, h.Point())
				}
				if _, ok := h.Hit(); ok != (s.hovered != nil) {
					t.Errorf("Step %d: Hit() ok must be %v", i, s.hovered != nil)
				}
			}
		})
	}
}

func TestHover_ClearCount(t *testing.T) {
	h := NewHover(DefaultHoverClearDelay)
	t0 := time.Unix(100, 0)
	h.Update(Hit{Point: &cloud.Point{}}, true, t0)

	cleared := 0
	for i := 1; i < 20; i++ {
		now := t0.Add(time.Duration(i) * 16 * time.Millisecond)
		if h.Update(Hit{}, false, now) {
			if h.Point() != nil {
				t.Fatal("Changed miss must clear the hover")
			}
			cleared++
		}
	}
	if cleared != 1 {
		t.Errorf("Hover must be cleared exactly once, got %d", cleared)
	}
}

func TestHover_PollAndLeave(t *testing.T) {
	h := NewHover(DefaultHoverClearDelay)
	t0 := time.Unix(100, 0)
	h.Update(Hit{Point: &cloud.Point{}}, true, t0)
	if h.Leave(t0) {
		t.Error("Leave must not clear the hover immediately")
	}
	if h.Poll(t0.Add(10 * time.Millisecond)) {
		t.Error("Poll must not clear before the delay")
	}
	if !h.Poll(t0.Add(50 * time.Millisecond)) {
		t.Error("Poll must clear after the delay")
	}
	if h.State() != Idle {
		t.Errorf("Expected idle, got %v", h.State())
	}
}

func TestSelection(t *testing.T) {
	p0 := &cloud.Point{Label: "A"}
	p1 := &cloud.Point{Label: "B"}
	var s Selection

	if s.Click(Hit{}, false) {
		t.Error("Click on empty space without selection must not change")
	}
	if !s.Click(Hit{Point: p0}, true) || s.Point() != p0 {
		t.Fatal("Click on a point must select it")
	}
	if s.Click(Hit{Point: p0}, true) {
		t.Error("Click on the selected point must not change")
	}
	if !s.Click(Hit{Point: p1}, true) || s.Point() != p1 {
		t.Fatal("Click on another point must select it")
	}
	if !s.Click(Hit{}, false) || s.Point() != nil {
		t.Fatal("Click on empty space must clear the selection")
	}
	if _, ok := s.Hit(); ok {
		t.Error("Selection must be empty")
	}
}

func TestHover_OnChange(t *testing.T) {
	p0 := &cloud.Point{Label: "A"}
	p1 := &cloud.Point{Label: "B"}
	var got []*cloud.Point
	h := NewHover(DefaultHoverClearDelay)
	h.OnChange = func(hit Hit, ok bool) {
		if !ok {
			got = append(got, nil)
			return
		}
		got = append(got, hit.Point)
	}

	t0 := time.Unix(100, 0)
	h.Update(Hit{Point: p0}, true, t0)
	h.Update(Hit{Point: p0}, true, t0.Add(16*time.Millisecond))
	h.Update(Hit{Point: p1}, true, t0.Add(32*time.Millisecond))
	h.Update(Hit{}, false, t0.Add(48*time.Millisecond))
	h.Update(Hit{}, false, t0.Add(200*time.Millisecond))
	h.Update(Hit{}, false, t0.Add(300*time.Millisecond))

	expected := []*cloud.Point{p0, p1, nil}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d changes, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Change %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}
