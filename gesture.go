package main

import (
	"math"
	"time"
)

type gestureMode int

const (
	gestureNone gestureMode = iota
	gestureRotate
	gesturePinch
	gesturePan
)

// touch is a touch pointer position in canvas pixels.
type touch struct {
	id      int
	x, y    float32
	primary bool
}

// gesture converts touch pointers into view operations.
// One finger orbits, two fingers pinch zoom and three fingers pan.
type gesture struct {
	view *view
	now  func() time.Time

	pointers map[int]touch
	pointer0 touch

	mode      gestureMode
	distance0 float32
}

func newGesture(v *view, now func() time.Time) *gesture {
	return &gesture{
		view:     v,
		now:      now,
		pointers: make(map[int]touch),
	}
}

func pointerDistance(pointers map[int]touch) float32 {
	var pp []touch
	for id := range pointers {
		pp = append(pp, pointers[id])
	}
	return float32(math.Hypot(float64(pp[0].x-pp[1].x), float64(pp[0].y-pp[1].y)))
}

func (g *gesture) pointerUp(e touch) {
	delete(g.pointers, e.id)
	if len(g.pointers) == 0 {
		switch g.mode {
		case gestureRotate, gesturePan:
			g.view.mouseUp(g.now())
		}
		g.mode = gestureNone
	}
}

func (g *gesture) pointerMove(e touch) {
	if _, ok := g.pointers[e.id]; !ok {
		return
	}
	g.pointers[e.id] = e

	if g.mode == gestureNone {
		switch len(g.pointers) {
		case 1:
			g.view.mouseDown(g.pointer0.x, g.pointer0.y, buttonLeft)
			g.mode = gestureRotate
		case 2:
			g.mode = gesturePinch
		case 3:
			g.view.mouseDown(g.pointer0.x, g.pointer0.y, buttonMiddle)
			g.mode = gesturePan
		}
	}
	switch g.mode {
	case gestureRotate, gesturePan:
		if e.primary {
			g.view.mouseMove(e.x, e.y)
		}
	case gesturePinch:
		if len(g.pointers) != 2 {
			break
		}
		d := pointerDistance(g.pointers)
		g.view.pinch(g.distance0, d)
		g.distance0 = d
	}
	if e.primary {
		g.pointer0 = e
	}
}

func (g *gesture) pointerDown(e touch) {
	g.pointers[e.id] = e

	switch len(g.pointers) {
	case 1:
		g.pointer0 = e
	case 2:
		g.distance0 = pointerDistance(g.pointers)
	}
}
