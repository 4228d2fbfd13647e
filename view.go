package main

import (
	"time"

	"github.com/seqsense/pcscatter/scene"
)

const (
	buttonLeft   = 0
	buttonMiddle = 1
	buttonRight  = 2
)

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
)

// view translates pointer input on the canvas into scene operations.
// Left drag orbits, middle or right drag pans, wheel zooms and a click
// without drag selects.
type view struct {
	scene *scene.Scene

	mode   dragMode
	x0, y0 float32

	cg    clickGuard
	wheel wheelNormalizer
}

func newView(s *scene.Scene) *view {
	return &view{scene: s}
}

func (v *view) mouseDown(x, y float32, button int) {
	switch button {
	case buttonLeft:
		v.mode = dragRotate
	case buttonMiddle, buttonRight:
		v.mode = dragPan
	default:
		return
	}
	v.x0, v.y0 = x, y
	v.cg.DragStart()
}

func (v *view) mouseMove(x, y float32) {
	v.scene.PointerMove(x, y)
	if v.mode == dragNone {
		return
	}
	dx, dy := x-v.x0, y-v.y0
	if dx == 0 && dy == 0 {
		return
	}
	v.x0, v.y0 = x, y
	v.cg.Move()
	switch v.mode {
	case dragRotate:
		v.scene.Orbit().Rotate(dx, dy)
	case dragPan:
		v.scene.Orbit().Pan(dx, dy)
	}
}

func (v *view) mouseUp(now time.Time) {
	if v.mode == dragNone {
		return
	}
	v.mode = dragNone
	v.cg.DragEnd(now)
}

func (v *view) mouseLeave(now time.Time) {
	v.mouseUp(now)
	v.scene.PointerLeave()
}

// click selects the point at (x, y) unless the click ends an orbit drag.
func (v *view) click(x, y float32, now time.Time) bool {
	if !v.cg.Click(now) {
		return false
	}
	return v.scene.Click(x, y, now)
}

func (v *view) zoom(delta float64, now time.Time) {
	d := v.wheel.Normalize(delta, now)
	if d == 0 {
		return
	}
	v.scene.Orbit().Zoom(float32(d) * 100)
}

// pinch zooms by the change of the distance between two touch points.
func (v *view) pinch(d0, d1 float32) {
	if d0 <= 0 || d1 <= 0 {
		return
	}
	v.scene.Orbit().Zoom((d0 - d1) * 10)
}
