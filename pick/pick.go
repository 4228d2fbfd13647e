// Package pick finds the point under the pointer and tracks hover and selection.
package pick

import (
	"github.com/chewxy/math32"
	"github.com/seqsense/pcgol/mat"

	"github.com/seqsense/pcscatter/cloud"
)

const DefaultTolerancePx = 8

// Camera is the view used to render a frame.
type Camera struct {
	View, Projection mat.Mat4
	Width, Height    int
}

// Eye returns the camera position in world coordinates.
func (c Camera) Eye() mat.Vec3 {
	return c.View.InvAffine().TransformAffine(mat.Vec3{})
}

// ViewDir returns the normalized viewing direction in world coordinates.
func (c Camera) ViewDir() mat.Vec3 {
	inv := c.View.InvAffine()
	return inv.TransformAffine(mat.Vec3{0, 0, -1}).Sub(inv.TransformAffine(mat.Vec3{})).Normalized()
}

// Ray returns the pointer ray through the screen position (x, y) in pixels.
// ok is false if the viewport is empty.
func (c Camera) Ray(x, y float32) (origin, dir mat.Vec3, ok bool) {
	if c.Width <= 0 || c.Height <= 0 {
		return mat.Vec3{}, mat.Vec3{}, false
	}
	nx := 2*x/float32(c.Width) - 1
	ny := 1 - 2*y/float32(c.Height)
	v := mat.Vec3{nx / c.Projection[0], ny / c.Projection[5], -1}
	inv := c.View.InvAffine()
	origin = inv.TransformAffine(mat.Vec3{})
	dir = inv.TransformAffine(v).Sub(origin).Normalized()
	return origin, dir, true
}

// Project returns the screen position of p in pixels.
// ok is false if p is not between the near and far planes.
func (c Camera) Project(p mat.Vec3) (x, y float32, ok bool) {
	x, y, _, ok = newProjector(c).project(p)
	return x, y, ok
}

type projector struct {
	m    mat.Mat4
	w, h float32
}

func newProjector(c Camera) projector {
	return projector{
		m: c.Projection.Mul(c.View),
		w: float32(c.Width),
		h: float32(c.Height),
	}
}

func (pr projector) clip(p mat.Vec3) (x, y, z, w float32) {
	m := &pr.m
	x = m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y = m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z = m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w = m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	return
}

func (pr projector) screen(x, y, w float32) (sx, sy float32) {
	return (x/w + 1) / 2 * pr.w, (1 - y/w) / 2 * pr.h
}

// project returns screen coordinates in pixels (origin at top-left) and the
// clip space w, which is the distance along the viewing axis.
// ok is false if the point is outside of the near/far range.
func (pr projector) project(p mat.Vec3) (sx, sy, w float32, ok bool) {
	x, y, z, w := pr.clip(p)
	if w <= 0 || z < -w || w < z {
		return 0, 0, w, false
	}
	sx, sy = pr.screen(x, y, w)
	return sx, sy, w, true
}

// Batch is a group of points tested together.
type Batch struct {
	Group   *cloud.Group
	Visible bool
}

// Hit is a picked point.
type Hit struct {
	Point *cloud.Point
	Label string
	// Index is the position of the point in its group.
	Index int
	// Depth is the distance from the camera along the pointer ray.
	Depth float32
	// Offset is the screen distance between the pointer and the point in pixels.
	Offset float32
}

// Picker casts the pointer ray into visible batches.
type Picker struct {
	// TolerancePx is the maximum screen distance between the pointer and a picked point.
	TolerancePx float32
}

// Pick returns the point closest to the camera among the points projected
// within TolerancePx of the pointer position (x, y). Invisible batches are never tested.
func (pk *Picker) Pick(cam Camera, x, y float32, batches []Batch) (Hit, bool) {
	origin, dir, ok := cam.Ray(x, y)
	if !ok {
		return Hit{}, false
	}
	tol := pk.TolerancePx
	if tol <= 0 {
		tol = DefaultTolerancePx
	}
	tolSq := tol * tol
	pr := newProjector(cam)

	var best Hit
	found := false
	for _, b := range batches {
		if !b.Visible || b.Group == nil || b.Group.Len() == 0 {
			continue
		}
		if culled(pr, b.Group, x, y, tol) {
			continue
		}
		for i, p := range b.Group.Points {
			sx, sy, _, ok := pr.project(p.Pos)
			if !ok {
				continue
			}
			dx, dy := sx-x, sy-y
			dSq := dx*dx + dy*dy
			if dSq > tolSq {
				continue
			}
			depth := p.Pos.Sub(origin).Dot(dir)
			if found && depth >= best.Depth {
				continue
			}
			best = Hit{
				Point:  p,
				Label:  b.Group.Label,
				Index:  i,
				Depth:  depth,
				Offset: math32.Sqrt(dSq),
			}
			found = true
		}
	}
	return best, found
}

// culled reports whether no point of the group can be within tol of (x, y),
// judged from the projected bounding box. Groups crossing the near plane are never culled.
func culled(pr projector, g *cloud.Group, x, y, tol float32) bool {
	lo, hi := g.Bounds()
	var xMin, yMin float32 = math32.MaxFloat32, math32.MaxFloat32
	var xMax, yMax float32 = -math32.MaxFloat32, -math32.MaxFloat32
	for i := 0; i < 8; i++ {
		c := lo
		if i&1 != 0 {
			c[0] = hi[0]
		}
		if i&2 != 0 {
			c[1] = hi[1]
		}
		if i&4 != 0 {
			c[2] = hi[2]
		}
		cx, cy, _, w := pr.clip(c)
		if w <= 0 {
			return false
		}
		sx, sy := pr.screen(cx, cy, w)
		xMin, xMax = math32.Min(xMin, sx), math32.Max(xMax, sx)
		yMin, yMax = math32.Min(yMin, sy), math32.Max(yMax, sy)
	}
	return x < xMin-tol || xMax+tol < x || y < yMin-tol || yMax+tol < y
}
