// Package cloud groups labeled points into per-category coordinate buffers.
package cloud

import (
	"math"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

// Point is an ingested record. Points are never modified after ingestion.
type Point struct {
	Pos   mat.Vec3
	Label string
	Meta  string
	Color string
}

// Group is the set of points sharing a label.
type Group struct {
	Label string
	// Points are references into the slice given to Build, in input order.
	Points []*Point
	// Cloud holds x, y, z as packed float32 in the same order as Points.
	Cloud *pc.PointCloud

	min, max mat.Vec3
}

// Len returns the number of points in the group.
func (g *Group) Len() int {
	return len(g.Points)
}

// Bounds returns the axis aligned bounding box of the group.
func (g *Group) Bounds() (mat.Vec3, mat.Vec3) {
	return g.min, g.max
}

// Coords returns the packed coordinates as x, y, z float32 values.
func (g *Group) Coords() []float32 {
	out := make([]float32, 0, g.Cloud.Points*3)
	it, err := g.Cloud.Vec3Iterator()
	if err != nil {
		return out
	}
	for ; it.IsValid(); it.Incr() {
		v := it.Vec3()
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Groups is the result of Build.
type Groups struct {
	labels []string
	groups map[string]*Group
}

// Labels returns category labels in order of first occurrence.
func (gs *Groups) Labels() []string {
	if gs == nil {
		return nil
	}
	return append([]string(nil), gs.labels...)
}

// Len returns the number of categories.
func (gs *Groups) Len() int {
	if gs == nil {
		return 0
	}
	return len(gs.labels)
}

// Group returns the group of the label.
func (gs *Groups) Group(label string) (*Group, bool) {
	if gs == nil {
		return nil, false
	}
	g, ok := gs.groups[label]
	return g, ok
}

// Bounds returns the bounding box over all groups. ok is false if there is no point.
func (gs *Groups) Bounds() (min, max mat.Vec3, ok bool) {
	if gs.Len() == 0 {
		return mat.Vec3{}, mat.Vec3{}, false
	}
	min = mat.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max = mat.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, l := range gs.labels {
		gMin, gMax := gs.groups[l].Bounds()
		for i := range min {
			if gMin[i] < min[i] {
				min[i] = gMin[i]
			}
			if gMax[i] > max[i] {
				max[i] = gMax[i]
			}
		}
	}
	return min, max, true
}

var header = pc.PointCloudHeader{
	Version: 0.7,
	Fields:  []string{"x", "y", "z"},
	Size:    []int{4, 4, 4},
	Type:    []string{"F", "F", "F"},
	Count:   []int{1, 1, 1},
	Height:  1,
}

// Build groups points by label. The result only depends on the order and
// content of points, and points are not modified.
func Build(points []Point) (*Groups, error) {
	gs := &Groups{
		groups: make(map[string]*Group),
	}
	for i := range points {
		p := &points[i]
		g, ok := gs.groups[p.Label]
		if !ok {
			g = &Group{Label: p.Label}
			gs.groups[p.Label] = g
			gs.labels = append(gs.labels, p.Label)
		}
		g.Points = append(g.Points, p)
	}

	for _, l := range gs.labels {
		g := gs.groups[l]
		n := len(g.Points)
		g.Cloud = &pc.PointCloud{
			PointCloudHeader: header.Clone(),
			Points:           n,
		}
		g.Cloud.Width = n
		g.Cloud.Data = make([]byte, n*g.Cloud.Stride())
		it, err := g.Cloud.Vec3Iterator()
		if err != nil {
			return nil, err
		}
		for _, p := range g.Points {
			it.SetVec3(p.Pos)
			it.Incr()
		}
		if it, err = g.Cloud.Vec3Iterator(); err != nil {
			return nil, err
		}
		if g.min, g.max, err = pc.MinMaxVec3(it); err != nil {
			return nil, err
		}
	}
	return gs, nil
}
