// Package scene composes the point cloud view and routes user interaction
// to picking, selection, highlight and capture.
//
// Scene is not safe for concurrent use. It is owned by the render loop.
package scene

import (
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/chewxy/math32"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc/storage"

	"github.com/seqsense/pcscatter/capture"
	"github.com/seqsense/pcscatter/cloud"
	"github.com/seqsense/pcscatter/config"
	"github.com/seqsense/pcscatter/highlight"
	"github.com/seqsense/pcscatter/internal/logging"
	"github.com/seqsense/pcscatter/marker"
	"github.com/seqsense/pcscatter/pick"
	"github.com/seqsense/pcscatter/style"
)

// ringRatio is the minimum highlight radius relative to the framed data radius.
const ringRatio = 0.02

// Light is a light descriptor. Direction is zero for ambient light.
type Light struct {
	Color     [3]float32
	Intensity float32
	Direction mat.Vec3
}

// Batch is a visible category to be drawn.
type Batch struct {
	Label   string
	Group   *cloud.Group
	Color   [3]float32
	Shape   marker.Shape
	Texture *image.NRGBA
}

// Axis is a colored axis helper segment.
type Axis struct {
	From, To mat.Vec3
	Color    [3]float32
	Label    string
	Texture  *image.NRGBA
}

// Overlay is the point information shown over the canvas.
type Overlay struct {
	Point    *cloud.Point
	Selected bool
	// X and Y are the screen position of the point in pixels.
	X, Y float32
}

// FrameState is everything the renderer needs to draw a frame.
type FrameState struct {
	Camera     pick.Camera
	Eye        mat.Vec3
	Background [3]float32
	// PointSize is the marker size in world units.
	PointSize float32
	Batches   []Batch

	Ambient     Light
	Directional Light

	Highlight        highlight.Indicator
	HighlightVisible bool

	// Grid and Axes are nil when hidden. Grid is a list of line vertices.
	Grid  []float32
	Axes  []Axis
	Stars []float32

	Overlay        Overlay
	OverlayVisible bool

	// DataVersion changes when point data is replaced.
	DataVersion int
}

type pointer struct {
	x, y float32
	in   bool
}

type nearestFinder interface {
	Nearest(p mat.Vec3, maxRange float32) storage.Neighbor
}

// Scene is the interactive point cloud scene.
type Scene struct {
	cfg config.Config

	orbit         *Orbit
	width, height int

	markers   *marker.Factory
	palette   style.Palette
	registry  *style.Registry
	groups    *cloud.Groups
	trees     map[string]nearestFinder
	version   int
	framed    bool
	radius    float32
	picker    pick.Picker
	hover     *pick.Hover
	selection pick.Selection
	highlight *highlight.Highlight
	capture   *capture.Capture
	pointer   pointer

	axesVisible, gridVisible bool
	grid                     []float32
	axes                     []Axis
	stars                    []float32

	updated bool
}

// New creates an empty scene.
func New(cfg config.Config) *Scene {
	s := &Scene{
		cfg: cfg,
		orbit: newOrbit(
			cfg.Camera.Damping, cfg.Camera.RotateSpeed,
			cfg.Camera.PanSpeed, cfg.Camera.ZoomSpeed,
		),
		markers:     marker.NewFactory(cfg.Marker.Resolution),
		palette:     style.Palette(cfg.Palette),
		registry:    style.NewRegistry(),
		picker:      pick.Picker{TolerancePx: cfg.Picking.TolerancePx},
		hover:       pick.NewHover(cfg.Picking.HoverClearDelay.D()),
		highlight:   highlight.New(),
		capture:     capture.New(),
		axesVisible: true,
		gridVisible: true,
		updated:     true,
	}
	s.highlight.Period = cfg.Highlight.Period.D()
	s.highlight.Amplitude = cfg.Highlight.Amplitude
	s.highlight.BaseRadius = cfg.Highlight.BaseRadius
	s.capture.ResetDelay = cfg.Capture.ResetDelay.D()
	s.capture.MaxWidth = cfg.Capture.MaxWidth
	s.capture.Prefix = cfg.Capture.Prefix
	s.hover.OnChange = func(h pick.Hit, ok bool) {
		if !ok {
			logging.Logger().Debug("hover cleared")
			return
		}
		logging.Logger().Debug("hovered", "label", h.Label, "index", h.Index)
	}

	s.grid = gridLines(cfg.Grid.Size, cfg.Grid.Divisions)
	s.axes = s.axisHelpers(cfg.Axes.Length)
	s.stars = starfield(cfg.Stars.Count, cfg.Stars.Radius, cfg.Stars.Seed)
	return s
}

// Palette returns the default category colors.
func (s *Scene) Palette() style.Palette {
	return s.palette
}

// SetPoints replaces the point data.
// Hover and selection are cleared, and categories seen for the first time
// get the default style. The camera is framed to the first non-empty data.
func (s *Scene) SetPoints(points []cloud.Point) error {
	gs, err := cloud.Build(points)
	if err != nil {
		return fmt.Errorf("building point groups: %w", err)
	}
	s.groups = gs
	s.trees = make(map[string]nearestFinder)
	s.version++

	for i, l := range gs.Labels() {
		g, _ := gs.Group(l)
		color := s.palette.Color(i)
		if len(g.Points) > 0 && g.Points[0].Color != "" {
			color = g.Points[0].Color
		}
		if s.registry.Ensure(l, color) {
			logging.Logger().Debug("category added", "label", l, "color", color)
		}
	}

	s.hover.Reset()
	s.selection.Clear()
	s.highlight.Clear()

	if lo, hi, ok := gs.Bounds(); ok && !s.framed {
		s.frameBounds(lo, hi)
		s.framed = true
	}
	s.updated = true
	logging.Logger().Info("points loaded", "points", len(points), "categories", gs.Len())
	return nil
}

func (s *Scene) frameBounds(lo, hi mat.Vec3) {
	center := lo.Add(hi).Mul(0.5)
	radius := hi.Sub(lo).Norm() / 2
	if radius < 1 {
		radius = 1
	}
	fov := s.cfg.Camera.FOV * math32.Pi / 180
	s.radius = radius
	s.orbit.SetHome(center, 1.2*radius/math32.Sin(fov/2))

	if r := radius * ringRatio; r > s.cfg.Highlight.BaseRadius {
		s.highlight.BaseRadius = r
	} else {
		s.highlight.BaseRadius = s.cfg.Highlight.BaseRadius
	}
}

// far returns the far plane covering the framed data from the current distance.
func (s *Scene) far() float32 {
	far := s.cfg.Camera.Far
	if d := s.orbit.Distance + 2*s.radius; d > far {
		far = d
	}
	return far
}

// Categories returns the category labels of the current data in order of first occurrence.
func (s *Scene) Categories() []string {
	if s.groups == nil {
		return nil
	}
	return s.groups.Labels()
}

// Styles returns the styles of the current categories.
func (s *Scene) Styles() []style.Entry {
	return s.registry.Entries(s.Categories())
}

func (s *Scene) Style(label string) (style.Style, bool) {
	return s.registry.Get(label)
}

// UpdateStyle merges p into the style of the category.
// Hiding the category of the selected or hovered point clears it.
func (s *Scene) UpdateStyle(label string, p style.Patch) error {
	st, err := s.registry.Update(label, p)
	if err != nil {
		return err
	}
	if h, ok := s.selection.Hit(); ok && h.Label == label {
		if !st.Visible {
			s.selection.Clear()
			s.highlight.Clear()
		} else {
			s.highlight.SetColor(style.RGB(st.Color))
		}
	}
	if h, ok := s.hover.Hit(); ok && h.Label == label && !st.Visible {
		s.hover.Reset()
	}
	s.updated = true
	return nil
}

func (s *Scene) SetAxesVisible(v bool) {
	if s.axesVisible != v {
		s.axesVisible = v
		s.updated = true
	}
}

func (s *Scene) AxesVisible() bool {
	return s.axesVisible
}

func (s *Scene) SetGridVisible(v bool) {
	if s.gridVisible != v {
		s.gridVisible = v
		s.updated = true
	}
}

func (s *Scene) GridVisible() bool {
	return s.gridVisible
}

// Resize sets the viewport size in pixels.
func (s *Scene) Resize(w, h int) {
	if s.width != w || s.height != h {
		s.width, s.height = w, h
		s.updated = true
	}
}

// Orbit returns the camera navigation.
func (s *Scene) Orbit() *Orbit {
	return s.orbit
}

// Camera returns the current view and projection.
func (s *Scene) Camera() pick.Camera {
	aspect := float32(1)
	if s.width > 0 && s.height > 0 {
		aspect = float32(s.width) / float32(s.height)
	}
	return pick.Camera{
		View: s.orbit.View(),
		Projection: mat.Perspective(
			s.cfg.Camera.FOV*math32.Pi/180, aspect,
			s.cfg.Camera.Near, s.far(),
		),
		Width:  s.width,
		Height: s.height,
	}
}

func (s *Scene) PointerMove(x, y float32) {
	s.pointer = pointer{x: x, y: y, in: true}
}

func (s *Scene) PointerLeave() {
	s.pointer.in = false
}

func (s *Scene) pickBatches() []pick.Batch {
	labels := s.Categories()
	bs := make([]pick.Batch, 0, len(labels))
	for _, l := range labels {
		g, _ := s.groups.Group(l)
		st, _ := s.registry.Get(l)
		bs = append(bs, pick.Batch{Group: g, Visible: st.Visible})
	}
	return bs
}

func (s *Scene) pick(x, y float32) (pick.Hit, bool) {
	if s.groups.Len() == 0 {
		return pick.Hit{}, false
	}
	return s.picker.Pick(s.Camera(), x, y, s.pickBatches())
}

// Click selects the point at (x, y), or clears the selection if there is none.
// It returns true if the selection changed.
func (s *Scene) Click(x, y float32, now time.Time) bool {
	hit, ok := s.pick(x, y)
	return s.setSelection(hit, ok, now)
}

func (s *Scene) setSelection(hit pick.Hit, ok bool, now time.Time) bool {
	if !s.selection.Click(hit, ok) {
		return false
	}
	if ok {
		st, _ := s.registry.Get(hit.Label)
		s.highlight.Set(hit.Point.Pos, style.RGB(st.Color), now)
		logging.Logger().Debug("point selected", "label", hit.Label, "pos", hit.Point.Pos)
	} else {
		s.highlight.Clear()
	}
	s.updated = true
	return true
}

// ClearSelection deselects the selected point.
func (s *Scene) ClearSelection() bool {
	return s.setSelection(pick.Hit{}, false, time.Time{})
}

// SelectNearest selects the visible point nearest to p within maxDist.
func (s *Scene) SelectNearest(p mat.Vec3, maxDist float32, now time.Time) bool {
	var best pick.Hit
	var bestDist float32
	found := false
	for _, l := range s.Categories() {
		if st, _ := s.registry.Get(l); !st.Visible {
			continue
		}
		g, _ := s.groups.Group(l)
		id := s.tree(g).Nearest(p, maxDist).ID
		if id < 0 {
			continue
		}
		d := g.Points[id].Pos.Sub(p).Norm()
		if d > maxDist {
			continue
		}
		if !found || d < bestDist {
			best = pick.Hit{Point: g.Points[id], Label: l, Index: id}
			bestDist = d
			found = true
		}
	}
	if !found {
		return false
	}
	s.setSelection(best, true, now)
	return true
}

// Hover returns the hovered point.
func (s *Scene) Hover() (pick.Hit, bool) {
	return s.hover.Hit()
}

// Selection returns the selected point.
func (s *Scene) Selection() (pick.Hit, bool) {
	return s.selection.Hit()
}

// Overlay returns the point to be described over the canvas.
// The selected point takes precedence over the hovered point.
// ok is false while a capture is pending.
func (s *Scene) Overlay() (Overlay, bool) {
	if s.capture.Pending() {
		return Overlay{}, false
	}
	h, ok := s.selection.Hit()
	selected := ok
	if !ok {
		if h, ok = s.hover.Hit(); !ok {
			return Overlay{}, false
		}
	}
	o := Overlay{Point: h.Point, Selected: selected}
	o.X, o.Y, _ = s.Camera().Project(h.Point.Pos)
	return o, true
}

// Updated returns true once after something affecting the rendered image changed.
func (s *Scene) Updated() bool {
	u := s.updated
	s.updated = false
	return u
}

// Frame advances the camera and the pointer interaction to now
// and returns the state to be drawn.
func (s *Scene) Frame(now time.Time) FrameState {
	if s.orbit.Update() {
		s.updated = true
	}

	var changed bool
	if s.pointer.in {
		hit, ok := s.pick(s.pointer.x, s.pointer.y)
		changed = s.hover.Update(hit, ok, now)
	} else {
		changed = s.hover.Leave(now)
	}
	if changed {
		s.updated = true
	}
	if s.highlight.Active() || s.capture.Pending() {
		s.updated = true
	}

	cam := s.Camera()
	fs := FrameState{
		Camera:     cam,
		Eye:        s.orbit.Eye(),
		Background: [3]float32{0.02, 0.02, 0.05},
		PointSize:  s.cfg.Marker.PointSize,
		Ambient: Light{
			Color:     [3]float32{1, 1, 1},
			Intensity: 0.6,
		},
		Directional: Light{
			Color:     [3]float32{1, 1, 1},
			Intensity: 0.8,
			Direction: mat.Vec3{-1, -2, -1}.Normalized(),
		},
		Stars:       s.stars,
		DataVersion: s.version,
	}
	for _, l := range s.Categories() {
		st, _ := s.registry.Get(l)
		if !st.Visible {
			continue
		}
		g, _ := s.groups.Group(l)
		tex, err := s.markers.Texture(st.Shape)
		if err != nil {
			logging.Logger().Warn("marker texture", "label", l, "error", err)
			continue
		}
		fs.Batches = append(fs.Batches, Batch{
			Label:   l,
			Group:   g,
			Color:   style.RGB(st.Color),
			Shape:   st.Shape,
			Texture: tex,
		})
	}
	fs.Highlight, fs.HighlightVisible = s.highlight.State(now, cam.ViewDir())
	if s.gridVisible {
		fs.Grid = s.grid
	}
	if s.axesVisible {
		fs.Axes = s.axes
	}
	fs.Overlay, fs.OverlayVisible = s.Overlay()
	return fs
}

// Capture requests the next rendered frame as PNG.
func (s *Scene) Capture(now time.Time) (*capture.Future, error) {
	f, err := s.capture.Trigger(now)
	if err != nil {
		return nil, err
	}
	s.updated = true
	return f, nil
}

// CapturePending reports whether overlays must be hidden for a capture.
func (s *Scene) CapturePending() bool {
	return s.capture.Pending()
}

// Rendered must be called after the frame returned by Frame is drawn.
func (s *Scene) Rendered(r capture.FrameReader, now time.Time) {
	pending := s.capture.Pending()
	s.capture.Frame(r, now)
	if pending != s.capture.Pending() {
		s.updated = true
	}
}

func gridLines(size float32, divisions int) []float32 {
	if divisions <= 0 || size <= 0 {
		return nil
	}
	half := size / 2
	step := size / float32(divisions)
	out := make([]float32, 0, (divisions+1)*12)
	for i := 0; i <= divisions; i++ {
		v := -half + step*float32(i)
		out = append(out,
			v, 0, -half, v, 0, half,
			-half, 0, v, half, 0, v,
		)
	}
	return out
}

func (s *Scene) axisHelpers(length float32) []Axis {
	axes := []Axis{
		{To: mat.Vec3{length, 0, 0}, Color: [3]float32{1, 0.2, 0.2}, Label: "X"},
		{To: mat.Vec3{0, length, 0}, Color: [3]float32{0.2, 1, 0.2}, Label: "Y"},
		{To: mat.Vec3{0, 0, length}, Color: [3]float32{0.2, 0.4, 1}, Label: "Z"},
	}
	for i := range axes {
		axes[i].Texture = s.markers.Label(axes[i].Label)
	}
	return axes
}

// starfield returns count points around the origin at radius 0.8-1.0 times r.
// The result only depends on the arguments.
func starfield(count int, r float32, seed uint64) []float32 {
	if count <= 0 {
		return nil
	}
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float32, 0, count*3)
	for i := 0; i < count; i++ {
		z := 2*rnd.Float32() - 1
		phi := 2 * math32.Pi * rnd.Float32()
		rr := r * (0.8 + 0.2*rnd.Float32())
		xy := math32.Sqrt(1 - z*z)
		s, c := math32.Sincos(phi)
		out = append(out, rr*xy*c, rr*z, rr*xy*s)
	}
	return out
}
