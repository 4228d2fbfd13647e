// Package highlight animates the ring drawn around the selected point.
package highlight

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/seqsense/pcgol/mat"
)

const (
	DefaultPeriod     = 1200 * time.Millisecond
	DefaultAmplitude  = 0.2
	DefaultBaseRadius = 0.15

	innerRatio = 0.75

	lightDistance  = 2
	lightIntensity = 1.5
)

// Light is a point light placed at the highlighted point.
type Light struct {
	Position  mat.Vec3
	Color     [3]float32
	Intensity float32
	// Distance is the range of the light.
	Distance float32
}

// Indicator is the ring to be drawn in a frame.
type Indicator struct {
	Center mat.Vec3
	// Normal is a unit axis vector the ring faces.
	Normal mat.Vec3
	Radius float32
	Color  [3]float32
	Light  Light
}

// Mesh returns the ring as a triangle strip of x, y, z vertices.
func (ind Indicator) Mesh(segments int) []float32 {
	if segments < 3 {
		segments = 3
	}
	u, v := basis(ind.Normal)
	inner := ind.Radius * innerRatio
	out := make([]float32, 0, (segments+1)*6)
	for i := 0; i <= segments; i++ {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		s, c := math32.Sincos(a)
		dir := u.Mul(c).Add(v.Mul(s))
		o := ind.Center.Add(dir.Mul(ind.Radius))
		in := ind.Center.Add(dir.Mul(inner))
		out = append(out, o[0], o[1], o[2], in[0], in[1], in[2])
	}
	return out
}

// basis returns two unit vectors perpendicular to the axis n.
func basis(n mat.Vec3) (mat.Vec3, mat.Vec3) {
	switch dominantAxis(n) {
	case 0:
		return mat.Vec3{0, 1, 0}, mat.Vec3{0, 0, 1}
	case 1:
		return mat.Vec3{0, 0, 1}, mat.Vec3{1, 0, 0}
	default:
		return mat.Vec3{1, 0, 0}, mat.Vec3{0, 1, 0}
	}
}

func dominantAxis(d mat.Vec3) int {
	ax, ay, az := math32.Abs(d[0]), math32.Abs(d[1]), math32.Abs(d[2])
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// Highlight is the single selection indicator of a scene.
type Highlight struct {
	Period     time.Duration
	Amplitude  float32
	BaseRadius float32

	active bool
	center mat.Vec3
	color  [3]float32
	start  time.Time
}

func New() *Highlight {
	return &Highlight{
		Period:     DefaultPeriod,
		Amplitude:  DefaultAmplitude,
		BaseRadius: DefaultBaseRadius,
	}
}

// Set moves the highlight to p and restarts the animation.
func (h *Highlight) Set(p mat.Vec3, color [3]float32, now time.Time) {
	h.active = true
	h.center = p
	h.color = color
	h.start = now
}

// SetColor changes the color without restarting the animation.
func (h *Highlight) SetColor(color [3]float32) {
	h.color = color
}

func (h *Highlight) Clear() {
	h.active = false
}

func (h *Highlight) Active() bool {
	return h.active
}

// Radius returns the animated radius at now.
func (h *Highlight) Radius(now time.Time) float32 {
	if h.Period <= 0 {
		return h.BaseRadius
	}
	t := float32(now.Sub(h.start).Seconds())
	T := float32(h.Period.Seconds())
	return h.BaseRadius * (1 + h.Amplitude*math32.Sin(2*math32.Pi*t/T))
}

// State returns the indicator to be drawn at now, facing the viewing direction.
func (h *Highlight) State(now time.Time, viewDir mat.Vec3) (Indicator, bool) {
	if !h.active {
		return Indicator{}, false
	}
	var n mat.Vec3
	n[dominantAxis(viewDir)] = 1
	return Indicator{
		Center: h.center,
		Normal: n,
		Radius: h.Radius(now),
		Color:  h.color,
		Light: Light{
			Position:  h.center,
			Color:     h.color,
			Intensity: lightIntensity,
			Distance:  lightDistance,
		},
	}, true
}
