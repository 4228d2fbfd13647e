package scene

import (
	"github.com/chewxy/math32"
	"github.com/seqsense/pcgol/mat"
)

const (
	defaultDistance = 10
	defaultYaw      = math32.Pi / 4
	defaultPitch    = math32.Pi / 6

	minDistance = 0.01
	maxDistance = 1000
	homeZoomOut = 4
	maxPitch    = math32.Pi/2 - 0.01
	stopDelta   = 1e-5
)

// Orbit is a damped orbit camera rotating around Target.
// Input is accumulated and applied over the following frames by Update.
type Orbit struct {
	Target   mat.Vec3
	Yaw      float32
	Pitch    float32
	Distance float32

	// Damping is the ratio of the remaining motion applied per frame.
	// Motion is applied immediately if it is 0 or 1.
	Damping     float32
	RotateSpeed float32
	PanSpeed    float32
	ZoomSpeed   float32
	// MaxDistance limits zooming out. SetHome raises it to fit the home view.
	MaxDistance float32

	dYaw, dPitch, dZoom float32
	dPan                mat.Vec3

	homeTarget   mat.Vec3
	homeDistance float32
}

func newOrbit(damping, rotateSpeed, panSpeed, zoomSpeed float32) *Orbit {
	o := &Orbit{
		Damping:      damping,
		RotateSpeed:  rotateSpeed,
		PanSpeed:     panSpeed,
		ZoomSpeed:    zoomSpeed,
		MaxDistance:  maxDistance,
		homeDistance: defaultDistance,
	}
	o.Reset()
	return o
}

// SetHome sets the view restored by Reset and resets the view.
func (o *Orbit) SetHome(target mat.Vec3, distance float32) {
	if d := distance * homeZoomOut; d > o.MaxDistance {
		o.MaxDistance = d
	}
	o.homeTarget = target
	o.homeDistance = o.clampDistance(distance)
	o.Reset()
}

// Reset restores the home view and stops any motion.
func (o *Orbit) Reset() {
	o.Target = o.homeTarget
	o.Distance = o.homeDistance
	o.Yaw = defaultYaw
	o.Pitch = defaultPitch
	o.dYaw, o.dPitch, o.dZoom = 0, 0, 0
	o.dPan = mat.Vec3{}
}

// Rotate orbits by a pointer motion in pixels.
func (o *Orbit) Rotate(dx, dy float32) {
	o.dYaw -= dx * o.RotateSpeed
	o.dPitch += dy * o.RotateSpeed
}

// Pan moves the target by a pointer motion in pixels.
func (o *Orbit) Pan(dx, dy float32) {
	right, up := o.axes()
	k := o.PanSpeed * o.Distance
	o.dPan = o.dPan.Sub(right.Mul(dx * k)).Add(up.Mul(dy * k))
}

// Zoom changes the distance by a normalized wheel delta.
// Positive delta zooms out.
func (o *Orbit) Zoom(delta float32) {
	o.dZoom += delta * o.ZoomSpeed
}

// SetTarget moves the target immediately.
func (o *Orbit) SetTarget(p mat.Vec3) {
	o.Target = p
	o.dPan = mat.Vec3{}
}

// SetDistance changes the distance immediately.
func (o *Orbit) SetDistance(d float32) {
	o.Distance = o.clampDistance(d)
	o.dZoom = 0
}

// Update applies a frame of the accumulated motion.
// It returns true if the camera moved.
func (o *Orbit) Update() bool {
	if o.dYaw == 0 && o.dPitch == 0 && o.dZoom == 0 && o.dPan == (mat.Vec3{}) {
		return false
	}
	k := o.Damping
	if k <= 0 || k >= 1 {
		k = 1
	}
	o.Yaw = math32.Remainder(o.Yaw+o.dYaw*k, 2*math32.Pi)
	o.Pitch = clamp(o.Pitch+o.dPitch*k, -maxPitch, maxPitch)
	o.Distance = o.clampDistance(o.Distance * math32.Exp(o.dZoom*k))
	o.Target = o.Target.Add(o.dPan.Mul(k))

	r := 1 - k
	o.dYaw = settle(o.dYaw * r)
	o.dPitch = settle(o.dPitch * r)
	o.dZoom = settle(o.dZoom * r)
	o.dPan = mat.Vec3{settle(o.dPan[0] * r), settle(o.dPan[1] * r), settle(o.dPan[2] * r)}
	return true
}

// Moving reports whether motion remains to be applied.
func (o *Orbit) Moving() bool {
	return o.dYaw != 0 || o.dPitch != 0 || o.dZoom != 0 || o.dPan != (mat.Vec3{})
}

// View returns the world to camera transform.
func (o *Orbit) View() mat.Mat4 {
	return mat.Translate(0, 0, -o.Distance).
		MulAffine(rotX(o.Pitch)).
		MulAffine(rotY(-o.Yaw)).
		MulAffine(mat.Translate(-o.Target[0], -o.Target[1], -o.Target[2]))
}

// Eye returns the camera position.
func (o *Orbit) Eye() mat.Vec3 {
	sy, cy := math32.Sincos(o.Yaw)
	sp, cp := math32.Sincos(o.Pitch)
	return o.Target.Add(mat.Vec3{cp * sy, sp, cp * cy}.Mul(o.Distance))
}

// axes returns the camera right and up directions.
func (o *Orbit) axes() (mat.Vec3, mat.Vec3) {
	sy, cy := math32.Sincos(o.Yaw)
	sp, cp := math32.Sincos(o.Pitch)
	return mat.Vec3{cy, 0, -sy}, mat.Vec3{-sp * sy, cp, -sp * cy}
}

func rotX(ang float32) mat.Mat4 {
	s, c := math32.Sincos(ang)
	return mat.Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

func rotY(ang float32) mat.Mat4 {
	s, c := math32.Sincos(ang)
	return mat.Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

func settle(v float32) float32 {
	if math32.Abs(v) < stopDelta {
		return 0
	}
	return v
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (o *Orbit) clampDistance(d float32) float32 {
	return clamp(d, minDistance, o.MaxDistance)
}
