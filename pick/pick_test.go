package pick

import (
	"testing"

	"github.com/seqsense/pcgol/mat"

	"github.com/seqsense/pcscatter/cloud"
)

func testCamera() Camera {
	return Camera{
		View:       mat.Translate(0, 0, -10),
		Projection: mat.Perspective(1.57, 1, 1, 100),
		Width:      200,
		Height:     200,
	}
}

func testBatches(t *testing.T, points []cloud.Point, hidden ...string) []Batch {
	t.Helper()
	gs, err := cloud.Build(points)
	if err != nil {
		t.Fatal(err)
	}
	isHidden := make(map[string]bool)
	for _, l := range hidden {
		isHidden[l] = true
	}
	var bs []Batch
	for _, l := range gs.Labels() {
		g, _ := gs.Group(l)
		bs = append(bs, Batch{Group: g, Visible: !isHidden[l]})
	}
	return bs
}

func TestPicker_Pick(t *testing.T) {
	points := []cloud.Point{
		{Pos: mat.Vec3{0, 0, 0}, Label: "A"},
		{Pos: mat.Vec3{0, 0, 5}, Label: "B"},
		{Pos: mat.Vec3{3, 0, 0}, Label: "A"},
		{Pos: mat.Vec3{-3, 0, 0}, Label: "C"},
		{Pos: mat.Vec3{0, 0, 20}, Label: "D"},
	}
	testCases := map[string]struct {
		x, y      float32
		tolerance float32
		hidden    []string
		picked    bool
		label     string
		expected  mat.Vec3
	}{
		"NearestToCamera": {
			x: 100, y: 100, tolerance: 8,
			picked: true, label: "B", expected: mat.Vec3{0, 0, 5},
		},
		"HiddenCategory": {
			x: 100, y: 100, tolerance: 8, hidden: []string{"B"},
			picked: true, label: "A", expected: mat.Vec3{0, 0, 0},
		},
		"AllHidden": {
			x: 100, y: 100, tolerance: 8, hidden: []string{"A", "B", "C", "D"},
		},
		"SecondPointOfGroup": {
			x: 130, y: 102, tolerance: 8,
			picked: true, label: "A", expected: mat.Vec3{3, 0, 0},
		},
		"Left": {
			x: 70, y: 100, tolerance: 8,
			picked: true, label: "C", expected: mat.Vec3{-3, 0, 0},
		},
		"OutOfTolerance": {
			x: 115, y: 100, tolerance: 8,
		},
		"WiderTolerance": {
			x: 115, y: 100, tolerance: 20,
			picked: true, label: "B", expected: mat.Vec3{0, 0, 5},
		},
		"Empty": {
			x: 20, y: 20, tolerance: 8,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			pk := &Picker{TolerancePx: tt.tolerance}
			hit, ok := pk.Pick(testCamera(), tt.x, tt.y, testBatches(t, points, tt.hidden...))
			if !ok {
				if tt.picked {
					t.Fatal("Point must be picked")
				}
				return
			} else if !tt.picked {
				t.Fatalf("Point must not be picked, got %v", hit.Point.Pos)
			}
			if hit.Label != tt.label || !hit.Point.Pos.Equal(tt.expected) {
				t.Errorf("Expected %s %v to be picked, got %s %v", tt.label, tt.expected, hit.Label, hit.Point.Pos)
			}
		})
	}
}

func TestPicker_PickBehindCamera(t *testing.T) {
	pk := &Picker{TolerancePx: 8}
	bs := testBatches(t, []cloud.Point{{Pos: mat.Vec3{0, 0, 20}, Label: "A"}})
	if hit, ok := pk.Pick(testCamera(), 100, 100, bs); ok {
		t.Errorf("Point behind the camera must not be picked, got %v", hit.Point.Pos)
	}
}

func TestPicker_PickNoViewport(t *testing.T) {
	pk := &Picker{TolerancePx: 8}
	cam := testCamera()
	cam.Width, cam.Height = 0, 0
	bs := testBatches(t, []cloud.Point{{Label: "A"}})
	if _, ok := pk.Pick(cam, 0, 0, bs); ok {
		t.Error("Nothing must be picked without viewport")
	}
	if _, ok := pk.Pick(testCamera(), 100, 100, nil); ok {
		t.Error("Nothing must be picked without batches")
	}
}

func TestCamera(t *testing.T) {
	cam := testCamera()
	if eye := cam.Eye(); !eye.Equal(mat.Vec3{0, 0, 10}) {
		t.Errorf("Expected eye at (0, 0, 10), got %v", eye)
	}
	if d := cam.ViewDir(); !d.Equal(mat.Vec3{0, 0, -1}) {
		t.Errorf("Expected -z view direction, got %v", d)
	}
}

func TestCamera_Ray(t *testing.T) {
	cam := testCamera()
	origin, dir, ok := cam.Ray(100, 100)
	if !ok {
		t.Fatal("Ray must be available")
	}
	if !origin.Equal(mat.Vec3{0, 0, 10}) {
		t.Errorf("Expected ray origin at the eye, got %v", origin)
	}
	if d := dir.Sub(mat.Vec3{0, 0, -1}).Norm(); d > 1e-5 {
		t.Errorf("Center ray must follow the view direction, got %v", dir)
	}

	target := mat.Vec3{2, -1, 3}
	x, y, ok := cam.Project(target)
	if !ok {
		t.Fatal("Target must be visible")
	}
	origin, dir, _ = cam.Ray(x, y)
	v := target.Sub(origin)
	if d := v.Sub(dir.Mul(v.Dot(dir))).Norm(); d > 1e-3 {
		t.Errorf("Ray must pass through the projected point, off by %f", d)
	}

	cam.Width = 0
	if _, _, ok := cam.Ray(0, 0); ok {
		t.Error("Ray must not be available without viewport")
	}
}
