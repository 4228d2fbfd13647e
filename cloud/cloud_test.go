package cloud

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/seqsense/pcgol/mat"
)

func TestBuild(t *testing.T) {
	points := []Point{
		{Pos: mat.Vec3{0, 0, 0}, Label: "A"},
		{Pos: mat.Vec3{1, 1, 1}, Label: "A"},
		{Pos: mat.Vec3{0, 5, 0}, Label: "B", Meta: "x"},
	}
	gs, err := Build(points)
	if err != nil {
		t.Fatal(err)
	}
	if l := gs.Labels(); !reflect.DeepEqual([]string{"A", "B"}, l) {
		t.Fatalf("Expected labels [A B], got %v", l)
	}

	a, ok := gs.Group("A")
	if !ok {
		t.Fatal("Group A must exist")
	}
	if a.Len() != 2 {
		t.Errorf("Group A must have 2 points, got %d", a.Len())
	}
	if a.Points[0] != &points[0] || a.Points[1] != &points[1] {
		t.Error("Group must reference input points in input order")
	}
	if c := a.Coords(); !reflect.DeepEqual([]float32{0, 0, 0, 1, 1, 1}, c) {
		t.Errorf("Unexpected coordinates of A: %v", c)
	}

	b, _ := gs.Group("B")
	if b.Len() != 1 || b.Points[0].Meta != "x" {
		t.Errorf("Unexpected group B: %+v", b.Points)
	}
	if min, max := b.Bounds(); !min.Equal(mat.Vec3{0, 5, 0}) || !max.Equal(mat.Vec3{0, 5, 0}) {
		t.Errorf("Unexpected bounds of B: %v %v", min, max)
	}

	min, max, ok := gs.Bounds()
	if !ok {
		t.Fatal("Bounds must be available")
	}
	if !min.Equal(mat.Vec3{0, 0, 0}) || !max.Equal(mat.Vec3{1, 5, 1}) {
		t.Errorf("Unexpected bounds: %v %v", min, max)
	}
}

func TestBuild_FirstOccurrenceOrder(t *testing.T) {
	labels := []string{"c", "a", "c", "b", "a", "d", "b", "c"}
	var points []Point
	for i, l := range labels {
		points = append(points, Point{Pos: mat.Vec3{float32(i), 0, 0}, Label: l})
	}
	gs, err := Build(points)
	if err != nil {
		t.Fatal(err)
	}
	if l := gs.Labels(); !reflect.DeepEqual([]string{"c", "a", "b", "d"}, l) {
		t.Errorf("Labels must be in first occurrence order, got %v", l)
	}
	total := 0
	for _, l := range gs.Labels() {
		g, _ := gs.Group(l)
		for _, p := range g.Points {
			if p.Label != l {
				t.Errorf("Point labeled %s found in group %s", p.Label, l)
			}
		}
		total += g.Len()
	}
	if total != len(points) {
		t.Errorf("Every point must belong to exactly one group, expected %d, got %d", len(points), total)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	points := []Point{
		{Pos: mat.Vec3{1.5, -2, 3}, Label: "x"},
		{Pos: mat.Vec3{4, 5.25, -6}, Label: "y"},
		{Pos: mat.Vec3{7, 8, 9.125}, Label: "x"},
	}
	orig := append([]Point(nil), points...)

	gs0, err := Build(points)
	if err != nil {
		t.Fatal(err)
	}
	gs1, err := Build(points)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gs0.Labels(), gs1.Labels()) {
		t.Fatalf("Label order differs: %v, %v", gs0.Labels(), gs1.Labels())
	}
	for _, l := range gs0.Labels() {
		g0, _ := gs0.Group(l)
		g1, _ := gs1.Group(l)
		if !bytes.Equal(g0.Cloud.Data, g1.Cloud.Data) {
			t.Errorf("Buffers of %s differ", l)
		}
	}
	if !reflect.DeepEqual(orig, points) {
		t.Error("Input points must not be modified")
	}
}

func TestBuild_Empty(t *testing.T) {
	gs, err := Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	if gs.Len() != 0 {
		t.Errorf("Expected no group, got %d", gs.Len())
	}
	if _, _, ok := gs.Bounds(); ok {
		t.Error("Empty groups must not have bounds")
	}
	var nilGroups *Groups
	if _, ok := nilGroups.Group("A"); ok {
		t.Error("nil Groups must not have any group")
	}
	if l := nilGroups.Labels(); len(l) != 0 || nilGroups.Len() != 0 {
		t.Errorf("nil Groups must not have any label, got %v", l)
	}
	if _, _, ok := nilGroups.Bounds(); ok {
		t.Error("nil Groups must not have bounds")
	}
}

func TestGroup_Cloud(t *testing.T) {
	points := []Point{
		{Pos: mat.Vec3{-1.5, 2.25, 1e4}, Label: "A"},
		{Pos: mat.Vec3{3, -0.125, -7}, Label: "A"},
	}
	gs, err := Build(points)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := gs.Group("A")

	it, err := g.Cloud.Vec3Iterator()
	if err != nil {
		t.Fatal(err)
	}
	var got []mat.Vec3
	for ; it.IsValid(); it.Incr() {
		got = append(got, it.Vec3())
	}
	if !reflect.DeepEqual([]mat.Vec3{points[0].Pos, points[1].Pos}, got) {
		t.Errorf("Unexpected packed points: %v", got)
	}
	expected := []float32{-1.5, 2.25, 1e4, 3, -0.125, -7}
	if c := g.Coords(); !reflect.DeepEqual(expected, c) {
		t.Errorf("Expected coordinates %v, got %v", expected, c)
	}
}
