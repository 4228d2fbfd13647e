package style

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seqsense/pcscatter/marker"
)

func TestPalette(t *testing.T) {
	p := DefaultPalette()
	if len(p) != 10 {
		t.Fatalf("Expected 10 colors, got %d", len(p))
	}
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		if seen[p.Color(i)] {
			t.Errorf("Color %d is duplicated: %s", i, p.Color(i))
		}
		seen[p.Color(i)] = true
	}
	if p.Color(10) != p.Color(0) || p.Color(13) != p.Color(3) {
		t.Error("Colors must cycle after the 10th category")
	}
	if c := Palette(nil).Color(3); c == "" {
		t.Error("Empty palette must still return a color")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if !r.Ensure("A", "#F00") {
		t.Fatal("First Ensure must create the entry")
	}
	if r.Ensure("A", "#00ff00") {
		t.Error("Second Ensure must keep the existing entry")
	}
	r.Ensure("B", "broken")

	expected := []Entry{
		{Label: "B", Style: Style{Color: "#ffffff", Shape: marker.Circle, Visible: true}},
		{Label: "A", Style: Style{Color: "#ff0000", Shape: marker.Circle, Visible: true}},
	}
	if diff := cmp.Diff(expected, r.Entries([]string{"B", "A", "missing"})); diff != "" {
		t.Errorf("Unexpected entries (-want +got):\n%s", diff)
	}

	hidden := false
	cross := marker.Cross
	s, err := r.Update("A", Patch{Visible: &hidden, Shape: &cross})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Style{Color: "#ff0000", Shape: marker.Cross, Visible: false}, s); diff != "" {
		t.Errorf("Unexpected merged style (-want +got):\n%s", diff)
	}
	if got, _ := r.Get("A"); got != s {
		t.Errorf("Update must be stored, got %+v", got)
	}

	color := "#123456"
	if s, err = r.Update("A", Patch{Color: &color}); err != nil {
		t.Fatal(err)
	}
	if s.Color != color || s.Shape != marker.Cross || s.Visible {
		t.Errorf("Fields absent from the patch must be kept, got %+v", s)
	}
}

func TestRegistry_UpdateError(t *testing.T) {
	r := NewRegistry()
	r.Ensure("A", "#ff0000")
	before, _ := r.Get("A")

	bad := "red-ish"
	visible := false
	if _, err := r.Update("A", Patch{Color: &bad, Visible: &visible}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Expected ErrInvalidColor, got %v", err)
	}
	shape := marker.Shape(99)
	if _, err := r.Update("A", Patch{Shape: &shape}); !errors.Is(err, marker.ErrUnknownShape) {
		t.Errorf("Expected ErrUnknownShape, got %v", err)
	}
	if after, _ := r.Get("A"); after != before {
		t.Errorf("Failed update must not change the style, got %+v", after)
	}
	if _, err := r.Update("Z", Patch{}); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestRGB(t *testing.T) {
	if c := RGB("#ff0000"); c != [3]float32{1, 0, 0} {
		t.Errorf("Expected red, got %v", c)
	}
	if c := RGB("nope"); c != [3]float32{1, 1, 1} {
		t.Errorf("Expected white fallback, got %v", c)
	}
}
