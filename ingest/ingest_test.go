package ingest

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/seqsense/pcgol/mat"

	"github.com/seqsense/pcscatter/cloud"
	"github.com/seqsense/pcscatter/style"
)

func TestParse(t *testing.T) {
	palette := style.Palette{"#000001", "#000002", "#000003"}
	testCases := map[string]struct {
		input    string
		expected []cloud.Point
	}{
		"Basic": {
			input: "0,0,0,A,\n1,1,1,A,\n0,5,0,B,x\n",
			expected: []cloud.Point{
				{Pos: mat.Vec3{0, 0, 0}, Label: "A", Color: "#000001"},
				{Pos: mat.Vec3{1, 1, 1}, Label: "A", Color: "#000001"},
				{Pos: mat.Vec3{0, 5, 0}, Label: "B", Meta: "x", Color: "#000002"},
			},
		},
		"BlankLines": {
			input: "\n  \n1,2,3,A\r\n\n",
			expected: []cloud.Point{
				{Pos: mat.Vec3{1, 2, 3}, Label: "A", Color: "#000001"},
			},
		},
		"Defaults": {
			input: "1.5,abc,,,\n2\n3,4,5, ,meta",
			expected: []cloud.Point{
				{Pos: mat.Vec3{1.5, 0, 0}, Label: "Unlabeled", Color: "#000001"},
				{Pos: mat.Vec3{2, 0, 0}, Label: "Unlabeled", Color: "#000001"},
				{Pos: mat.Vec3{3, 4, 5}, Label: "Unlabeled", Meta: "meta", Color: "#000001"},
			},
		},
		"NonFinite": {
			input: "NaN,Inf,1e60,A",
			expected: []cloud.Point{
				{Pos: mat.Vec3{0, 0, 0}, Label: "A", Color: "#000001"},
			},
		},
		"MetadataWithComma": {
			input: "1,2,3,A,hello, world",
			expected: []cloud.Point{
				{Pos: mat.Vec3{1, 2, 3}, Label: "A", Meta: "hello, world", Color: "#000001"},
			},
		},
		"PaletteCycle": {
			input: "0,0,0,a\n0,0,0,b\n0,0,0,c\n0,0,0,d\n0,0,0,b",
			expected: []cloud.Point{
				{Label: "a", Color: "#000001"},
				{Label: "b", Color: "#000002"},
				{Label: "c", Color: "#000003"},
				{Label: "d", Color: "#000001"},
				{Label: "b", Color: "#000002"},
			},
		},
		"Empty": {
			input: "",
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			points, err := Parse(strings.NewReader(tt.input), palette)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.expected, points); diff != "" {
				t.Errorf("Unexpected points (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_DistinctDefaultColors(t *testing.T) {
	points, err := Parse(strings.NewReader("0,0,0,A,\n1,1,1,A,\n0,5,0,B,x"), style.DefaultPalette())
	if err != nil {
		t.Fatal(err)
	}
	if points[0].Color == points[2].Color {
		t.Errorf("A and B must have different default colors, both got %s", points[0].Color)
	}
}

func TestParse_ReadError(t *testing.T) {
	errRead := errors.New("read failed")
	_, err := Parse(iotest.ErrReader(errRead), style.DefaultPalette())
	if !errors.Is(err, errRead) {
		t.Errorf("Expected read error, got %v", err)
	}
}
