// Package ingest parses comma separated point records.
//
// Each non-blank line is one point: x,y,z,label,metadata.
// Unparsable coordinates become 0, a missing label becomes "Unlabeled"
// and everything after the fourth comma is metadata.
package ingest

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/seqsense/pcscatter/cloud"
	"github.com/seqsense/pcscatter/style"
)

const (
	DefaultLabel = "Unlabeled"

	maxLineSize = 1024 * 1024
)

// Parse reads all records from r. Colors are assigned from palette in order
// of the first occurrence of each label. Only read errors are returned.
func Parse(r io.Reader, palette style.Palette) ([]cloud.Point, error) {
	var points []cloud.Point
	colors := make(map[string]string)

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		p := parseLine(line)
		c, ok := colors[p.Label]
		if !ok {
			c = palette.Color(len(colors))
			colors[p.Label] = c
		}
		p.Color = c
		points = append(points, p)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func parseLine(line string) cloud.Point {
	cols := strings.SplitN(line, ",", 5)
	var p cloud.Point
	for i := 0; i < 3 && i < len(cols); i++ {
		p.Pos[i] = parseFloat(cols[i])
	}
	p.Label = DefaultLabel
	if len(cols) > 3 {
		if l := strings.TrimSpace(cols[3]); l != "" {
			p.Label = l
		}
	}
	if len(cols) > 4 {
		p.Meta = strings.TrimSpace(cols[4])
	}
	return p
}

func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return float32(f)
}
