package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcscatter/cloud"
	"github.com/seqsense/pcscatter/style"
)

// ParsePCD reads points from a PCD file. The numeric "label" field,
// if present, becomes the category label in decimal form.
func ParsePCD(r io.Reader, palette style.Palette) ([]cloud.Point, error) {
	pp, err := pc.Unmarshal(r)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling pcd: %w", err)
	}
	if pp.Points == 0 {
		return nil, nil
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, fmt.Errorf("reading coordinates: %w", err)
	}
	itL, errL := pp.Uint32Iterator("label")
	hasLabel := errL == nil

	points := make([]cloud.Point, 0, pp.Points)
	colors := make(map[string]string)
	for i := 0; i < pp.Points; i++ {
		p := cloud.Point{Pos: it.Vec3(), Label: DefaultLabel}
		it.Incr()
		if hasLabel {
			p.Label = strconv.FormatUint(uint64(itL.Uint32()), 10)
			itL.Incr()
		}
		c, ok := colors[p.Label]
		if !ok {
			c = palette.Color(len(colors))
			colors[p.Label] = c
		}
		p.Color = c
		points = append(points, p)
	}
	return points, nil
}

// ParseAny reads PCD if the data starts with a PCD header and
// comma separated records otherwise.
func ParseAny(r io.Reader, palette style.Palette) ([]cloud.Point, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(16)
	head = bytes.TrimLeft(head, " \t\r\n")
	if bytes.HasPrefix(head, []byte("# .PCD")) || bytes.HasPrefix(head, []byte("VERSION")) {
		return ParsePCD(br, palette)
	}
	return Parse(br, palette)
}
