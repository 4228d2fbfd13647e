package main

import (
	"fmt"
	"strings"

	"github.com/seqsense/pcscatter/scene"
)

// overlayText formats the point information box.
func overlayText(o scene.Overlay) string {
	if o.Point == nil {
		return ""
	}
	var b strings.Builder
	p := o.Point
	fmt.Fprintf(&b, "%s", p.Label)
	if o.Selected {
		b.WriteString(" (selected)")
	}
	fmt.Fprintf(&b, "\nx: %.3f y: %.3f z: %.3f", p.Pos[0], p.Pos[1], p.Pos[2])
	if p.Meta != "" {
		fmt.Fprintf(&b, "\n%s", p.Meta)
	}
	return b.String()
}
