// Package style holds per-category display styles.
package style

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/seqsense/pcscatter/marker"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidColor    = errors.New("invalid color")
)

// Style is the display style of a category.
type Style struct {
	Color   string
	Shape   marker.Shape
	Visible bool
}

// Patch is a partial Style. Nil fields are left unchanged by Registry.Update.
type Patch struct {
	Color   *string
	Shape   *marker.Shape
	Visible *bool
}

// Entry is a Style with its category label.
type Entry struct {
	Label string
	Style
}

// Palette is a list of default category colors, used cyclically.
type Palette []string

// DefaultPalette returns the ten built-in category colors.
func DefaultPalette() Palette {
	return Palette{
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	}
}

// Color returns the color of the i-th category. Categories beyond the
// palette length reuse earlier colors.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		return "#ffffff"
	}
	return p[i%len(p)]
}

// NormalizeColor parses a #rgb or #rrggbb color and returns it in #rrggbb form.
func NormalizeColor(s string) (string, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidColor, s, err)
	}
	return c.Hex(), nil
}

// RGB returns the color components in 0-1 range. Unparsable colors are white.
func RGB(s string) [3]float32 {
	c, err := colorful.Hex(s)
	if err != nil {
		return [3]float32{1, 1, 1}
	}
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// Registry stores one Style per category for the whole session.
type Registry struct {
	order  []string
	styles map[string]Style
}

func NewRegistry() *Registry {
	return &Registry{
		styles: make(map[string]Style),
	}
}

// Ensure creates the default style (visible circle of the given color) for
// the label if it has none. It returns true if the entry was created.
func (r *Registry) Ensure(label, color string) bool {
	if _, ok := r.styles[label]; ok {
		return false
	}
	if c, err := NormalizeColor(color); err == nil {
		color = c
	} else {
		color = "#ffffff"
	}
	r.styles[label] = Style{
		Color:   color,
		Shape:   marker.Circle,
		Visible: true,
	}
	r.order = append(r.order, label)
	return true
}

// Get returns the style of the label.
func (r *Registry) Get(label string) (Style, bool) {
	s, ok := r.styles[label]
	return s, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.order)
}

// Update merges p into the style of the label.
// Nothing is changed if any field of p is invalid.
func (r *Registry) Update(label string, p Patch) (Style, error) {
	s, ok := r.styles[label]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
	}
	if p.Color != nil {
		c, err := NormalizeColor(*p.Color)
		if err != nil {
			return Style{}, err
		}
		s.Color = c
	}
	if p.Shape != nil {
		if !p.Shape.Valid() {
			return Style{}, fmt.Errorf("%w: %v", marker.ErrUnknownShape, *p.Shape)
		}
		s.Shape = *p.Shape
	}
	if p.Visible != nil {
		s.Visible = *p.Visible
	}
	r.styles[label] = s
	return s, nil
}

// Entries returns the styles of the given labels in the given order.
// Labels without a style are skipped.
func (r *Registry) Entries(labels []string) []Entry {
	out := make([]Entry, 0, len(labels))
	for _, l := range labels {
		if s, ok := r.styles[l]; ok {
			out = append(out, Entry{Label: l, Style: s})
		}
	}
	return out
}
