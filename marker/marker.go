// Package marker rasterizes sprite textures for point markers and axis labels.
package marker

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Shape is a marker silhouette.
type Shape int

const (
	Circle Shape = iota
	Square
	Diamond
	Cross
)

var shapeNames = [...]string{
	Circle:  "circle",
	Square:  "square",
	Diamond: "diamond",
	Cross:   "cross",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s >= 0 && int(s) < len(shapeNames)
}

var ErrUnknownShape = errors.New("unknown marker shape")

// ParseShape converts a shape name into Shape.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

const DefaultResolution = 64

// Factory rasterizes textures on first request and caches them.
// Returned images are shared and must not be modified.
type Factory struct {
	resolution int
	shapes     map[Shape]*image.NRGBA
	labels     map[string]*image.NRGBA
}

// NewFactory returns a Factory producing resolution x resolution marker textures.
func NewFactory(resolution int) *Factory {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &Factory{
		resolution: resolution,
		shapes:     make(map[Shape]*image.NRGBA),
		labels:     make(map[string]*image.NRGBA),
	}
}

// Resolution returns the edge length of marker textures in pixels.
func (f *Factory) Resolution() int {
	return f.resolution
}

// Texture returns an opaque white silhouette of the shape on a transparent background.
func (f *Factory) Texture(s Shape) (*image.NRGBA, error) {
	if img, ok := f.shapes[s]; ok {
		return img, nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownShape, s)
	}
	img := rasterize(s, f.resolution)
	f.shapes[s] = img
	return img, nil
}

func rasterize(s Shape, n int) *image.NRGBA {
	r := vector.NewRasterizer(n, n)
	w := float32(n)
	c := w / 2
	// Keep one pixel of margin so that the silhouette never touches the edge.
	h := c - 1

	switch s {
	case Circle:
		const k = 0.5522848 // cubic bezier approximation of a quarter circle
		r.MoveTo(c+h, c)
		r.CubeTo(c+h, c+h*k, c+h*k, c+h, c, c+h)
		r.CubeTo(c-h*k, c+h, c-h, c+h*k, c-h, c)
		r.CubeTo(c-h, c-h*k, c-h*k, c-h, c, c-h)
		r.CubeTo(c+h*k, c-h, c+h, c-h*k, c+h, c)
	case Square:
		d := h * 0.8
		r.MoveTo(c-d, c-d)
		r.LineTo(c+d, c-d)
		r.LineTo(c+d, c+d)
		r.LineTo(c-d, c+d)
	case Diamond:
		r.MoveTo(c, c-h)
		r.LineTo(c+h, c)
		r.LineTo(c, c+h)
		r.LineTo(c-h, c)
	case Cross:
		t := h * 0.3
		r.MoveTo(c-t, c-h)
		r.LineTo(c+t, c-h)
		r.LineTo(c+t, c-t)
		r.LineTo(c+h, c-t)
		r.LineTo(c+h, c+t)
		r.LineTo(c+t, c+t)
		r.LineTo(c+t, c+h)
		r.LineTo(c-t, c+h)
		r.LineTo(c-t, c+t)
		r.LineTo(c-h, c+t)
		r.LineTo(c-h, c-t)
		r.LineTo(c-t, c-t)
	}
	r.ClosePath()

	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	r.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}), image.Point{})
	return img
}

// Label returns a texture with the text drawn in white, used for axis labels.
func (f *Factory) Label(text string) *image.NRGBA {
	if img, ok := f.labels[text]; ok {
		return img
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	if w == 0 {
		w = 1
	}
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	d.DrawString(text)
	f.labels[text] = img
	return img
}
