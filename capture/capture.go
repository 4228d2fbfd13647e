// Package capture saves a rendered frame as PNG.
//
// A capture is requested with Trigger and fulfilled by the render loop,
// which calls Frame after drawing each frame. The scene hides its overlays
// while Pending is true, so the captured image only contains the rendered
// point cloud.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/nfnt/resize"

	"github.com/seqsense/pcscatter/internal/logging"
)

const (
	DefaultResetDelay = 100 * time.Millisecond
	DefaultPrefix     = "pointcloud"
)

var (
	ErrInProgress  = errors.New("capture in progress")
	ErrNotRetained = errors.New("drawing buffer is not retained")
)

// FrameReader reads back the last rendered frame.
type FrameReader interface {
	ReadFrame() (*image.NRGBA, error)
	// Retained reports whether the drawing buffer is kept after presentation.
	Retained() bool
}

// Result is an encoded capture.
type Result struct {
	Name string
	PNG  []byte
}

// Future is the pending result of a capture.
type Future struct {
	done chan struct{}
	once sync.Once
	res  Result
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(res Result, err error) {
	f.once.Do(func() {
		f.res, f.err = res, err
		close(f.done)
	})
}

// Done is closed when the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx is done.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Capture is an edge triggered frame grabber.
type Capture struct {
	ResetDelay time.Duration
	// MaxWidth downscales wider frames if positive.
	MaxWidth int
	Prefix   string

	active   bool
	consumed bool
	at       time.Time
	future   *Future
}

func New() *Capture {
	return &Capture{
		ResetDelay: DefaultResetDelay,
		Prefix:     DefaultPrefix,
	}
}

// Trigger requests a capture of the next rendered frame.
// ErrInProgress is returned until the previous trigger is reset.
func (c *Capture) Trigger(now time.Time) (*Future, error) {
	if c.active {
		return nil, ErrInProgress
	}
	c.active = true
	c.consumed = false
	c.at = now
	c.future = newFuture()
	logging.Logger().Debug("capture triggered", "name", c.name())
	return c.future, nil
}

// Pending reports whether the trigger is active.
func (c *Capture) Pending() bool {
	return c.active
}

// Frame must be called once after each rendered frame.
// It returns true if a capture was taken in this call.
func (c *Capture) Frame(r FrameReader, now time.Time) bool {
	if !c.active {
		return false
	}
	taken := false
	if !c.consumed {
		c.consumed = true
		taken = true
		res, err := c.take(r)
		if err != nil {
			logging.Logger().Warn("capture failed", "error", err)
		}
		c.future.resolve(res, err)
	}
	if now.Sub(c.at) >= c.ResetDelay {
		c.active = false
		c.future = nil
	}
	return taken
}

func (c *Capture) take(r FrameReader) (Result, error) {
	if !r.Retained() {
		return Result{}, ErrNotRetained
	}
	img, err := r.ReadFrame()
	if err != nil {
		return Result{}, fmt.Errorf("reading frame: %w", err)
	}
	b, err := Encode(img, c.MaxWidth)
	if err != nil {
		return Result{}, err
	}
	return Result{Name: c.name(), PNG: b}, nil
}

func (c *Capture) name() string {
	prefix := c.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + c.at.Format("20060102-150405") + ".png"
}

// Encode encodes img as PNG, downscaled to maxWidth if it is wider.
func Encode(img image.Image, maxWidth int) ([]byte, error) {
	if img.Bounds().Empty() {
		return nil, errors.New("empty frame")
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
