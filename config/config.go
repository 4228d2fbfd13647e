// Package config loads viewer settings from YAML.
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as a Go duration string ("50ms").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// D returns d as time.Duration.
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

type Camera struct {
	FOV         float32 `yaml:"fov"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Damping     float32 `yaml:"damping"`
	RotateSpeed float32 `yaml:"rotate_speed"`
	PanSpeed    float32 `yaml:"pan_speed"`
	ZoomSpeed   float32 `yaml:"zoom_speed"`
}

type Picking struct {
	TolerancePx     float32  `yaml:"tolerance_px"`
	HoverClearDelay Duration `yaml:"hover_clear_delay"`
}

type Highlight struct {
	Period     Duration `yaml:"period"`
	Amplitude  float32  `yaml:"amplitude"`
	BaseRadius float32  `yaml:"base_radius"`
}

type Capture struct {
	ResetDelay Duration `yaml:"reset_delay"`
	MaxWidth   int      `yaml:"max_width"`
	Prefix     string   `yaml:"prefix"`
}

type Marker struct {
	Resolution int     `yaml:"resolution"`
	PointSize  float32 `yaml:"point_size"`
}

type Grid struct {
	Size      float32 `yaml:"size"`
	Divisions int     `yaml:"divisions"`
}

type Axes struct {
	Length float32 `yaml:"length"`
}

type Stars struct {
	Count  int     `yaml:"count"`
	Radius float32 `yaml:"radius"`
	Seed   uint64  `yaml:"seed"`
}

// Config is the complete viewer configuration.
type Config struct {
	Camera    Camera    `yaml:"camera"`
	Picking   Picking   `yaml:"picking"`
	Highlight Highlight `yaml:"highlight"`
	Capture   Capture   `yaml:"capture"`
	Marker    Marker    `yaml:"marker"`
	Palette   []string  `yaml:"palette"`
	Grid      Grid      `yaml:"grid"`
	Axes      Axes      `yaml:"axes"`
	Stars     Stars     `yaml:"stars"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Camera: Camera{
			FOV:         50,
			Near:        0.1,
			Far:         2000,
			Damping:     0.1,
			RotateSpeed: 0.01,
			PanSpeed:    0.002,
			ZoomSpeed:   0.001,
		},
		Picking: Picking{
			TolerancePx:     8,
			HoverClearDelay: Duration(50 * time.Millisecond),
		},
		Highlight: Highlight{
			Period:     Duration(1200 * time.Millisecond),
			Amplitude:  0.2,
			BaseRadius: 0.15,
		},
		Capture: Capture{
			ResetDelay: Duration(100 * time.Millisecond),
			Prefix:     "pointcloud",
		},
		Marker: Marker{
			Resolution: 64,
			PointSize:  0.1,
		},
		Palette: []string{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
			"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
		},
		Grid: Grid{
			Size:      100,
			Divisions: 100,
		},
		Axes: Axes{
			Length: 5,
		},
		Stars: Stars{
			Count:  2000,
			Radius: 400,
			Seed:   1,
		},
	}
}

var (
	errFOV        = errors.New("camera.fov must be in (0, 180)")
	errClip       = errors.New("camera.near must be >0 and less than camera.far")
	errDamping    = errors.New("camera.damping must be in [0, 1]")
	errTolerance  = errors.New("picking.tolerance_px must be >0")
	errPeriod     = errors.New("highlight.period must be >0")
	errResolution = errors.New("marker.resolution must be 8-1024")
	errPalette    = errors.New("palette must not be empty")
	errDivisions  = errors.New("grid.divisions must be >0")
)

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return errFOV
	case c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far:
		return errClip
	case c.Camera.Damping < 0 || c.Camera.Damping > 1:
		return errDamping
	case c.Picking.TolerancePx <= 0:
		return errTolerance
	case c.Highlight.Period <= 0:
		return errPeriod
	case c.Marker.Resolution < 8 || c.Marker.Resolution > 1024:
		return errResolution
	case len(c.Palette) == 0:
		return errPalette
	case c.Grid.Divisions <= 0:
		return errDivisions
	}
	return nil
}

// Parse reads YAML on top of Default and validates the result.
// Fields absent from b keep their default values.
func Parse(b []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
