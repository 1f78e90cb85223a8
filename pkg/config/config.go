// Package config holds the viewer settings and reads them from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/objterm/pkg/math3d"
	"github.com/taigrr/objterm/pkg/render"
)

// Config holds the settings shared by every command.
type Config struct {
	FPS            int        `yaml:"fps"`
	FOV            float64    `yaml:"fov"` // diagonal, degrees
	CellAspect     float64    `yaml:"cell_aspect"`
	Near           float64    `yaml:"near"`
	Far            float64    `yaml:"far"`
	Glyphs         string     `yaml:"glyphs"`
	Light          [3]float64 `yaml:"light"`
	Ambient        float64    `yaml:"ambient"`
	Culling        bool       `yaml:"culling"`
	DistanceFactor float64    `yaml:"distance_factor"`
	Sensitivity    float64    `yaml:"sensitivity"`
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Default returns the built-in settings.
func Default() Config {
	l := render.DefaultLight
	return Config{
		FPS:            60,
		FOV:            80,
		CellAspect:     render.DefaultCellAspect,
		Near:           0.1,
		Far:            1000,
		Glyphs:         render.DefaultGlyphs,
		Light:          [3]float64{l.X, l.Y, l.Z},
		Ambient:        0.1,
		Culling:        true,
		DistanceFactor: 1.1,
		Sensitivity:    2.0,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	case !(c.FOV > 0 && c.FOV < 180):
		return fmt.Errorf("%w: fov must be in (0, 180) degrees, got %v", ErrInvalid, c.FOV)
	case !(c.CellAspect > 0) || math.IsInf(c.CellAspect, 0):
		return fmt.Errorf("%w: cell_aspect must be positive, got %v", ErrInvalid, c.CellAspect)
	case !(c.Near > 0):
		return fmt.Errorf("%w: near must be positive, got %v", ErrInvalid, c.Near)
	case !(c.Far > c.Near):
		return fmt.Errorf("%w: far (%v) must exceed near (%v)", ErrInvalid, c.Far, c.Near)
	case c.Glyphs == "":
		return fmt.Errorf("%w: glyphs: %w", ErrInvalid, render.ErrEmptyRamp)
	case c.LightDir().IsZero():
		return fmt.Errorf("%w: light must be a non-zero direction", ErrInvalid)
	case !(c.Ambient >= 0 && c.Ambient <= 1):
		return fmt.Errorf("%w: ambient must be in [0, 1], got %v", ErrInvalid, c.Ambient)
	case !(c.DistanceFactor > 0):
		return fmt.Errorf("%w: distance_factor must be positive, got %v", ErrInvalid, c.DistanceFactor)
	case !(c.Sensitivity > 0) || math.IsInf(c.Sensitivity, 0):
		return fmt.Errorf("%w: sensitivity must be positive, got %v", ErrInvalid, c.Sensitivity)
	}
	return nil
}

// LightDir returns the light as a vector, not normalized.
func (c Config) LightDir() math3d.Vec3 {
	return math3d.V3(c.Light[0], c.Light[1], c.Light[2])
}

// FOVRadians returns the diagonal field of view in radians.
func (c Config) FOVRadians() float64 {
	return c.FOV * math.Pi / 180
}

// Ramp parses the glyph ramp.
func (c Config) Ramp() (render.Ramp, error) {
	return render.ParseRamp(c.Glyphs)
}

// RenderOptions converts the shading settings.
func (c Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Light = c.LightDir().Normalize()
	opts.Ambient = c.Ambient
	opts.BackfaceCulling = c.Culling
	return opts
}

// Camera returns a camera with the configured clip planes and field of view.
func (c Config) Camera() *render.Camera {
	cam := render.NewCamera()
	cam.SetClipPlanes(c.Near, c.Far)
	h, v := render.FieldOfView(c.FOVRadians(), 1)
	cam.SetFOV(h, v)
	return cam
}
