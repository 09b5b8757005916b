package config

import (
	"fmt"
	"os"

	"github.com/stewi1014/glzoom/zoom"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 800
	DefaultProgram       = "mandelbrot"
	DefaultMaxIterations = 500
	DefaultMinIterations = 50
	DefaultSupersample   = 2
)

type Config struct {
	Window WindowConfig `yaml:"window"`
	Zoom   ZoomConfig   `yaml:"zoom"`
	Export ExportConfig `yaml:"export"`
}

type WindowConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Program string `yaml:"program"`
	VSync   bool   `yaml:"vsync"`
	Debug   bool   `yaml:"debug"`
}

type ZoomConfig struct {
	CenterX       float64 `yaml:"center_x"`
	CenterY       float64 `yaml:"center_y"`
	Size          float64 `yaml:"size"`
	MaxIterations int32   `yaml:"max_iterations"`
	MinIterations int32   `yaml:"min_iterations"`
	Step          int32   `yaml:"step"`
	ZoomIn        float64 `yaml:"zoom_in"`
	ZoomOut       float64 `yaml:"zoom_out"`
	Blend         float64 `yaml:"blend"`
	Recovery      string  `yaml:"recovery"`
	MinSize       float64 `yaml:"min_size"`
	MaxSize       float64 `yaml:"max_size"`
}

type ExportConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Supersample int    `yaml:"supersample"`
	Directory   string `yaml:"directory"`
}

func DefaultConfig() *Config {
	p := zoom.DefaultParams()
	return &Config{
		Window: WindowConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Program: DefaultProgram,
			VSync:   true,
		},
		Zoom: ZoomConfig{
			Size:          4,
			MaxIterations: DefaultMaxIterations,
			MinIterations: DefaultMinIterations,
			Step:          p.Step,
			ZoomIn:        p.ZoomIn,
			ZoomOut:       p.ZoomOut,
			Blend:         p.Blend,
			Recovery:      string(p.Recovery),
			MinSize:       p.MinSize,
			MaxSize:       p.MaxSize,
		},
		Export: ExportConfig{
			Width:       1920,
			Height:      1920,
			Supersample: DefaultSupersample,
			Directory:   ".",
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %v: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %vx%v must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return fmt.Errorf("export size %vx%v must be positive", c.Export.Width, c.Export.Height)
	}
	if c.Export.Supersample < 1 {
		return fmt.Errorf("export supersample %v must be at least 1", c.Export.Supersample)
	}
	if c.Zoom.Size <= 0 {
		return fmt.Errorf("zoom size %v must be positive", c.Zoom.Size)
	}
	if c.Zoom.MinIterations <= 0 || c.Zoom.MinIterations > c.Zoom.MaxIterations {
		return fmt.Errorf("iteration budget [%v, %v] is not a valid range", c.Zoom.MinIterations, c.Zoom.MaxIterations)
	}
	return c.Params().Validate()
}

func (c *Config) Params() zoom.Params {
	return zoom.Params{
		Step:     c.Zoom.Step,
		ZoomIn:   c.Zoom.ZoomIn,
		ZoomOut:  c.Zoom.ZoomOut,
		Blend:    c.Zoom.Blend,
		Recovery: zoom.Recovery(c.Zoom.Recovery),
		MinSize:  c.Zoom.MinSize,
		MaxSize:  c.Zoom.MaxSize,
	}
}

// InitialState is the view the viewer opens on and resets to.
func (c *Config) InitialState() zoom.State {
	s := zoom.NewState(c.Zoom.MinIterations, c.Zoom.MaxIterations)
	s.Center[0] = c.Zoom.CenterX
	s.Center[1] = c.Zoom.CenterY
	s.Size = c.Zoom.Size
	return s
}
