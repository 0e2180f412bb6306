package host

import (
	"fmt"
	"os"

	"github.com/gekko3d/canvas3d/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`

	FovDegrees float32 `yaml:"fov_degrees"`
	ZNear      float32 `yaml:"znear"`
	ZFar       float32 `yaml:"zfar"`

	// ClearColor is RGBA in 0..1.
	ClearColor [4]float32 `yaml:"clear_color"`
	Debug      bool       `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Title:      "canvas3d",
		Width:      1280,
		Height:     720,
		VSync:      true,
		FovDegrees: 70,
		ZNear:      0.1,
		ZFar:       100,
		ClearColor: [4]float32{0.1, 0.2, 0.3, 1},
	}
}

// LoadConfig reads a YAML file over DefaultConfig, so omitted keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FovDegrees <= 0 || c.FovDegrees >= 180 {
		return fmt.Errorf("fov_degrees must be in (0, 180), got %v", c.FovDegrees)
	}
	if c.ZNear <= 0 || c.ZFar <= c.ZNear {
		return fmt.Errorf("need 0 < znear < zfar, got znear=%v zfar=%v", c.ZNear, c.ZFar)
	}
	return nil
}

func (c Config) Clear() core.Color {
	return core.NewColor(c.ClearColor[0], c.ClearColor[1], c.ClearColor[2], c.ClearColor[3])
}

// Projection is the camera projection described by the config, sized to the window.
func (c Config) Projection() core.Projection {
	return core.NewProjection(float32(c.Width), float32(c.Height), mgl32.DegToRad(c.FovDegrees), c.ZNear, c.ZFar)
}
