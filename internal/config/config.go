// Package config handles exporter configuration loading and management.
package config

import (
	"fmt"

	"github.com/taigrr/sceneport/pkg/gltfscene"
	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

// Config holds all exporter settings.
type Config struct {
	Render    RenderConfig    `yaml:"render" toml:"render"`
	Camera    CameraConfig    `yaml:"camera" toml:"camera"`
	Lights    LightsConfig    `yaml:"lights" toml:"lights"`
	Materials MaterialsConfig `yaml:"materials" toml:"materials"`
	Units     UnitsConfig     `yaml:"units" toml:"units"`
	Mesh      MeshConfig      `yaml:"mesh" toml:"mesh"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// RenderConfig holds scene-wide renderer settings.
type RenderConfig struct {
	MaxRecursionDepth int        `yaml:"max_recursion_depth" toml:"max_recursion_depth"`
	Background        [3]float64 `yaml:"background" toml:"background"`
	AmbientLight      [3]float64 `yaml:"ambient_light" toml:"ambient_light"`
}

// CameraConfig holds output image settings shared by every camera.
type CameraConfig struct {
	Width        int     `yaml:"width" toml:"width"`
	Height       int     `yaml:"height" toml:"height"`
	Percentage   int     `yaml:"resolution_percentage" toml:"resolution_percentage"`
	Samples      int     `yaml:"samples" toml:"samples"`
	NearDistance float64 `yaml:"near_distance" toml:"near_distance"`
	ImageBase    string  `yaml:"image_base,omitempty" toml:"image_base,omitempty"` // defaults to the input file name
}

// LightsConfig holds light conversion settings.
type LightsConfig struct {
	IntensityScale float64 `yaml:"intensity_scale" toml:"intensity_scale"`
}

// MaterialsConfig holds PBR to Phong conversion settings.
type MaterialsConfig struct {
	AmbientFactor   float64 `yaml:"ambient_factor" toml:"ambient_factor"`
	RefractionIndex float64 `yaml:"refraction_index" toml:"refraction_index"`
}

// UnitsConfig holds unit conversion settings.
type UnitsConfig struct {
	Scale float64 `yaml:"scale" toml:"scale"`
}

// MeshConfig holds mesh export settings.
type MeshConfig struct {
	Shading string `yaml:"shading" toml:"shading"` // auto, smooth or flat
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			MaxRecursionDepth: scene.DefaultMaxRecursionDepth,
			Background:        [3]float64{0, 0, 0},
			AmbientLight:      [3]float64{100, 100, 100},
		},
		Camera: CameraConfig{
			Width:        1920,
			Height:       1080,
			Percentage:   100,
			Samples:      1,
			NearDistance: 1,
		},
		Lights: LightsConfig{
			IntensityScale: 1,
		},
		Materials: MaterialsConfig{
			AmbientFactor:   0,
			RefractionIndex: 1.5,
		},
		Units: UnitsConfig{
			Scale: 1,
		},
		Mesh: MeshConfig{
			Shading: string(gltfscene.ShadingAuto),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the configuration into builder options.
func (c *Config) Options() (gltfscene.Options, error) {
	shading, err := gltfscene.ParseShading(c.Mesh.Shading)
	if err != nil {
		return gltfscene.Options{}, fmt.Errorf("mesh.shading: %w", err)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return gltfscene.Options{}, fmt.Errorf("camera: resolution %dx%d must be positive", c.Camera.Width, c.Camera.Height)
	}

	bg, amb := c.Render.Background, c.Render.AmbientLight
	return gltfscene.Options{
		ImageBase:         c.Camera.ImageBase,
		Resolution:        scene.Resolution{Width: c.Camera.Width, Height: c.Camera.Height},
		ResolutionPercent: c.Camera.Percentage,
		NumSamples:        c.Camera.Samples,
		NearDistance:      c.Camera.NearDistance,
		LightScale:        c.Lights.IntensityScale,
		UnitScale:         c.Units.Scale,
		AmbientFactor:     c.Materials.AmbientFactor,
		RefractionIndex:   c.Materials.RefractionIndex,
		Shading:           shading,
		AmbientLight:      math3d.V3(amb[0], amb[1], amb[2]),
		Background:        math3d.V3(bg[0], bg[1], bg[2]),
		MaxRecursionDepth: c.Render.MaxRecursionDepth,
	}, nil
}
