package gltfscene

import (
	"fmt"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

// Shading selects how mesh shading modes are chosen.
type Shading string

const (
	// ShadingAuto marks a mesh smooth when its faces share vertices.
	ShadingAuto Shading = "auto"
	// ShadingSmooth marks every mesh smooth.
	ShadingSmooth Shading = "smooth"
	// ShadingFlat marks every mesh flat.
	ShadingFlat Shading = "flat"
)

// ParseShading validates a shading mode name. The empty string means auto.
func ParseShading(s string) (Shading, error) {
	switch Shading(s) {
	case "", ShadingAuto:
		return ShadingAuto, nil
	case ShadingSmooth, ShadingFlat:
		return Shading(s), nil
	}
	return "", fmt.Errorf("unknown shading mode %q (want auto, smooth or flat)", s)
}

// Options controls how a document is converted. Start from DefaultOptions:
// scale factors and the recursion depth fall back to defaults when zero,
// but colors are taken as given, so a zero AmbientLight exports black.
type Options struct {
	// ImageBase prefixes camera image names: <ImageBase>_<id>.png.
	// Load fills it from the input file name when empty.
	ImageBase string

	// Resolution is the base output size, scaled by ResolutionPercent.
	Resolution        scene.Resolution
	ResolutionPercent int
	NumSamples        int
	NearDistance      float64

	// LightScale multiplies every light's color × intensity.
	LightScale float64
	// UnitScale converts document units (meters) to scene units.
	UnitScale float64

	// AmbientFactor scales diffuse reflectance into ambient reflectance.
	AmbientFactor float64
	// RefractionIndex is assigned to blended (transparent) materials.
	RefractionIndex float64

	Shading Shading

	// AmbientLight is written as is, zero included.
	AmbientLight      math3d.Vec3
	Background        math3d.Vec3
	MaxRecursionDepth int
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Resolution:        scene.Resolution{Width: 1920, Height: 1080},
		ResolutionPercent: 100,
		NumSamples:        1,
		NearDistance:      1,
		LightScale:        1,
		UnitScale:         1,
		AmbientFactor:     0,
		RefractionIndex:   1.5,
		Shading:           ShadingAuto,
		AmbientLight:      math3d.Splat3(scene.DefaultAmbientIntensity),
		Background:        math3d.Zero3(),
		MaxRecursionDepth: scene.DefaultMaxRecursionDepth,
	}
}

// defaultImageBase names images when no base is configured or derivable.
const defaultImageBase = "scene"

func (o Options) imageBase() string {
	if o.ImageBase == "" {
		return defaultImageBase
	}
	return o.ImageBase
}

// outputResolution applies the percentage, truncating toward zero.
func (o Options) outputResolution() scene.Resolution {
	pct := o.ResolutionPercent
	if pct <= 0 {
		pct = 100
	}
	return scene.Resolution{
		Width:  o.Resolution.Width * pct / 100,
		Height: o.Resolution.Height * pct / 100,
	}
}
