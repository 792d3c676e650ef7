package scene

import "github.com/taigrr/sceneport/pkg/math3d"

// Material is a Phong-style surface description.
type Material struct {
	ID              int
	Ambient         math3d.Vec3
	Diffuse         math3d.Vec3
	Specular        math3d.Vec3
	Mirror          math3d.Vec3
	Transparency    math3d.Vec3
	RefractionIndex float64
	PhongExponent   float64
	Roughness       float64
}

// DefaultMaterial returns the material assigned to geometry that has none:
//
//	Ambient         0 0 0
//	Diffuse         0.8 0.8 0.8
//	Specular        0.5 0.5 0.5
//	Mirror          0 0 0
//	Transparency    0 0 0
//	RefractionIndex 0
//	PhongExponent   3
//	Roughness       0
//
// Each call returns a new value; callers may modify it freely.
func DefaultMaterial() Material {
	return Material{
		Ambient:         math3d.Zero3(),
		Diffuse:         math3d.Splat3(0.8),
		Specular:        math3d.Splat3(0.5),
		Mirror:          math3d.Zero3(),
		Transparency:    math3d.Zero3(),
		RefractionIndex: 0,
		PhongExponent:   3,
		Roughness:       0,
	}
}
