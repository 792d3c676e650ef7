package gltfscene

import (
	"github.com/qmuntal/gltf"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

// Phong exponent bounds for the roughness conversion.
const (
	minPhongExponent = 1
	maxPhongExponent = 1000
)

// dielectricSpecular is the reflectance of non-metals at normal incidence.
const dielectricSpecular = 0.04

// convertMaterial maps a metallic-roughness material onto the Phong model.
func (b *Builder) convertMaterial(id int, m *gltf.Material) scene.Material {
	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		pbr = &gltf.PBRMetallicRoughness{}
	}
	bc := pbr.BaseColorFactorOrDefault()
	base := math3d.V3(bc[0], bc[1], bc[2])
	alpha := bc[3]
	metal := math3d.Clamp(pbr.MetallicFactorOrDefault(), 0, 1)
	rough := math3d.Clamp(pbr.RoughnessFactorOrDefault(), 0, 1)

	diffuse := base.Scale(1 - metal)
	out := scene.Material{
		ID:            id,
		Ambient:       diffuse.Scale(b.opts.AmbientFactor),
		Diffuse:       diffuse,
		Specular:      math3d.Splat3(dielectricSpecular).Lerp(base, metal),
		Mirror:        base.Scale(metal * (1 - rough)),
		Transparency:  math3d.Zero3(),
		PhongExponent: phongExponent(rough),
		Roughness:     rough,
	}

	if m.AlphaMode == gltf.AlphaBlend && alpha < 1 {
		out.Transparency = math3d.Splat3(1 - alpha)
		out.RefractionIndex = b.opts.RefractionIndex
	}
	return out
}

// phongExponent converts perceptual roughness to a Blinn-Phong exponent
// using α = roughness², n = 2/α² − 2.
func phongExponent(rough float64) float64 {
	a := rough * rough
	if a < 1e-6 {
		return maxPhongExponent
	}
	n := 2/(a*a) - 2
	return math3d.Clamp(n, minPhongExponent, maxPhongExponent)
}

// defaultMaterialID appends the fallback material on first use.
func (b *Builder) defaultMaterialID() int {
	if b.defaultMat == 0 {
		m := scene.DefaultMaterial()
		m.ID = len(b.scene.Materials) + 1
		b.scene.Materials = append(b.scene.Materials, m)
		b.defaultMat = m.ID
	}
	return b.defaultMat
}
