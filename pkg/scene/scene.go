// Package scene provides the intermediate scene records built from a host
// document and consumed by the XML writer.
//
// Records are plain values. Cross references between them are 1-based
// indices assigned in the order records are appended.
package scene

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/taigrr/sceneport/pkg/math3d"
)

// Default scene-wide settings.
const (
	DefaultMaxRecursionDepth = 6
	DefaultAmbientIntensity  = 100
)

// Scene holds every record produced by one export pass.
type Scene struct {
	AmbientLight      math3d.Vec3
	BackgroundColor   math3d.Vec3
	MaxRecursionDepth int

	Cameras   []Camera
	Lights    []Light
	Materials []Material
	Meshes    []Mesh

	// Global vertex pools referenced by mesh faces.
	Vertices  []math3d.Vec3
	TexCoords []math3d.Vec2

	// Transform pools referenced by Mesh.Translation/Rotations/Scaling.
	Translations []math3d.Vec3
	Rotations    []Rotation
	Scalings     []math3d.Vec3
}

// Rotation is a rotation record with the angle in degrees. The renderer
// reads it as Rx(Angle·Axis.X) · Ry(Angle·Axis.Y) · Rz(Angle·Axis.Z), so
// only a principal Axis yields a true angle-axis rotation.
type Rotation struct {
	Angle float64
	Axis  math3d.Vec3
}

// rotationEpsilon is the smallest angle, in degrees, worth a record.
const rotationEpsilon = 1e-9

// RotationsFromQuat splits q into principal-axis records about X, then Y,
// then Z. Referencing them in that order rebuilds q in the renderer, which
// left-multiplies each record onto the mesh transform. Negligible angles
// are omitted, so the identity yields no records.
func RotationsFromQuat(q math3d.Quat) []Rotation {
	e := q.Normalize().EulerXYZ()
	axes := [3]math3d.Vec3{math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)}
	var out []Rotation
	for i, rad := range [3]float64{e.X, e.Y, e.Z} {
		deg := math3d.Degrees(rad)
		if math.Abs(deg) < rotationEpsilon {
			continue
		}
		out = append(out, Rotation{Angle: deg, Axis: axes[i]})
	}
	return out
}

// New returns an empty scene with default settings.
func New() *Scene {
	return &Scene{
		AmbientLight:      math3d.Splat3(DefaultAmbientIntensity),
		BackgroundColor:   math3d.Zero3(),
		MaxRecursionDepth: DefaultMaxRecursionDepth,
	}
}

// AppendVertices adds positions to the vertex pool and returns the 0-based
// index of the first one.
func (s *Scene) AppendVertices(vs []math3d.Vec3) int {
	offset := len(s.Vertices)
	s.Vertices = append(s.Vertices, vs...)
	return offset
}

// AddTranslation appends a translation and returns its 1-based index.
func (s *Scene) AddTranslation(v math3d.Vec3) int {
	s.Translations = append(s.Translations, v)
	return len(s.Translations)
}

// AddRotation appends a rotation and returns its 1-based index.
func (s *Scene) AddRotation(r Rotation) int {
	s.Rotations = append(s.Rotations, r)
	return len(s.Rotations)
}

// AddScaling appends a scaling and returns its 1-based index.
func (s *Scene) AddScaling(v math3d.Vec3) int {
	s.Scalings = append(s.Scalings, v)
	return len(s.Scalings)
}

// TriangleCount returns the number of faces across all meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for i := range s.Meshes {
		n += len(s.Meshes[i].Faces)
	}
	return n
}

// Validate checks every cross reference in the scene and returns all
// violations combined.
func (s *Scene) Validate() error {
	var err error

	if len(s.TexCoords) > 0 && len(s.TexCoords) != len(s.Vertices) {
		err = multierr.Append(err, fmt.Errorf("texcoords: %d entries for %d vertices", len(s.TexCoords), len(s.Vertices)))
	}

	for _, m := range s.Meshes {
		if m.Material < 1 || m.Material > len(s.Materials) {
			err = multierr.Append(err, fmt.Errorf("mesh %d: material %d out of range [1, %d]", m.ID, m.Material, len(s.Materials)))
		}
		err = multierr.Append(err, checkRef(m.ID, "translation", m.Translation, len(s.Translations)))
		for _, r := range m.Rotations {
			if r == 0 {
				err = multierr.Append(err, fmt.Errorf("mesh %d: rotation 0 out of range [1, %d]", m.ID, len(s.Rotations)))
				continue
			}
			err = multierr.Append(err, checkRef(m.ID, "rotation", r, len(s.Rotations)))
		}
		err = multierr.Append(err, checkRef(m.ID, "scaling", m.Scaling, len(s.Scalings)))

		for i, f := range m.Faces {
			for _, v := range f {
				if v < 0 || m.VertexOffset+v >= len(s.Vertices) {
					err = multierr.Append(err, fmt.Errorf("mesh %d: face %d: vertex %d (offset %d) out of range [0, %d)",
						m.ID, i, v, m.VertexOffset, len(s.Vertices)))
					break
				}
			}
		}
	}

	return err
}

// checkRef validates an optional 1-based transform reference.
func checkRef(meshID int, kind string, ref, n int) error {
	if ref < 0 || ref > n {
		return fmt.Errorf("mesh %d: %s %d out of range [1, %d]", meshID, kind, ref, n)
	}
	return nil
}
