package gltfscene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

// transformEpsilon is the tolerance under which a transform part counts as identity.
const transformEpsilon = 1e-9

// shearTolerance bounds the element-wise error between a world matrix and
// its rebuilt translation, rotation and scale.
const shearTolerance = 1e-6

// nodeTransform holds the transform indices shared by a node's primitives.
type nodeTransform struct {
	translation, scaling int
	rotations            []int
}

// addTransform decomposes world into pool records, skipping identity parts.
// The renderer has no shear record, so a world matrix that translation,
// rotation and scale cannot rebuild is exported without its shear.
func (b *Builder) addTransform(name string, world math3d.Mat4) nodeTransform {
	t, r, s := world.Decompose()
	var out nodeTransform

	if !math3d.TRS(t, r, s).ApproxEqual(world, shearTolerance) {
		b.log.Warn("world transform has shear, exporting without it",
			zap.String("node", name))
	}

	if !s.ApproxEqual(math3d.One3(), transformEpsilon) {
		out.scaling = b.scene.AddScaling(s)
	}
	for _, rot := range scene.RotationsFromQuat(r) {
		out.rotations = append(out.rotations, b.scene.AddRotation(rot))
	}
	if !t.ApproxEqual(math3d.Zero3(), transformEpsilon) {
		out.translation = b.scene.AddTranslation(t)
	}
	return out
}

func (b *Builder) addMesh(node *gltf.Node, world math3d.Mat4) error {
	idx := *node.Mesh
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", idx)
	}
	m := b.doc.Meshes[idx]

	var xf *nodeTransform
	for pi, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			b.log.Warn("non-triangle primitive, skipping",
				zap.String("mesh", m.Name),
				zap.Int("primitive", pi),
				zap.Any("mode", prim.Mode))
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			b.log.Warn("primitive has no positions, skipping",
				zap.String("mesh", m.Name),
				zap.Int("primitive", pi))
			continue
		}

		// Transforms are created lazily so nodes without geometry add none.
		if xf == nil {
			t := b.addTransform(node.Name, world)
			xf = &t
		}
		if err := b.addPrimitive(m, pi, prim, posIdx, *xf); err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
		}
	}
	return nil
}

func (b *Builder) addPrimitive(m *gltf.Mesh, pi int, prim *gltf.Primitive, posIdx int, xf nodeTransform) error {
	positions, err := readPositions(b.doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var uvs []math3d.Vec2
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = readTexCoords(b.doc, uvIdx); err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	var indices []int
	if prim.Indices != nil {
		if indices, err = readIndices(b.doc, *prim.Indices); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	faces := make([]scene.Face, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		f := scene.Face{indices[i], indices[i+1], indices[i+2]}
		for _, v := range f {
			if v < 0 || v >= len(positions) {
				return fmt.Errorf("index %d out of range [0, %d)", v, len(positions))
			}
		}
		faces = append(faces, f)
	}
	if len(faces) == 0 {
		b.log.Warn("primitive has no faces, skipping",
			zap.String("mesh", m.Name),
			zap.Int("primitive", pi))
		return nil
	}

	material, err := b.primitiveMaterial(prim)
	if err != nil {
		return err
	}

	offset := b.scene.AppendVertices(positions)
	b.appendTexCoords(uvs, len(positions))

	mesh := scene.Mesh{
		ID:           len(b.scene.Meshes) + 1,
		Name:         m.Name,
		Material:     material,
		Translation:  xf.translation,
		Rotations:    xf.rotations,
		Scaling:      xf.scaling,
		VertexOffset: offset,
		Faces:        faces,
	}
	switch b.opts.Shading {
	case ShadingSmooth:
		mesh.Smooth = true
	case ShadingFlat:
		mesh.Smooth = false
	default:
		mesh.Smooth = mesh.SharesVertices()
	}

	b.scene.Meshes = append(b.scene.Meshes, mesh)
	return nil
}

func (b *Builder) primitiveMaterial(prim *gltf.Primitive) (int, error) {
	if prim.Material == nil {
		return b.defaultMaterialID(), nil
	}
	idx := *prim.Material
	if idx < 0 || idx >= len(b.doc.Materials) {
		return 0, fmt.Errorf("material %d out of range", idx)
	}
	return idx + 1, nil
}

// appendTexCoords keeps Scene.TexCoords aligned with Scene.Vertices once
// any primitive carries UVs. V is flipped to a bottom-left origin.
func (b *Builder) appendTexCoords(uvs []math3d.Vec2, n int) {
	s := b.scene
	if len(uvs) == 0 && len(s.TexCoords) == 0 {
		return
	}

	// Pad earlier vertices that had no UVs.
	first := len(s.Vertices) - n
	for len(s.TexCoords) < first {
		s.TexCoords = append(s.TexCoords, math3d.Vec2{})
	}
	for i := range n {
		if i < len(uvs) {
			s.TexCoords = append(s.TexCoords, uvs[i].FlipV())
		} else {
			s.TexCoords = append(s.TexCoords, math3d.Vec2{})
		}
	}
}
