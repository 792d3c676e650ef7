package gltfscene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/sceneport/pkg/math3d"
)

// accessor returns accessor idx after checking the references the modeler
// readers index without bounds checks.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	acr := doc.Accessors[idx]
	if acr.BufferView == nil {
		return acr, nil
	}
	bv := *acr.BufferView
	if bv < 0 || bv >= len(doc.BufferViews) {
		return nil, fmt.Errorf("accessor %d: buffer view %d out of range", idx, bv)
	}
	if view := doc.BufferViews[bv]; acr.ByteOffset < 0 || acr.ByteOffset > view.ByteLength {
		return nil, fmt.Errorf("accessor %d: offset %d past end of buffer view", idx, acr.ByteOffset)
	}
	return acr, nil
}

// readPositions reads a float VEC3 accessor.
func readPositions(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	out := make([]math3d.Vec3, len(data))
	for i, p := range data {
		out[i] = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
	}
	return out, nil
}

// readTexCoords reads a VEC2 accessor of floats or normalized unsigned
// bytes or shorts.
func readTexCoords(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadTextureCoord(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	out := make([]math3d.Vec2, len(data))
	for i, uv := range data {
		out[i] = math3d.V2(float64(uv[0]), float64(uv[1]))
	}
	return out, nil
}

// readIndices reads an unsigned SCALAR index accessor.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	out := make([]int, len(data))
	for i, v := range data {
		out[i] = int(v)
	}
	return out, nil
}
