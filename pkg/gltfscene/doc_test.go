package gltfscene

import (
	"encoding/binary"
	"math"

	"github.com/qmuntal/gltf"
)

func ptr[T any](v T) *T { return &v }

// testDoc assembles an in-memory glTF document with a single buffer.
type testDoc struct {
	doc *gltf.Document
	buf []byte
}

func newTestDoc() *testDoc {
	return &testDoc{doc: &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0"},
		Buffers: []*gltf.Buffer{{}},
	}}
}

// view appends data as a new buffer view and returns an accessor for it.
func (d *testDoc) view(data []byte, typ gltf.AccessorType, comp gltf.ComponentType, count int) int {
	for len(d.buf)%4 != 0 {
		d.buf = append(d.buf, 0)
	}
	d.doc.BufferViews = append(d.doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: len(d.buf),
		ByteLength: len(data),
	})
	d.buf = append(d.buf, data...)
	d.doc.Accessors = append(d.doc.Accessors, &gltf.Accessor{
		BufferView:    ptr(len(d.doc.BufferViews) - 1),
		ComponentType: comp,
		Count:         count,
		Type:          typ,
	})
	return len(d.doc.Accessors) - 1
}

func (d *testDoc) vec3s(vs ...[3]float32) int {
	data := make([]byte, 0, len(vs)*12)
	for _, v := range vs {
		for _, c := range v {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(c))
		}
	}
	return d.view(data, gltf.AccessorVec3, gltf.ComponentFloat, len(vs))
}

func (d *testDoc) vec2s(vs ...[2]float32) int {
	data := make([]byte, 0, len(vs)*8)
	for _, v := range vs {
		for _, c := range v {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(c))
		}
	}
	return d.view(data, gltf.AccessorVec2, gltf.ComponentFloat, len(vs))
}

// uvs16 adds a VEC2 accessor of normalized unsigned shorts.
func (d *testDoc) uvs16(vs ...[2]uint16) int {
	data := make([]byte, 0, len(vs)*4)
	for _, v := range vs {
		data = binary.LittleEndian.AppendUint16(data, v[0])
		data = binary.LittleEndian.AppendUint16(data, v[1])
	}
	idx := d.view(data, gltf.AccessorVec2, gltf.ComponentUshort, len(vs))
	d.doc.Accessors[idx].Normalized = true
	return idx
}

func (d *testDoc) indices16(is ...uint16) int {
	data := make([]byte, 0, len(is)*2)
	for _, i := range is {
		data = binary.LittleEndian.AppendUint16(data, i)
	}
	return d.view(data, gltf.AccessorScalar, gltf.ComponentUshort, len(is))
}

// triangle adds a one-triangle mesh and returns its index.
func (d *testDoc) triangle(name string, material *int) int {
	pos := d.vec3s([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0})
	d.doc.Meshes = append(d.doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   material,
		}},
	})
	return len(d.doc.Meshes) - 1
}

// quad adds a two-triangle indexed mesh with UVs and returns its index.
func (d *testDoc) quad(name string, material *int) int {
	pos := d.vec3s(
		[3]float32{0, 0, 0}, [3]float32{1, 0, 0},
		[3]float32{1, 1, 0}, [3]float32{0, 1, 0},
	)
	uv := d.vec2s([2]float32{0, 1}, [2]float32{1, 1}, [2]float32{1, 0}, [2]float32{0, 0})
	idx := d.indices16(0, 1, 2, 0, 2, 3)
	d.doc.Meshes = append(d.doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
			Indices:    ptr(idx),
			Material:   material,
		}},
	})
	return len(d.doc.Meshes) - 1
}

// node appends a node and returns its index.
func (d *testDoc) node(n *gltf.Node) int {
	d.doc.Nodes = append(d.doc.Nodes, n)
	return len(d.doc.Nodes) - 1
}

// roots declares the default scene.
func (d *testDoc) roots(nodes ...int) {
	d.doc.Scenes = []*gltf.Scene{{Nodes: nodes}}
	d.doc.Scene = ptr(0)
}

// build finalizes the buffer and returns the document.
func (d *testDoc) build() *gltf.Document {
	d.doc.Buffers[0].Data = d.buf
	d.doc.Buffers[0].ByteLength = len(d.buf)
	return d.doc
}
