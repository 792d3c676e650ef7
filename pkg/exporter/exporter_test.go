package exporter

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/sceneport/pkg/gltfscene"
	"github.com/taigrr/sceneport/pkg/scene"
	"github.com/taigrr/sceneport/pkg/xmlscene"
)

func ptr[T any](v T) *T { return &v }

// writeTriangle saves a GLB holding one camera and one triangle.
func writeTriangle(t *testing.T, path string) {
	t.Helper()

	var buf []byte
	for _, v := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}} {
		for _, c := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c))
		}
	}

	doc := &gltf.Document{
		Asset:       gltf.Asset{Version: "2.0"},
		Buffers:     []*gltf.Buffer{{ByteLength: len(buf), Data: buf}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: len(buf)}},
		Accessors: []*gltf.Accessor{{
			BufferView:    ptr(0),
			ComponentType: gltf.ComponentFloat,
			Count:         3,
			Type:          gltf.AccessorVec3,
		}},
		Meshes: []*gltf.Mesh{{
			Name:       "tri",
			Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: 0}}},
		}},
		Cameras: []*gltf.Camera{{Perspective: &gltf.Perspective{Yfov: 0.8}}},
		Nodes: []*gltf.Node{
			{Camera: ptr(0), Translation: [3]float64{0, 0, 5}},
			{Mesh: ptr(0)},
		},
		Scenes: []*gltf.Scene{{Nodes: []int{0, 1}}},
		Scene:  ptr(0),
	}
	require.NoError(t, gltf.SaveBinary(doc, path))
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"scene.glb":           "scene.xml",
		"dir/room.gltf":       "dir/room.xml",
		"noext":               "noext.xml",
		"a.b/model.final.glb": "a.b/model.final.xml",
	}
	for in, want := range tests {
		assert.Equal(t, want, OutputPath(in), in)
	}
}

func TestExportDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "room.glb")
	writeTriangle(t, input)

	s, err := New(gltfscene.DefaultOptions(), nil).Export(input, "")
	require.NoError(t, err)
	assert.Len(t, s.Meshes, 1)

	data, err := os.ReadFile(filepath.Join(dir, "room.xml"))
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "<Scene>\n"))
	assert.Contains(t, text, "\t\t\t<Position>0 0 5</Position>\n")
	assert.Contains(t, text, "\t\t\t<ImageName>room_1.png</ImageName>\n")
	assert.Contains(t, text, "\t\t\t\t1 2 3\n")
}

// TestExportIsIdempotent verifies re-exporting rewrites identical bytes.
func TestExportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "room.glb")
	output := filepath.Join(dir, "out.xml")
	writeTriangle(t, input)

	exp := New(gltfscene.DefaultOptions(), nil)
	_, err := exp.Export(input, output)
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	_, err = exp.Export(input, output)
	require.NoError(t, err)
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExportStdout(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "room.glb")
	writeTriangle(t, input)

	var out bytes.Buffer
	exp := New(gltfscene.DefaultOptions(), nil)
	exp.Stdout = &out

	s, err := exp.Export(input, Stdout)
	require.NoError(t, err)

	want, err := xmlscene.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, string(want), out.String())

	_, err = os.Stat(filepath.Join(dir, "room.xml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "room.glb")
	writeTriangle(t, input)

	s, err := New(gltfscene.DefaultOptions(), nil).Export(input, "")
	require.NoError(t, err)

	decoded, err := xmlscene.ReadFile(OutputPath(input))
	require.NoError(t, err)
	assert.Equal(t, s.Vertices, decoded.Vertices)
	require.Len(t, decoded.Cameras, 1)
	assert.Equal(t, s.Cameras[0].Position, decoded.Cameras[0].Position)
	assert.Equal(t, s.Cameras[0].Resolution, decoded.Cameras[0].Resolution)

	want := scene.DefaultMaterial()
	want.ID = 1
	require.Len(t, decoded.Materials, 1)
	assert.Equal(t, want, decoded.Materials[0])
}

func TestExportMissingInput(t *testing.T) {
	_, err := New(gltfscene.DefaultOptions(), nil).Export(filepath.Join(t.TempDir(), "missing.glb"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load")
}
