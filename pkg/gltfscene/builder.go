// Package gltfscene builds scene records from glTF 2.0 documents.
//
// A Builder walks the default scene's node tree depth first and copies
// cameras, KHR_lights_punctual lights, materials and triangle primitives
// into a scene.Scene. Objects the target format cannot express are logged
// and skipped. Malformed geometry aborts the build.
package gltfscene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"go.uber.org/zap"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

// supportedVersions gates the asset.version field.
var supportedVersions = mustConstraint(">= 2.0, < 3.0")

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}

// Builder converts a glTF document into a scene.
type Builder struct {
	opts Options
	log  *zap.Logger

	// per-build state
	doc        *gltf.Document
	scene      *scene.Scene
	lights     lightspunctual.Lights
	lightIDs   map[scene.LightKind]int
	defaultMat int
}

// NewBuilder returns a builder. A nil logger discards output.
func NewBuilder(opts Options, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{opts: opts, log: log}
}

// Load opens the glTF or GLB file at path and builds a scene from it.
// An empty ImageBase defaults to the file name without extension.
func Load(path string, opts Options, log *zap.Logger) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	if opts.ImageBase == "" {
		opts.ImageBase = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return NewBuilder(opts, log).Build(doc)
}

// Build converts doc. Each call starts from an empty scene.
func (b *Builder) Build(doc *gltf.Document) (*scene.Scene, error) {
	if err := b.checkVersion(doc.Asset.Version); err != nil {
		return nil, err
	}

	lights, err := decodeLights(doc.Extensions)
	if err != nil {
		return nil, err
	}

	b.doc = doc
	b.lights = lights
	b.lightIDs = make(map[scene.LightKind]int)
	b.defaultMat = 0

	b.scene = scene.New()
	b.scene.AmbientLight = b.opts.AmbientLight
	b.scene.BackgroundColor = b.opts.Background
	if b.opts.MaxRecursionDepth > 0 {
		b.scene.MaxRecursionDepth = b.opts.MaxRecursionDepth
	}

	for i, m := range doc.Materials {
		b.scene.Materials = append(b.scene.Materials, b.convertMaterial(i+1, m))
	}

	roots, err := b.roots()
	if err != nil {
		return nil, err
	}

	unit := b.opts.UnitScale
	if unit == 0 {
		unit = 1
	}
	base := math3d.ScaleUniform(unit)
	for _, idx := range roots {
		if err := b.visit(idx, base, 0); err != nil {
			return nil, err
		}
	}

	b.log.Debug("scene built",
		zap.Int("cameras", len(b.scene.Cameras)),
		zap.Int("lights", len(b.scene.Lights)),
		zap.Int("materials", len(b.scene.Materials)),
		zap.Int("meshes", len(b.scene.Meshes)),
		zap.Int("vertices", len(b.scene.Vertices)),
		zap.Int("triangles", b.scene.TriangleCount()))

	s := b.scene
	b.doc, b.scene, b.lights = nil, nil, nil
	return s, nil
}

func (b *Builder) checkVersion(v string) error {
	if v == "" {
		b.log.Warn("asset has no version, assuming 2.0")
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("asset version %q: %w", v, err)
	}
	if !supportedVersions.Check(ver) {
		return fmt.Errorf("unsupported glTF version %s", v)
	}
	return nil
}

// roots returns the default scene's root nodes, or every parentless node
// when the document declares no scenes.
func (b *Builder) roots() ([]int, error) {
	doc := b.doc
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if idx < 0 || idx >= len(doc.Scenes) {
			return nil, fmt.Errorf("default scene %d out of range", idx)
		}
		return doc.Scenes[idx].Nodes, nil
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

// maxDepth bounds traversal of malformed documents with cyclic children.
const maxDepth = 256

func (b *Builder) visit(idx int, parent math3d.Mat4, depth int) error {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	if depth > maxDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxDepth)
	}

	node := b.doc.Nodes[idx]
	world := parent.Mul(localMatrix(node))

	if node.Camera != nil {
		b.addCamera(node, world)
	}
	if li, ok, err := nodeLight(node.Extensions); err != nil {
		return fmt.Errorf("node %q: %w", node.Name, err)
	} else if ok {
		b.addLight(node, li, world)
	}
	if node.Mesh != nil {
		if err := b.addMesh(node, world); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}

	for _, c := range node.Children {
		if err := b.visit(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// localMatrix returns the node's matrix, or T·R·S when it carries TRS.
func localMatrix(n *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(n.MatrixOrDefault())
	if !m.IsIdentity(0) {
		return m
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return math3d.TRS(
		math3d.V3(t[0], t[1], t[2]),
		math3d.QuatFromArray(r),
		math3d.V3(s[0], s[1], s[2]),
	)
}
