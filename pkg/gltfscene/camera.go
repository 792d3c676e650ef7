package gltfscene

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

func (b *Builder) addCamera(node *gltf.Node, world math3d.Mat4) {
	idx := *node.Camera
	if idx < 0 || idx >= len(b.doc.Cameras) {
		b.log.Warn("camera reference out of range, skipping",
			zap.String("node", node.Name),
			zap.Int("camera", idx))
		return
	}
	cam := b.doc.Cameras[idx]
	if cam.Perspective == nil {
		b.log.Warn("orthographic camera not supported, skipping",
			zap.String("node", node.Name),
			zap.String("camera", cam.Name))
		return
	}

	id := len(b.scene.Cameras) + 1
	res := b.opts.outputResolution()

	near := b.opts.NearDistance
	if near <= 0 {
		near = 1
	}
	samples := b.opts.NumSamples
	if samples <= 0 {
		samples = 1
	}

	aspect := res.Aspect()
	if cam.Perspective.AspectRatio != nil && *cam.Perspective.AspectRatio > 0 {
		aspect = *cam.Perspective.AspectRatio
	}

	b.scene.Cameras = append(b.scene.Cameras, scene.Camera{
		ID:           id,
		Position:     world.Translation(),
		Gaze:         world.MulVec3Dir(math3d.Forward()).Normalize(),
		Up:           world.MulVec3Dir(math3d.Up()).Normalize(),
		NearPlane:    nearPlane(cam.Perspective.Yfov, aspect, near),
		NearDistance: near,
		Resolution:   res,
		NumSamples:   samples,
		ImageName:    fmt.Sprintf("%s_%d.png", b.opts.imageBase(), id),
	})
}

// nearPlane returns the image rectangle (left, right, bottom, top) at
// distance near for a vertical field of view yfov in radians.
func nearPlane(yfov, aspect, near float64) math3d.Vec4 {
	if yfov <= 0 || yfov >= math.Pi {
		return scene.DefaultNearPlane()
	}
	top := near * math.Tan(yfov/2)
	right := top * aspect
	return math3d.V4(-right, right, -top, top)
}
