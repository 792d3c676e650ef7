package scene

import "github.com/taigrr/sceneport/pkg/math3d"

// Camera describes one output image.
type Camera struct {
	ID       int
	Position math3d.Vec3
	Gaze     math3d.Vec3
	Up       math3d.Vec3

	// NearPlane is the image plane rectangle as (left, right, bottom, top).
	NearPlane    math3d.Vec4
	NearDistance float64

	Resolution Resolution
	NumSamples int
	ImageName  string
}

// Resolution is an image size in pixels.
type Resolution struct {
	Width, Height int
}

// Aspect returns width / height, or 1 for a degenerate resolution.
func (r Resolution) Aspect() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 1
	}
	return float64(r.Width) / float64(r.Height)
}

// DefaultNearPlane is used when a camera carries no projection data.
func DefaultNearPlane() math3d.Vec4 {
	return math3d.V4(-0.1, 0.1, -0.1, 0.1)
}
