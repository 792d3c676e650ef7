package math3d

// Vec2 represents a 2D vector, typically a texture coordinate.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// FlipV returns the coordinate with V mirrored (v -> 1-v), converting between
// top-left and bottom-left texture origins.
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, 1 - v.Y}
}
