package math3d

import "math"

// Quat represents a rotation quaternion.
// Components are stored as X, Y, Z, W where W is the scalar part, matching
// the glTF node rotation layout.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromArray creates a quaternion from an [x, y, z, w] array.
func QuatFromArray(a [4]float64) Quat {
	return Quat{a[0], a[1], a[2], a[3]}
}

// QuatFromAxisAngle creates a quaternion from an axis and an angle in radians.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, math.Cos(angle / 2)}
}

// QuatFromMat4 extracts the rotation of a pure rotation matrix.
// The upper 3x3 block must be orthonormal.
func QuatFromMat4(m Mat4) Quat {
	m00, m01, m02 := m[0], m[4], m[8]
	m10, m11, m12 := m[1], m[5], m[9]
	m20, m21, m22 := m[2], m[6], m[10]

	var q Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return q.Normalize()
}

// Len returns the quaternion norm.
func (q Quat) Len() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns a unit quaternion. Degenerate input yields the identity.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < 1e-12 || math.IsNaN(l) {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(o Quat) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return q.ToMat4().MulVec3Dir(v)
}

// AxisAngle returns the rotation as a unit axis and an angle in radians in
// the range [0, π]. The identity rotation reports the X axis and angle 0.
func (q Quat) AxisAngle() (axis Vec3, angle float64) {
	q = q.Normalize()
	if q.W < 0 {
		q = Quat{-q.X, -q.Y, -q.Z, -q.W}
	}
	angle = 2 * math.Acos(Clamp(q.W, -1, 1))
	s := math.Sqrt(1 - q.W*q.W)
	if s < 1e-9 {
		return Vec3{1, 0, 0}, 0
	}
	return Vec3{q.X / s, q.Y / s, q.Z / s}, angle
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx, xy, xz, xw := q.X*q.X, q.X*q.Y, q.X*q.Z, q.X*q.W
	yy, yz, yw := q.Y*q.Y, q.Y*q.Z, q.Y*q.W
	zz, zw := q.Z*q.Z, q.Z*q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// EulerXYZ returns angles in radians such that the rotation equals
// Rz(z) · Ry(y) · Rx(x): X is applied first, Z last. Y lies in [-π/2, π/2].
// At gimbal lock (|y| = π/2) the Z angle is folded into X and reported as 0.
func (q Quat) EulerXYZ() Vec3 {
	m := q.ToMat4()
	r00, r10, r20 := m[0], m[1], m[2]
	r11, r21 := m[5], m[6]
	r12, r22 := m[9], m[10]

	y := math.Asin(Clamp(-r20, -1, 1))
	if math.Cos(y) > 1e-6 {
		return Vec3{math.Atan2(r21, r22), y, math.Atan2(r10, r00)}
	}
	return Vec3{math.Atan2(-r12, r11), y, 0}
}
