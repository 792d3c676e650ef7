package scene

import "github.com/taigrr/sceneport/pkg/math3d"

// LightKind identifies the variant of a Light.
type LightKind int

const (
	// LightPoint emits in all directions from a position.
	LightPoint LightKind = iota
	// LightDirectional has a direction and no position.
	LightDirectional
	// LightSpot emits in a cone from a position along a direction.
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is one of *PointLight, *DirectionalLight or *SpotLight.
type Light interface {
	Kind() LightKind
	Base() LightBase
}

// LightBase holds the fields shared by every light variant.
type LightBase struct {
	ID        int
	Intensity math3d.Vec3
}

// Base returns the shared light fields.
func (b LightBase) Base() LightBase { return b }

// PointLight is a light at a position.
type PointLight struct {
	LightBase
	Position math3d.Vec3
}

// Kind implements Light.
func (*PointLight) Kind() LightKind { return LightPoint }

// DirectionalLight is a light infinitely far away along Direction.
type DirectionalLight struct {
	LightBase
	Direction math3d.Vec3
}

// Kind implements Light.
func (*DirectionalLight) Kind() LightKind { return LightDirectional }

// SpotLight is a cone light. Angles are full cone angles in degrees.
type SpotLight struct {
	LightBase
	Position      math3d.Vec3
	Direction     math3d.Vec3
	CoverageAngle float64
	FalloffAngle  float64
}

// Kind implements Light.
func (*SpotLight) Kind() LightKind { return LightSpot }
