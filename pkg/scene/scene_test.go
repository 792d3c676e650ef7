package scene

import (
	"math"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/taigrr/sceneport/pkg/math3d"
)

func TestNewDefaults(t *testing.T) {
	s := New()

	if s.AmbientLight != math3d.V3(100, 100, 100) {
		t.Errorf("expected ambient light 100 100 100, got %v", s.AmbientLight)
	}
	if s.BackgroundColor != math3d.Zero3() {
		t.Errorf("expected black background, got %v", s.BackgroundColor)
	}
	if s.MaxRecursionDepth != 6 {
		t.Errorf("expected max recursion depth 6, got %d", s.MaxRecursionDepth)
	}
	if len(s.Cameras)+len(s.Lights)+len(s.Materials)+len(s.Meshes) != 0 {
		t.Error("new scene should have no records")
	}
}

// TestNewScenesAreIndependent verifies scenes never share collections.
func TestNewScenesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Cameras = append(a.Cameras, Camera{ID: 1})
	a.AmbientLight.X = 1

	if len(b.Cameras) != 0 {
		t.Error("appending to one scene leaked into another")
	}
	if b.AmbientLight.X != 100 {
		t.Error("mutating one scene's ambient light leaked into another")
	}
}

func TestAppendVerticesOffsets(t *testing.T) {
	s := New()

	first := s.AppendVertices([]math3d.Vec3{{}, {}, {}})
	second := s.AppendVertices([]math3d.Vec3{{}, {}})

	if first != 0 {
		t.Errorf("first offset = %d, want 0", first)
	}
	if second != 3 {
		t.Errorf("second offset = %d, want 3", second)
	}
	if len(s.Vertices) != 5 {
		t.Errorf("vertex count = %d, want 5", len(s.Vertices))
	}
}

func TestTransformIndicesAreOneBased(t *testing.T) {
	s := New()

	if got := s.AddTranslation(math3d.V3(1, 2, 3)); got != 1 {
		t.Errorf("first translation index = %d, want 1", got)
	}
	if got := s.AddTranslation(math3d.V3(4, 5, 6)); got != 2 {
		t.Errorf("second translation index = %d, want 2", got)
	}
	if got := s.AddRotation(Rotation{Angle: 90, Axis: math3d.Up()}); got != 1 {
		t.Errorf("first rotation index = %d, want 1", got)
	}
	if got := s.AddScaling(math3d.One3()); got != 1 {
		t.Errorf("first scaling index = %d, want 1", got)
	}
}

func TestRotationsFromQuat(t *testing.T) {
	r := RotationsFromQuat(math3d.QuatFromAxisAngle(math3d.Up(), math3d.Radians(90)))
	if len(r) != 1 {
		t.Fatalf("got %d records, want 1", len(r))
	}
	if r[0].Angle < 89.999 || r[0].Angle > 90.001 {
		t.Errorf("angle = %v, want 90", r[0].Angle)
	}
	if !r[0].Axis.ApproxEqual(math3d.Up(), 1e-9) {
		t.Errorf("axis = %v, want (0, 1, 0)", r[0].Axis)
	}

	if got := RotationsFromQuat(math3d.QuatIdentity()); len(got) != 0 {
		t.Errorf("identity gave %d records, want none", len(got))
	}
}

// Records are composed the way the renderer does: each one left-multiplies
// Rx(a·x) · Ry(a·y) · Rz(a·z) onto the running matrix.
func TestRotationsFromQuatRebuildsOblique(t *testing.T) {
	q := math3d.QuatFromAxisAngle(math3d.V3(1, 1, 1), 2*math.Pi/3)
	recs := RotationsFromQuat(q)
	if len(recs) == 0 || len(recs) > 3 {
		t.Fatalf("got %d records, want 1 to 3", len(recs))
	}

	m := math3d.Identity()
	for _, r := range recs {
		step := math3d.Identity()
		for i, c := range [3]float64{r.Axis.X, r.Axis.Y, r.Axis.Z} {
			if c == 0 {
				continue
			}
			axis := [3]math3d.Vec3{math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)}[i]
			step = step.Mul(math3d.QuatFromAxisAngle(axis, math3d.Radians(r.Angle*c)).ToMat4())
		}
		m = step.Mul(m)
	}
	if !m.ApproxEqual(q.ToMat4(), 1e-6) {
		t.Errorf("rebuilt matrix %v, want %v", m, q.ToMat4())
	}
}

func TestValidateZeroRotationRef(t *testing.T) {
	s := validScene()
	s.AddRotation(Rotation{Angle: 90, Axis: math3d.Up()})
	s.Meshes[0].Rotations = []int{1, 0}
	if err := s.Validate(); err == nil {
		t.Error("expected error for rotation ref 0")
	}
}

func validScene() *Scene {
	s := New()
	s.Materials = append(s.Materials, Material{ID: 1})
	s.AppendVertices([]math3d.Vec3{{}, {X: 1}, {Y: 1}})
	s.Meshes = append(s.Meshes, Mesh{ID: 1, Material: 1, Faces: []Face{{0, 1, 2}}})
	return s
}

func TestValidateOK(t *testing.T) {
	if err := validScene().Validate(); err != nil {
		t.Errorf("expected valid scene, got %v", err)
	}
}

// TestValidateCollectsAllErrors verifies every broken reference is reported.
func TestValidateCollectsAllErrors(t *testing.T) {
	s := validScene()
	s.Meshes = append(s.Meshes, Mesh{
		ID:           2,
		Material:     5,
		Translation:  1,
		VertexOffset: 2,
		Faces:        []Face{{0, 1, 2}},
	})
	s.TexCoords = []math3d.Vec2{{}}

	err := s.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	errs := multierr.Errors(err)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), err)
	}
	for _, want := range []string{"texcoords", "material 5", "translation 1", "face 0"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestMeshGlobalFace(t *testing.T) {
	m := Mesh{VertexOffset: 0, Faces: []Face{{0, 1, 2}}}
	if got := m.GlobalFace(0); got != [3]int{1, 2, 3} {
		t.Errorf("GlobalFace = %v, want [1 2 3]", got)
	}

	m.VertexOffset = 8
	if got := m.GlobalFace(0); got != [3]int{9, 10, 11} {
		t.Errorf("GlobalFace with offset = %v, want [9 10 11]", got)
	}
}

func TestMeshSharesVertices(t *testing.T) {
	split := Mesh{Faces: []Face{{0, 1, 2}, {3, 4, 5}}}
	if split.SharesVertices() {
		t.Error("split faces should not share vertices")
	}

	shared := Mesh{Faces: []Face{{0, 1, 2}, {2, 1, 3}}}
	if !shared.SharesVertices() {
		t.Error("quad faces should share vertices")
	}
}

func TestLightKinds(t *testing.T) {
	lights := []Light{
		&PointLight{LightBase: LightBase{ID: 1}},
		&DirectionalLight{LightBase: LightBase{ID: 1}},
		&SpotLight{LightBase: LightBase{ID: 1}},
	}
	want := []string{"point", "directional", "spot"}

	for i, l := range lights {
		if l.Kind().String() != want[i] {
			t.Errorf("light %d kind = %s, want %s", i, l.Kind(), want[i])
		}
		if l.Base().ID != 1 {
			t.Errorf("light %d id = %d, want 1", i, l.Base().ID)
		}
	}
}

func TestResolutionAspect(t *testing.T) {
	if got := (Resolution{800, 600}).Aspect(); got < 1.333 || got > 1.334 {
		t.Errorf("aspect = %v, want 4/3", got)
	}
	if got := (Resolution{}).Aspect(); got != 1 {
		t.Errorf("degenerate aspect = %v, want 1", got)
	}
}
