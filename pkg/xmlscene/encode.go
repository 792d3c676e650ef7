// Package xmlscene reads and writes the ray tracer's XML scene description.
//
// The writer emits a fixed layout: tab indentation, one element per line,
// sections in the order the renderer expects. Text is not escaped and the
// output is not validated against any schema.
package xmlscene

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

// Encoder writes scenes to an output stream.
type Encoder struct {
	w   *bufio.Writer
	log *zap.Logger
	err error
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger reports skipped records to l.
func WithLogger(l *zap.Logger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{
		w:   bufio.NewWriter(w),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes s with default options.
func Encode(w io.Writer, s *scene.Scene) error {
	return NewEncoder(w).Encode(s)
}

// Marshal returns the encoding of s.
func Marshal(s *scene.Scene, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes s to path, truncating any existing file.
func WriteFile(path string, s *scene.Scene, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := NewEncoder(f, opts...).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes the full document for s and flushes the output.
func (e *Encoder) Encode(s *scene.Scene) error {
	e.err = nil

	e.line(0, "<Scene>")
	e.line(1, "<MaxRecursionDepth>%d</MaxRecursionDepth>", s.MaxRecursionDepth)
	e.line(1, "<BackgroundColor>%s</BackgroundColor>", e.vec3(s.BackgroundColor))
	e.blank()

	e.cameras(s)
	e.blank()
	e.lights(s)
	e.blank()
	e.materials(s)
	e.blank()
	e.transformations(s)
	e.blank()
	e.vertexData(s)
	e.blank()
	e.texCoordData(s)
	e.blank()
	e.objects(s)

	e.line(0, "</Scene>")

	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

func (e *Encoder) cameras(s *scene.Scene) {
	e.line(1, "<Cameras>")
	for _, c := range s.Cameras {
		e.line(2, `<Camera id = "%d">`, c.ID)
		e.line(3, "<Position>%s</Position>", e.vec3(c.Position))
		e.line(3, "<Gaze>%s</Gaze>", e.vec3(c.Gaze))
		e.line(3, "<Up>%s</Up>", e.vec3(c.Up))
		e.line(3, "<NearPlane>%s</NearPlane>", e.vec4(c.NearPlane))
		e.line(3, "<NearDistance>%s</NearDistance>", e.float(c.NearDistance))
		e.line(3, "<ImageResolution>%d %d</ImageResolution>", c.Resolution.Width, c.Resolution.Height)
		e.line(3, "<NumSamples>%d</NumSamples>", c.NumSamples)
		e.line(3, "<ImageName>%s</ImageName>", c.ImageName)
		e.line(2, "</Camera>")
	}
	e.line(1, "</Cameras>")
}

func (e *Encoder) lights(s *scene.Scene) {
	e.line(1, "<Lights>")
	e.line(2, "<AmbientLight>%s</AmbientLight>", e.vec3(s.AmbientLight))
	for _, l := range s.Lights {
		switch l := l.(type) {
		case *scene.PointLight:
			e.line(2, `<PointLight id = "%d">`, l.ID)
			e.line(3, "<Position>%s</Position>", e.vec3(l.Position))
			e.line(3, "<Intensity>%s</Intensity>", e.vec3(l.Intensity))
			e.line(2, "</PointLight>")
		case *scene.DirectionalLight:
			e.line(2, `<DirectionalLight id = "%d">`, l.ID)
			e.line(3, "<Direction>%s</Direction>", e.vec3(l.Direction))
			e.line(3, "<Radiance>%s</Radiance>", e.vec3(l.Intensity))
			e.line(2, "</DirectionalLight>")
		default:
			e.log.Warn("light not exported",
				zap.Stringer("kind", l.Kind()),
				zap.Int("id", l.Base().ID))
		}
	}
	e.line(1, "</Lights>")
}

func (e *Encoder) materials(s *scene.Scene) {
	e.line(1, "<Materials>")
	for _, m := range s.Materials {
		e.line(2, `<Material id = "%d">`, m.ID)
		e.line(3, "<AmbientReflectance>%s</AmbientReflectance>", e.vec3(m.Ambient))
		e.line(3, "<DiffuseReflectance>%s</DiffuseReflectance>", e.vec3(m.Diffuse))
		e.line(3, "<SpecularReflectance>%s</SpecularReflectance>", e.vec3(m.Specular))
		e.line(3, "<MirrorReflectance>%s</MirrorReflectance>", e.vec3(m.Mirror))
		e.line(3, "<Transparency>%s</Transparency>", e.vec3(m.Transparency))
		e.line(3, "<RefractionIndex>%s</RefractionIndex>", e.float(m.RefractionIndex))
		e.line(3, "<PhongExponent>%s</PhongExponent>", e.float(m.PhongExponent))
		e.line(3, "<Roughness>%s</Roughness>", e.float(m.Roughness))
		e.line(2, "</Material>")
	}
	e.line(1, "</Materials>")
}

func (e *Encoder) transformations(s *scene.Scene) {
	e.line(1, "<Transformations>")
	for i, t := range s.Translations {
		e.line(2, `<Translation id = "%d">%s</Translation>`, i+1, e.vec3(t))
	}
	for i, r := range s.Rotations {
		e.line(2, `<Rotation id = "%d">%s %s</Rotation>`, i+1, e.float(r.Angle), e.vec3(r.Axis))
	}
	for i, sc := range s.Scalings {
		e.line(2, `<Scaling id = "%d">%s</Scaling>`, i+1, e.vec3(sc))
	}
	e.line(1, "</Transformations>")
}

func (e *Encoder) vertexData(s *scene.Scene) {
	e.line(1, "<VertexData>")
	for _, v := range s.Vertices {
		e.line(2, "%s", e.vec3(v))
	}
	e.line(1, "</VertexData>")
}

func (e *Encoder) texCoordData(s *scene.Scene) {
	e.line(1, "<TexCoordData>")
	for _, uv := range s.TexCoords {
		e.line(2, "%s", e.vec2(uv))
	}
	e.line(1, "</TexCoordData>")
}

func (e *Encoder) objects(s *scene.Scene) {
	e.line(1, "<Objects>")
	for i := range s.Meshes {
		m := &s.Meshes[i]
		shading := "flat"
		if m.Smooth {
			shading = "smooth"
		}
		e.line(2, `<Mesh id = "%d" shadingMode = "%s">`, m.ID, shading)
		e.line(3, "<Material>%d</Material>", m.Material)
		if m.HasTransform() {
			e.line(3, "<Transformations>%s</Transformations>", transformRefs(m))
		}
		e.line(3, "<Faces>")
		for j := range m.Faces {
			f := m.GlobalFace(j)
			e.line(4, "%d %d %d", f[0], f[1], f[2])
		}
		e.line(3, "</Faces>")
		e.line(2, "</Mesh>")
	}
	e.line(1, "</Objects>")
}

// transformRefs lists the mesh transforms in application order: scale,
// then each rotation record, then translate.
func transformRefs(m *scene.Mesh) string {
	var refs []string
	if m.Scaling > 0 {
		refs = append(refs, fmt.Sprintf("s%d", m.Scaling))
	}
	for _, r := range m.Rotations {
		refs = append(refs, fmt.Sprintf("r%d", r))
	}
	if m.Translation > 0 {
		refs = append(refs, fmt.Sprintf("t%d", m.Translation))
	}
	return strings.Join(refs, " ")
}

// float formats v, recording the first failure so later lines are skipped.
func (e *Encoder) float(v float64) string {
	return e.floats(v)
}

func (e *Encoder) vec2(v math3d.Vec2) string {
	return e.floats(v.X, v.Y)
}

func (e *Encoder) vec3(v math3d.Vec3) string {
	return e.floats(v.X, v.Y, v.Z)
}

func (e *Encoder) vec4(v math3d.Vec4) string {
	return e.floats(v.X, v.Y, v.Z, v.W)
}

func (e *Encoder) floats(vs ...float64) string {
	s, err := formatFloats(vs...)
	if err != nil && e.err == nil {
		e.err = err
	}
	return s
}

func (e *Encoder) line(indent int, format string, args ...any) {
	if e.err != nil {
		return
	}
	for range indent {
		if e.err = e.w.WriteByte('\t'); e.err != nil {
			return
		}
	}
	if _, e.err = fmt.Fprintf(e.w, format, args...); e.err != nil {
		return
	}
	e.err = e.w.WriteByte('\n')
}

func (e *Encoder) blank() {
	if e.err == nil {
		e.err = e.w.WriteByte('\n')
	}
}
