package xmlscene

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

type xmlDocument struct {
	XMLName           xml.Name       `xml:"Scene"`
	MaxRecursionDepth *string        `xml:"MaxRecursionDepth"`
	BackgroundColor   *string        `xml:"BackgroundColor"`
	Cameras           []xmlCamera    `xml:"Cameras>Camera"`
	Lights            xmlLights      `xml:"Lights"`
	Materials         []xmlMaterial  `xml:"Materials>Material"`
	Translations      []xmlTransform `xml:"Transformations>Translation"`
	Rotations         []xmlTransform `xml:"Transformations>Rotation"`
	Scalings          []xmlTransform `xml:"Transformations>Scaling"`
	VertexData        string         `xml:"VertexData"`
	TexCoordData      string         `xml:"TexCoordData"`
	Meshes            []xmlMesh      `xml:"Objects>Mesh"`
}

type xmlCamera struct {
	ID              int    `xml:"id,attr"`
	Position        string `xml:"Position"`
	Gaze            string `xml:"Gaze"`
	Up              string `xml:"Up"`
	NearPlane       string `xml:"NearPlane"`
	NearDistance    string `xml:"NearDistance"`
	ImageResolution string `xml:"ImageResolution"`
	NumSamples      string `xml:"NumSamples"`
	ImageName       string `xml:"ImageName"`
}

type xmlLight struct {
	ID            int    `xml:"id,attr"`
	Position      string `xml:"Position"`
	Direction     string `xml:"Direction"`
	Intensity     string `xml:"Intensity"`
	Radiance      string `xml:"Radiance"`
	CoverageAngle string `xml:"CoverageAngle"`
	FalloffAngle  string `xml:"FalloffAngle"`
}

// xmlLights keeps light elements in document order.
type xmlLights struct {
	Ambient string
	Lights  []scene.Light
}

type xmlMaterial struct {
	ID              int    `xml:"id,attr"`
	Ambient         string `xml:"AmbientReflectance"`
	Diffuse         string `xml:"DiffuseReflectance"`
	Specular        string `xml:"SpecularReflectance"`
	Mirror          string `xml:"MirrorReflectance"`
	Transparency    string `xml:"Transparency"`
	RefractionIndex string `xml:"RefractionIndex"`
	PhongExponent   string `xml:"PhongExponent"`
	Roughness       string `xml:"Roughness"`
}

type xmlTransform struct {
	ID   int    `xml:"id,attr"`
	Text string `xml:",chardata"`
}

type xmlMesh struct {
	ID              int    `xml:"id,attr"`
	ShadingMode     string `xml:"shadingMode,attr"`
	Material        string `xml:"Material"`
	Transformations string `xml:"Transformations"`
	Faces           struct {
		VertexOffset int    `xml:"vertexOffset,attr"`
		Text         string `xml:",chardata"`
	} `xml:"Faces"`
}

// ReadFile decodes the scene stored at path.
func ReadFile(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a scene document. Faces are returned with VertexOffset 0
// and indices converted to 0-based positions in Scene.Vertices.
func Decode(r io.Reader) (*scene.Scene, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	s := scene.New()
	var err error

	if doc.MaxRecursionDepth != nil {
		if s.MaxRecursionDepth, err = parseInt(*doc.MaxRecursionDepth); err != nil {
			return nil, fmt.Errorf("max recursion depth: %w", err)
		}
	}
	if doc.BackgroundColor != nil {
		if s.BackgroundColor, err = parseVec3(*doc.BackgroundColor); err != nil {
			return nil, fmt.Errorf("background color: %w", err)
		}
	}
	if strings.TrimSpace(doc.Lights.Ambient) != "" {
		if s.AmbientLight, err = parseVec3(doc.Lights.Ambient); err != nil {
			return nil, fmt.Errorf("ambient light: %w", err)
		}
	}
	s.Lights = doc.Lights.Lights

	for _, c := range doc.Cameras {
		cam, err := c.camera()
		if err != nil {
			return nil, fmt.Errorf("camera %d: %w", c.ID, err)
		}
		s.Cameras = append(s.Cameras, cam)
	}

	for _, m := range doc.Materials {
		mat, err := m.material()
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", m.ID, err)
		}
		s.Materials = append(s.Materials, mat)
	}

	for _, t := range doc.Translations {
		v, err := parseVec3(t.Text)
		if err != nil {
			return nil, fmt.Errorf("translation %d: %w", t.ID, err)
		}
		s.AddTranslation(v)
	}
	for _, t := range doc.Rotations {
		f, err := parseFloats(t.Text, 4)
		if err != nil {
			return nil, fmt.Errorf("rotation %d: %w", t.ID, err)
		}
		s.AddRotation(scene.Rotation{Angle: f[0], Axis: math3d.V3(f[1], f[2], f[3])})
	}
	for _, t := range doc.Scalings {
		v, err := parseVec3(t.Text)
		if err != nil {
			return nil, fmt.Errorf("scaling %d: %w", t.ID, err)
		}
		s.AddScaling(v)
	}

	rows, err := parseNumberRows(doc.VertexData, 3)
	if err != nil {
		return nil, fmt.Errorf("vertex data: %w", err)
	}
	for _, row := range rows {
		s.Vertices = append(s.Vertices, math3d.V3(row[0], row[1], row[2]))
	}

	rows, err = parseNumberRows(doc.TexCoordData, 2)
	if err != nil {
		return nil, fmt.Errorf("texcoord data: %w", err)
	}
	for _, row := range rows {
		s.TexCoords = append(s.TexCoords, math3d.V2(row[0], row[1]))
	}

	for _, m := range doc.Meshes {
		mesh, err := m.mesh()
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", m.ID, err)
		}
		s.Meshes = append(s.Meshes, mesh)
	}

	return s, nil
}

func (c xmlCamera) camera() (scene.Camera, error) {
	cam := scene.Camera{ID: c.ID, ImageName: strings.TrimSpace(c.ImageName)}
	var err error

	if cam.Position, err = parseVec3(c.Position); err != nil {
		return cam, fmt.Errorf("position: %w", err)
	}
	if cam.Gaze, err = parseVec3(c.Gaze); err != nil {
		return cam, fmt.Errorf("gaze: %w", err)
	}
	if cam.Up, err = parseVec3(c.Up); err != nil {
		return cam, fmt.Errorf("up: %w", err)
	}
	if cam.NearPlane, err = parseVec4(c.NearPlane); err != nil {
		return cam, fmt.Errorf("near plane: %w", err)
	}
	if cam.NearDistance, err = parseFloat(c.NearDistance); err != nil {
		return cam, fmt.Errorf("near distance: %w", err)
	}
	res, err := parseFloats(c.ImageResolution, 2)
	if err != nil {
		return cam, fmt.Errorf("image resolution: %w", err)
	}
	cam.Resolution = scene.Resolution{Width: int(res[0]), Height: int(res[1])}

	cam.NumSamples = 1
	if strings.TrimSpace(c.NumSamples) != "" {
		if cam.NumSamples, err = parseInt(c.NumSamples); err != nil {
			return cam, fmt.Errorf("num samples: %w", err)
		}
	}
	return cam, nil
}

// optionalVec3 parses s, or returns the zero vector when s is empty.
func optionalVec3(s string) (math3d.Vec3, error) {
	if strings.TrimSpace(s) == "" {
		return math3d.Zero3(), nil
	}
	return parseVec3(s)
}

func optionalFloat(s string, def float64) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return parseFloat(s)
}

func (m xmlMaterial) material() (scene.Material, error) {
	mat := scene.Material{ID: m.ID}
	var err error

	if mat.Ambient, err = parseVec3(m.Ambient); err != nil {
		return mat, fmt.Errorf("ambient: %w", err)
	}
	if mat.Diffuse, err = parseVec3(m.Diffuse); err != nil {
		return mat, fmt.Errorf("diffuse: %w", err)
	}
	if mat.Specular, err = parseVec3(m.Specular); err != nil {
		return mat, fmt.Errorf("specular: %w", err)
	}
	// The remaining fields are optional in the renderer's format.
	if mat.Mirror, err = optionalVec3(m.Mirror); err != nil {
		return mat, fmt.Errorf("mirror: %w", err)
	}
	if mat.Transparency, err = optionalVec3(m.Transparency); err != nil {
		return mat, fmt.Errorf("transparency: %w", err)
	}
	if mat.RefractionIndex, err = optionalFloat(m.RefractionIndex, 0); err != nil {
		return mat, fmt.Errorf("refraction index: %w", err)
	}
	if mat.PhongExponent, err = optionalFloat(m.PhongExponent, 1); err != nil {
		return mat, fmt.Errorf("phong exponent: %w", err)
	}
	if mat.Roughness, err = optionalFloat(m.Roughness, 0); err != nil {
		return mat, fmt.Errorf("roughness: %w", err)
	}
	return mat, nil
}

func (m xmlMesh) mesh() (scene.Mesh, error) {
	mesh := scene.Mesh{ID: m.ID, Smooth: m.ShadingMode == "smooth"}
	var err error

	if mesh.Material, err = parseInt(m.Material); err != nil {
		return mesh, fmt.Errorf("material: %w", err)
	}

	for _, ref := range strings.Fields(m.Transformations) {
		if len(ref) < 2 {
			return mesh, fmt.Errorf("transformation %q", ref)
		}
		idx, err := parseInt(ref[1:])
		if err != nil {
			return mesh, fmt.Errorf("transformation %q: %w", ref, err)
		}
		switch ref[0] {
		case 't':
			mesh.Translation = idx
		case 'r':
			mesh.Rotations = append(mesh.Rotations, idx)
		case 's':
			mesh.Scaling = idx
		default:
			return mesh, fmt.Errorf("transformation %q: unknown kind", ref)
		}
	}

	rows, err := parseNumberRows(m.Faces.Text, 3)
	if err != nil {
		return mesh, fmt.Errorf("faces: %w", err)
	}
	base := m.Faces.VertexOffset - 1
	for _, r := range rows {
		mesh.Faces = append(mesh.Faces, scene.Face{
			int(r[0]) + base,
			int(r[1]) + base,
			int(r[2]) + base,
		})
	}
	return mesh, nil
}

// UnmarshalXML implements xml.Unmarshaler.
func (l *xmlLights) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "AmbientLight" {
				if err := d.DecodeElement(&l.Ambient, &t); err != nil {
					return err
				}
				continue
			}

			var raw xmlLight
			if err := d.DecodeElement(&raw, &t); err != nil {
				return err
			}
			light, err := raw.light(t.Name.Local)
			if err != nil {
				return fmt.Errorf("%s %d: %w", t.Name.Local, raw.ID, err)
			}
			if light != nil {
				l.Lights = append(l.Lights, light)
			}

		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}

// light converts a raw element; unknown element names yield nil.
func (x xmlLight) light(name string) (scene.Light, error) {
	switch name {
	case "PointLight":
		pos, err := parseVec3(x.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		in, err := parseVec3(x.Intensity)
		if err != nil {
			return nil, fmt.Errorf("intensity: %w", err)
		}
		return &scene.PointLight{LightBase: scene.LightBase{ID: x.ID, Intensity: in}, Position: pos}, nil

	case "DirectionalLight":
		dir, err := parseVec3(x.Direction)
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		rad, err := parseVec3(x.Radiance)
		if err != nil {
			return nil, fmt.Errorf("radiance: %w", err)
		}
		return &scene.DirectionalLight{LightBase: scene.LightBase{ID: x.ID, Intensity: rad}, Direction: dir}, nil

	case "SpotLight":
		spot := &scene.SpotLight{LightBase: scene.LightBase{ID: x.ID}}
		var err error
		if spot.Position, err = parseVec3(x.Position); err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		if spot.Direction, err = parseVec3(x.Direction); err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		if spot.Intensity, err = parseVec3(x.Intensity); err != nil {
			return nil, fmt.Errorf("intensity: %w", err)
		}
		if spot.CoverageAngle, err = parseFloat(x.CoverageAngle); err != nil {
			return nil, fmt.Errorf("coverage angle: %w", err)
		}
		if spot.FalloffAngle, err = parseFloat(x.FalloffAngle); err != nil {
			return nil, fmt.Errorf("falloff angle: %w", err)
		}
		return spot, nil
	}
	return nil, nil
}
