package gltfscene

import (
	"encoding/json"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"go.uber.org/zap"

	"github.com/taigrr/sceneport/pkg/math3d"
	"github.com/taigrr/sceneport/pkg/scene"
)

// decodeLights reads the document-level light definitions. Importing
// lightspunctual registers the extension, so gltf.Open already yields
// typed values; raw JSON is accepted for documents built in memory.
func decodeLights(ext gltf.Extensions) (lightspunctual.Lights, error) {
	raw, ok := ext[lightspunctual.ExtensionName]
	if !ok {
		return nil, nil
	}
	v, err := punctualValue(raw)
	if err != nil {
		return nil, err
	}
	lights, ok := v.(lightspunctual.Lights)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected value %T", lightspunctual.ExtensionName, v)
	}
	return lights, nil
}

// nodeLight returns the light index a node references, if any.
func nodeLight(ext gltf.Extensions) (int, bool, error) {
	raw, ok := ext[lightspunctual.ExtensionName]
	if !ok {
		return 0, false, nil
	}
	v, err := punctualValue(raw)
	if err != nil {
		return 0, false, err
	}
	idx, ok := v.(lightspunctual.LightIndex)
	if !ok {
		return 0, false, fmt.Errorf("%s: unexpected value %T", lightspunctual.ExtensionName, v)
	}
	return int(idx), true, nil
}

func punctualValue(raw any) (any, error) {
	data, ok := raw.(json.RawMessage)
	if !ok {
		return raw, nil
	}
	v, err := lightspunctual.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", lightspunctual.ExtensionName, err)
	}
	return v, nil
}

// spotCone returns the inner and outer half angles in radians with the
// extension's defaults applied.
func spotCone(l *lightspunctual.Light) (inner, outer float64) {
	if l.Spot == nil {
		return 0, (&lightspunctual.Spot{}).OuterConeAngleOrDefault()
	}
	return l.Spot.InnerConeAngle, l.Spot.OuterConeAngleOrDefault()
}

// nextLightID returns the next 1-based id for kind.
func (b *Builder) nextLightID(kind scene.LightKind) int {
	b.lightIDs[kind]++
	return b.lightIDs[kind]
}

func (b *Builder) addLight(node *gltf.Node, idx int, world math3d.Mat4) {
	if idx < 0 || idx >= len(b.lights) {
		b.log.Warn("light reference out of range, skipping",
			zap.String("node", node.Name),
			zap.Int("light", idx))
		return
	}
	def := b.lights[idx]
	if def == nil {
		b.log.Warn("light definition missing, skipping",
			zap.String("node", node.Name),
			zap.Int("light", idx))
		return
	}

	scale := b.opts.LightScale
	if scale == 0 {
		scale = 1
	}
	c := def.ColorOrDefault()
	intensity := math3d.V3(c[0], c[1], c[2]).Scale(def.IntensityOrDefault() * scale)
	position := world.Translation()
	direction := world.MulVec3Dir(math3d.Forward()).Normalize()

	switch def.Type {
	case lightspunctual.TypePoint:
		b.scene.Lights = append(b.scene.Lights, &scene.PointLight{
			LightBase: scene.LightBase{ID: b.nextLightID(scene.LightPoint), Intensity: intensity},
			Position:  position,
		})
	case lightspunctual.TypeDirectional:
		b.scene.Lights = append(b.scene.Lights, &scene.DirectionalLight{
			LightBase: scene.LightBase{ID: b.nextLightID(scene.LightDirectional), Intensity: intensity},
			Direction: direction,
		})
	case lightspunctual.TypeSpot:
		inner, outer := spotCone(def)
		b.scene.Lights = append(b.scene.Lights, &scene.SpotLight{
			LightBase:     scene.LightBase{ID: b.nextLightID(scene.LightSpot), Intensity: intensity},
			Position:      position,
			Direction:     direction,
			CoverageAngle: math3d.Degrees(2 * outer),
			FalloffAngle:  math3d.Degrees(2 * inner),
		})
	default:
		b.log.Warn("unsupported light type, skipping",
			zap.String("node", node.Name),
			zap.String("type", def.Type))
	}
}
