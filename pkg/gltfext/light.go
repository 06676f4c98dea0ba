package gltfext

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
)

// LightType is the kind of a punctual light.
type LightType int

// Punctual light types.
const (
	LightPoint LightType = iota
	LightSpot
	LightDirectional
)

var lightTypes = map[string]LightType{
	"point":       LightPoint,
	"spot":        LightSpot,
	"directional": LightDirectional,
}

// String returns the glTF name of the light type.
func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	case LightDirectional:
		return "directional"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Light is one entry of the document-level KHR_lights_punctual array.
type Light struct {
	Name      string
	Type      LightType
	Color     [3]float32
	Intensity float32
	// Range is zero when unbounded.
	Range          float32
	InnerConeAngle float32
	OuterConeAngle float32
}

// DefaultLight returns a point light with the glTF default parameters.
func DefaultLight() Light {
	return Light{
		Type:           LightPoint,
		Color:          [3]float32{1, 1, 1},
		Intensity:      1,
		OuterConeAngle: math32.Pi / 4,
	}
}

// DocumentLights returns the lights declared by the document.
// Entries with an unknown type are skipped, so indices refer to the
// declared array and skipped slots hold nil.
func DocumentLights(doc *gltf.Document) ([]*Light, error) {
	if doc == nil {
		return nil, nil
	}
	v, ok, err := typed(doc.Extensions, NameLightsPunctual, lightspunctual.Unmarshal)
	if !ok || err != nil {
		return nil, err
	}
	declared, ok := v.(lightspunctual.Lights)
	if !ok {
		return nil, unexpected(NameLightsPunctual, v)
	}

	lights := make([]*Light, len(declared))
	for i, l := range declared {
		if l == nil {
			continue
		}
		typ, ok := lightTypes[l.Type]
		if !ok {
			continue
		}
		light := DefaultLight()
		light.Name = l.Name
		light.Type = typ
		c := l.ColorOrDefault()
		light.Color = [3]float32{float32(c[0]), float32(c[1]), float32(c[2])}
		light.Intensity = float32(l.IntensityOrDefault())
		if l.Range != nil && !math.IsInf(*l.Range, 1) {
			light.Range = float32(*l.Range)
		}
		if typ == LightSpot && l.Spot != nil {
			light.InnerConeAngle = clampCone(float32(l.Spot.InnerConeAngle))
			light.OuterConeAngle = clampCone(float32(l.Spot.OuterConeAngleOrDefault()))
			if light.InnerConeAngle >= light.OuterConeAngle {
				light.OuterConeAngle = math32.Max(light.InnerConeAngle, light.OuterConeAngle)
				light.InnerConeAngle = 0
			}
		}
		lights[i] = &light
	}
	return lights, nil
}

func clampCone(a float32) float32 {
	return math32.Max(0, math32.Min(a, math32.Pi/2))
}

// NodeLightIndex returns the light referenced by a node, if any.
func NodeLightIndex(node *gltf.Node) (int, bool, error) {
	if node == nil {
		return 0, false, nil
	}
	v, ok, err := typed(node.Extensions, NameLightsPunctual, lightspunctual.Unmarshal)
	if !ok || err != nil {
		return 0, false, err
	}
	switch idx := v.(type) {
	case lightspunctual.LightIndex:
		if idx < 0 {
			return 0, false, nil
		}
		return int(idx), true, nil
	case lightspunctual.Lights:
		// A node payload without "light" decodes as an empty light list.
		return 0, false, nil
	default:
		return 0, false, unexpected(NameLightsPunctual, v)
	}
}
