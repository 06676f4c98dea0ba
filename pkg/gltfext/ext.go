// Package gltfext decodes the glTF extensions used by the material compiler
// and scene flattener into typed records.
//
// The set of supported extensions is closed. Each record is decoded from the
// extension map of a parsed document, material, node, primitive or texture
// reference; unknown extensions are ignored. Lights, texture transforms and
// specular-glossiness arrive as the typed values registered by the
// qmuntal/gltf/ext packages.
package gltfext

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
)

// Extension names.
const (
	NameSpecularGlossiness = "KHR_materials_pbrSpecularGlossiness"
	NameTransmission       = "KHR_materials_transmission"
	NameIOR                = "KHR_materials_ior"
	NameVolume             = "KHR_materials_volume"
	NameClearcoat          = "KHR_materials_clearcoat"
	NameSheen              = "KHR_materials_sheen"
	NameSpecular           = "KHR_materials_specular"
	NameEmissiveStrength   = "KHR_materials_emissive_strength"
	NameTextureTransform   = "KHR_texture_transform"
	NameLightsPunctual     = "KHR_lights_punctual"
	NameMaterialsVariants  = "KHR_materials_variants"
)

// Supported lists every extension this package understands.
var Supported = []string{
	NameSpecularGlossiness,
	NameTransmission,
	NameIOR,
	NameVolume,
	NameClearcoat,
	NameSheen,
	NameSpecular,
	NameEmissiveStrength,
	NameTextureTransform,
	NameLightsPunctual,
	NameMaterialsVariants,
}

// ErrMalformedExtension is returned when an extension payload cannot be decoded.
var ErrMalformedExtension = errors.New("malformed extension")

// typed returns the value registered for the named extension. Payloads
// left raw, built by hand or rejected by the registered decoder, go
// through unmarshal so malformed ones are reported.
func typed(ext gltf.Extensions, name string, unmarshal func([]byte) (any, error)) (any, bool, error) {
	v, ok := ext[name]
	if !ok || v == nil {
		return nil, false, nil
	}

	var data []byte
	switch r := v.(type) {
	case json.RawMessage:
		data = r
	case []byte:
		data = r
	default:
		return v, true, nil
	}

	out, err := unmarshal(data)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrMalformedExtension, name, err)
	}
	return out, true, nil
}

func unexpected(name string, v any) error {
	return fmt.Errorf("%w: %s: unexpected %T", ErrMalformedExtension, name, v)
}

// decode unmarshals an extension qmuntal/gltf has no typed package for.
// It reports whether the extension was present.
func decode(ext gltf.Extensions, name string, v any) (bool, error) {
	raw, ok := ext[name]
	if !ok || raw == nil {
		return false, nil
	}

	var data []byte
	switch r := raw.(type) {
	case json.RawMessage:
		data = r
	case []byte:
		data = r
	default:
		// Registered extension types arrive already decoded.
		b, err := json.Marshal(r)
		if err != nil {
			return true, fmt.Errorf("%w: %s: %v", ErrMalformedExtension, name, err)
		}
		data = b
	}

	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrMalformedExtension, name, err)
	}
	return true, nil
}

func vec3(v *[3]float64) *[3]float32 {
	if v == nil {
		return nil
	}
	return &[3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func f32(v *float64) *float32 {
	if v == nil {
		return nil
	}
	f := float32(*v)
	return &f
}
