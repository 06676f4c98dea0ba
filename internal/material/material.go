// Package material holds the material descriptor consumed by the shader
// compiler and the library that builds descriptors from a glTF document.
package material

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gltfview/pkg/math"
)

// DefaultIndex is the index of the material used by primitives without one.
const DefaultIndex = -1

// Wrap is a texture addressing mode.
type Wrap int

// Texture wrap modes.
const (
	WrapRepeat Wrap = iota
	WrapClamp
	WrapMirror
)

// String returns the wrap mode name.
func (w Wrap) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapClamp:
		return "clamp"
	case WrapMirror:
		return "mirror"
	default:
		return fmt.Sprintf("Wrap(%d)", int(w))
	}
}

// AlphaMode is how the base color alpha is interpreted.
type AlphaMode int

// Alpha modes.
const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// String returns the glTF alpha mode name.
func (a AlphaMode) String() string {
	switch a {
	case AlphaOpaque:
		return "OPAQUE"
	case AlphaMask:
		return "MASK"
	case AlphaBlend:
		return "BLEND"
	default:
		return fmt.Sprintf("AlphaMode(%d)", int(a))
	}
}

// Transform is a 2D texture coordinate transform.
type Transform struct {
	Offset   math.Vec2
	Rotation float32
	Scale    math.Vec2
}

// Texture references a materialized image.
type Texture struct {
	// Path is the file holding the image.
	Path string
	// Image is the glTF image index the file was materialized from.
	Image int
	// TexCoord is the UV channel the texture samples.
	TexCoord int
	WrapS    Wrap
	WrapT    Wrap
	// Transform is nil when the texture has no coordinate transform.
	Transform *Transform
}

// Channel returns the UV channel attribute name, the stringified channel index.
func (t *Texture) Channel() string {
	return fmt.Sprintf("%d", t.TexCoord)
}

// SpecularGlossiness is the legacy specular-glossiness parameter set.
// When present it supersedes the metallic-roughness fields.
type SpecularGlossiness struct {
	DiffuseFactor             [4]float32
	DiffuseTexture            *Texture
	SpecularFactor            [3]float32
	GlossinessFactor          float32
	SpecularGlossinessTexture *Texture
}

// Volume describes light absorption inside the material.
type Volume struct {
	AttenuationDistance float32
	AttenuationColor    [3]float32
}

// Density returns the absorption density, zero when the attenuation
// distance is not a finite positive number.
func (v *Volume) Density() float32 {
	if v == nil || !(v.AttenuationDistance > 0) || math32.IsInf(v.AttenuationDistance, 1) {
		return 0
	}
	return 1 / v.AttenuationDistance
}

// Material is an immutable descriptor of one glTF material.
// Optional extension fields are nil when the extension is absent.
type Material struct {
	Index int
	Name  string

	BaseColorFactor  [4]float32
	BaseColorTexture *Texture
	AlphaMode        AlphaMode
	AlphaCutoff      float32

	MetallicFactor           float32
	RoughnessFactor          float32
	MetallicRoughnessTexture *Texture

	NormalTexture    *Texture
	NormalScale      float32
	OcclusionTexture *Texture

	EmissiveFactor   [3]float32
	EmissiveTexture  *Texture
	EmissiveStrength float32

	DoubleSided bool

	SpecularGlossiness *SpecularGlossiness

	IOR float32

	TransmissionFactor  *float32
	TransmissionTexture *Texture

	Volume *Volume

	ClearcoatFactor           *float32
	ClearcoatTexture          *Texture
	ClearcoatRoughnessFactor  *float32
	ClearcoatRoughnessTexture *Texture

	SheenColorFactor      *[3]float32
	SheenColorTexture     *Texture
	SheenRoughnessFactor  *float32
	SheenRoughnessTexture *Texture

	SpecularFactor       *float32
	SpecularTexture      *Texture
	SpecularColorFactor  *[3]float32
	SpecularColorTexture *Texture
}

// New returns a material with the glTF default parameters.
func New(index int, name string) *Material {
	return &Material{
		Index:            index,
		Name:             name,
		BaseColorFactor:  [4]float32{1, 1, 1, 1},
		AlphaCutoff:      0.5,
		MetallicFactor:   1,
		RoughnessFactor:  1,
		NormalScale:      1,
		EmissiveStrength: 1,
		IOR:              1.5,
	}
}

// Default returns the material assigned to primitives without a material.
// Its magenta base color makes unassigned geometry easy to spot.
func Default() *Material {
	m := New(DefaultIndex, "default")
	m.BaseColorFactor = [4]float32{1, 0, 1, 1}
	return m
}

// HasEmission reports whether the material emits light.
func (m *Material) HasEmission() bool {
	return m.EmissiveTexture != nil || m.EmissiveFactor != [3]float32{}
}

// Textures returns every texture the material references.
func (m *Material) Textures() []*Texture {
	all := []*Texture{
		m.BaseColorTexture, m.MetallicRoughnessTexture, m.NormalTexture,
		m.OcclusionTexture, m.EmissiveTexture, m.TransmissionTexture,
		m.ClearcoatTexture, m.ClearcoatRoughnessTexture,
		m.SheenColorTexture, m.SheenRoughnessTexture,
		m.SpecularTexture, m.SpecularColorTexture,
	}
	if sg := m.SpecularGlossiness; sg != nil {
		all = append(all, sg.DiffuseTexture, sg.SpecularGlossinessTexture)
	}
	out := all[:0]
	for _, t := range all {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
