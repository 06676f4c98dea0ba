package gltfext

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/texturetransform"
)

// TextureTransform is KHR_texture_transform on a texture reference.
type TextureTransform struct {
	Offset   [2]float32
	Rotation float32
	Scale    [2]float32
	// TexCoord overrides the texture reference's channel when set.
	TexCoord *int
}

// IsIdentity reports whether the transform leaves UVs unchanged.
func (t TextureTransform) IsIdentity() bool {
	return t.Offset == [2]float32{} && t.Rotation == 0 && t.Scale == [2]float32{1, 1}
}

// TextureTransformOf returns the texture transform of a texture reference.
func TextureTransformOf(ext gltf.Extensions) (*TextureTransform, error) {
	v, ok, err := typed(ext, NameTextureTransform, texturetransform.Unmarshal)
	if !ok || err != nil {
		return nil, err
	}
	raw, ok := v.(*texturetransform.TextureTranform)
	if !ok || raw == nil {
		return nil, unexpected(NameTextureTransform, v)
	}

	scale := raw.ScaleOrDefault()
	return &TextureTransform{
		Offset:   [2]float32{float32(raw.Offset[0]), float32(raw.Offset[1])},
		Rotation: float32(raw.Rotation),
		Scale:    [2]float32{float32(scale[0]), float32(scale[1])},
		TexCoord: raw.TexCoord,
	}, nil
}
