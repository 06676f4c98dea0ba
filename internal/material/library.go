package material

import (
	"sync"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/assets"
	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/pkg/gltfext"
	"github.com/Faultbox/gltfview/pkg/math"
)

// ImageStore resolves a glTF image to a file path.
type ImageStore interface {
	Materialize(doc *gltf.Document, index int) (string, error)
}

var _ ImageStore = (*assets.TextureStore)(nil)

// Library builds material descriptors on first reference and keeps them
// for the lifetime of the owning model.
type Library struct {
	doc   *gltf.Document
	store ImageStore
	log   *zap.Logger

	materials map[int]*Material
	mu        sync.Mutex
}

// NewLibrary creates a library over doc. Textures are materialized through
// store, which is shared by every material of the document.
func NewLibrary(doc *gltf.Document, store ImageStore) *Library {
	return &Library{
		doc:       doc,
		store:     store,
		log:       logger.Named("material"),
		materials: make(map[int]*Material),
	}
}

// Len returns the number of materials declared by the document.
func (l *Library) Len() int {
	return len(l.doc.Materials)
}

// Get returns the material at index, building it on first use.
// Out of range indices and DefaultIndex yield the default material.
func (l *Library) Get(index int) *Material {
	if index < 0 || index >= len(l.doc.Materials) {
		index = DefaultIndex
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.materials[index]; ok {
		return m
	}

	var m *Material
	if index == DefaultIndex {
		m = Default()
	} else {
		m = l.build(index)
	}
	l.materials[index] = m
	return m
}

// build translates one glTF material and its extensions.
func (l *Library) build(index int) *Material {
	src := l.doc.Materials[index]
	m := New(index, src.Name)
	log := l.log.With(zap.Int("material", index), zap.String("name", src.Name))

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		for i, v := range pbr.BaseColorFactorOrDefault() {
			m.BaseColorFactor[i] = float32(v)
		}
		m.MetallicFactor = float32(pbr.MetallicFactorOrDefault())
		m.RoughnessFactor = float32(pbr.RoughnessFactorOrDefault())
		m.BaseColorTexture = l.texture(log, pbr.BaseColorTexture)
		m.MetallicRoughnessTexture = l.texture(log, pbr.MetallicRoughnessTexture)
	}

	switch src.AlphaMode {
	case gltf.AlphaMask:
		m.AlphaMode = AlphaMask
	case gltf.AlphaBlend:
		m.AlphaMode = AlphaBlend
	}
	if src.AlphaCutoff != nil {
		m.AlphaCutoff = float32(*src.AlphaCutoff)
	}
	m.DoubleSided = src.DoubleSided

	if nt := src.NormalTexture; nt != nil && nt.Index != nil {
		m.NormalTexture = l.texture(log, &gltf.TextureInfo{Index: *nt.Index, TexCoord: nt.TexCoord, Extensions: nt.Extensions})
		if nt.Scale != nil {
			m.NormalScale = float32(*nt.Scale)
		}
	}
	if ot := src.OcclusionTexture; ot != nil && ot.Index != nil {
		m.OcclusionTexture = l.texture(log, &gltf.TextureInfo{Index: *ot.Index, TexCoord: ot.TexCoord, Extensions: ot.Extensions})
	}

	for i, v := range src.EmissiveFactor {
		m.EmissiveFactor[i] = float32(v)
	}
	m.EmissiveTexture = l.texture(log, src.EmissiveTexture)

	ext, err := gltfext.MaterialExtensions(src)
	if err != nil {
		log.Warn("ignoring malformed material extension", zap.Error(err))
	}
	l.applyExtensions(log, m, ext)

	return m
}

func (l *Library) applyExtensions(log *zap.Logger, m *Material, ext gltfext.Material) {
	if sg := ext.SpecularGlossiness; sg != nil {
		m.SpecularGlossiness = &SpecularGlossiness{
			DiffuseFactor:             sg.DiffuseFactor,
			DiffuseTexture:            l.texture(log, sg.DiffuseTexture),
			SpecularFactor:            sg.SpecularFactor,
			GlossinessFactor:          sg.GlossinessFactor,
			SpecularGlossinessTexture: l.texture(log, sg.SpecularGlossinessTexture),
		}
	}
	if ext.IOR != nil {
		m.IOR = ext.IOR.IOR
	}
	if t := ext.Transmission; t != nil {
		m.TransmissionFactor = t.Factor
		m.TransmissionTexture = l.texture(log, t.Texture)
	}
	if v := ext.Volume; v != nil && v.AttenuationDistance != nil {
		vol := &Volume{AttenuationDistance: *v.AttenuationDistance, AttenuationColor: [3]float32{1, 1, 1}}
		if v.AttenuationColor != nil {
			vol.AttenuationColor = *v.AttenuationColor
		}
		if vol.Density() > 0 {
			m.Volume = vol
		}
	}
	if c := ext.Clearcoat; c != nil {
		m.ClearcoatFactor = c.Factor
		m.ClearcoatTexture = l.texture(log, c.Texture)
		m.ClearcoatRoughnessFactor = c.RoughnessFactor
		m.ClearcoatRoughnessTexture = l.texture(log, c.RoughnessTexture)
	}
	if s := ext.Sheen; s != nil {
		m.SheenColorFactor = s.ColorFactor
		m.SheenColorTexture = l.texture(log, s.ColorTexture)
		m.SheenRoughnessFactor = s.RoughnessFactor
		m.SheenRoughnessTexture = l.texture(log, s.RoughnessTexture)
	}
	if s := ext.Specular; s != nil {
		m.SpecularFactor = s.Factor
		m.SpecularTexture = l.texture(log, s.Texture)
		m.SpecularColorFactor = s.ColorFactor
		m.SpecularColorTexture = l.texture(log, s.ColorTexture)
	}
	if ext.EmissiveStrength != nil {
		m.EmissiveStrength = ext.EmissiveStrength.Strength
	}
}

// texture resolves a texture reference. Unresolvable references are
// logged and dropped so the material falls back to its scalar factors.
func (l *Library) texture(log *zap.Logger, info *gltf.TextureInfo) *Texture {
	if info == nil {
		return nil
	}
	if info.Index < 0 || info.Index >= len(l.doc.Textures) {
		log.Warn("texture index out of range", zap.Int("texture", info.Index))
		return nil
	}
	src := l.doc.Textures[info.Index]
	if src.Source == nil {
		log.Debug("texture has no image source", zap.Int("texture", info.Index))
		return nil
	}

	path, err := l.store.Materialize(l.doc, *src.Source)
	if err != nil {
		log.Warn("dropping texture", zap.Int("texture", info.Index), zap.Error(err))
		return nil
	}

	tex := &Texture{
		Path:     path,
		Image:    *src.Source,
		TexCoord: info.TexCoord,
	}
	if src.Sampler != nil && *src.Sampler >= 0 && *src.Sampler < len(l.doc.Samplers) {
		s := l.doc.Samplers[*src.Sampler]
		tex.WrapS = wrapMode(s.WrapS)
		tex.WrapT = wrapMode(s.WrapT)
	}

	tt, err := gltfext.TextureTransformOf(info.Extensions)
	if err != nil {
		log.Warn("ignoring texture transform", zap.Int("texture", info.Index), zap.Error(err))
	}
	if tt != nil {
		tex.Transform = &Transform{
			Offset:   math.V2(tt.Offset),
			Rotation: tt.Rotation,
			Scale:    math.V2(tt.Scale),
		}
		if tt.TexCoord != nil {
			tex.TexCoord = *tt.TexCoord
		}
	}
	return tex
}

func wrapMode(w gltf.WrappingMode) Wrap {
	switch w {
	case gltf.WrapClampToEdge:
		return WrapClamp
	case gltf.WrapMirroredRepeat:
		return WrapMirror
	default:
		return WrapRepeat
	}
}
