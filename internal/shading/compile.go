// Package shading compiles material descriptors into shader node graphs and
// caches the result per material.
package shading

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/internal/material"
	sg "github.com/Faultbox/gltfview/internal/shadergraph"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Image colorspaces.
const (
	ColorspaceSRGB     = "sRGB"
	ColorspaceLinear   = "Linear"
	ColorspaceNonColor = "Non-Color"
)

// Principled BSDF inputs.
const (
	inBaseColor          = "Base Color"
	inMetallic           = "Metallic"
	inRoughness          = "Roughness"
	inAlpha              = "Alpha"
	inIOR                = "IOR"
	inNormal             = "Normal"
	inTransmission       = "Transmission"
	inClearcoat          = "Clearcoat"
	inClearcoatRoughness = "Clearcoat Roughness"
	inSpecular           = "Specular"
)

// Options configures compilation.
type Options struct {
	// FileExists reports whether a texture file resolves on disk.
	FileExists func(path string) bool
}

// Option changes compilation options.
type Option func(*Options)

// WithFileExists replaces the texture existence check.
func WithFileExists(fn func(path string) bool) Option {
	return func(o *Options) {
		o.FileExists = fn
	}
}

func defaultOptions() Options {
	return Options{
		FileExists: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		},
	}
}

// builder carries the state of one compilation.
type builder struct {
	g    *sg.Graph
	m    *material.Material
	opts Options
	log  *zap.Logger
	err  error

	bsdf *sg.Node
	// alpha feeds the transparency mix spliced in after all other stages.
	alpha *sg.Endpoint
}

// Compile builds the shader graph of a material. Textures whose files do
// not resolve are skipped and their scalar factors used instead.
func Compile(m *material.Material, opts ...Option) *sg.Graph {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{
		g:    sg.New(m.Name),
		m:    m,
		opts: o,
		log:  logger.Named("shading").With(zap.Int("material", m.Index)),
	}

	b.base()
	b.baseColorTexture()
	if m.SpecularGlossiness != nil {
		b.specularGlossinessTexture()
	} else {
		b.metallicRoughnessTexture()
	}
	b.normalTexture()
	b.emission()
	b.transmission()
	b.volume()
	b.clearcoat()
	b.sheen()
	if m.SpecularGlossiness == nil {
		b.specular()
	}
	// Transparency and backface culling wrap the whole surface, so they run last.
	b.transparency()
	b.backface()

	if b.err != nil {
		b.log.Error("shader graph incomplete", zap.Error(b.err))
	}
	return b.g
}

// LightShader builds the emission shader of a light.
func LightShader(name string, color [3]float32, strength float32) *sg.Graph {
	g := sg.New(name)
	em := g.Add(sg.KindEmission).
		Set(sg.SocketColor, color).
		Set("Strength", strength)
	if err := g.SetSurface(em, "Emission"); err != nil {
		logger.Named("shading").Error("light shader", zap.Error(err))
	}
	return g
}

func (b *builder) connect(from *sg.Node, out string, to *sg.Node, in string) {
	if err := b.g.Connect(from, out, to, in); err != nil && b.err == nil {
		b.err = err
	}
}

func (b *builder) splice(comb *sg.Node, captured, out string) {
	if err := b.g.Splice(comb, captured, out); err != nil && b.err == nil {
		b.err = fmt.Errorf("splicing %s: %w", comb.Kind, err)
	}
}

func (b *builder) base() {
	m := b.m
	baseColor := m.BaseColorFactor
	metallic, roughness := m.MetallicFactor, m.RoughnessFactor
	if s := m.SpecularGlossiness; s != nil {
		baseColor, metallic, roughness = ConvertSpecularGlossiness(s.DiffuseFactor, s.SpecularFactor, s.GlossinessFactor)
	}

	alpha := float32(1)
	switch m.AlphaMode {
	case material.AlphaBlend:
		alpha = baseColor[3]
	case material.AlphaMask:
		if baseColor[3] < m.AlphaCutoff {
			alpha = 0
		}
	}

	b.bsdf = b.g.Add(sg.KindPrincipledBSDF).
		Set(inBaseColor, rgb(baseColor)).
		Set(inMetallic, metallic).
		Set(inRoughness, roughness).
		Set(inAlpha, alpha).
		Set(inIOR, m.IOR)
	if err := b.g.SetSurface(b.bsdf, sg.SocketBSDF); err != nil {
		b.err = err
	}
}

func (b *builder) baseColorTexture() {
	tex := b.m.BaseColorTexture
	factor := b.m.BaseColorFactor
	if s := b.m.SpecularGlossiness; s != nil {
		tex = s.DiffuseTexture
		factor = s.DiffuseFactor
	}

	img := b.image(tex, ColorspaceSRGB)
	if img == nil {
		return
	}
	// For specular-glossiness the texture is tinted by the raw diffuse
	// factor; the metallic conversion applies to the scalar factors only.
	b.connect(b.multiplyColor(img, rgb(factor)), sg.SocketColor, b.bsdf, inBaseColor)

	if b.m.AlphaMode == material.AlphaOpaque {
		return
	}
	alpha := b.scale(sg.Endpoint{Node: img, Socket: sg.SocketAlpha}, factor[3])
	if b.m.AlphaMode == material.AlphaMask {
		cut := b.g.Add(sg.KindMath).
			Set("operation", "greater_than").
			Set("Value2", b.m.AlphaCutoff)
		b.connect(alpha.Node, alpha.Socket, cut, "Value1")
		alpha = sg.Endpoint{Node: cut, Socket: sg.SocketValue}
	}
	b.alpha = &alpha
}

func (b *builder) metallicRoughnessTexture() {
	img := b.image(b.m.MetallicRoughnessTexture, ColorspaceLinear)
	if img == nil {
		return
	}
	sep := b.separate(img)
	r := b.scale(sg.Endpoint{Node: sep, Socket: "G"}, b.m.RoughnessFactor)
	b.connect(r.Node, r.Socket, b.bsdf, inRoughness)
	mt := b.scale(sg.Endpoint{Node: sep, Socket: "B"}, b.m.MetallicFactor)
	b.connect(mt.Node, mt.Socket, b.bsdf, inMetallic)
}

func (b *builder) specularGlossinessTexture() {
	s := b.m.SpecularGlossiness
	img := b.image(s.SpecularGlossinessTexture, ColorspaceSRGB)
	if img == nil {
		return
	}

	hsv := b.g.Add(sg.KindSeparateHSV)
	b.connect(img, sg.SocketColor, hsv, sg.SocketColor)
	b.connect(hsv, "V", b.bsdf, inSpecular)

	gloss := b.scale(sg.Endpoint{Node: img, Socket: sg.SocketAlpha}, s.GlossinessFactor)
	invert := b.g.Add(sg.KindMath).
		Set("operation", "subtract").
		Set("Value1", float32(1))
	b.connect(gloss.Node, gloss.Socket, invert, "Value2")
	b.connect(invert, sg.SocketValue, b.bsdf, inRoughness)
}

func (b *builder) normalTexture() {
	tex := b.m.NormalTexture
	img := b.image(tex, ColorspaceNonColor)
	if img == nil {
		return
	}
	nm := b.g.Add(sg.KindNormalMap).
		Set("space", "tangent").
		Set("attribute", tex.Channel()).
		Set("Strength", b.m.NormalScale)
	b.connect(img, sg.SocketColor, nm, sg.SocketColor)
	b.connect(nm, "Normal", b.bsdf, inNormal)
}

func (b *builder) emission() {
	if !b.m.HasEmission() {
		return
	}
	em := b.g.Add(sg.KindEmission).
		Set(sg.SocketColor, b.m.EmissiveFactor).
		Set("Strength", b.m.EmissiveStrength)
	if img := b.image(b.m.EmissiveTexture, ColorspaceSRGB); img != nil {
		b.connect(b.multiplyColor(img, b.m.EmissiveFactor), sg.SocketColor, em, sg.SocketColor)
	}

	add := b.g.Add(sg.KindAddClosure)
	b.connect(em, "Emission", add, "Closure1")
	b.splice(add, "Closure2", sg.SocketClosure)
}

func (b *builder) transmission() {
	factor := float32(1)
	if f := b.m.TransmissionFactor; f != nil {
		factor = *f
		b.bsdf.Set(inTransmission, factor)
	}
	img := b.image(b.m.TransmissionTexture, ColorspaceLinear)
	if img == nil {
		return
	}
	sep := b.separate(img)
	t := b.scale(sg.Endpoint{Node: sep, Socket: "R"}, factor)
	b.connect(t.Node, t.Socket, b.bsdf, inTransmission)
}

func (b *builder) volume() {
	v := b.m.Volume
	density := v.Density()
	if density <= 0 {
		return
	}
	vol := b.g.Add(sg.KindAbsorptionVolume).
		Set("Density", density).
		Set(sg.SocketColor, v.AttenuationColor)
	if err := b.g.SetVolume(vol, sg.SocketVolume); err != nil && b.err == nil {
		b.err = err
	}
}

func (b *builder) clearcoat() {
	m := b.m
	factor, roughness := float32(1), float32(1)
	if m.ClearcoatFactor != nil {
		factor = *m.ClearcoatFactor
		b.bsdf.Set(inClearcoat, factor)
	}
	if m.ClearcoatRoughnessFactor != nil {
		roughness = *m.ClearcoatRoughnessFactor
		b.bsdf.Set(inClearcoatRoughness, roughness)
	}

	if img := b.image(m.ClearcoatTexture, ColorspaceLinear); img != nil {
		c := b.scale(sg.Endpoint{Node: b.separate(img), Socket: "R"}, factor)
		b.connect(c.Node, c.Socket, b.bsdf, inClearcoat)
	}
	if img := b.image(m.ClearcoatRoughnessTexture, ColorspaceLinear); img != nil {
		r := b.scale(sg.Endpoint{Node: b.separate(img), Socket: "G"}, roughness)
		b.connect(r.Node, r.Socket, b.bsdf, inClearcoatRoughness)
	}
}

func (b *builder) sheen() {
	m := b.m
	if m.SheenColorFactor == nil && m.SheenColorTexture == nil &&
		m.SheenRoughnessFactor == nil && m.SheenRoughnessTexture == nil {
		return
	}

	sigma := float32(0)
	if m.SheenRoughnessFactor != nil {
		sigma = *m.SheenRoughnessFactor
	}
	velvet := b.g.Add(sg.KindVelvetBSDF).Set("Sigma", sigma)

	// glTF sheen color defaults to black, which disables the layer.
	var color [3]float32
	if m.SheenColorFactor != nil {
		color = *m.SheenColorFactor
	}
	velvet.Set(sg.SocketColor, color)
	if img := b.image(m.SheenColorTexture, ColorspaceSRGB); img != nil {
		b.connect(b.multiplyColor(img, color), sg.SocketColor, velvet, sg.SocketColor)
	}
	if img := b.image(m.SheenRoughnessTexture, ColorspaceNonColor); img != nil {
		s := b.scale(sg.Endpoint{Node: img, Socket: sg.SocketAlpha}, sigma)
		b.connect(s.Node, s.Socket, velvet, "Sigma")
	}

	add := b.g.Add(sg.KindAddClosure)
	b.connect(velvet, sg.SocketBSDF, add, "Closure1")
	b.splice(add, "Closure2", sg.SocketClosure)
}

func (b *builder) specular() {
	m := b.m
	if m.SpecularFactor == nil && m.SpecularTexture == nil {
		return
	}
	factor := float32(1)
	if m.SpecularFactor != nil {
		factor = *m.SpecularFactor
	}
	b.bsdf.Set(inSpecular, factor)

	if img := b.image(m.SpecularTexture, ColorspaceNonColor); img != nil {
		s := b.scale(sg.Endpoint{Node: img, Socket: sg.SocketAlpha}, factor)
		b.connect(s.Node, s.Socket, b.bsdf, inSpecular)
	}
}

// transparency mixes a transparent BSDF over the accumulated surface by the
// base color alpha recorded from the base color texture.
func (b *builder) transparency() {
	if b.alpha == nil {
		return
	}
	transparent := b.g.Add(sg.KindTransparentBSDF)
	mix := b.g.Add(sg.KindMixClosure)
	b.connect(transparent, sg.SocketBSDF, mix, "Closure1")
	b.splice(mix, "Closure2", sg.SocketClosure)
	b.connect(b.alpha.Node, b.alpha.Socket, mix, sg.SocketFac)
}

// backface renders back faces of single-sided materials fully transparent.
func (b *builder) backface() {
	if b.m.DoubleSided {
		return
	}
	geom := b.g.Add(sg.KindGeometry)
	transparent := b.g.Add(sg.KindTransparentBSDF)
	mix := b.g.Add(sg.KindMixClosure)
	b.splice(mix, "Closure1", sg.SocketClosure)
	b.connect(geom, "Backfacing", mix, sg.SocketFac)
	b.connect(transparent, sg.SocketBSDF, mix, "Closure2")
}

// image creates a texture sample node with its UV chain, or returns nil
// when the texture is absent or its file does not resolve.
func (b *builder) image(t *material.Texture, colorspace string) *sg.Node {
	if t == nil {
		return nil
	}
	if !b.opts.FileExists(t.Path) {
		b.log.Debug("texture file missing", zap.String("path", t.Path))
		return nil
	}

	alphaType := "auto"
	if colorspace != ColorspaceSRGB {
		alphaType = "channel_packed"
	}
	img := b.g.Add(sg.KindImageTexture).
		Set("filename", t.Path).
		Set("colorspace", colorspace).
		Set("alpha_type", alphaType).
		Set("extension", extension(t.WrapS))

	mapping := b.uvMapping(t)
	b.connect(mapping, sg.SocketVector, img, sg.SocketVector)
	return img
}

// uvMapping builds the UV source and 2D mapping for a texture. glTF UVs
// have a top-left origin, hence the mirrored offset and negated scale.
func (b *builder) uvMapping(t *material.Texture) *sg.Node {
	channel := t.Channel()
	b.g.RequestAttribute(channel)

	var offset math.Vec2
	rotation := float32(0)
	scale := math.Vec2{X: 1, Y: 1}
	if tr := t.Transform; tr != nil {
		offset = tr.Offset
		rotation = tr.Rotation
		scale = tr.Scale
	}
	offset = offset.FlipV()
	scale = scale.Mul(math.Vec2{X: 1, Y: -1})

	uv := b.g.Add(sg.KindUVMap).Set("attribute", channel)
	mapping := b.g.Add(sg.KindMapping).
		Set("location", [3]float32{offset.X, offset.Y, 0}).
		Set("rotation", [3]float32{0, 0, rotation}).
		Set("scale", [3]float32{scale.X, scale.Y, 1})
	b.connect(uv, "UV", mapping, sg.SocketVector)
	return mapping
}

// multiplyColor returns img, or a multiply node scaling img's color by
// factor when the factor is not white.
func (b *builder) multiplyColor(img *sg.Node, factor [3]float32) *sg.Node {
	if factor == [3]float32{1, 1, 1} {
		return img
	}
	mix := b.g.Add(sg.KindMixRGB).
		Set("blend", "multiply").
		Set(sg.SocketFac, float32(1)).
		Set("Color1", factor)
	b.connect(img, sg.SocketColor, mix, "Color2")
	return mix
}

// scale returns src, or a multiply node scaling it when factor is not one.
func (b *builder) scale(src sg.Endpoint, factor float32) sg.Endpoint {
	if factor == 1 {
		return src
	}
	mul := b.g.Add(sg.KindMath).
		Set("operation", "multiply").
		Set("Value1", factor)
	b.connect(src.Node, src.Socket, mul, "Value2")
	return sg.Endpoint{Node: mul, Socket: sg.SocketValue}
}

func (b *builder) separate(img *sg.Node) *sg.Node {
	sep := b.g.Add(sg.KindSeparateRGB)
	b.connect(img, sg.SocketColor, sep, "Image")
	return sep
}

// extension maps a wrap mode to the image extension mode. Only the S axis
// is honored.
func extension(w material.Wrap) string {
	if w == material.WrapClamp {
		return "extend"
	}
	return "repeat"
}

func rgb(c [4]float32) [3]float32 {
	return [3]float32{c[0], c[1], c[2]}
}
