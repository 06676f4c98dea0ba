package shading

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gltfview/internal/material"
	sg "github.com/Faultbox/gltfview/internal/shadergraph"
	"github.com/Faultbox/gltfview/pkg/math"
)

func allFilesExist(string) bool { return true }

func noFilesExist(string) bool { return false }

func surfaceNode(t *testing.T, g *sg.Graph) *sg.Node {
	t.Helper()
	ep, ok := g.Surface()
	require.True(t, ok, "surface output not connected")
	return ep.Node
}

func producer(t *testing.T, g *sg.Graph, n *sg.Node, in string) *sg.Node {
	t.Helper()
	ep, ok := g.Producer(n, in)
	require.True(t, ok, "%s.%s not connected", n.Kind, in)
	return ep.Node
}

func TestCompileMinimal(t *testing.T) {
	m := material.New(0, "plain")
	m.DoubleSided = true

	g := Compile(m)

	assert.Len(t, g.Nodes(), 2)
	bsdf := surfaceNode(t, g)
	assert.Equal(t, sg.KindPrincipledBSDF, bsdf.Kind)

	v, _ := bsdf.Value(inBaseColor)
	assert.Equal(t, [3]float32{1, 1, 1}, v)
	v, _ = bsdf.Value(inAlpha)
	assert.Equal(t, float32(1), v)
	assert.Empty(t, g.Attributes())
}

func TestCompileBackfaceCulling(t *testing.T) {
	m := material.New(0, "single")

	g := Compile(m)

	mix := surfaceNode(t, g)
	require.Equal(t, sg.KindMixClosure, mix.Kind)
	assert.Equal(t, sg.KindPrincipledBSDF, producer(t, g, mix, "Closure1").Kind)
	assert.Equal(t, sg.KindTransparentBSDF, producer(t, g, mix, "Closure2").Kind)

	fac, ok := g.Producer(mix, sg.SocketFac)
	require.True(t, ok)
	assert.Equal(t, sg.KindGeometry, fac.Node.Kind)
	assert.Equal(t, "Backfacing", fac.Socket)
}

func TestCompileLayering(t *testing.T) {
	m := material.New(3, "layered")
	m.DoubleSided = true
	m.AlphaMode = material.AlphaBlend
	m.BaseColorTexture = &material.Texture{Path: "base.png"}
	m.EmissiveFactor = [3]float32{1, 0.5, 0}

	g := Compile(m, WithFileExists(allFilesExist))

	mix := surfaceNode(t, g)
	require.Equal(t, sg.KindMixClosure, mix.Kind)
	assert.Equal(t, sg.KindTransparentBSDF, producer(t, g, mix, "Closure1").Kind)

	add := producer(t, g, mix, "Closure2")
	require.Equal(t, sg.KindAddClosure, add.Kind)
	assert.Equal(t, sg.KindEmission, producer(t, g, add, "Closure1").Kind)
	assert.Equal(t, sg.KindPrincipledBSDF, producer(t, g, add, "Closure2").Kind)

	fac, ok := g.Producer(mix, sg.SocketFac)
	require.True(t, ok)
	assert.Equal(t, sg.KindImageTexture, fac.Node.Kind)
	assert.Equal(t, sg.SocketAlpha, fac.Socket)
}

func TestCompileAlphaMask(t *testing.T) {
	m := material.New(0, "cutout")
	m.DoubleSided = true
	m.AlphaMode = material.AlphaMask
	m.AlphaCutoff = 0.3
	m.BaseColorTexture = &material.Texture{Path: "leaf.png"}

	g := Compile(m, WithFileExists(allFilesExist))

	mix := surfaceNode(t, g)
	cut := producer(t, g, mix, sg.SocketFac)
	require.Equal(t, sg.KindMath, cut.Kind)
	op, _ := cut.Value("operation")
	assert.Equal(t, "greater_than", op)
	v, _ := cut.Value("Value2")
	assert.Equal(t, float32(0.3), v)
}

func TestCompileBaseColorFactorMultiply(t *testing.T) {
	m := material.New(0, "tinted")
	m.DoubleSided = true
	m.BaseColorFactor = [4]float32{0.5, 0.5, 0.5, 1}
	m.BaseColorTexture = &material.Texture{Path: "albedo.png"}

	g := Compile(m, WithFileExists(allFilesExist))

	bsdf := surfaceNode(t, g)
	mul := producer(t, g, bsdf, inBaseColor)
	require.Equal(t, sg.KindMixRGB, mul.Kind)
	blend, _ := mul.Value("blend")
	assert.Equal(t, "multiply", blend)
	c1, _ := mul.Value("Color1")
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, c1)

	img := producer(t, g, mul, "Color2")
	cs, _ := img.Value("colorspace")
	assert.Equal(t, ColorspaceSRGB, cs)
}

func TestCompileMissingTextureFallsBackToFactor(t *testing.T) {
	m := material.New(0, "missing")
	m.DoubleSided = true
	m.BaseColorFactor = [4]float32{0.2, 0.4, 0.6, 1}
	m.BaseColorTexture = &material.Texture{Path: "gone.png"}
	m.NormalTexture = &material.Texture{Path: "gone_n.png"}

	g := Compile(m, WithFileExists(noFilesExist))

	assert.Empty(t, g.NodesOf(sg.KindImageTexture))
	assert.Empty(t, g.NodesOf(sg.KindNormalMap))
	bsdf := surfaceNode(t, g)
	v, _ := bsdf.Value(inBaseColor)
	assert.Equal(t, [3]float32{0.2, 0.4, 0.6}, v)
}

func TestCompileUVMapping(t *testing.T) {
	m := material.New(0, "uv")
	m.DoubleSided = true
	m.BaseColorTexture = &material.Texture{
		Path:     "a.png",
		TexCoord: 1,
		WrapS:    material.WrapClamp,
		Transform: &material.Transform{
			Offset:   math.Vec2{X: 0.25, Y: 0.5},
			Rotation: 0.5,
			Scale:    math.Vec2{X: 2, Y: 3},
		},
	}

	g := Compile(m, WithFileExists(allFilesExist))

	assert.Equal(t, []string{"1"}, g.Attributes())

	imgs := g.NodesOf(sg.KindImageTexture)
	require.Len(t, imgs, 1)
	ext, _ := imgs[0].Value("extension")
	assert.Equal(t, "extend", ext)

	mapping := producer(t, g, imgs[0], sg.SocketVector)
	require.Equal(t, sg.KindMapping, mapping.Kind)
	loc, _ := mapping.Value("location")
	assert.Equal(t, [3]float32{0.25, 0.5, 0}, loc)
	rot, _ := mapping.Value("rotation")
	assert.Equal(t, [3]float32{0, 0, 0.5}, rot)
	scale, _ := mapping.Value("scale")
	assert.Equal(t, [3]float32{2, -3, 1}, scale)

	uv := producer(t, g, mapping, sg.SocketVector)
	require.Equal(t, sg.KindUVMap, uv.Kind)
	attr, _ := uv.Value("attribute")
	assert.Equal(t, "1", attr)
}

func TestCompileDefaultMappingFlipsV(t *testing.T) {
	m := material.New(0, "flip")
	m.DoubleSided = true
	m.EmissiveTexture = &material.Texture{Path: "e.png"}

	g := Compile(m, WithFileExists(allFilesExist))

	maps := g.NodesOf(sg.KindMapping)
	require.Len(t, maps, 1)
	loc, _ := maps[0].Value("location")
	assert.Equal(t, [3]float32{0, 1, 0}, loc)
	scale, _ := maps[0].Value("scale")
	assert.Equal(t, [3]float32{1, -1, 1}, scale)

	imgs := g.NodesOf(sg.KindImageTexture)
	require.Len(t, imgs, 1)
	ext, _ := imgs[0].Value("extension")
	assert.Equal(t, "repeat", ext)
}

func TestCompileMetallicRoughnessTexture(t *testing.T) {
	m := material.New(0, "mr")
	m.DoubleSided = true
	m.RoughnessFactor = 0.5
	m.MetallicRoughnessTexture = &material.Texture{Path: "mr.png"}

	g := Compile(m, WithFileExists(allFilesExist))

	bsdf := surfaceNode(t, g)

	rough, ok := g.Producer(bsdf, inRoughness)
	require.True(t, ok)
	require.Equal(t, sg.KindMath, rough.Node.Kind)
	src, ok := g.Producer(rough.Node, "Value2")
	require.True(t, ok)
	assert.Equal(t, sg.KindSeparateRGB, src.Node.Kind)
	assert.Equal(t, "G", src.Socket)

	metal, ok := g.Producer(bsdf, inMetallic)
	require.True(t, ok)
	assert.Equal(t, sg.KindSeparateRGB, metal.Node.Kind)
	assert.Equal(t, "B", metal.Socket)

	img := g.NodesOf(sg.KindImageTexture)[0]
	cs, _ := img.Value("colorspace")
	assert.Equal(t, ColorspaceLinear, cs)
}

func TestCompileNormalMap(t *testing.T) {
	m := material.New(0, "bumpy")
	m.DoubleSided = true
	m.NormalScale = 0.75
	m.NormalTexture = &material.Texture{Path: "n.png", TexCoord: 2}

	g := Compile(m, WithFileExists(allFilesExist))

	bsdf := surfaceNode(t, g)
	nm := producer(t, g, bsdf, inNormal)
	require.Equal(t, sg.KindNormalMap, nm.Kind)
	strength, _ := nm.Value("Strength")
	assert.Equal(t, float32(0.75), strength)
	attr, _ := nm.Value("attribute")
	assert.Equal(t, "2", attr)

	img := producer(t, g, nm, sg.SocketColor)
	cs, _ := img.Value("colorspace")
	assert.Equal(t, ColorspaceNonColor, cs)
}

func TestCompileVolume(t *testing.T) {
	m := material.New(0, "glass")
	m.DoubleSided = true
	m.Volume = &material.Volume{AttenuationDistance: 2, AttenuationColor: [3]float32{0.9, 0.8, 0.7}}

	g := Compile(m)

	ep, ok := g.Producer(g.Output(), sg.SocketVolume)
	require.True(t, ok)
	require.Equal(t, sg.KindAbsorptionVolume, ep.Node.Kind)
	d, _ := ep.Node.Value("Density")
	assert.Equal(t, float32(0.5), d)
	c, _ := ep.Node.Value(sg.SocketColor)
	assert.Equal(t, [3]float32{0.9, 0.8, 0.7}, c)
}

func TestCompileVolumeInfiniteDistance(t *testing.T) {
	m := material.New(0, "clear")
	m.DoubleSided = true
	m.Volume = &material.Volume{AttenuationDistance: math32.Inf(1)}

	g := Compile(m)

	_, ok := g.Producer(g.Output(), sg.SocketVolume)
	assert.False(t, ok)
}

func TestCompileSheen(t *testing.T) {
	color := [3]float32{0.3, 0.2, 0.1}
	rough := float32(0.4)
	m := material.New(0, "cloth")
	m.DoubleSided = true
	m.SheenColorFactor = &color
	m.SheenRoughnessFactor = &rough

	g := Compile(m)

	add := surfaceNode(t, g)
	require.Equal(t, sg.KindAddClosure, add.Kind)
	velvet := producer(t, g, add, "Closure1")
	require.Equal(t, sg.KindVelvetBSDF, velvet.Kind)
	sigma, _ := velvet.Value("Sigma")
	assert.Equal(t, float32(0.4), sigma)
	assert.Equal(t, sg.KindPrincipledBSDF, producer(t, g, add, "Closure2").Kind)
}

func TestCompileExtensionFactors(t *testing.T) {
	transmission := float32(0.8)
	clearcoat := float32(0.6)
	specular := float32(0.2)
	m := material.New(0, "ext")
	m.DoubleSided = true
	m.IOR = 1.33
	m.TransmissionFactor = &transmission
	m.ClearcoatFactor = &clearcoat
	m.SpecularFactor = &specular

	g := Compile(m)

	bsdf := surfaceNode(t, g)
	for key, want := range map[string]float32{
		inTransmission: 0.8,
		inClearcoat:    0.6,
		inSpecular:     0.2,
		inIOR:          1.33,
	} {
		v, ok := bsdf.Value(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}

// channelSource follows an input through an optional multiply node and
// returns the multiply factor (1 without one) and the original producer.
func channelSource(t *testing.T, g *sg.Graph, n *sg.Node, in string) (float32, sg.Endpoint) {
	t.Helper()
	ep, ok := g.Producer(n, in)
	require.True(t, ok, "%s.%s not connected", n.Kind, in)
	if ep.Node.Kind != sg.KindMath {
		return 1, ep
	}
	op, _ := ep.Node.Value("operation")
	require.Equal(t, "multiply", op)
	factor, _ := ep.Node.Value("Value1")
	src, ok := g.Producer(ep.Node, "Value2")
	require.True(t, ok)
	return factor.(float32), src
}

func TestCompileTextureChannels(t *testing.T) {
	half := float32(0.5)
	one := float32(1)
	tests := []struct {
		name       string
		setup      func(m *material.Material)
		target     func(t *testing.T, g *sg.Graph) (*sg.Node, string)
		wantFactor float32
		wantKind   sg.Kind
		wantSocket string
	}{
		{
			name: "transmission red",
			setup: func(m *material.Material) {
				m.TransmissionFactor = &half
				m.TransmissionTexture = &material.Texture{Path: "t.png"}
			},
			target:     bsdfInput(inTransmission),
			wantFactor: 0.5, wantKind: sg.KindSeparateRGB, wantSocket: "R",
		},
		{
			name: "transmission without factor",
			setup: func(m *material.Material) {
				m.TransmissionTexture = &material.Texture{Path: "t.png"}
			},
			target:     bsdfInput(inTransmission),
			wantFactor: 1, wantKind: sg.KindSeparateRGB, wantSocket: "R",
		},
		{
			name: "clearcoat red",
			setup: func(m *material.Material) {
				m.ClearcoatFactor = &half
				m.ClearcoatTexture = &material.Texture{Path: "c.png"}
			},
			target:     bsdfInput(inClearcoat),
			wantFactor: 0.5, wantKind: sg.KindSeparateRGB, wantSocket: "R",
		},
		{
			name: "clearcoat roughness green",
			setup: func(m *material.Material) {
				m.ClearcoatRoughnessFactor = &half
				m.ClearcoatRoughnessTexture = &material.Texture{Path: "cr.png"}
			},
			target:     bsdfInput(inClearcoatRoughness),
			wantFactor: 0.5, wantKind: sg.KindSeparateRGB, wantSocket: "G",
		},
		{
			name: "specular alpha scaled",
			setup: func(m *material.Material) {
				m.SpecularFactor = &half
				m.SpecularTexture = &material.Texture{Path: "s.png"}
			},
			target:     bsdfInput(inSpecular),
			wantFactor: 0.5, wantKind: sg.KindImageTexture, wantSocket: sg.SocketAlpha,
		},
		{
			name: "specular alpha unscaled",
			setup: func(m *material.Material) {
				m.SpecularFactor = &one
				m.SpecularTexture = &material.Texture{Path: "s.png"}
			},
			target:     bsdfInput(inSpecular),
			wantFactor: 1, wantKind: sg.KindImageTexture, wantSocket: sg.SocketAlpha,
		},
		{
			name: "sheen roughness alpha scaled",
			setup: func(m *material.Material) {
				m.SheenRoughnessFactor = &half
				m.SheenRoughnessTexture = &material.Texture{Path: "sr.png"}
			},
			target:     velvetInput("Sigma"),
			wantFactor: 0.5, wantKind: sg.KindImageTexture, wantSocket: sg.SocketAlpha,
		},
		{
			name: "sheen roughness alpha unscaled",
			setup: func(m *material.Material) {
				m.SheenRoughnessFactor = &one
				m.SheenRoughnessTexture = &material.Texture{Path: "sr.png"}
			},
			target:     velvetInput("Sigma"),
			wantFactor: 1, wantKind: sg.KindImageTexture, wantSocket: sg.SocketAlpha,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := material.New(0, tt.name)
			m.DoubleSided = true
			tt.setup(m)

			g := Compile(m, WithFileExists(allFilesExist))

			n, in := tt.target(t, g)
			factor, src := channelSource(t, g, n, in)
			assert.Equal(t, tt.wantFactor, factor)
			assert.Equal(t, tt.wantKind, src.Node.Kind)
			assert.Equal(t, tt.wantSocket, src.Socket)
			if src.Node.Kind == sg.KindSeparateRGB {
				img := producer(t, g, src.Node, "Image")
				assert.Equal(t, sg.KindImageTexture, img.Kind)
			}
		})
	}
}

func bsdfInput(in string) func(*testing.T, *sg.Graph) (*sg.Node, string) {
	return func(t *testing.T, g *sg.Graph) (*sg.Node, string) {
		nodes := g.NodesOf(sg.KindPrincipledBSDF)
		require.Len(t, nodes, 1)
		return nodes[0], in
	}
}

func velvetInput(in string) func(*testing.T, *sg.Graph) (*sg.Node, string) {
	return func(t *testing.T, g *sg.Graph) (*sg.Node, string) {
		nodes := g.NodesOf(sg.KindVelvetBSDF)
		require.Len(t, nodes, 1)
		return nodes[0], in
	}
}

func TestCompileSheenColorDefaultsToBlack(t *testing.T) {
	m := material.New(0, "dark-cloth")
	m.DoubleSided = true
	m.SheenColorTexture = &material.Texture{Path: "sheen.png"}

	g := Compile(m, WithFileExists(allFilesExist))

	velvets := g.NodesOf(sg.KindVelvetBSDF)
	require.Len(t, velvets, 1)
	color, _ := velvets[0].Value(sg.SocketColor)
	assert.Equal(t, [3]float32{0, 0, 0}, color)

	mix := producer(t, g, velvets[0], sg.SocketColor)
	require.Equal(t, sg.KindMixRGB, mix.Kind)
	tint, _ := mix.Value("Color1")
	assert.Equal(t, [3]float32{0, 0, 0}, tint)
	assert.Equal(t, sg.KindImageTexture, producer(t, g, mix, "Color2").Kind)
}

func TestCompileSheenTriggers(t *testing.T) {
	rough := float32(0.3)
	tests := []struct {
		name  string
		setup func(m *material.Material)
	}{
		{"roughness factor", func(m *material.Material) { m.SheenRoughnessFactor = &rough }},
		{"roughness texture", func(m *material.Material) {
			m.SheenRoughnessTexture = &material.Texture{Path: "sr.png"}
		}},
		{"color texture", func(m *material.Material) {
			m.SheenColorTexture = &material.Texture{Path: "sc.png"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := material.New(0, tt.name)
			m.DoubleSided = true
			tt.setup(m)

			g := Compile(m, WithFileExists(allFilesExist))

			assert.Len(t, g.NodesOf(sg.KindVelvetBSDF), 1)
			assert.Equal(t, sg.KindAddClosure, surfaceNode(t, g).Kind)
		})
	}

	plain := material.New(0, "plain")
	plain.DoubleSided = true
	assert.Empty(t, Compile(plain).NodesOf(sg.KindVelvetBSDF))
}

func TestCompileSpecularSkippedForSpecularGlossiness(t *testing.T) {
	specular := float32(0.3)
	m := material.New(0, "legacy-specular")
	m.DoubleSided = true
	m.SpecularGlossiness = &material.SpecularGlossiness{
		DiffuseFactor:    [4]float32{1, 1, 1, 1},
		SpecularFactor:   [3]float32{0.5, 0.5, 0.5},
		GlossinessFactor: 0.5,
	}
	m.SpecularFactor = &specular
	m.SpecularTexture = &material.Texture{Path: "s.png"}

	g := Compile(m, WithFileExists(allFilesExist))

	bsdf := surfaceNode(t, g)
	_, set := bsdf.Value(inSpecular)
	assert.False(t, set)
	_, connected := g.Producer(bsdf, inSpecular)
	assert.False(t, connected)
	assert.Empty(t, g.NodesOf(sg.KindImageTexture))
}

func TestCompileSpecularGlossiness(t *testing.T) {
	m := material.New(0, "legacy")
	m.DoubleSided = true
	m.SpecularGlossiness = &material.SpecularGlossiness{
		DiffuseFactor:    [4]float32{0, 0, 0, 1},
		SpecularFactor:   [3]float32{0.04, 0.04, 0.04},
		GlossinessFactor: 1,
	}

	g := Compile(m)

	bsdf := surfaceNode(t, g)
	metallic, _ := bsdf.Value(inMetallic)
	roughness, _ := bsdf.Value(inRoughness)
	assert.InDelta(t, 0, metallic, 1e-4)
	assert.InDelta(t, 0, roughness, 1e-4)
}

func TestCompileSpecularGlossinessTexture(t *testing.T) {
	m := material.New(0, "legacy-tex")
	m.DoubleSided = true
	m.SpecularGlossiness = &material.SpecularGlossiness{
		DiffuseFactor:             [4]float32{1, 1, 1, 1},
		SpecularFactor:            [3]float32{1, 1, 1},
		GlossinessFactor:          1,
		SpecularGlossinessTexture: &material.Texture{Path: "sg.png"},
	}

	g := Compile(m, WithFileExists(allFilesExist))

	bsdf := surfaceNode(t, g)
	specular, ok := g.Producer(bsdf, inSpecular)
	require.True(t, ok)
	assert.Equal(t, sg.KindSeparateHSV, specular.Node.Kind)
	assert.Equal(t, "V", specular.Socket)

	invert := producer(t, g, bsdf, inRoughness)
	require.Equal(t, sg.KindMath, invert.Kind)
	op, _ := invert.Value("operation")
	assert.Equal(t, "subtract", op)
}

func TestConvertSpecularGlossiness(t *testing.T) {
	tests := []struct {
		name         string
		diffuse      [4]float32
		specular     [3]float32
		glossiness   float32
		wantMetallic float32
		wantRough    float32
	}{
		{"dielectric", [4]float32{0.5, 0.5, 0.5, 1}, [3]float32{0.04, 0.04, 0.04}, 0.5, 0, 0.5},
		{"black dielectric", [4]float32{0, 0, 0, 1}, [3]float32{0.04, 0.04, 0.04}, 1, 0, 0},
		{"pure metal", [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1}, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, metallic, roughness := ConvertSpecularGlossiness(tt.diffuse, tt.specular, tt.glossiness)
			assert.InDelta(t, tt.wantMetallic, metallic, 1e-3)
			assert.InDelta(t, tt.wantRough, roughness, 1e-6)
			assert.Equal(t, tt.diffuse[3], base[3])
			for _, c := range base[:3] {
				assert.GreaterOrEqual(t, c, float32(0))
				assert.LessOrEqual(t, c, float32(1))
			}
		})
	}
}

func TestLightShader(t *testing.T) {
	g := LightShader("sun", [3]float32{1, 0.9, 0.8}, 3)

	em := surfaceNode(t, g)
	require.Equal(t, sg.KindEmission, em.Kind)
	s, _ := em.Value("Strength")
	assert.Equal(t, float32(3), s)
}

type fakeSource struct {
	materials map[int]*material.Material
	calls     int
}

func (f *fakeSource) Get(index int) *material.Material {
	f.calls++
	if m, ok := f.materials[index]; ok {
		return m
	}
	return material.Default()
}

func TestCacheMemoizes(t *testing.T) {
	src := &fakeSource{materials: map[int]*material.Material{
		0: material.New(0, "a"),
		1: material.New(1, "b"),
	}}
	c := NewCache(src)

	g1 := c.Shader(0, nil, -1)
	g2 := c.Shader(0, nil, -1)
	assert.Same(t, g1, g2)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, c.Len())
}

func TestCacheDefaultMaterialShared(t *testing.T) {
	c := NewCache(&fakeSource{})

	g1 := c.Shader(material.DefaultIndex, nil, -1)
	g2 := c.Shader(42, nil, -1)
	assert.Same(t, g1, g2)
	assert.Equal(t, "default", g1.Name)
}

func TestCacheVariants(t *testing.T) {
	src := &fakeSource{materials: map[int]*material.Material{
		0: material.New(0, "red"),
		1: material.New(1, "blue"),
	}}
	c := NewCache(src)
	variants := map[int]int{2: 1}

	assert.Equal(t, "red", c.Shader(0, variants, -1).Name)
	assert.Equal(t, "red", c.Shader(0, variants, 0).Name)
	assert.Equal(t, "blue", c.Shader(0, variants, 2).Name)
}

func TestResolve(t *testing.T) {
	variants := map[int]int{0: 5, 1: 6}
	assert.Equal(t, 3, Resolve(3, variants, -1))
	assert.Equal(t, 5, Resolve(3, variants, 0))
	assert.Equal(t, 6, Resolve(3, variants, 1))
	assert.Equal(t, 3, Resolve(3, variants, 9))
	assert.Equal(t, 3, Resolve(3, nil, 0))
}
