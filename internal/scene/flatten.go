package scene

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/internal/material"
	"github.com/Faultbox/gltfview/pkg/gltfext"
	"github.com/Faultbox/gltfview/pkg/math"
)

// ErrNoScenes is returned when a document declares no scenes.
var ErrNoScenes = errors.New("document has no scenes")

// MaterialSource provides material descriptors by index.
type MaterialSource interface {
	Get(index int) *material.Material
}

type flattener struct {
	doc    *gltf.Document
	lib    MaterialSource
	lights []*gltfext.Light
	log    *zap.Logger
}

// Flatten walks every scene of doc and returns its meshes, lights and
// cameras in world space. Primitives that cannot be read are dropped.
// When lib is not nil, meshes whose material has a normal map get
// tangents generated if the document does not provide them.
func Flatten(doc *gltf.Document, lib MaterialSource) ([]*Scene, error) {
	if doc == nil || len(doc.Scenes) == 0 {
		return nil, ErrNoScenes
	}

	f := &flattener{
		doc: doc,
		lib: lib,
		log: logger.Named("scene"),
	}

	lights, err := gltfext.DocumentLights(doc)
	if err != nil {
		f.log.Warn("reading lights", zap.Error(err))
	}
	f.lights = lights

	scenes := make([]*Scene, 0, len(doc.Scenes))
	for i, s := range doc.Scenes {
		scenes = append(scenes, f.scene(i, s))
	}
	return scenes, nil
}

func (f *flattener) scene(index int, s *gltf.Scene) *Scene {
	out := &Scene{Name: s.Name}
	if out.Name == "" {
		out.Name = fmt.Sprintf("Scene %d", index)
	}

	visiting := make(map[int]bool)
	for _, root := range s.Nodes {
		f.walk(out, root, math.Identity(), visiting)
	}

	if len(out.Meshes) > 0 {
		out.Bounds = emptyBounds()
		for _, m := range out.Meshes {
			for _, p := range m.Positions {
				out.Bounds.extend(p)
			}
		}
	}

	f.log.Debug("flattened scene",
		zap.String("scene", out.Name),
		zap.Int("meshes", len(out.Meshes)),
		zap.Int("lights", len(out.Lights)),
		zap.Int("cameras", len(out.Cameras)))
	return out
}

// walk visits a node and its subtree depth first.
func (f *flattener) walk(s *Scene, index int, parent math.Mat4, visiting map[int]bool) {
	if index < 0 || index >= len(f.doc.Nodes) {
		f.log.Debug("node index out of range", zap.Int("node", index))
		return
	}
	if visiting[index] {
		f.log.Warn("node cycle", zap.Int("node", index))
		return
	}
	visiting[index] = true
	defer delete(visiting, index)

	node := f.doc.Nodes[index]
	world := parent.Mul(localTransform(node))

	if node.Mesh != nil {
		f.mesh(s, node, *node.Mesh, world)
	}
	if node.Camera != nil {
		if c := f.camera(*node.Camera, world); c != nil {
			s.Cameras = append(s.Cameras, c)
		}
	}
	if l := f.light(node, world); l != nil {
		s.Lights = append(s.Lights, l)
	}

	for _, child := range node.Children {
		f.walk(s, child, world, visiting)
	}
}

// localTransform returns the node matrix, or T*R*S when the node has none.
func localTransform(node *gltf.Node) math.Mat4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return math.FromColumnMajor(m)
	}
	t := node.TranslationOrDefault()
	s := node.ScaleOrDefault()
	return math.FromTRS(
		math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		math.QuatFromXYZW(node.RotationOrDefault()),
		math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	)
}

func (f *flattener) mesh(s *Scene, node *gltf.Node, index int, world math.Mat4) {
	if index < 0 || index >= len(f.doc.Meshes) {
		f.log.Debug("mesh index out of range", zap.Int("mesh", index))
		return
	}
	src := f.doc.Meshes[index]

	for i, prim := range src.Primitives {
		log := f.log.With(zap.Int("mesh", index), zap.Int("primitive", i))
		if prim.Mode != gltf.PrimitiveTriangles {
			log.Debug("skipping non-triangle primitive", zap.Int("mode", int(prim.Mode)))
			continue
		}

		m, err := f.primitive(prim, world)
		if err != nil {
			log.Debug("dropping primitive", zap.Error(err))
			continue
		}
		m.Name = primitiveName(node, src, i)
		f.ensureTangents(log, m)
		s.Meshes = append(s.Meshes, m)
	}
}

func primitiveName(node *gltf.Node, mesh *gltf.Mesh, prim int) string {
	name := mesh.Name
	if name == "" {
		name = node.Name
	}
	if len(mesh.Primitives) > 1 {
		name = fmt.Sprintf("%s.%d", name, prim)
	}
	return name
}

// primitive reads and transforms the vertex data of a triangle primitive.
func (f *flattener) primitive(prim *gltf.Primitive, world math.Mat4) (*Mesh, error) {
	m := &Mesh{
		Material:  material.DefaultIndex,
		Transform: world,
	}
	if prim.Material != nil {
		m.Material = *prim.Material
	}

	posAcr, ok := f.accessor(prim.Attributes, "POSITION")
	if !ok {
		return nil, fmt.Errorf("%w: no positions", ErrInvalidMesh)
	}
	positions, err := modeler.ReadPosition(f.doc, posAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	for i, p := range positions {
		positions[i] = world.TransformPoint(p)
	}
	m.Positions = positions

	if acr, ok := f.accessor(prim.Attributes, "NORMAL"); ok {
		normals, err := modeler.ReadNormal(f.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		for i, n := range normals {
			normals[i] = world.TransformNormal(n)
		}
		m.Normals = normals
	}

	if acr, ok := f.accessor(prim.Attributes, "TANGENT"); ok {
		tangents, err := modeler.ReadTangent(f.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading tangents: %w", err)
		}
		for i, t := range tangents {
			d := world.TransformNormal([3]float32{t[0], t[1], t[2]})
			tangents[i] = [4]float32{d[0], d[1], d[2], t[3]}
		}
		m.Tangents = tangents
	}

	for ch := 0; ; ch++ {
		acr, ok := f.accessor(prim.Attributes, fmt.Sprintf("TEXCOORD_%d", ch))
		if !ok {
			break
		}
		uv, err := modeler.ReadTextureCoord(f.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading TEXCOORD_%d: %w", ch, err)
		}
		m.TexCoords = append(m.TexCoords, uv)
	}

	if prim.Indices != nil {
		if *prim.Indices < 0 || *prim.Indices >= len(f.doc.Accessors) {
			return nil, fmt.Errorf("%w: index accessor %d out of range", ErrInvalidMesh, *prim.Indices)
		}
		indices, err := modeler.ReadIndices(f.doc, f.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		m.Indices = indices
	} else {
		m.Indices = make([]uint32, len(m.Positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}

	variants, err := gltfext.PrimitiveVariants(prim)
	if err != nil {
		f.log.Debug("ignoring malformed variant mapping", zap.Error(err))
	}
	m.Variants = variants

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (f *flattener) accessor(attrs map[string]int, name string) (*gltf.Accessor, bool) {
	idx, ok := attrs[name]
	if !ok || idx < 0 || idx >= len(f.doc.Accessors) {
		return nil, false
	}
	return f.doc.Accessors[idx], true
}

// ensureTangents generates tangents for meshes whose material samples a
// normal map and whose document omits them.
func (f *flattener) ensureTangents(log *zap.Logger, m *Mesh) {
	if f.lib == nil {
		return
	}
	mat := f.lib.Get(m.Material)
	if mat.NormalTexture == nil {
		return
	}
	channel := mat.NormalTexture.TexCoord
	if !m.HasTexCoord(channel) {
		log.Warn("normal map UV channel missing on mesh",
			zap.String("material", mat.Name),
			zap.Int("channel", channel),
			zap.Int("channels", len(m.TexCoords)))
		return
	}
	if !m.NeedsTangents(channel) {
		return
	}
	if err := m.GenerateTangents(channel); err != nil {
		log.Debug("tangent generation degraded", zap.Error(err))
	}
}

func (f *flattener) camera(index int, world math.Mat4) *Camera {
	if index < 0 || index >= len(f.doc.Cameras) {
		f.log.Debug("camera index out of range", zap.Int("camera", index))
		return nil
	}
	src := f.doc.Cameras[index]
	c := &Camera{Name: src.Name, Transform: world}

	switch {
	case src.Perspective != nil:
		p := src.Perspective
		c.Projection = Perspective
		c.FOV = float32(p.Yfov) * 180 / math32.Pi
		c.Near = float32(p.Znear)
		if p.Zfar != nil {
			c.Far = float32(*p.Zfar)
		}
		if p.AspectRatio != nil {
			c.AspectRatio = float32(*p.AspectRatio)
		}
	case src.Orthographic != nil:
		o := src.Orthographic
		c.Projection = Orthographic
		c.XMag = float32(o.Xmag)
		c.YMag = float32(o.Ymag)
		c.Near = float32(o.Znear)
		c.Far = float32(o.Zfar)
	default:
		f.log.Debug("camera without projection", zap.Int("camera", index))
		return nil
	}
	return c
}

func (f *flattener) light(node *gltf.Node, world math.Mat4) *Light {
	idx, ok, err := gltfext.NodeLightIndex(node)
	if err != nil {
		f.log.Debug("ignoring malformed light reference", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	if idx >= len(f.lights) || f.lights[idx] == nil {
		f.log.Debug("light index out of range", zap.Int("light", idx))
		return nil
	}
	src := f.lights[idx]
	dir := world.TransformNormal([3]float32{0, 0, -1})
	return &Light{
		Name:           src.Name,
		Type:           src.Type,
		Color:          src.Color,
		Intensity:      src.Intensity,
		Range:          src.Range,
		InnerConeAngle: src.InnerConeAngle,
		OuterConeAngle: src.OuterConeAngle,
		Transform:      world,
		Position:       world.Translation(),
		Direction:      math.V3(dir),
	}
}
