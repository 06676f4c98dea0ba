package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gltfview/internal/tangent"
	"github.com/Faultbox/gltfview/pkg/math"
)

// ErrInvalidMesh is returned by Mesh.Validate.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is one triangle primitive in world space.
type Mesh struct {
	Name    string
	Indices []uint32

	Positions [][3]float32
	// Normals is empty when the primitive has none.
	Normals [][3]float32
	// TexCoords holds one slice per UV channel, TEXCOORD_0 first.
	TexCoords [][][2]float32
	// Tangents carry the bitangent sign in w.
	Tangents [][4]float32

	// Material is the glTF material index or material.DefaultIndex.
	Material int
	// Variants maps a variant index to a material override.
	Variants map[int]int

	Transform math.Mat4
}

// NumFaces returns the triangle count.
func (m *Mesh) NumFaces() int {
	return len(m.Indices) / 3
}

// Validate checks that the indices form at least one whole triangle and
// that every index addresses every non-empty vertex attribute.
func (m *Mesh) Validate() error {
	if m.NumFaces() == 0 {
		return fmt.Errorf("%w: no triangles", ErrInvalidMesh)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices do not form whole triangles", ErrInvalidMesh, len(m.Indices))
	}
	if len(m.Positions) == 0 {
		return fmt.Errorf("%w: no positions", ErrInvalidMesh)
	}

	limit := len(m.Positions)
	check := func(n int) {
		if n > 0 && n < limit {
			limit = n
		}
	}
	check(len(m.Normals))
	check(len(m.Tangents))
	for _, tc := range m.TexCoords {
		check(len(tc))
	}

	for i, idx := range m.Indices {
		if int(idx) >= limit {
			return fmt.Errorf("%w: index %d at %d exceeds vertex count %d", ErrInvalidMesh, idx, i, limit)
		}
	}
	return nil
}

// HasTexCoord reports whether UV channel exists.
func (m *Mesh) HasTexCoord(channel int) bool {
	return channel >= 0 && channel < len(m.TexCoords) && len(m.TexCoords[channel]) > 0
}

// NeedsTangents reports whether tangents must be generated for a normal
// map sampling channel.
func (m *Mesh) NeedsTangents(channel int) bool {
	return len(m.Tangents) != len(m.Positions) && m.HasTexCoord(channel)
}

// GenerateTangents replaces the tangents with ones derived from UV channel.
// Tangents are stored per vertex; a vertex shared by faces that disagree
// keeps the value written last.
func (m *Mesh) GenerateTangents(channel int) error {
	if !m.HasTexCoord(channel) {
		return fmt.Errorf("generating tangents: no UV channel %d", channel)
	}
	m.Tangents = make([][4]float32, len(m.Positions))
	if err := tangent.Generate(&meshGeometry{mesh: m, uv: m.TexCoords[channel]}); err != nil {
		return fmt.Errorf("generating tangents: %w", err)
	}
	return nil
}

// meshGeometry exposes a mesh to the tangent generator. V is flipped to
// match the bottom-left UV origin the shading side uses.
type meshGeometry struct {
	mesh *Mesh
	uv   [][2]float32
}

func (g *meshGeometry) NumFaces() int {
	return g.mesh.NumFaces()
}

func (g *meshGeometry) vertex(face, corner int) uint32 {
	return g.mesh.Indices[face*3+corner]
}

func (g *meshGeometry) Position(face, corner int) [3]float32 {
	return g.mesh.Positions[g.vertex(face, corner)]
}

func (g *meshGeometry) Normal(face, corner int) [3]float32 {
	if len(g.mesh.Normals) == 0 {
		return [3]float32{}
	}
	return g.mesh.Normals[g.vertex(face, corner)]
}

func (g *meshGeometry) TexCoord(face, corner int) [2]float32 {
	return math.V2(g.uv[g.vertex(face, corner)]).FlipV().Array()
}

func (g *meshGeometry) SetTangent(face, corner int, t [3]float32, sign float32) {
	g.mesh.Tangents[g.vertex(face, corner)] = [4]float32{t[0], t[1], t[2], sign}
}
