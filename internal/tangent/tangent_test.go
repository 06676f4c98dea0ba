package tangent

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gltfview/pkg/math"
)

type tangentOut struct {
	t    [3]float32
	sign float32
}

// triMesh is an indexed triangle list.
type triMesh struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	indices   []int
	out       map[[2]int]tangentOut
}

func (m *triMesh) NumFaces() int { return len(m.indices) / 3 }

func (m *triMesh) vertex(face, corner int) int { return m.indices[face*3+corner] }

func (m *triMesh) Position(face, corner int) [3]float32 {
	return m.positions[m.vertex(face, corner)]
}

func (m *triMesh) Normal(face, corner int) [3]float32 {
	return m.normals[m.vertex(face, corner)]
}

func (m *triMesh) TexCoord(face, corner int) [2]float32 {
	return m.uvs[m.vertex(face, corner)]
}

func (m *triMesh) SetTangent(face, corner int, t [3]float32, sign float32) {
	if m.out == nil {
		m.out = make(map[[2]int]tangentOut)
	}
	m.out[[2]int{face, corner}] = tangentOut{t, sign}
}

// quad returns a unit square in the XY plane facing +Z with UVs produced
// by uv from the XY position.
func quad(uv func(x, y float32) [2]float32) *triMesh {
	pos := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	m := &triMesh{positions: pos, indices: []int{0, 1, 2, 0, 2, 3}}
	for _, p := range pos {
		m.normals = append(m.normals, [3]float32{0, 0, 1})
		m.uvs = append(m.uvs, uv(p[0], p[1]))
	}
	return m
}

func assertVec(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

func TestGeneratePlanar(t *testing.T) {
	tests := []struct {
		name     string
		uv       func(x, y float32) [2]float32
		wantT    [3]float32
		wantSign float32
	}{
		{"aligned", func(x, y float32) [2]float32 { return [2]float32{x, y} }, [3]float32{1, 0, 0}, 1},
		{"mirrored u", func(x, y float32) [2]float32 { return [2]float32{-x, y} }, [3]float32{-1, 0, 0}, -1},
		{"flipped v", func(x, y float32) [2]float32 { return [2]float32{x, -y} }, [3]float32{1, 0, 0}, -1},
		{"rotated", func(x, y float32) [2]float32 { return [2]float32{y, x} }, [3]float32{0, 1, 0}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := quad(tt.uv)
			require.NoError(t, Generate(m))
			require.Len(t, m.out, 6)
			for _, o := range m.out {
				assertVec(t, tt.wantT, o.t)
				assert.Equal(t, tt.wantSign, o.sign)
			}
		})
	}
}

func TestGenerateOrthogonalToNormal(t *testing.T) {
	m := quad(func(x, y float32) [2]float32 { return [2]float32{x, y} })
	// Tilt the normals; tangents must follow.
	n := math.Vec3{X: 0.3, Y: 0, Z: 1}.Normalize().Array()
	for i := range m.normals {
		m.normals[i] = n
	}

	require.NoError(t, Generate(m))
	for _, o := range m.out {
		tv := math.V3(o.t)
		assert.InDelta(t, 0, tv.Dot(math.V3(n)), 1e-5)
		assert.InDelta(t, 1, tv.Length(), 1e-5)
	}
}

func TestGenerateWeldsSharedCorners(t *testing.T) {
	// Two faces folded along the shared edge (0,0,0)-(1,1,0) with distinct
	// UV gradients; shared corners must agree.
	m := &triMesh{
		positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0.5}},
		uvs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 2}},
		indices:   []int{0, 1, 2, 0, 2, 3},
	}
	for range m.positions {
		m.normals = append(m.normals, [3]float32{0, 0, 1})
	}

	require.NoError(t, Generate(m))
	assert.Equal(t, m.out[[2]int{0, 0}], m.out[[2]int{1, 0}])
	assert.Equal(t, m.out[[2]int{0, 2}], m.out[[2]int{1, 1}])
}

func TestGenerateSeamNotWelded(t *testing.T) {
	// Same position with different UVs stays split.
	m := &triMesh{
		positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}, {0, 1, 0}, {-1, 0, 0}},
		uvs:       [][2]float32{{0, 0}, {1, 0}, {0, 1}, {1, 0}, {1, 1}, {0, 0}},
		indices:   []int{0, 1, 2, 3, 4, 5},
	}
	for range m.positions {
		m.normals = append(m.normals, [3]float32{0, 0, 1})
	}

	require.NoError(t, Generate(m))
	assertVec(t, [3]float32{1, 0, 0}, m.out[[2]int{0, 0}].t)
	assertVec(t, [3]float32{1, 0, 0}, m.out[[2]int{1, 0}].t)
}

func TestGenerateDeterministic(t *testing.T) {
	build := func() *triMesh {
		m := &triMesh{indices: []int{0, 1, 2, 2, 1, 3, 2, 3, 4, 4, 3, 5}}
		for i := 0; i < 6; i++ {
			x := float32(i / 2)
			y := float32(i % 2)
			z := math32.Sin(x) * 0.3
			m.positions = append(m.positions, [3]float32{x, y, z})
			m.normals = append(m.normals, math.Vec3{X: -0.3 * math32.Cos(x), Z: 1}.Normalize().Array())
			m.uvs = append(m.uvs, [2]float32{x * 0.37, y*1.1 + x*0.05})
		}
		return m
	}

	a, b := build(), build()
	require.NoError(t, Generate(a))
	require.NoError(t, Generate(b))
	assert.Equal(t, a.out, b.out)
}

func TestGenerateNoFaces(t *testing.T) {
	err := Generate(&triMesh{})
	assert.ErrorIs(t, err, ErrNoFaces)
}

func TestGenerateDegenerateUV(t *testing.T) {
	m := quad(func(x, y float32) [2]float32 { return [2]float32{0.5, 0.5} })

	err := Generate(m)
	assert.ErrorIs(t, err, ErrDegenerate)
	require.Len(t, m.out, 6)
	for _, o := range m.out {
		tv := math.V3(o.t)
		assert.InDelta(t, 1, tv.Length(), 1e-5)
		assert.InDelta(t, 0, tv.Z, 1e-5)
	}
}
