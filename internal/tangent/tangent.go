// Package tangent generates per-corner tangent frames for triangle meshes
// from positions, normals and texture coordinates.
//
// Corners that share an identical position, normal and UV are welded: their
// face tangents are accumulated with angle weights so that adjacent faces
// agree on one tangent. Results depend only on face order.
package tangent

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gltfview/pkg/math"
)

// Generator errors.
var (
	ErrNoFaces = errors.New("geometry has no faces")
	// ErrDegenerate is returned when no face has a usable UV mapping.
	// Fallback tangents are still written.
	ErrDegenerate = errors.New("all faces have degenerate texture coordinates")
)

// Geometry is a triangle mesh the generator reads from and writes to.
// Faces always have three corners.
type Geometry interface {
	NumFaces() int
	Position(face, corner int) [3]float32
	Normal(face, corner int) [3]float32
	TexCoord(face, corner int) [2]float32
	// SetTangent receives a unit tangent orthogonal to the corner normal and
	// the bitangent sign (+1 or -1).
	SetTangent(face, corner int, tangent [3]float32, sign float32)
}

const uvEpsilon = 1e-12

type cornerKey struct {
	pos    [3]float32
	normal [3]float32
	uv     [2]float32
}

type accum struct {
	tangent   math.Vec3
	bitangent math.Vec3
}

// Generate computes and writes a tangent for every corner of g.
func Generate(g Geometry) error {
	n := g.NumFaces()
	if n == 0 {
		return ErrNoFaces
	}

	groups := make(map[cornerKey]int)
	sums := make([]accum, 0, n*3)
	group := make([]int, n*3)
	usable := 0

	for f := 0; f < n; f++ {
		var p [3]math.Vec3
		var uv [3][2]float32
		for c := 0; c < 3; c++ {
			p[c] = math.V3(g.Position(f, c))
			uv[c] = g.TexCoord(f, c)
		}

		t, b, ok := faceFrame(p, uv)
		if ok {
			usable++
		}

		for c := 0; c < 3; c++ {
			key := cornerKey{pos: p[c].Array(), normal: g.Normal(f, c), uv: uv[c]}
			id, seen := groups[key]
			if !seen {
				id = len(sums)
				groups[key] = id
				sums = append(sums, accum{})
			}
			group[f*3+c] = id

			if !ok {
				continue
			}
			w := cornerAngle(p, c)
			sums[id].tangent = sums[id].tangent.Add(t.Scale(w))
			sums[id].bitangent = sums[id].bitangent.Add(b.Scale(w))
		}
	}

	for f := 0; f < n; f++ {
		for c := 0; c < 3; c++ {
			s := sums[group[f*3+c]]
			normal := math.V3(g.Normal(f, c)).Normalize()
			t, sign := orthogonalize(normal, s.tangent, s.bitangent)
			g.SetTangent(f, c, t.Array(), sign)
		}
	}

	if usable == 0 {
		return ErrDegenerate
	}
	return nil
}

// faceFrame returns the unnormalized tangent and bitangent of a triangle,
// the directions of increasing u and v across its surface.
func faceFrame(p [3]math.Vec3, uv [3][2]float32) (t, b math.Vec3, ok bool) {
	e1 := p[1].Sub(p[0])
	e2 := p[2].Sub(p[0])
	du1, dv1 := uv[1][0]-uv[0][0], uv[1][1]-uv[0][1]
	du2, dv2 := uv[2][0]-uv[0][0], uv[2][1]-uv[0][1]

	det := du1*dv2 - du2*dv1
	if math32.Abs(det) < uvEpsilon {
		return math.Vec3{}, math.Vec3{}, false
	}
	r := 1 / det
	t = e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(r)
	b = e2.Scale(du1).Sub(e1.Scale(du2)).Scale(r)
	if t.Length() == 0 {
		return math.Vec3{}, math.Vec3{}, false
	}
	return t.Normalize(), b.Normalize(), true
}

// cornerAngle returns the interior angle of triangle p at corner c.
func cornerAngle(p [3]math.Vec3, c int) float32 {
	a := p[(c+1)%3].Sub(p[c]).Normalize()
	b := p[(c+2)%3].Sub(p[c]).Normalize()
	d := math32.Max(-1, math32.Min(1, a.Dot(b)))
	return math32.Acos(d)
}

// orthogonalize projects t onto the plane of normal and derives the
// handedness sign from b. A tangent that vanishes falls back to an
// arbitrary direction perpendicular to the normal.
func orthogonalize(normal, t, b math.Vec3) (math.Vec3, float32) {
	out := t.Sub(normal.Scale(normal.Dot(t))).Normalize()
	if out.Length() == 0 {
		out = perpendicular(normal)
	}
	sign := float32(1)
	if normal.Cross(out).Dot(b) < 0 {
		sign = -1
	}
	return out, sign
}

func perpendicular(n math.Vec3) math.Vec3 {
	axis := math.Vec3{X: 1}
	if math32.Abs(n.X) > 0.9 {
		axis = math.Vec3{Y: 1}
	}
	p := axis.Sub(n.Scale(n.Dot(axis))).Normalize()
	if p.Length() == 0 {
		return axis
	}
	return p
}
