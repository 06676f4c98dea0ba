// Package scene flattens glTF node hierarchies into world-space meshes,
// lights and cameras ready for a renderer.
package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/gltfview/pkg/gltfext"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Scene is one flattened glTF scene.
type Scene struct {
	Name    string
	Meshes  []*Mesh
	Lights  []*Light
	Cameras []*Camera
	// Bounds covers every mesh position; zero when there are no meshes.
	Bounds Bounds
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the box extents.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box center.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b *Bounds) extend(p [3]float32) {
	v := math.V3(p)
	b.Min = b.Min.Min(v)
	b.Max = b.Max.Max(v)
}

// emptyBounds is the identity for extend.
func emptyBounds() Bounds {
	inf := math32.Inf(1)
	return Bounds{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Light is a punctual light placed in world space.
type Light struct {
	Name      string
	Type      gltfext.LightType
	Color     [3]float32
	Intensity float32
	Range     float32
	// Cone angles in radians, spot lights only.
	InnerConeAngle float32
	OuterConeAngle float32

	Transform math.Mat4
	Position  math.Vec3
	// Direction is the light's -Z axis in world space.
	Direction math.Vec3
}

// Strength converts the glTF photometric intensity to radiant watts.
// Point and spot intensities are candela, directional ones lux.
func (l *Light) Strength() float32 {
	const lumensPerWatt = 683
	if l.Type == gltfext.LightDirectional {
		return l.Intensity / lumensPerWatt
	}
	return l.Intensity * 4 * math32.Pi / lumensPerWatt
}

// SpotBlend returns the spot edge softness in [0, 1].
func (l *Light) SpotBlend() float32 {
	if l.OuterConeAngle <= 0 {
		return 0
	}
	return 1 - l.InnerConeAngle/l.OuterConeAngle
}

// SpotSize returns the full spot cone angle in radians.
func (l *Light) SpotSize() float32 {
	return 2 * l.OuterConeAngle
}

// Projection is a camera projection type.
type Projection int

// Camera projections.
const (
	Perspective Projection = iota
	Orthographic
)

// String returns the glTF projection name.
func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Camera is a glTF camera placed in world space.
type Camera struct {
	Name       string
	Projection Projection
	// FOV is the vertical field of view in degrees.
	FOV float32
	// AspectRatio is zero when the document leaves it to the viewport.
	AspectRatio float32
	Near        float32
	// Far is zero for an infinite perspective projection.
	Far float32
	// XMag and YMag are the orthographic half extents.
	XMag float32
	YMag float32

	Transform math.Mat4
}
