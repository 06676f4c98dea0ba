// Package camera frames a flattened scene: it validates client camera
// parameters or places a preset camera so the scene bounds fill the view.
package camera

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gltfview/internal/scene"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Defaults applied when parameters are missing or invalid.
const (
	DefaultNear float32 = 1e-6
	DefaultFar  float32 = 1e9
	DefaultFOV  float32 = 30

	minFOV float32 = 1
	maxFOV float32 = 180
)

// Preset is a canned view direction.
type Preset int

// Camera presets.
const (
	PresetNone Preset = iota
	PresetFront
	PresetBack
	PresetLeft
	PresetRight
	PresetTop
	PresetBottom
)

var presetNames = []string{"none", "front", "back", "left", "right", "top", "bottom"}

// String returns the preset name.
func (p Preset) String() string {
	if p >= 0 && int(p) < len(presetNames) {
		return presetNames[p]
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// ParsePreset parses a case-insensitive preset name. An empty name is
// PresetNone.
func ParsePreset(s string) (Preset, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return PresetNone, nil
	}
	for i, n := range presetNames {
		if n == name {
			return Preset(i), nil
		}
	}
	return PresetNone, fmt.Errorf("unknown camera preset %q", s)
}

// Params are the camera parameters supplied by a client.
type Params struct {
	Projection scene.Projection
	// Transform is the camera-to-world matrix. Ignored with a preset.
	Transform math.Mat4
	Near      float32
	Far       float32
	// FOV is the vertical field of view in degrees.
	FOV         float32
	OrthoWidth  float32
	OrthoHeight float32
	Preset      Preset
}

// DefaultParams returns parameters for an identity camera with the
// default clip planes and field of view.
func DefaultParams() Params {
	return Params{
		Transform: math.Identity(),
		Near:      DefaultNear,
		Far:       DefaultFar,
		FOV:       DefaultFOV,
	}
}

// Camera is a framed camera ready for rendering.
type Camera struct {
	Projection scene.Projection
	// Transform is the camera-to-world matrix; the camera looks down -Z.
	Transform math.Mat4
	Near      float32
	Far       float32
	// FOV is the vertical field of view in degrees.
	FOV         float32
	OrthoWidth  float32
	OrthoHeight float32
	Preset      Preset
}

// Position returns the camera position in world space.
func (c Camera) Position() math.Vec3 {
	return c.Transform.Translation()
}

// Forward returns the viewing direction in world space.
func (c Camera) Forward() math.Vec3 {
	return c.Transform.Column(2).Scale(-1).Normalize()
}

// ViewMatrix returns the world-to-camera matrix.
func (c Camera) ViewMatrix() math.Mat4 {
	return c.Transform.Inverse()
}

// ProjectionMatrix returns the perspective projection for a viewport
// aspect ratio.
func (c Camera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(radians(c.FOV), aspect, c.Near, c.Far)
}

// Frame returns the camera for a scene. Without a preset the client
// parameters are validated and used as given; with one, the camera is
// placed so that bounds fill a viewport of aspect width/height.
func Frame(p Params, bounds scene.Bounds, viewAspect float32) Camera {
	c := Camera{
		Projection:  p.Projection,
		Transform:   p.Transform,
		Near:        DefaultNear,
		Far:         DefaultFar,
		FOV:         DefaultFOV,
		OrthoWidth:  p.OrthoWidth,
		OrthoHeight: p.OrthoHeight,
		Preset:      p.Preset,
	}

	if p.Preset == PresetNone {
		if isNormal(p.Near) && p.Near > 0 {
			c.Near = p.Near
		}
		if isNormal(p.Far) && p.Far > p.Near {
			c.Far = p.Far
		}
		c.FOV = clamp(p.FOV, minFOV, maxFOV)
		return c
	}

	if !(viewAspect > 0) || math32.IsInf(viewAspect, 0) {
		viewAspect = 1
	}
	c.Transform = presetTransform(p.Preset, bounds, radians(c.FOV), viewAspect)
	return c
}

// presetTransform places the eye on the preset axis, facing the nearest
// bounds face.
func presetTransform(preset Preset, b scene.Bounds, fov, viewAspect float32) math.Mat4 {
	size := b.Size()
	to := b.Center()
	up := math.Vec3{Y: 1}

	var width, height float32
	switch preset {
	case PresetFront, PresetBack:
		width, height = size.X, size.Y
	case PresetLeft, PresetRight:
		width, height = size.Z, size.Y
	case PresetTop, PresetBottom:
		width, height = size.X, size.Z
		up = math.Vec3{Z: -1}
	}
	d := distance(width, height, fov, viewAspect)

	from := to
	switch preset {
	case PresetFront:
		to.Z = b.Max.Z
		from.Z = to.Z + d
	case PresetBack:
		to.Z = b.Min.Z
		from.Z = to.Z - d
	case PresetLeft:
		to.X = b.Max.X
		from.X = to.X + d
	case PresetRight:
		to.X = b.Min.X
		from.X = to.X - d
	case PresetTop:
		to.Y = b.Max.Y
		from.Y = to.Y + d
	case PresetBottom:
		to.Y = b.Min.Y
		from.Y = to.Y - d
	}
	return math.CameraLookAt(from, to, up)
}

// distance returns how far the eye must be from the facing plane for the
// binding extent to fill the field of view.
func distance(width, height, fov, viewAspect float32) float32 {
	sceneAspect := float32(1)
	if height > 0 {
		sceneAspect = width / height
	}
	if sceneAspect > viewAspect {
		return (width / 2) / math32.Tan(HorizontalFOV(fov, viewAspect)/2)
	}
	return (height / 2) / math32.Tan(fov/2)
}

// HorizontalFOV converts a vertical field of view in radians to the
// horizontal one for an aspect ratio. Fields of view of pi/2 and wider
// return pi/2.
func HorizontalFOV(vertical, aspect float32) float32 {
	if vertical >= math32.Pi/2 {
		return math32.Pi / 2
	}
	return 2 * math32.Atan(math32.Tan(vertical/2)*aspect)
}

// VerticalFOV is the inverse of HorizontalFOV.
func VerticalFOV(horizontal, aspect float32) float32 {
	if aspect <= 0 {
		return horizontal
	}
	if horizontal >= math32.Pi/2 {
		return math32.Pi / 2
	}
	return 2 * math32.Atan(math32.Tan(horizontal/2)/aspect)
}

// FromGLTF converts a camera authored in the document to parameters.
func FromGLTF(c *scene.Camera) Params {
	p := DefaultParams()
	p.Projection = c.Projection
	p.Transform = c.Transform
	p.Near = c.Near
	p.Far = c.Far
	if c.Projection == scene.Perspective {
		p.FOV = c.FOV
	} else {
		p.OrthoWidth = c.XMag
		p.OrthoHeight = c.YMag
	}
	return p
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// isNormal reports whether v is finite, non-zero and not subnormal.
func isNormal(v float32) bool {
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return false
	}
	return math32.Abs(v) >= 0x1p-126
}

func clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) {
		return lo
	}
	return math32.Max(lo, math32.Min(v, hi))
}
