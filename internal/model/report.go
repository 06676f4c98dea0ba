package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/gltfview/internal/camera"
	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/internal/scene"
)

// Report summarizes one flattened scene for printing.
type Report struct {
	File     string         `yaml:"file"`
	Scene    string         `yaml:"scene"`
	Variant  string         `yaml:"variant,omitempty"`
	Meshes   []MeshReport   `yaml:"meshes"`
	Lights   []LightReport  `yaml:"lights,omitempty"`
	Cameras  []string       `yaml:"cameras,omitempty"`
	Bounds   [2][3]float32  `yaml:"bounds,flow"`
	Camera   *CameraReport  `yaml:"camera,omitempty"`
	Shaders  []ShaderReport `yaml:"shaders"`
	Textures map[int]string `yaml:"textures,omitempty"`
	Cache    map[string]int `yaml:"cache"`
}

// MeshReport describes one flattened mesh.
type MeshReport struct {
	Name     string `yaml:"name"`
	Vertices int    `yaml:"vertices"`
	Faces    int    `yaml:"faces"`
	UVs      int    `yaml:"uv_channels"`
	Tangents bool   `yaml:"tangents"`
	Material int    `yaml:"material"`
	Variants int    `yaml:"variants,omitempty"`
}

// LightReport describes one light.
type LightReport struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Strength float32    `yaml:"strength"`
	Position [3]float32 `yaml:"position,flow"`
}

// CameraReport describes the framed camera.
type CameraReport struct {
	Preset     string     `yaml:"preset"`
	Projection string     `yaml:"projection"`
	Position   [3]float32 `yaml:"position,flow"`
	Forward    [3]float32 `yaml:"forward,flow"`
	FOV        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

// ShaderReport lists the node kinds of a compiled shader.
type ShaderReport struct {
	Name  string         `yaml:"name"`
	Nodes map[string]int `yaml:"nodes"`
	UVs   []string       `yaml:"uv_channels,omitempty"`
}

// Report compiles every shader of a scene under a variant and summarizes
// the result. cam may be nil.
func (m *Model) Report(sceneIndex, variant int, cam *camera.Camera) (*Report, error) {
	s, err := m.Scene(sceneIndex)
	if err != nil {
		return nil, err
	}

	r := &Report{
		File:     m.Path,
		Scene:    s.Name,
		Bounds:   [2][3]float32{s.Bounds.Min.Array(), s.Bounds.Max.Array()},
		Textures: m.Textures(),
	}
	if variant >= 0 && variant < len(m.Variants) {
		r.Variant = m.Variants[variant]
	}

	seen := make(map[string]bool)
	for _, mesh := range s.Meshes {
		r.Meshes = append(r.Meshes, MeshReport{
			Name:     mesh.Name,
			Vertices: len(mesh.Positions),
			Faces:    mesh.NumFaces(),
			UVs:      len(mesh.TexCoords),
			Tangents: len(mesh.Tangents) > 0,
			Material: mesh.Material,
			Variants: len(mesh.Variants),
		})

		g := m.Shader(mesh, variant)
		if seen[g.Name] {
			continue
		}
		seen[g.Name] = true
		sr := ShaderReport{Name: g.Name, Nodes: make(map[string]int), UVs: g.Attributes()}
		for _, n := range g.Nodes() {
			sr.Nodes[n.Kind.String()]++
		}
		r.Shaders = append(r.Shaders, sr)
	}

	for _, l := range s.Lights {
		r.Lights = append(r.Lights, LightReport{
			Name:     l.Name,
			Type:     l.Type.String(),
			Strength: l.Strength(),
			Position: l.Position.Array(),
		})
		m.LightShader(l)
	}
	for _, c := range s.Cameras {
		r.Cameras = append(r.Cameras, c.Name)
	}

	if cam != nil {
		r.Camera = &CameraReport{
			Preset:     cam.Preset.String(),
			Projection: cam.Projection.String(),
			Position:   cam.Position().Array(),
			Forward:    cam.Forward().Array(),
			FOV:        cam.FOV,
			Near:       cam.Near,
			Far:        cam.Far,
		}
	}

	hits, misses := m.ShaderStats()
	r.Cache = map[string]int{"hits": hits, "misses": misses}
	return r, nil
}

// CameraParams converts the camera section of the config.
func CameraParams(cc config.CameraConfig) (camera.Params, error) {
	p := camera.DefaultParams()

	preset, err := camera.ParsePreset(cc.Preset)
	if err != nil {
		return p, err
	}
	p.Preset = preset

	switch strings.ToLower(cc.Projection) {
	case "", "perspective":
		p.Projection = scene.Perspective
	case "orthographic", "ortho":
		p.Projection = scene.Orthographic
	default:
		return p, fmt.Errorf("unknown projection %q", cc.Projection)
	}

	p.FOV = cc.FOV
	p.Near = cc.Near
	p.Far = cc.Far
	return p, nil
}

// FrameConfigured frames a scene from the camera config. Without a preset
// the scene's first camera wins when UseSceneCamera is set.
func (m *Model) FrameConfigured(sceneIndex int, cc config.CameraConfig, aspect float32) (camera.Camera, error) {
	p, err := CameraParams(cc)
	if err != nil {
		return camera.Camera{}, err
	}
	if p.Preset == camera.PresetNone && cc.UseSceneCamera {
		c, err := m.SceneCamera(sceneIndex, aspect)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrNoCamera) {
			return camera.Camera{}, err
		}
		m.log.Info("scene has no camera, using configured parameters")
	}
	return m.Frame(sceneIndex, p, aspect)
}
