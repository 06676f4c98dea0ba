// Package model loads a glTF file and ties together scene flattening,
// material descriptors, shader compilation and camera framing.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/assets"
	"github.com/Faultbox/gltfview/internal/camera"
	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/internal/material"
	"github.com/Faultbox/gltfview/internal/scene"
	"github.com/Faultbox/gltfview/internal/shadergraph"
	"github.com/Faultbox/gltfview/internal/shading"
	"github.com/Faultbox/gltfview/pkg/gltfext"
)

// Model errors.
var (
	ErrSceneIndex = errors.New("scene index out of range")
	ErrNoCamera   = errors.New("scene has no camera")
)

// Options configures loading.
type Options struct {
	// TextureDir receives embedded images; empty uses the OS temp directory.
	TextureDir string
	// KeepTextures leaves materialized files on disk after Close.
	KeepTextures bool
	// GenerateTangents fills missing tangents for normal mapped meshes.
	GenerateTangents bool
	// FileExists overrides the texture existence check of the compiler.
	FileExists func(path string) bool
}

// DefaultOptions returns the options used by the viewer.
func DefaultOptions() Options {
	return Options{GenerateTangents: true}
}

// Model is a loaded glTF file.
type Model struct {
	Path     string
	Doc      *gltf.Document
	Scenes   []*scene.Scene
	Variants []string

	store   *assets.TextureStore
	lib     *material.Library
	shaders *shading.Cache
	opts    Options
	log     *zap.Logger
}

// Load opens and flattens a glTF or GLB file.
func Load(path string, opts Options) (*Model, error) {
	log := logger.Named("model").With(zap.String("path", path))

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return fromDocument(path, doc, opts, log)
}

// FromDocument builds a model from an already parsed document. baseDir
// resolves relative image URIs.
func FromDocument(doc *gltf.Document, baseDir string, opts Options) (*Model, error) {
	path := filepath.Join(baseDir, "document.gltf")
	return fromDocument(path, doc, opts, logger.Named("model"))
}

func fromDocument(path string, doc *gltf.Document, opts Options, log *zap.Logger) (*Model, error) {
	m := &Model{
		Path:  path,
		Doc:   doc,
		store: assets.NewTextureStore(opts.TextureDir, filepath.Dir(path)),
		opts:  opts,
		log:   log,
	}
	m.lib = material.NewLibrary(doc, m.store)

	var src scene.MaterialSource
	if opts.GenerateTangents {
		src = m.lib
	}
	scenes, err := scene.Flatten(doc, src)
	if err != nil {
		m.store.Close()
		return nil, fmt.Errorf("flattening %s: %w", path, err)
	}
	m.Scenes = scenes

	variants, err := gltfext.DocumentVariants(doc)
	if err != nil {
		log.Warn("ignoring material variants", zap.Error(err))
	}
	m.Variants = variants

	var compileOpts []shading.Option
	if opts.FileExists != nil {
		compileOpts = append(compileOpts, shading.WithFileExists(opts.FileExists))
	}
	m.shaders = shading.NewCache(m.lib, compileOpts...)

	log.Info("model loaded",
		zap.Int("scenes", len(m.Scenes)),
		zap.Int("materials", m.lib.Len()),
		zap.Int("variants", len(m.Variants)))
	return m, nil
}

// Close removes materialized textures unless they are kept.
func (m *Model) Close() error {
	if m.opts.KeepTextures {
		return nil
	}
	return m.store.Close()
}

// Scene returns a flattened scene by index.
func (m *Model) Scene(index int) (*scene.Scene, error) {
	if index < 0 || index >= len(m.Scenes) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSceneIndex, index, len(m.Scenes))
	}
	return m.Scenes[index], nil
}

// Material returns the descriptor of a material index.
func (m *Model) Material(index int) *material.Material {
	return m.lib.Get(index)
}

// NumMaterials returns the number of materials declared by the document.
func (m *Model) NumMaterials() int {
	return m.lib.Len()
}

// Shader returns the compiled shader of a mesh under a variant, -1 for
// none. UV channels the shader reads but the mesh lacks are logged.
func (m *Model) Shader(mesh *scene.Mesh, variant int) *shadergraph.Graph {
	g := m.shaders.Shader(mesh.Material, mesh.Variants, variant)
	for _, attr := range g.Attributes() {
		ch, err := strconv.Atoi(attr)
		if err != nil || mesh.HasTexCoord(ch) {
			continue
		}
		m.log.Warn("shader reads missing UV channel",
			zap.String("mesh", mesh.Name),
			zap.String("shader", g.Name),
			zap.Int("channel", ch))
	}
	return g
}

// MaterialShader returns the compiled shader of a material index.
func (m *Model) MaterialShader(index int) *shadergraph.Graph {
	return m.shaders.Shader(index, nil, -1)
}

// LightShader returns the emission shader of a light.
func (m *Model) LightShader(l *scene.Light) *shadergraph.Graph {
	return shading.LightShader(l.Name, l.Color, l.Strength())
}

// ShaderStats returns shader cache statistics.
func (m *Model) ShaderStats() (hits, misses int) {
	return m.shaders.Stats()
}

// Textures returns the materialized texture paths by image index.
func (m *Model) Textures() map[int]string {
	return m.store.Paths()
}

// Frame frames a scene with client parameters.
func (m *Model) Frame(sceneIndex int, p camera.Params, aspect float32) (camera.Camera, error) {
	s, err := m.Scene(sceneIndex)
	if err != nil {
		return camera.Camera{}, err
	}
	return camera.Frame(p, s.Bounds, aspect), nil
}

// SceneCamera frames a scene with the first camera authored in it.
func (m *Model) SceneCamera(sceneIndex int, aspect float32) (camera.Camera, error) {
	s, err := m.Scene(sceneIndex)
	if err != nil {
		return camera.Camera{}, err
	}
	if len(s.Cameras) == 0 {
		return camera.Camera{}, ErrNoCamera
	}
	return camera.Frame(camera.FromGLTF(s.Cameras[0]), s.Bounds, aspect), nil
}
