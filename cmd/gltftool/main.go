// gltftool is a CLI utility for inspecting glTF scenes and the shaders
// compiled from their materials.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gltfview/internal/camera"
	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/internal/material"
	"github.com/Faultbox/gltfview/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "materials", "mat":
		cmdMaterials(args)
	case "graph":
		cmdGraph(args)
	case "camera", "cam":
		cmdCamera(args)
	case "textures", "tex":
		cmdTextures(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gltftool - glTF scene inspection utility

Usage:
  gltftool <command> [options] <file>

Commands:
  info <file>                 Show scenes, meshes, lights and cameras
  materials <file>            List material descriptors
  graph <file> <material>     Write a material shader graph as Graphviz DOT
  camera <file>               Frame a scene and print the camera
  textures <file> <dir>       Extract embedded textures to a directory

Examples:
  gltftool info scene.glb
  gltftool materials -variant 1 scene.glb
  gltftool graph scene.glb 0 | dot -Tsvg > material.svg
  gltftool camera -preset top -aspect 1.5 scene.glb
  gltftool camera -config gltfview.toml scene.glb
  gltftool textures scene.glb ./textures`)
}

// open loads a model, exiting on failure. Logging stays at warn level so
// reports on stdout are not interleaved with progress messages.
func open(path string, opts model.Options) *model.Model {
	if err := logger.Init("warn", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	m, err := model.Load(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return m
}

func printYAML(v any) {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	enc.Close()
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	sceneIdx := fs.Int("scene", -1, "Scene index (-1 = all)")
	variant := fs.Int("variant", -1, "Material variant index (-1 = none)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltftool info [-scene N] [-variant N] <file>")
		os.Exit(1)
	}

	m := open(fs.Arg(0), model.DefaultOptions())
	defer m.Close()

	var reports []*model.Report
	for i := range m.Scenes {
		if *sceneIdx >= 0 && i != *sceneIdx {
			continue
		}
		r, err := m.Report(i, *variant, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		r.Textures = nil
		reports = append(reports, r)
	}
	if len(m.Variants) > 0 {
		fmt.Printf("# variants: %v\n", m.Variants)
	}
	printYAML(reports)
}

type materialInfo struct {
	Index       int        `yaml:"index"`
	Name        string     `yaml:"name"`
	BaseColor   [4]float32 `yaml:"base_color,flow"`
	Metallic    float32    `yaml:"metallic"`
	Roughness   float32    `yaml:"roughness"`
	Alpha       string     `yaml:"alpha"`
	DoubleSided bool       `yaml:"double_sided"`
	SpecGloss   bool       `yaml:"specular_glossiness,omitempty"`
	Emissive    bool       `yaml:"emissive,omitempty"`
	Textures    int        `yaml:"textures"`
	UVs         []int      `yaml:"uv_channels,flow,omitempty"`
}

func cmdMaterials(args []string) {
	fs := flag.NewFlagSet("materials", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltftool materials <file>")
		os.Exit(1)
	}

	m := open(fs.Arg(0), model.DefaultOptions())
	defer m.Close()

	var out []materialInfo
	for i := 0; i < m.NumMaterials(); i++ {
		out = append(out, describe(m.Material(i)))
	}
	printYAML(out)
}

func describe(mat *material.Material) materialInfo {
	info := materialInfo{
		Index:       mat.Index,
		Name:        mat.Name,
		BaseColor:   mat.BaseColorFactor,
		Metallic:    mat.MetallicFactor,
		Roughness:   mat.RoughnessFactor,
		Alpha:       mat.AlphaMode.String(),
		DoubleSided: mat.DoubleSided,
		SpecGloss:   mat.SpecularGlossiness != nil,
		Emissive:    mat.HasEmission(),
	}
	channels := make(map[int]bool)
	for _, t := range mat.Textures() {
		info.Textures++
		channels[t.TexCoord] = true
	}
	for ch := range channels {
		info.UVs = append(info.UVs, ch)
	}
	sort.Ints(info.UVs)
	return info
}

func cmdGraph(args []string) {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: gltftool graph <file> <material index>")
		os.Exit(1)
	}

	var index int
	if _, err := fmt.Sscanf(fs.Arg(1), "%d", &index); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid material index: %s\n", fs.Arg(1))
		os.Exit(1)
	}

	m := open(fs.Arg(0), model.DefaultOptions())
	defer m.Close()

	if index < 0 || index >= m.NumMaterials() {
		fmt.Fprintf(os.Stderr, "Material %d out of range (%d materials)\n", index, m.NumMaterials())
		os.Exit(1)
	}

	g := m.MaterialShader(index)
	if err := g.WriteDOT(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdCamera(args []string) {
	fs := flag.NewFlagSet("camera", flag.ExitOnError)
	sceneIdx := fs.Int("scene", 0, "Scene index")
	presetName := fs.String("preset", "front", "Preset: none, front, back, left, right, top, bottom")
	aspect := fs.Float64("aspect", 16.0/9.0, "Viewport aspect ratio")
	fov := fs.Float64("fov", float64(camera.DefaultFOV), "Vertical field of view in degrees")
	useScene := fs.Bool("scene-camera", false, "Use the first camera authored in the scene")
	cfgPath := fs.String("config", "", "Take camera settings from a config file (.yaml or .toml)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltftool camera [options] <file>")
		os.Exit(1)
	}

	preset, err := camera.ParsePreset(*presetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := open(fs.Arg(0), model.DefaultOptions())
	defer m.Close()

	var c camera.Camera
	if *cfgPath != "" {
		cfg, cerr := config.LoadFile(*cfgPath)
		if cerr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", cerr)
			os.Exit(1)
		}
		c, err = m.FrameConfigured(*sceneIdx, cfg.Camera, cfg.Render.Aspect())
	} else if *useScene {
		c, err = m.SceneCamera(*sceneIdx, float32(*aspect))
	} else {
		p := camera.DefaultParams()
		p.Preset = preset
		p.FOV = float32(*fov)
		c, err = m.Frame(*sceneIdx, p, float32(*aspect))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, _ := m.Scene(*sceneIdx)
	printYAML(map[string]any{
		"preset":     c.Preset.String(),
		"projection": c.Projection.String(),
		"position":   c.Position().Array(),
		"forward":    c.Forward().Array(),
		"fov":        c.FOV,
		"near":       c.Near,
		"far":        c.Far,
		"bounds":     [2][3]float32{s.Bounds.Min.Array(), s.Bounds.Max.Array()},
	})
}

func cmdTextures(args []string) {
	fs := flag.NewFlagSet("textures", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: gltftool textures <file> <dir>")
		os.Exit(1)
	}

	opts := model.DefaultOptions()
	opts.TextureDir = fs.Arg(1)
	opts.KeepTextures = true
	m := open(fs.Arg(0), opts)
	defer m.Close()

	// Building every descriptor materializes the images it references.
	for i := 0; i < m.NumMaterials(); i++ {
		m.Material(i)
	}

	paths := m.Textures()
	indices := make([]int, 0, len(paths))
	for i := range paths {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		fmt.Printf("  image %-4d %s\n", i, paths[i])
	}
	fmt.Printf("Extracted %d textures\n", len(paths))
}
