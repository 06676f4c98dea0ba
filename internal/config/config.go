// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Render   RenderConfig   `yaml:"render" toml:"render"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Scene    SceneConfig    `yaml:"scene" toml:"scene"`
	Textures TexturesConfig `yaml:"textures" toml:"textures"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// RenderConfig holds viewport settings.
type RenderConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
	// Variant is the active material variant, -1 for none.
	Variant int `yaml:"variant" toml:"variant"`
}

// Aspect returns the viewport aspect ratio, 1 for a degenerate viewport.
func (r RenderConfig) Aspect() float32 {
	if r.Width <= 0 || r.Height <= 0 {
		return 1
	}
	return float32(r.Width) / float32(r.Height)
}

// CameraConfig holds client camera parameters.
type CameraConfig struct {
	Preset     string  `yaml:"preset" toml:"preset"`
	Projection string  `yaml:"projection" toml:"projection"`
	FOV        float32 `yaml:"fov" toml:"fov"`
	Near       float32 `yaml:"near" toml:"near"`
	Far        float32 `yaml:"far" toml:"far"`
	// UseSceneCamera frames with the first camera authored in the scene
	// when no preset is set.
	UseSceneCamera bool `yaml:"use_scene_camera" toml:"use_scene_camera"`
}

// SceneConfig selects what is flattened.
type SceneConfig struct {
	Index            int  `yaml:"index" toml:"index"`
	GenerateTangents bool `yaml:"generate_tangents" toml:"generate_tangents"`
}

// TexturesConfig holds texture materialization settings.
type TexturesConfig struct {
	// Dir receives embedded images; empty uses the OS temp directory.
	Dir string `yaml:"dir" toml:"dir"`
	// Keep leaves materialized files on disk after exit.
	Keep bool `yaml:"keep" toml:"keep"`
}

// WatchConfig holds model file watching settings.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled" toml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms" toml:"debounce_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:   1280,
			Height:  720,
			Variant: -1,
		},
		Camera: CameraConfig{
			Preset:     "front",
			Projection: "perspective",
			FOV:        30,
			Near:       1e-6,
			Far:        1e9,
		},
		Scene: SceneConfig{
			Index:            0,
			GenerateTangents: true,
		},
		Textures: TexturesConfig{
			Dir:  "",
			Keep: false,
		},
		Watch: WatchConfig{
			Enabled:    false,
			DebounceMS: 200,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
