package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagPreset     = flag.String("preset", "", "Camera preset: none, front, back, left, right, top, bottom")
	flagFOV        = flag.Float64("fov", 0, "Vertical field of view in degrees")
	flagWidth      = flag.Int("width", 0, "Viewport width")
	flagHeight     = flag.Int("height", 0, "Viewport height")
	flagVariant    = flag.Int("variant", -2, "Material variant index (-1 for none)")
	flagScene      = flag.Int("scene", -1, "Scene index")
	flagTextureDir = flag.String("texture-dir", "", "Directory for materialized textures")
	flagWatch      = flag.Bool("watch", false, "Reload the model when the file changes")
	flagSaveConfig = flag.String("save-config", "", "Write the effective config to a path (\"default\" for the user config dir) and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig != ""
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPreset != "" {
		cfg.Camera.Preset = *flagPreset
	}
	if *flagFOV > 0 {
		cfg.Camera.FOV = float32(*flagFOV)
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagVariant >= -1 {
		cfg.Render.Variant = *flagVariant
	}
	if *flagScene >= 0 {
		cfg.Scene.Index = *flagScene
	}
	if *flagTextureDir != "" {
		cfg.Textures.Dir = *flagTextureDir
	}
	if *flagWatch {
		cfg.Watch.Enabled = true
	}
}
