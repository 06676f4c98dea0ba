// Package main is the entry point for the glTF scene viewer. It flattens a
// scene, compiles its shaders, frames the camera and prints the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/internal/model"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if config.SaveRequested() {
		path, err := cfg.SaveRequestedTo()
		if err != nil {
			logger.Error("saving config failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", path))
		return
	}

	args := config.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltfview [flags] <file.gltf|file.glb>")
		os.Exit(1)
	}
	path := args[0]
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := view(path, cfg); err != nil {
		logger.Error("view failed", zap.Error(err))
		os.Exit(1)
	}
	if !cfg.Watch.Enabled {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes", zap.String("path", path))
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	err = model.Watch(ctx, path, debounce, func() {
		logger.Info("reloading", zap.String("path", path))
		if err := view(path, cfg); err != nil {
			logger.Error("reload failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("watch failed", zap.Error(err))
		os.Exit(1)
	}
}

// view loads the model and writes its report to stdout.
func view(path string, cfg *config.Config) error {
	opts := model.DefaultOptions()
	opts.TextureDir = cfg.Textures.Dir
	opts.KeepTextures = cfg.Textures.Keep
	opts.GenerateTangents = cfg.Scene.GenerateTangents

	m, err := model.Load(path, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	cam, err := m.FrameConfigured(cfg.Scene.Index, cfg.Camera, cfg.Render.Aspect())
	if err != nil {
		return err
	}
	report, err := m.Report(cfg.Scene.Index, cfg.Render.Variant, &cam)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(report)
}
