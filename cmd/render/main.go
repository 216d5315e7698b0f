package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"tri-raster/internal/batch"
	"tri-raster/internal/config"
	"tri-raster/internal/scene"
)

type options struct {
	Config        string `short:"c" long:"config" description:"Path to config file (.json or .toml)"`
	Scene         string `short:"s" long:"scene" description:"Render a single scene file"`
	SceneDir      string `short:"d" long:"scene-dir" description:"Render every scene file in a directory"`
	OutputDir     string `short:"o" long:"output" description:"Output directory (default: renders)"`
	Width         int    `short:"W" long:"width" description:"Buffer width in pixels (default: 200)"`
	Height        int    `short:"H" long:"height" description:"Buffer height in pixels (default: 200)"`
	Supersample   int    `short:"S" long:"supersample" description:"Samples per pixel axis (default: 2)"`
	Workers       int    `short:"w" long:"workers" description:"Scenes rendered concurrently (default: NumCPU)"`
	RenderWorkers int    `long:"render-workers" description:"Row bands composited in parallel per triangle (default: 1)"`
	Format        string `short:"f" long:"format" description:"Output format: webp, png or tga (default: webp)"`
	Scale         int    `long:"scale" description:"Integer upscale factor for the written image"`
	Filter        string `long:"filter" description:"Upscale filter: nearest or catmullrom"`
	Verify        bool   `long:"verify" description:"Decode each written image and compare it to the rendered pixels"`
	Verbose       bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

func parseCmd() options {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	return opts
}

func main() {
	opts := parseCmd()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	// Load config
	var cfg config.Config
	if opts.Config != "" {
		var err error
		cfg, err = config.Load(opts.Config)
		if err != nil {
			log.WithError(err).Fatal("loading config")
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:     opts.OutputDir,
		Width:         opts.Width,
		Height:        opts.Height,
		Supersample:   opts.Supersample,
		Workers:       opts.Workers,
		RenderWorkers: opts.RenderWorkers,
		Format:        opts.Format,
		Scale:         opts.Scale,
		Filter:        opts.Filter,
		Verify:        opts.Verify,
	})
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	scenes, err := loadScenes(opts)
	if err != nil {
		log.WithError(err).Fatal("loading scenes")
	}
	if len(scenes) == 0 {
		log.Info("no scenes to render")
		return
	}

	log.WithFields(logrus.Fields{
		"scenes":      len(scenes),
		"size":        [2]int{cfg.Width, cfg.Height},
		"supersample": cfg.Supersample,
		"workers":     cfg.Workers,
		"output":      cfg.OutputDir,
		"format":      cfg.Format,
		"verify":      cfg.Verify,
	}).Info("rendering")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results := batch.Run(ctx, batch.Config{
		Raster:  cfg.Raster(),
		Sink:    cfg.Sink(),
		Workers: cfg.Workers,
	}, scenes, log)

	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
			continue
		}
		failed++
		log.WithField("scene", r.Name).Error(r.Error)
	}
	log.WithFields(logrus.Fields{
		"rendered": success,
		"failed":   failed,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("done")

	// Write manifest
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.WithError(err).Fatal("creating output directory")
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, cfg.Format, results); err != nil {
		log.WithError(err).Warn("manifest write failed")
	} else {
		log.WithField("path", manifestPath).Info("manifest written")
	}

	if failed > 0 {
		stop()
		os.Exit(1)
	}
}

// loadScenes picks the scene source: a directory, a single file, or the
// built-in demo.
func loadScenes(opts options) ([]*scene.Scene, error) {
	var scenes []*scene.Scene
	if opts.SceneDir != "" {
		dirScenes, err := scene.LoadDir(opts.SceneDir)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, dirScenes...)
	}
	if opts.Scene != "" {
		s, err := scene.Load(opts.Scene)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	if opts.SceneDir == "" && opts.Scene == "" {
		scenes = append(scenes, scene.Default())
	}
	if err := scene.CheckUnique(scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}
