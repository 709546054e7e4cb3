// main.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// orrery runs the scene-visibility pipeline headlessly: it loads (or
// synthesizes) a universe, renders a number of frames against a
// statistics-gathering renderer, and reports what would have been drawn.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orrery/orrery/pkg/celengine"
	"github.com/orrery/orrery/pkg/log"
	"github.com/orrery/orrery/pkg/renderer"
)

var (
	configFile  string
	starCatalog string
	bodyCatalog string
	nFrames     int
	timeStep    float64
	startTime   float64
	demoStars   int
	demoSeed    int64
	logLevel    string
	logDir      string
	width       int
	height      int
)

func main() {
	root := &cobra.Command{
		Use:   "orrery",
		Short: "render celestial scenes headlessly and report draw statistics",
		RunE:  run,

		SilenceUsage: true,
	}

	root.Flags().StringVarP(&configFile, "config", "c", "", "TOML settings file")
	root.Flags().StringVar(&starCatalog, "stars", "", "star catalog (msgpack, optionally .zst)")
	root.Flags().StringVar(&bodyCatalog, "bodies", "", "body catalog (msgpack, optionally .zst)")
	root.Flags().IntVarP(&nFrames, "frames", "n", 60, "number of frames to render")
	root.Flags().Float64Var(&timeStep, "timestep", 1.0/60, "simulated seconds per frame")
	root.Flags().Float64Var(&startTime, "start", 0, "start time, seconds since epoch")
	root.Flags().IntVar(&demoStars, "demo-stars", 5000, "star count for the synthesized universe")
	root.Flags().Int64Var(&demoSeed, "seed", 1, "seed for the synthesized universe")
	root.Flags().StringVar(&logLevel, "loglevel", "info", "logging level: debug, info, warn, error")
	root.Flags().StringVar(&logDir, "logdir", "", "directory for the log file")
	root.Flags().IntVar(&width, "width", 1920, "viewport width in pixels")
	root.Flags().IntVar(&height, "height", 1080, "viewport height in pixels")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	lg := log.New(logLevel, logDir)
	renderer.SetLogger(lg)

	var u *celengine.Universe
	var err error
	if starCatalog != "" || bodyCatalog != "" {
		if starCatalog == "" || bodyCatalog == "" {
			return fmt.Errorf("--stars and --bodies must be given together")
		}
		u, err = celengine.LoadUniverse(starCatalog, bodyCatalog, lg)
		if err != nil {
			return err
		}
	} else {
		lg.Infof("no catalogs given; synthesizing %d stars with seed %d", demoStars, demoSeed)
		u = celengine.MakeDemoUniverse(demoStars, demoSeed)
	}

	sr := celengine.NewSceneRenderer(celengine.DefaultStyle(), lg)
	sr.SetFont(renderer.FixedPitchFont{GlyphWidth: 7, GlyphHeight: 13})
	if configFile != "" {
		settings, err := LoadSettings(configFile)
		if err != nil {
			return err
		}
		if err := settings.Apply(sr); err != nil {
			return err
		}
	}

	obs := celengine.NewObserver(width, height)
	obs.Position = [3]float64{0, 3e8, 7e7}
	obs.LookAt([3]float64{0, 0, 0}, [3]float64{0, 0, 1})

	rend := renderer.NewStatsRenderer()
	defer rend.Dispose()

	var total renderer.RendererStats
	now := startTime
	for frame := 0; frame < nFrames; frame++ {
		cb := renderer.GetCommandBuffer()
		fs := sr.RenderFrame(u, obs, now, cb)
		stats := rend.RenderCommandBuffer(cb)
		renderer.ReturnCommandBuffer(cb)

		total.Merge(stats)
		lg.Debug("frame", "n", frame, "time", now,
			"stars", fs.VisibleStars, "bodies", fs.VisibleBodies,
			"partitions", fs.Partitions, "orbits", fs.OrbitsDrawn,
			"annotations", fs.Annotations, "faintest", fs.FaintestMag,
			"draws", stats)
		now += timeStep
	}

	lg.Info("finished", "frames", nFrames, "total", total)
	fmt.Printf("%d frames: %s\n", nFrames, total.String())
	return nil
}
