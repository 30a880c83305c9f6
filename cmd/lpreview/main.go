package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lightpreview/internal/config"
	"lightpreview/internal/gbuffer"
	"lightpreview/internal/preview"
	"lightpreview/internal/scene"
	"lightpreview/internal/snapshot"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: preview-out)")
	scale := flag.Int("scale", 0, "Upscale factor for written frames (default: 1)")
	maxFrames := flag.Int("frames", 0, "Maximum number of frames to write (default: 64)")
	verbose := flag.Bool("v", false, "Log worker progress to stderr")

	flag.Parse()

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -config is required.")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Scale:     *scale,
		MaxFrames: *maxFrames,
	})

	if cfg.Width <= 0 || cfg.Height <= 0 {
		fmt.Fprintln(os.Stderr, "Error: config must set width and height.")
		os.Exit(1)
	}

	preview.Debug = *verbose

	// Load scene
	sc, err := scene.Load(cfg.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}
	lights, err := sc.BuildLights()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building lights: %v\n", err)
		os.Exit(1)
	}

	// Load G-buffers
	albedo, err := gbuffer.LoadTGA(cfg.AlbedoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading albedo: %v\n", err)
		os.Exit(1)
	}
	positions, err := gbuffer.LoadRaw(cfg.PositionsPath, cfg.Width, cfg.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading positions: %v\n", err)
		os.Exit(1)
	}
	normals, err := gbuffer.LoadRaw(cfg.NormalsPath, cfg.Width, cfg.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading normals: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Light preview: %dx%d, %d lights, %d triangles\n",
		cfg.Width, cfg.Height, len(lights), len(sc.Triangles))
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	in := make(chan preview.Message, 16)
	out := make(chan preview.Result, 4)
	w := preview.Start(in, out)

	in <- preview.Message{Kind: preview.MsgSetGeometry, Triangles: sc.TriangleSoup()}
	in <- preview.Message{Kind: preview.MsgSetLights, Lights: lights, Eye: sc.EyeVec()}
	w.NoteGBufferQueued()
	in <- preview.Message{
		Kind:       preview.MsgSetGBuffers,
		Eye:        sc.EyeVec(),
		Positions:  positions,
		Normals:    normals,
		Albedo:     albedo,
		Generation: 0,
	}

	// Collect frames until the worker goes quiet. The worker always sends a
	// final frame once every light is fully refined, so a stretch of silence
	// means the preview has converged.
	frames := 0
	idle := time.NewTimer(15 * time.Second)
	defer idle.Stop()
collect:
	for frames < cfg.MaxFrames {
		select {
		case r := <-out:
			if r.Generation < 0 {
				continue
			}
			path := filepath.Join(cfg.OutputDir, fmt.Sprintf("frame_%03d.webp", frames))
			if err := snapshot.Write(path, r.Bitmap, cfg.Scale); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing frame: %v\n", err)
				os.Exit(1)
			}
			frames++
			fmt.Printf("frame %d: %s\n", frames, path)
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(15 * time.Second)
		case <-idle.C:
			break collect
		}
	}

	in <- preview.Message{Kind: preview.MsgExit}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs, %d frames\n", elapsed.Seconds(), frames)
}
