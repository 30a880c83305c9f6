// Package batch renders many preview job configs to final converged frames
// using a worker pool. Each job is an independent config file naming its
// scene and G-buffer layers.
package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"lightpreview/internal/config"
	"lightpreview/internal/gbuffer"
	"lightpreview/internal/preview"
	"lightpreview/internal/scene"
	"lightpreview/internal/snapshot"
)

// Config holds shared settings for a batch run.
type Config struct {
	OutputDir string
	Scale     int
	Workers   int
}

// Result holds the outcome of rendering one job.
type Result struct {
	Name    string
	Image   string
	Success bool
	Error   string
}

// Run renders all job configs using a worker pool.
func Run(cfg Config, jobs []string) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f scenes/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// JobName derives a job's display name from its config path.
func JobName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func processJob(cfg Config, path string) Result {
	name := JobName(path)

	jc, err := config.Load(path)
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}
	if jc.Width <= 0 || jc.Height <= 0 {
		return Result{Name: name, Error: "config has no width/height"}
	}

	sc, err := scene.Load(jc.ScenePath)
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}
	lights, err := sc.BuildLights()
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}

	albedo, err := gbuffer.LoadTGA(jc.AlbedoPath)
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}
	positions, err := gbuffer.LoadRaw(jc.PositionsPath, jc.Width, jc.Height)
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}
	normals, err := gbuffer.LoadRaw(jc.NormalsPath, jc.Width, jc.Height)
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}

	bm, err := preview.RenderScene(sc.EyeVec(), sc.TriangleSoup(), lights, positions, normals, albedo)
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}

	image := name + ".webp"
	outPath := filepath.Join(cfg.OutputDir, image)
	if err := snapshot.Write(outPath, bm, cfg.Scale); err != nil {
		return Result{Name: name, Error: err.Error()}
	}

	return Result{Name: name, Image: image, Success: true}
}
