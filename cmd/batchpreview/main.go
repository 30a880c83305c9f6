package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"lightpreview/internal/batch"
)

func main() {
	// CLI flags
	jobDir := flag.String("jobs", "", "Directory of per-scene config.json files")
	outputDir := flag.String("output", "preview-out", "Output directory")
	scale := flag.Int("scale", 1, "Integer upscale factor for output frames")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Render only first N jobs for testing")

	flag.Parse()

	jobs := flag.Args()
	if *jobDir != "" {
		found, err := filepath.Glob(filepath.Join(*jobDir, "*.json"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", *jobDir, err)
			os.Exit(1)
		}
		jobs = append(jobs, found...)
	}
	sort.Strings(jobs)

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs to render. Pass config paths or -jobs <dir>.")
		os.Exit(0)
	}

	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Lighting Preview Batch Renderer → WebP%s\n", mode)
	fmt.Printf("Jobs: %d, Workers: %d\n", len(jobs), *workers)
	fmt.Printf("Output: %s\n", *outputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir: *outputDir,
		Scale:     *scale,
		Workers:   *workers,
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(*outputDir, "manifest.json")
	os.MkdirAll(*outputDir, 0755)
	if err := batch.WriteManifest(manifestPath, jobs, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
