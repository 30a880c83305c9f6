// gbufgen rasterizes a scene file into the G-buffer layers the previewer
// consumes (positions.raw, normals.raw, albedo.tga) plus a config.json
// that ties them together for lpreview and batchpreview.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ftrvxmtrx/tga"

	"lightpreview/internal/mathutil"
	"lightpreview/internal/raster"
	"lightpreview/internal/scene"
	"lightpreview/internal/viewmatrix"
)

func main() {
	scenePath := flag.String("scene", "", "Path to scene.json")
	outDir := flag.String("output", "gbuf-out", "Output directory")
	width := flag.Int("width", 256, "Layer width in pixels")
	height := flag.Int("height", 256, "Layer height in pixels")
	fov := flag.Float64("fov", 60, "Vertical field of view in degrees")
	albedoGray := flag.Float64("albedo", 0.75, "Uniform surface albedo")
	dist := flag.Float64("dist", 0, "Orbit distance (0: use the scene eye)")
	yaw := flag.Float64("yaw", 0, "Orbit yaw in degrees")
	pitch := flag.Float64("pitch", 0, "Orbit pitch in degrees")

	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scene is required")
		os.Exit(1)
	}

	sc, err := scene.Load(*scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	verts := sc.TriangleSoup()
	if len(verts) == 0 {
		fmt.Fprintln(os.Stderr, "Error: scene has no triangles")
		os.Exit(1)
	}

	target := centroid(verts)
	eye := sc.EyeVec()
	if *dist > 0 {
		eye = viewmatrix.Orbit(target, *dist, *yaw, *pitch)
	}

	cam := viewmatrix.LookAt(eye, target, mathutil.Vec3{0, 1, 0}, *fov, *width, *height)
	a := *albedoGray
	positions, normals, albedo := raster.RenderGBuffers(cam, verts, mathutil.Vec3{a, a, a})

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeRaw(filepath.Join(*outDir, "positions.raw"), positions.Pix); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := writeRaw(filepath.Join(*outDir, "normals.raw"), normals.Pix); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := writeTGA(filepath.Join(*outDir, "albedo.tga"), albedo.Pix, *width, *height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// layer paths resolve relative to the config file; the scene may live
	// elsewhere, so pin it down
	absScene, err := filepath.Abs(*scenePath)
	if err != nil {
		absScene = *scenePath
	}
	cfg := map[string]any{
		"scene":     absScene,
		"albedo":    "albedo.tga",
		"positions": "positions.raw",
		"normals":   "normals.raw",
		"width":     *width,
		"height":    *height,
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	cfgPath := filepath.Join(*outDir, "config.json")
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("G-buffers: %dx%d, eye (%.1f, %.1f, %.1f)\n", *width, *height, eye[0], eye[1], eye[2])
	fmt.Printf("Config: %s\n", cfgPath)
}

func centroid(verts []mathutil.Vec3) mathutil.Vec3 {
	var c mathutil.Vec3
	for _, v := range verts {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(verts)))
}

func writeRaw(path string, pix []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return binary.Write(f, binary.LittleEndian, pix)
}

func writeTGA(path string, pix []float32, w, h int) error {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		for c := 0; c < 4; c++ {
			v := pix[i*4+c]
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			img.Pix[i*4+c] = uint8(v*255 + 0.5)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tga.Encode(f, img)
}
