// Package snapshot writes preview frames to disk as WebP, optionally
// upscaled so small G-buffer previews are viewable.
package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"lightpreview/internal/bitmap"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Write encodes bm to path as lossless WebP. scale > 1 upsamples with
// CatmullRom filtering first.
func Write(path string, bm *bitmap.Image, scale int) error {
	if bm == nil || bm.Width == 0 || bm.Height == 0 {
		return fmt.Errorf("snapshot: empty bitmap for %s", path)
	}

	img := bm.ToNRGBA()
	if scale > 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, bm.Width*scale, bm.Height*scale))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot: mkdir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("snapshot: WebP encode %s: %w", path, err)
	}
	return nil
}
