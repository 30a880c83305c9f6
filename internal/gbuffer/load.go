package gbuffer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/ftrvxmtrx/tga"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// LoadTGA reads an 8-bit TGA (or PNG) bitmap and converts it to linear
// floats in [0,1]. Used for albedo layers exported by the editor.
func LoadTGA(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gbuffer: open %s: %w", path, err)
	}
	defer f.Close()

	// TGA has no magic number, so PNG is recognised by its signature and
	// everything else goes to the TGA decoder
	br := bufio.NewReader(f)
	var src image.Image
	if sig, _ := br.Peek(len(pngSignature)); string(sig) == pngSignature {
		src, err = png.Decode(br)
	} else {
		src, err = tga.Decode(br)
	}
	if err != nil {
		return nil, fmt.Errorf("gbuffer: decode %s: %w", path, err)
	}

	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*out.Width + x) * 4
			out.Pix[i] = float32(r) / 65535
			out.Pix[i+1] = float32(g) / 65535
			out.Pix[i+2] = float32(bl) / 65535
			out.Pix[i+3] = float32(a) / 65535
		}
	}
	return out, nil
}

// LoadRaw reads a little-endian float32 RGBA dump of the given dimensions.
// Position and normal layers use this format; they do not fit in 8-bit
// bitmaps.
func LoadRaw(path string, w, h int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gbuffer: open %s: %w", path, err)
	}
	defer f.Close()

	out := New(w, h)
	if err := binary.Read(f, binary.LittleEndian, out.Pix); err != nil {
		return nil, fmt.Errorf("gbuffer: read %s: %w", path, err)
	}
	return out, nil
}
