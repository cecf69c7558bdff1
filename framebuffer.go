package sr3d

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned when an image format cannot be encoded.
var ErrUnsupportedFormat = errors.New("sr3d: unsupported image format")

// Framebuffer is a color target of BGRA8 pixels, row-major with the
// origin at the bottom-left pixel. It implements ColorSink, so passes
// can render into it, and ColorSource, so a later pass can sample it.
//
// Framebuffer also implements image.Image in image coordinates, with
// the origin at the top-left.
type Framebuffer struct {
	width  int
	height int
	data   []uint8 // B, G, R, A
}

// NewFramebuffer creates a framebuffer cleared to transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("sr3d: invalid framebuffer size %dx%d", width, height))
	}
	return &Framebuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width in pixels.
func (f *Framebuffer) Width() int { return f.width }

// Height returns the height in pixels.
func (f *Framebuffer) Height() int { return f.height }

// Format returns the texel layout of Data.
func (f *Framebuffer) Format() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

// Data returns the raw pixel data, 4 bytes per pixel in B, G, R, A order.
func (f *Framebuffer) Data() []uint8 { return f.data }

// Set writes one pixel. Writes outside the framebuffer are ignored.
func (f *Framebuffer) Set(x, y int, c [4]uint8) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	i := (y*f.width + x) * 4
	copy(f.data[i:i+4], c[:])
}

// Texel returns one pixel in B, G, R, A order. Reads outside the
// framebuffer return transparent black.
func (f *Framebuffer) Texel(x, y int) [4]uint8 {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return [4]uint8{}
	}
	i := (y*f.width + x) * 4
	return [4]uint8{f.data[i], f.data[i+1], f.data[i+2], f.data[i+3]}
}

// Clear fills the framebuffer with a color. Components are clamped to [0, 1].
func (f *Framebuffer) Clear(c gputypes.Color) {
	px := [4]uint8{
		uint8(Saturate(c.B) * 255),
		uint8(Saturate(c.G) * 255),
		uint8(Saturate(c.R) * 255),
		uint8(Saturate(c.A) * 255),
	}
	for i := 0; i < len(f.data); i += 4 {
		copy(f.data[i:i+4], px[:])
	}
}

// ToImage converts the framebuffer to an image with the origin at the
// top-left, flipping rows and reordering channels to R, G, B, A.
func (f *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		src := f.data[(f.height-1-y)*f.width*4:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < f.width; x++ {
			i := x * 4
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return img
}

// At implements the image.Image interface.
func (f *Framebuffer) At(x, y int) color.Color {
	c := f.Texel(x, f.height-1-y)
	return color.NRGBA{R: c[2], G: c[1], B: c[0], A: c[3]}
}

// Bounds implements the image.Image interface.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// ColorModel implements the image.Image interface.
func (f *Framebuffer) ColorModel() color.Model {
	return color.NRGBAModel
}

// Encode writes img in the named format: "png", "bmp" or "tiff".
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tif", "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("sr3d: encode %s: %w", format, err)
	}
	return nil
}

// SaveImage writes img to path, choosing the format from the extension.
func SaveImage(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("sr3d: save image: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// Save writes the framebuffer to path as a top-left origin image.
func (f *Framebuffer) Save(path string) error {
	return SaveImage(path, f.ToImage())
}
